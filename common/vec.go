package common

import "math"

// Vec3 is a world-space vector. Y is up; X/Z span the ground plane.
type Vec3 struct {
	X, Y, Z float64
}

var (
	Zero    = Vec3{}
	Up      = Vec3{Y: 1}
	Right   = Vec3{X: 1}
	Forward = Vec3{Z: 1}
)

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LenSq() float64 {
	return v.Dot(v)
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

func (v Vec3) IsZero() bool {
	return v.LenSq() <= Epsilon*Epsilon
}

// Normalize returns the unit vector and true, or the zero vector and false when v
// has no length.
func (v Vec3) Normalize() (Vec3, bool) {
	l := v.Len()
	if l <= Epsilon {
		return Vec3{}, false
	}
	inv := 1 / l
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}, true
}

// RotateAround rotates v by deg degrees about the unit axis. Positive angles turn
// Forward toward Right when rotating about Up.
func (v Vec3) RotateAround(axis Vec3, deg float64) Vec3 {
	if deg == 0 {
		return v
	}
	k, ok := axis.Normalize()
	if !ok {
		return v
	}
	rad := DegToRad(deg)
	c := math.Cos(rad)
	s := math.Sin(rad)
	// Rodrigues: v cos + (k x v) sin + k (k.v)(1 - cos)
	return v.Scale(c).Add(k.Cross(v).Scale(s)).Add(k.Scale(k.Dot(v) * (1 - c)))
}

// RotateY rotates v about the vertical axis.
func (v Vec3) RotateY(deg float64) Vec3 {
	return v.RotateAround(Up, deg)
}

// AngleTo returns the unsigned angle between v and o in degrees.
func (v Vec3) AngleTo(o Vec3) float64 {
	a, okA := v.Normalize()
	b, okB := o.Normalize()
	if !okA || !okB {
		return 0
	}
	return RadToDeg(math.Acos(Clamp(a.Dot(b), -1, 1)))
}

// SignedYaw returns the signed angle in degrees from v to o measured about Up,
// using only the ground-plane components.
func (v Vec3) SignedYaw(o Vec3) float64 {
	a := math.Atan2(v.X, v.Z)
	b := math.Atan2(o.X, o.Z)
	d := RadToDeg(b - a)
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	return d
}

func (v Vec3) ApproxEqual(o Vec3, tol float64) bool {
	return ApproxEqual(v.X, o.X, tol) && ApproxEqual(v.Y, o.Y, tol) && ApproxEqual(v.Z, o.Z, tol)
}

// Basis is an orthonormal orientation frame.
type Basis struct {
	Right   Vec3
	Up      Vec3
	Forward Vec3
}

// Identity is the world-aligned basis.
var Identity = Basis{Right: Right, Up: Up, Forward: Forward}

// LookRotation builds a basis whose Forward is dir. A zero dir yields Identity and
// false. When dir is parallel to up, the world Forward axis is used as the up hint.
func LookRotation(dir, up Vec3) (Basis, bool) {
	f, ok := dir.Normalize()
	if !ok {
		return Identity, false
	}
	r, ok := up.Cross(f).Normalize()
	if !ok {
		r, ok = Forward.Cross(f).Normalize()
		if !ok {
			r = Right
		}
	}
	u := f.Cross(r)
	return Basis{Right: r, Up: u, Forward: f}, true
}

// Rotate spins the basis about its own Up axis.
func (b Basis) Rotate(deg float64) Basis {
	if deg == 0 {
		return b
	}
	return Basis{
		Right:   b.Right.RotateAround(b.Up, deg),
		Up:      b.Up,
		Forward: b.Forward.RotateAround(b.Up, deg),
	}
}

// ToWorld maps a local offset expressed in this basis into world space.
func (b Basis) ToWorld(local Vec3) Vec3 {
	return b.Right.Scale(local.X).Add(b.Up.Scale(local.Y)).Add(b.Forward.Scale(local.Z))
}
