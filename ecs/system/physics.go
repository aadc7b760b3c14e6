package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/arrowtrap/common"
	"github.com/milk9111/arrowtrap/ecs"
	"github.com/milk9111/arrowtrap/ecs/component"
	"github.com/rs/zerolog"
)

const (
	collisionTypeActor cp.CollisionType = iota + 1
	collisionTypeProjectile
	collisionTypeZone
	collisionTypeSolid
)

const defaultColliderSize = 1.0

// PhysicsSystem runs the Chipmunk2D broad phase over the X/Z ground plane and
// reports overlap-begin pairs as ecs.OverlapEvent. Vertical extents are
// checked when a contact is first seen.
type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool

	entities map[ecs.Entity]*bodyInfo
	shapes   map[*cp.Shape]ecs.Entity
	touching map[contactKey]uint64
	fresh    []contactKey
	step     uint64

	log zerolog.Logger
}

type bodyInfo struct {
	body   *cp.Body
	shapes []*cp.Shape
	static bool
	y      float64
	comp   *component.PhysicsBody
}

type contactKey struct {
	a ecs.Entity
	b ecs.Entity
}

func newContactKey(a, b ecs.Entity) contactKey {
	if b < a {
		a, b = b, a
	}
	return contactKey{a: a, b: b}
}

func NewPhysicsSystem(log zerolog.Logger) *PhysicsSystem {
	return &PhysicsSystem{
		space:    newSpace(),
		entities: make(map[ecs.Entity]*bodyInfo),
		shapes:   make(map[*cp.Shape]ecs.Entity),
		touching: make(map[contactKey]uint64),
		log:      log,
	}
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.space = newSpace()
		ps.handlersReady = false
	}

	ps.ensureHandlers()
	ps.syncEntities(w)

	dt := w.Delta()
	if dt <= 0 {
		return
	}

	ps.step++
	ps.fresh = ps.fresh[:0]
	ps.preStep(w, dt)
	ps.space.Step(dt)
	ps.syncTransforms(w)
	ps.flushContacts(w)
}

// Deactivate removes e's collider from the space. The entity keeps its
// transform and stops moving and reporting overlaps.
func (ps *PhysicsSystem) Deactivate(w *ecs.World, e ecs.Entity) {
	if ps == nil {
		return
	}
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		body.Inactive = true
		body.Velocity = common.Zero
		body.Body = nil
		body.Shape = nil
	}
	ps.removeEntity(e)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	pairs := [][2]cp.CollisionType{
		{collisionTypeProjectile, collisionTypeActor},
		{collisionTypeProjectile, collisionTypeSolid},
		{collisionTypeZone, collisionTypeActor},
	}
	for _, p := range pairs {
		handler := ps.space.NewCollisionHandler(p[0], p[1])
		handler.UserData = ps
		handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			sys, ok := userData.(*PhysicsSystem)
			if !ok || sys == nil {
				return true
			}
			shapeA, shapeB := arb.Shapes()
			sys.touch(shapeA, shapeB)
			return true
		}
	}

	ps.handlersReady = true
}

// touch records a contact seen during this step. A pair becomes fresh the
// first step its vertical spans also overlap.
func (ps *PhysicsSystem) touch(shapeA, shapeB *cp.Shape) {
	ea, okA := ps.shapes[shapeA]
	eb, okB := ps.shapes[shapeB]
	if !okA || !okB || ea == eb {
		return
	}
	key := newContactKey(ea, eb)
	if last, ok := ps.touching[key]; ok && last+1 >= ps.step {
		ps.touching[key] = ps.step
		return
	}
	if !ps.verticalOverlap(ea, eb) {
		return
	}
	ps.touching[key] = ps.step
	ps.fresh = append(ps.fresh, key)
}

func (ps *PhysicsSystem) verticalOverlap(a, b ecs.Entity) bool {
	ia, ib := ps.entities[a], ps.entities[b]
	if ia == nil || ib == nil {
		return false
	}
	loA, hiA, okA := ia.comp.VerticalSpan(ia.y)
	loB, hiB, okB := ib.comp.VerticalSpan(ib.y)
	if !okA || !okB {
		return true
	}
	return loA <= hiB && loB <= hiA
}

func (ps *PhysicsSystem) flushContacts(w *ecs.World) {
	for key, last := range ps.touching {
		if last != ps.step {
			delete(ps.touching, key)
		}
	}
	events := w.Events()
	for _, key := range ps.fresh {
		if !w.IsAlive(key.a) || !w.IsAlive(key.b) {
			continue
		}
		events.Push(ecs.Event{Type: ecs.EventOverlap, Data: ecs.OverlapEvent{Self: key.a, Other: key.b}})
		events.Push(ecs.Event{Type: ecs.EventOverlap, Data: ecs.OverlapEvent{Self: key.b, Other: key.a}})
	}
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	if ps.space == nil {
		return
	}

	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Inactive {
			ps.removeEntity(e)
			return
		}
		info := ps.entities[e]
		if info != nil {
			info.comp = bodyComp
			if bodyComp.Body == nil && len(info.shapes) > 0 {
				bodyComp.Body = info.body
				bodyComp.Shape = info.shapes[0]
			}
			return
		}

		ctype, filter := ps.filterFor(w, e)
		info = ps.createBodyInfo(transform, bodyComp, ctype, filter)
		if info == nil {
			return
		}
		ps.entities[e] = info
		for _, shape := range info.shapes {
			ps.shapes[shape] = e
		}
		bodyComp.Body = info.body
		bodyComp.Shape = info.shapes[0]
	})
}

// filterFor resolves the collision type and shape filter for e from its
// CollisionLayer, or from its components when no layer is declared.
func (ps *PhysicsSystem) filterFor(w *ecs.World, e ecs.Entity) (cp.CollisionType, cp.ShapeFilter) {
	var category, mask uint32
	if layer, ok := ecs.Get(w, e, component.CollisionLayerComponent.Kind()); ok {
		category, mask = layer.Category, layer.Mask
	}
	if category == 0 {
		switch {
		case ecs.Has(w, e, component.ProjectileComponent.Kind()):
			category = component.LayerProjectile
		case ecs.Has(w, e, component.TrapTriggerComponent.Kind()):
			category = component.LayerZone
		case ecs.Has(w, e, component.PlayerTagComponent.Kind()):
			category = component.LayerActor
		default:
			category = component.LayerEnvironment
		}
	}
	if mask == 0 {
		mask = defaultMask(category)
	}

	ctype := collisionTypeSolid
	switch {
	case category&component.LayerProjectile != 0:
		ctype = collisionTypeProjectile
	case category&component.LayerZone != 0:
		ctype = collisionTypeZone
	case category&component.LayerActor != 0:
		ctype = collisionTypeActor
	}
	return ctype, cp.ShapeFilter{Categories: uint(category), Mask: uint(mask)}
}

func defaultMask(category uint32) uint32 {
	switch {
	case category&component.LayerProjectile != 0:
		return component.LayerActor | component.LayerEnvironment
	case category&component.LayerZone != 0:
		return component.LayerActor
	case category&component.LayerActor != 0:
		return component.LayerProjectile | component.LayerZone
	default:
		return component.LayerProjectile
	}
}

func (ps *PhysicsSystem) createBodyInfo(transform *component.Transform, bodyComp *component.PhysicsBody, ctype cp.CollisionType, filter cp.ShapeFilter) *bodyInfo {
	if ps.space == nil {
		return nil
	}

	width, depth, radius := bodyComp.Width, bodyComp.Depth, bodyComp.Radius
	if radius <= 0 && (width <= 0 || depth <= 0) {
		width = defaultColliderSize
		depth = defaultColliderSize
	}
	x, z := transform.Position.X, transform.Position.Z

	info := &bodyInfo{static: bodyComp.Static, y: transform.Position.Y, comp: bodyComp}

	var shape *cp.Shape
	if bodyComp.Static {
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, cp.Vector{X: x, Y: z})
		} else {
			bb := cp.BB{L: x - width/2, B: z - depth/2, R: x + width/2, T: z + depth/2}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		info.body = ps.space.StaticBody
	} else {
		body := cp.NewBody(1, math.Inf(1))
		body.SetPosition(cp.Vector{X: x, Y: z})
		ps.space.AddBody(body)
		if radius > 0 {
			shape = cp.NewCircle(body, radius, cp.Vector{})
		} else {
			shape = cp.NewBox(body, width, depth, 0)
		}
		info.body = body
	}

	shape.SetSensor(bodyComp.Sensor)
	shape.SetCollisionType(ctype)
	shape.SetFilter(filter)
	ps.space.AddShape(shape)

	info.shapes = []*cp.Shape{shape}
	return info
}

func (ps *PhysicsSystem) preStep(w *ecs.World, dt float64) {
	for e, info := range ps.entities {
		if info.static {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok || info.comp == nil {
			continue
		}
		v := info.comp.Velocity
		info.body.SetPosition(cp.Vector{X: transform.Position.X, Y: transform.Position.Z})
		info.body.SetVelocityVector(cp.Vector{X: v.X, Y: v.Z})
		info.y = transform.Position.Y + v.Y*dt
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, info := range ps.entities {
		if info.static {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		pos := info.body.Position()
		transform.Position.X = pos.X
		transform.Position.Y = info.y
		transform.Position.Z = pos.Y
	}
}

func (ps *PhysicsSystem) removeEntity(e ecs.Entity) {
	info, ok := ps.entities[e]
	if !ok {
		return
	}
	for _, shape := range info.shapes {
		if shape == nil {
			continue
		}
		if ps.space != nil {
			ps.space.RemoveShape(shape)
		}
		delete(ps.shapes, shape)
	}
	if info.body != nil && !info.static && ps.space != nil {
		ps.space.RemoveBody(info.body)
	}
	delete(ps.entities, e)
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		ps.removeEntity(e)
	}
	for key := range ps.touching {
		if !w.IsAlive(key.a) || !w.IsAlive(key.b) {
			delete(ps.touching, key)
		}
	}
}
