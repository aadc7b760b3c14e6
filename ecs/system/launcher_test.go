package system

import (
	"testing"

	"github.com/milk9111/arrowtrap/common"
	"github.com/milk9111/arrowtrap/ecs"
	"github.com/milk9111/arrowtrap/ecs/component"
	"github.com/milk9111/arrowtrap/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const geomTol = 1e-9

func TestSpreadOffset(t *testing.T) {
	cases := []struct {
		name  string
		i, n  int
		angle float64
		want  float64
	}{
		{"three_left", 0, 3, 10, -10},
		{"three_centre", 1, 3, 10, 0},
		{"three_right", 2, 3, 10, 10},
		{"two_left", 0, 2, 10, -10},
		{"two_right", 1, 2, 10, 10},
		{"five_inner", 1, 5, 10, -5},
		{"five_centre", 2, 5, 10, 0},
		{"single", 0, 1, 10, 0},
		{"zero_angle", 0, 3, 0, 0},
		{"negative_angle", 0, 3, -10, 0},
		{"out_of_range", 3, 3, 10, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, SpreadOffset(c.i, c.n, c.angle), geomTol)
		})
	}
}

func threePoints(origin common.Vec3) []*component.EmissionPoint {
	pts := make([]*component.EmissionPoint, 3)
	for i := range pts {
		pts[i] = &component.EmissionPoint{Index: i, Position: origin, Basis: common.Identity}
	}
	return pts
}

func newTestLauncher(t *testing.T, w *ecs.World, f Factory, points []*component.EmissionPoint) *SpreadLauncher {
	t.Helper()
	l, err := NewSpreadLauncher(LauncherConfig{
		Name:        "test_trap",
		Template:    "arrow.yaml",
		Points:      points,
		LaunchForce: 15,
		SpreadAngle: 10,
		SpawnOffset: DefaultSpawnOffset,
	}, LauncherDeps{World: w, Factory: f, Log: nopLog, Metrics: telemetry.Nop()})
	require.NoError(t, err)
	return l
}

func projectileOf(t *testing.T, w *ecs.World, e ecs.Entity) (*component.Projectile, *component.Transform) {
	t.Helper()
	p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
	require.True(t, ok)
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	return p, tr
}

func TestLaunchFansAroundTarget(t *testing.T) {
	w := ecs.NewWorld()
	f := newFakeFactory(w)
	l := newTestLauncher(t, w, f, threePoints(common.Zero))

	n, err := l.Launch(common.V3(0, 0, 10))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Len(t, f.created, 3)

	for i, want := range []float64{-10, 0, 10} {
		p, tr := projectileOf(t, w, f.created[i])
		assert.InDelta(t, want, common.Forward.SignedYaw(p.Direction), geomTol, "slot %d", i)
		assert.InDelta(t, 0, p.Direction.Y, geomTol)
		assert.Equal(t, 15.0, p.Speed)
		assert.Equal(t, "test_trap", p.Source)
		assert.True(t, tr.Position.ApproxEqual(p.Direction.Scale(DefaultSpawnOffset), geomTol), "spawned ahead of the point")
		assert.True(t, tr.Basis.Forward.ApproxEqual(p.Direction, geomTol), "arrow faces its flight direction")
	}

	launches := 0
	w.Events().Each(func(evt ecs.Event) {
		if le, ok := evt.Data.(ecs.LaunchEvent); ok {
			launches++
			assert.Equal(t, 3, le.Count)
		}
	})
	assert.Equal(t, 1, launches)
}

func TestLaunchKeepsElevationToTarget(t *testing.T) {
	w := ecs.NewWorld()
	f := newFakeFactory(w)
	l := newTestLauncher(t, w, f, threePoints(common.Zero))

	_, err := l.Launch(common.V3(0, 1, 1))
	require.NoError(t, err)

	centre, _ := projectileOf(t, w, f.created[1])
	assert.InDelta(t, 45, centre.Direction.AngleTo(common.Forward), geomTol)
	side, _ := projectileOf(t, w, f.created[0])
	assert.InDelta(t, centre.Direction.Y, side.Direction.Y, geomTol, "spread is a pure yaw rotation")
}

func TestLaunchAtCoincidentTargetUsesPointForward(t *testing.T) {
	w := ecs.NewWorld()
	f := newFakeFactory(w)
	l := newTestLauncher(t, w, f, threePoints(common.V3(1, 1, 1)))

	n, err := l.Launch(common.V3(1, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	p, _ := projectileOf(t, w, f.created[1])
	assert.True(t, p.Direction.ApproxEqual(common.Forward, geomTol))
}

func TestPartialConfigurationLaunchesPresentPoints(t *testing.T) {
	w := ecs.NewWorld()
	f := newFakeFactory(w)
	pts := threePoints(common.Zero)
	pts[1] = nil

	l := newTestLauncher(t, w, f, pts)
	require.Len(t, l.Warnings(), 1)
	assert.ErrorIs(t, l.Warnings()[0], ErrPartialConfiguration)
	assert.Equal(t, 2, l.Present())

	n, err := l.Launch(common.V3(0, 0, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, _ := projectileOf(t, w, f.created[0])
	right, _ := projectileOf(t, w, f.created[1])
	assert.InDelta(t, -10, common.Forward.SignedYaw(left.Direction), geomTol)
	assert.InDelta(t, 10, common.Forward.SignedYaw(right.Direction), geomTol, "offsets follow slot index, not launch order")
}

func TestMisconfiguredLauncher(t *testing.T) {
	w := ecs.NewWorld()
	f := newFakeFactory(w)

	cases := []struct {
		name string
		cfg  LauncherConfig
		deps LauncherDeps
		want error
	}{
		{
			name: "no_points",
			cfg:  LauncherConfig{Template: "arrow.yaml", LaunchForce: 15},
			deps: LauncherDeps{World: w, Factory: f},
			want: ErrMisconfiguredLauncher,
		},
		{
			name: "all_points_unset",
			cfg:  LauncherConfig{Template: "arrow.yaml", LaunchForce: 15, Points: make([]*component.EmissionPoint, 3)},
			deps: LauncherDeps{World: w, Factory: f},
			want: ErrMisconfiguredLauncher,
		},
		{
			name: "no_factory",
			cfg:  LauncherConfig{Template: "arrow.yaml", LaunchForce: 15, Points: threePoints(common.Zero)},
			deps: LauncherDeps{World: w},
			want: ErrMisconfiguredLauncher,
		},
		{
			name: "no_template",
			cfg:  LauncherConfig{LaunchForce: 15, Points: threePoints(common.Zero)},
			deps: LauncherDeps{World: w, Factory: f},
			want: ErrMisconfiguredLauncher,
		},
		{
			name: "zero_force",
			cfg:  LauncherConfig{Template: "arrow.yaml", Points: threePoints(common.Zero)},
			deps: LauncherDeps{World: w, Factory: f},
			want: ErrInvalidConfig,
		},
		{
			name: "negative_spread",
			cfg:  LauncherConfig{Template: "arrow.yaml", LaunchForce: 15, SpreadAngle: -1, Points: threePoints(common.Zero)},
			deps: LauncherDeps{World: w, Factory: f},
			want: ErrInvalidConfig,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			c.deps.Log = nopLog
			l, err := NewSpreadLauncher(c.cfg, c.deps)
			require.ErrorIs(t, err, c.want)
			require.NotNil(t, l)

			n, err := l.Launch(common.V3(0, 0, 10))
			assert.Equal(t, 0, n)
			assert.ErrorIs(t, err, c.want)
			n, err = l.LaunchForward()
			assert.Equal(t, 0, n)
			assert.ErrorIs(t, err, c.want)
		})
	}
	assert.Empty(t, f.created)
}

func TestLaunchReportsSpawnFailures(t *testing.T) {
	w := ecs.NewWorld()
	f := newFakeFactory(w)
	f.fail = true
	l := newTestLauncher(t, w, f, threePoints(common.Zero))

	n, err := l.Launch(common.V3(0, 0, 10))
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, errSpawn)
	assert.Equal(t, 0, w.Events().Len(), "no launch event for an empty volley")
}

func TestLaunchForwardFan(t *testing.T) {
	w := ecs.NewWorld()
	f := newFakeFactory(w)
	l := newTestLauncher(t, w, f, threePoints(common.Zero))

	n, err := l.LaunchForward()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	for i, want := range []float64{-10, 45, -35} {
		p, _ := projectileOf(t, w, f.created[i])
		assert.InDelta(t, want, common.Forward.SignedYaw(p.Direction), geomTol, "slot %d", i)
	}
}

func TestDefaultEmissionPoints(t *testing.T) {
	basis, ok := common.LookRotation(common.Right, common.Up)
	require.True(t, ok)
	pts := DefaultEmissionPoints(common.V3(0, 1, 0), basis)
	require.Len(t, pts, 3)

	assert.True(t, pts[1].Position.ApproxEqual(common.V3(0.5, 1, 0), geomTol))
	assert.True(t, pts[0].Position.ApproxEqual(common.V3(0.5, 1, 0.5), geomTol))
	for i, p := range pts {
		assert.Equal(t, i, p.Index)
		assert.True(t, p.Basis.Forward.ApproxEqual(common.Right, geomTol))
	}
}
