package ecs

import (
	"testing"

	"github.com/milk9111/arrowtrap/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			require.Len(t, Entities(w), c.create)

			if c.destroyIndex < 0 {
				return
			}
			dead := ents[c.destroyIndex]
			assert.True(t, DestroyEntity(w, dead))
			assert.False(t, IsAlive(w, dead))
			assert.False(t, DestroyEntity(w, dead), "second destroy must fail")
			assert.Len(t, Entities(w), c.create-1)
		})
	}
}

func TestRecycledSlotRejectsStaleHandle(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	require.NoError(t, Add(w, old, h.Kind(), intPtr(1)))
	require.True(t, DestroyEntity(w, old))

	fresh := CreateEntity(w)
	assert.Equal(t, old.id(), fresh.id(), "slot should be recycled")
	assert.NotEqual(t, old, fresh)
	assert.False(t, IsAlive(w, old))
	assert.False(t, Has(w, fresh, h.Kind()), "components do not survive destruction")

	assert.ErrorIs(t, Add(w, old, h.Kind(), intPtr(2)), component.ErrEntityNotAlive)
}

func TestWorldComponents(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()
	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name  string
		run   func() error
		check func(t *testing.T)
	}{
		{
			name: "add_and_get",
			run:  func() error { return Add(w, e1, ints.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, ints.Kind())
				require.True(t, ok)
				assert.Equal(t, 10, *v)
				assert.False(t, Has(w, e2, ints.Kind()))
			},
		},
		{
			name: "replace",
			run:  func() error { return Add(w, e1, ints.Kind(), intPtr(11)) },
			check: func(t *testing.T) {
				v, _ := Get(w, e1, ints.Kind())
				assert.Equal(t, 11, *v)
			},
		},
		{
			name: "second_kind",
			run: func() error {
				s := "b"
				return Add(w, e2, strs.Kind(), &s)
			},
			check: func(t *testing.T) {
				assert.True(t, Has(w, e2, strs.Kind()))
				assert.False(t, Has(w, e1, strs.Kind()))
			},
		},
		{
			name: "remove",
			run: func() error {
				if !Remove(w, e1, ints.Kind()) {
					return component.ErrNilComponent
				}
				return nil
			},
			check: func(t *testing.T) {
				assert.False(t, Has(w, e1, ints.Kind()))
				assert.False(t, Remove(w, e1, ints.Kind()))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.run())
			tc.check(t)
		})
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	assert.ErrorIs(t, Add[int](w, e, component.NewComponent[int]().Kind(), nil), component.ErrNilComponent)
	assert.ErrorIs(t, Add(w, e, component.ComponentKind[int]{}, intPtr(1)), component.ErrInvalidComponentKind)
}

func TestForEachQueries(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()
	kc := component.NewComponentKind[int]()
	kd := component.NewComponentKind[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	require.NoError(t, Add(w, e1, ka, intPtr(1)))
	require.NoError(t, Add(w, e2, ka, intPtr(2)))
	require.NoError(t, Add(w, e2, kb, intPtr(3)))
	require.NoError(t, Add(w, e2, kc, intPtr(4)))
	require.NoError(t, Add(w, e2, kd, intPtr(5)))
	require.NoError(t, Add(w, e3, kb, intPtr(6)))

	var one []Entity
	ForEach(w, ka, func(e Entity, _ *int) { one = append(one, e) })
	assert.ElementsMatch(t, []Entity{e1, e2}, one)

	var two []Entity
	ForEach2(w, ka, kb, func(e Entity, _ *int, _ *int) { two = append(two, e) })
	assert.Equal(t, []Entity{e2}, two)

	var three []Entity
	ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { three = append(three, e) })
	assert.Equal(t, []Entity{e2}, three)

	var four []Entity
	ForEach4(w, ka, kb, kc, kd, func(e Entity, a, b, c, d *int) {
		four = append(four, e)
		assert.Equal(t, 14, *a+*b+*c+*d)
	})
	assert.Equal(t, []Entity{e2}, four)

	require.True(t, DestroyEntity(w, e2))
	var after []Entity
	ForEach2(w, ka, kb, func(e Entity, _ *int, _ *int) { after = append(after, e) })
	assert.Empty(t, after)

	first, ok := First(w, kb)
	require.True(t, ok)
	assert.Equal(t, e3, first)

	_, ok = First(w, component.NewComponentKind[int]())
	assert.False(t, ok)
}

func TestForEachToleratesDestroyDuringIteration(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	var ents []Entity
	for i := 0; i < 4; i++ {
		e := CreateEntity(w)
		require.NoError(t, Add(w, e, k, intPtr(i)))
		ents = append(ents, e)
	}

	visited := 0
	ForEach(w, k, func(e Entity, v *int) {
		visited++
		if *v == 0 {
			DestroyEntity(w, ents[3])
		}
	})
	assert.Equal(t, 3, visited)
}

type recordSystem struct {
	name string
	log  *[]string
	fn   func(w *World)
}

func (s *recordSystem) Update(w *World) {
	*s.log = append(*s.log, s.name)
	if s.fn != nil {
		s.fn(w)
	}
}

func TestWorldUpdateOrder(t *testing.T) {
	w := NewWorld()
	var log []string

	w.After(0.1, func() { log = append(log, "timer") })
	w.AddSystem(&recordSystem{name: "first", log: &log, fn: func(w *World) {
		w.Events().Push(Event{Type: EventLaunch, Data: LaunchEvent{Count: 3}})
	}})
	w.AddSystem(&recordSystem{name: "second", log: &log, fn: func(w *World) {
		assert.Equal(t, 1, w.Events().Len(), "events from earlier systems are visible")
		assert.InDelta(t, 0.1, w.Now(), 1e-12, "clock advances before systems run")
		assert.InDelta(t, 0.1, w.Delta(), 1e-12)
	}})
	w.AddSystem(nil)

	w.Update(0.1)
	assert.Equal(t, []string{"timer", "first", "second"}, log)
	assert.Equal(t, 0, w.Events().Len(), "events are flushed after the tick")
	assert.Len(t, w.Systems(), 2)

	w.Update(-1)
	assert.InDelta(t, 0.1, w.Now(), 1e-12, "negative steps do not move the clock")
	assert.Equal(t, 0.0, w.Delta())
}

func TestWorldAfterAndCancel(t *testing.T) {
	w := NewWorld()
	fired := 0
	id := w.After(1, func() { fired++ })
	cancelled := w.After(1, func() { fired += 100 })

	assert.True(t, w.CancelTimer(cancelled))
	assert.False(t, w.CancelTimer(cancelled))

	w.Update(0.5)
	assert.Equal(t, 0, fired)
	assert.True(t, w.Timers().Pending(id))

	w.Update(0.5)
	assert.Equal(t, 1, fired)
	assert.False(t, w.Timers().Pending(id))

	w.After(-3, func() { fired++ })
	w.Update(0)
	assert.Equal(t, 2, fired, "negative delay fires on the next tick")
}
