package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flagInvuln struct{ on bool }

func (f *flagInvuln) IsInvulnerable() bool { return f.on }

func TestNewHealthRejectsNonPositive(t *testing.T) {
	for _, v := range []float64{0, -1} {
		_, err := NewHealth(v)
		assert.ErrorIs(t, err, ErrInvalidHealth)
	}
}

func TestTakeDamage(t *testing.T) {
	cases := []struct {
		name     string
		start    float64
		invuln   bool
		hits     []float64
		want     float64
		outcomes []DamageOutcome
		died     []bool
	}{
		{
			name:     "single_hit",
			start:    1,
			hits:     []float64{0.2},
			want:     0.8,
			outcomes: []DamageOutcome{DamageApplied},
			died:     []bool{false},
		},
		{
			name:     "clamped_at_zero",
			start:    0.3,
			hits:     []float64{0.2, 0.2, 0.2},
			want:     0,
			outcomes: []DamageOutcome{DamageApplied, DamageApplied, DamageIgnored},
			died:     []bool{false, true, false},
		},
		{
			name:     "non_positive_ignored",
			start:    1,
			hits:     []float64{0, -0.5},
			want:     1,
			outcomes: []DamageOutcome{DamageIgnored, DamageIgnored},
			died:     []bool{false, false},
		},
		{
			name:     "blocked_when_invulnerable",
			start:    1,
			invuln:   true,
			hits:     []float64{0.2, 5},
			want:     1,
			outcomes: []DamageOutcome{DamageBlocked, DamageBlocked},
			died:     []bool{false, false},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, err := NewHealth(c.start)
			require.NoError(t, err)
			h.Invuln = &flagInvuln{on: c.invuln}

			for i, amount := range c.hits {
				res := h.TakeDamage(amount)
				assert.Equal(t, c.outcomes[i], res.Outcome, "hit %d", i)
				assert.Equal(t, c.died[i], res.Died, "hit %d", i)
				assert.GreaterOrEqual(t, h.Current(), 0.0)
			}
			assert.InDelta(t, c.want, h.Current(), 1e-9)
		})
	}
}

func TestDeathNotifiesOncePerLife(t *testing.T) {
	h, err := NewHealth(1)
	require.NoError(t, err)
	deaths := 0
	h.OnDeath = func() { deaths++ }

	res := h.TakeDamage(2)
	assert.True(t, res.Died)
	assert.False(t, h.IsAlive())
	h.TakeDamage(1)
	assert.Equal(t, 1, deaths)

	h.Reset()
	assert.True(t, h.IsAlive())
	assert.Equal(t, h.Initial(), h.Current())

	h.TakeDamage(1)
	assert.Equal(t, 2, deaths, "reset re-arms the notification")
}

func TestInvulnerabilityToggles(t *testing.T) {
	h, err := NewHealth(1)
	require.NoError(t, err)
	inv := &flagInvuln{}
	h.Invuln = inv

	inv.on = true
	assert.Equal(t, DamageBlocked, h.TakeDamage(0.5).Outcome)
	inv.on = false
	assert.Equal(t, DamageApplied, h.TakeDamage(0.5).Outcome)
	assert.InDelta(t, 0.5, h.Current(), 1e-9)
}

func TestNilHealth(t *testing.T) {
	var h *Health
	assert.False(t, h.IsAlive())
	assert.Equal(t, DamageIgnored, h.TakeDamage(1).Outcome)
	h.Reset()
}
