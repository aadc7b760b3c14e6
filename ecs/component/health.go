package component

import (
	"errors"
	"fmt"

	"github.com/milk9111/arrowtrap/common"
)

var ErrInvalidHealth = errors.New("component: initial health must be > 0")

// Invulnerability answers whether damage should currently be blocked.
type Invulnerability interface {
	IsInvulnerable() bool
}

// DamageOutcome classifies a TakeDamage call.
type DamageOutcome int

const (
	DamageIgnored DamageOutcome = iota
	DamageApplied
	DamageBlocked
)

func (o DamageOutcome) String() string {
	switch o {
	case DamageApplied:
		return "applied"
	case DamageBlocked:
		return "blocked"
	default:
		return "ignored"
	}
}

// DamageResult reports what TakeDamage did. Died is set only on the call that
// took health from above zero to zero.
type DamageResult struct {
	Outcome DamageOutcome
	Amount  float64
	Health  float64
	Died    bool
}

// Health is the actor's damage model. Current is clamped to [0, initial].
type Health struct {
	initial  float64
	current  float64
	notified bool

	// Invuln may be nil, meaning damage is never blocked.
	Invuln Invulnerability
	// OnDeath runs once per life, on the transition to zero.
	OnDeath func()
}

func NewHealth(initial float64) (*Health, error) {
	if initial <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidHealth, initial)
	}
	return &Health{initial: initial, current: initial}, nil
}

func (h *Health) Current() float64 { return h.current }

func (h *Health) Initial() float64 { return h.initial }

func (h *Health) IsAlive() bool {
	return h != nil && h.current > 0
}

// TakeDamage subtracts amount unless the entity is invulnerable, already dead,
// or amount is not positive.
func (h *Health) TakeDamage(amount float64) DamageResult {
	if h == nil {
		return DamageResult{Outcome: DamageIgnored}
	}
	res := DamageResult{Amount: amount, Health: h.current}
	if h.Invuln != nil && h.Invuln.IsInvulnerable() {
		res.Outcome = DamageBlocked
		return res
	}
	if amount <= 0 || h.current <= 0 {
		res.Outcome = DamageIgnored
		return res
	}

	h.current -= amount
	if h.current <= common.Epsilon {
		h.current = 0
	}
	res.Outcome = DamageApplied
	res.Health = h.current

	if h.current == 0 && !h.notified {
		h.notified = true
		res.Died = true
		if h.OnDeath != nil {
			h.OnDeath()
		}
	}
	return res
}

// Reset restores full health and re-arms the death notification.
func (h *Health) Reset() {
	if h == nil {
		return
	}
	h.current = h.initial
	h.notified = false
}

var HealthComponent = NewComponent[Health]()
