package component

// Cooldown is the state of one cooldown gate, in simulation seconds.
type Cooldown struct {
	Duration       float64
	LastActivation float64
	OnCooldown     bool
	// Activated is false until the first successful activation.
	Activated bool
	// Timer is the pending return-to-ready timer, zero when none.
	Timer uint64
	// Activations and Rejections count TryActivate outcomes.
	Activations int
	Rejections  int
}

var CooldownComponent = NewComponent[Cooldown]()
