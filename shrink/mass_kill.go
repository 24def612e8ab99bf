package shrink

// MassKill seals the whole interior on its first tick.
type MassKill struct {
	bounds
	fired bool
}

// NewMassKill returns a performer that walls the whole interior at once.
func NewMassKill(width, height int) *MassKill {
	return &MassKill{bounds: bounds{width: width, height: height}}
}

// Init re-arms the performer.
func (m *MassKill) Init() { m.fired = false }

// Tick walls every interior cell on the first call after Init.
func (m *MassKill) Tick(_ int64, emit Emitter) {
	if m.fired {
		return
	}
	m.fired = true
	m.eachInterior(func(x, y int) {
		emit(WallAdd{X: x, Y: y})
	})
}

// Finished reports whether the interior has been walled.
func (m *MassKill) Finished() bool { return m.fired }
