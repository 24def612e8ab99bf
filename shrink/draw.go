package shrink

// Draw signals a drawn match: it walls the border, clears the interior once,
// and then stays silent while players get ReactionDelayMs to notice.
type Draw struct {
	bounds
	cfg DrawTuning

	fired   bool
	firedAt int64
	settled bool
}

// NewDraw returns a performer that seals the border and clears the interior.
func NewDraw(width, height int, cfg DrawTuning) *Draw {
	return &Draw{bounds: bounds{width: width, height: height}, cfg: cfg}
}

// Init re-arms the performer.
func (d *Draw) Init() {
	d.fired = false
	d.firedAt = 0
	d.settled = false
}

// Tick fires once, then waits out the reaction delay.
func (d *Draw) Tick(now int64, emit Emitter) {
	if d.fired {
		if !d.settled && now-d.firedAt >= d.cfg.ReactionDelayMs {
			d.settled = true
		}
		return
	}
	d.fired = true
	d.firedAt = now

	for x := 0; x < d.width; x++ {
		emit(WallAdd{X: x, Y: 0})
	}
	for y := 1; y < d.height-1; y++ {
		emit(WallAdd{X: d.width - 1, Y: y})
	}
	for x := d.width - 1; x >= 0; x-- {
		emit(WallAdd{X: x, Y: d.height - 1})
	}
	for y := d.height - 2; y >= 1; y-- {
		emit(WallAdd{X: 0, Y: y})
	}
	d.eachInterior(func(x, y int) {
		emit(WallRemove{X: x, Y: y})
	})
}

// Finished reports whether the reaction delay has passed.
func (d *Draw) Finished() bool { return d.settled }
