package shrink

import "math/rand"

// Area is a still-open rectangle of the arena.
type Area struct {
	X, Y          int
	Width, Height int
}

// Cells returns the number of cells in a.
func (a Area) Cells() int { return a.Width * a.Height }

// Binary recursively cuts open areas with full-length death walls. Every
// window each queued area is split with SplitChance at a point biased towards
// its middle.
type Binary struct {
	bounds
	pacer
	rng *rand.Rand
	cfg BinaryTuning

	areas  []Area
	sealed int
}

// NewBinary returns a binary-split performer over a width x height arena.
func NewBinary(width, height int, rng *rand.Rand, cfg BinaryTuning) *Binary {
	b := &Binary{bounds: bounds{width: width, height: height}, rng: rng, cfg: cfg}
	b.Init()
	return b
}

// Init clears the queued areas; the next Tick seeds the full interior.
func (b *Binary) Init() {
	b.pacer = pacer{}
	b.areas = nil
	b.sealed = 0
}

// Tick splits queued areas once per window.
func (b *Binary) Tick(now int64, emit Emitter) {
	if b.anchor(now) {
		b.areas = []Area{{X: 1, Y: 1, Width: b.width - 2, Height: b.height - 2}}
		return
	}
	if !b.due(now, b.cfg.WindowMs) {
		return
	}

	next := make([]Area, 0, 2*len(b.areas))
	for _, a := range b.areas {
		if b.rng.Float64() >= b.cfg.SplitChance {
			next = append(next, a)
			continue
		}
		next = append(next, b.split(a, emit)...)
	}
	b.areas = next
}

// Areas returns a copy of the queued open areas.
func (b *Binary) Areas() []Area {
	return append([]Area(nil), b.areas...)
}

// SealedCells is the number of cells converted to death wall so far.
func (b *Binary) SealedCells() int { return b.sealed }

// Finished reports whether nothing is left to split.
func (b *Binary) Finished() bool { return b.anchored && len(b.areas) == 0 }

// split walls one line across the longer side of a and returns what is left
// on either side of it.
func (b *Binary) split(a Area, emit Emitter) []Area {
	vertical := a.Width >= a.Height
	length := a.Height
	if vertical {
		length = a.Width
	}
	k := int(b.splitOffset() * float64(length))
	if k >= length {
		k = length - 1
	}

	rest := make([]Area, 0, 2)
	if vertical {
		for y := a.Y; y < a.Y+a.Height; y++ {
			emit(WallAdd{X: a.X + k, Y: y})
		}
		b.sealed += a.Height
		if k > 0 {
			rest = append(rest, Area{X: a.X, Y: a.Y, Width: k, Height: a.Height})
		}
		if right := a.Width - k - 1; right > 0 {
			rest = append(rest, Area{X: a.X + k + 1, Y: a.Y, Width: right, Height: a.Height})
		}
		return rest
	}

	for x := a.X; x < a.X+a.Width; x++ {
		emit(WallAdd{X: x, Y: a.Y + k})
	}
	b.sealed += a.Width
	if k > 0 {
		rest = append(rest, Area{X: a.X, Y: a.Y, Width: a.Width, Height: k})
	}
	if below := a.Height - k - 1; below > 0 {
		rest = append(rest, Area{X: a.X, Y: a.Y + k + 1, Width: a.Width, Height: below})
	}
	return rest
}

// splitOffset returns a fraction in (0,1) clustered around 0.5: the cubed
// uniform sample keeps most cuts close to the middle.
func (b *Binary) splitOffset() float64 {
	u := b.rng.Float64()
	bias := u * u * u / 2
	offset := 0.5 + bias
	if b.rng.Intn(2) == 0 {
		offset = 0.5 - bias
	}
	const eps = 1e-9
	switch {
	case offset <= 0:
		offset = eps
	case offset >= 1:
		offset = 1 - eps
	}
	return offset
}
