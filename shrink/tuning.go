package shrink

// Tuning holds the constants of every strategy. Values are fixed once a match
// starts.
type Tuning struct {
	Spiral     SpiralTuning     `yaml:"spiral"`
	Binary     BinaryTuning     `yaml:"binary"`
	Bomb       BombTuning       `yaml:"bomb"`
	SpiderBomb SpiderBombTuning `yaml:"spider_bomb"`
	Draw       DrawTuning       `yaml:"draw"`
}

type SpiralTuning struct {
	NormalPaceMs     int64   `yaml:"normal_pace_ms"`
	TurboPaceMs      int64   `yaml:"turbo_pace_ms"`
	StepsBeforeTurbo int     `yaml:"steps_before_turbo"`
	TurboChance      float64 `yaml:"turbo_chance"`
	TurboSteps       int     `yaml:"turbo_steps"`
}

type BinaryTuning struct {
	WindowMs    int64   `yaml:"window_ms"`
	SplitChance float64 `yaml:"split_chance"`
}

// BombTuning is shared by the Bomb and BombAndWall strategies.
type BombTuning struct {
	IntervalMs     int64   `yaml:"interval_ms"`
	Growth         float64 `yaml:"growth"`
	RangeUpChance  float64 `yaml:"range_up_chance"`
	StandingChance float64 `yaml:"standing_chance"`
	StandingDecay  float64 `yaml:"standing_decay"`
	WallChance     float64 `yaml:"wall_chance"`
}

type SpiderBombTuning struct {
	IntervalMs    int64   `yaml:"interval_ms"`
	InitialChance float64 `yaml:"initial_chance"`
	ChanceStep    float64 `yaml:"chance_step"`
	RaiseChance   float64 `yaml:"raise_chance"`
}

type DrawTuning struct {
	ReactionDelayMs int64 `yaml:"reaction_delay_ms"`
}

// DefaultTuning returns the stock constants of every strategy.
func DefaultTuning() Tuning {
	return Tuning{
		Spiral: SpiralTuning{
			NormalPaceMs:     500,
			TurboPaceMs:      10,
			StepsBeforeTurbo: 10,
			TurboChance:      0.1,
			TurboSteps:       10,
		},
		Binary: BinaryTuning{
			WindowMs:    5000,
			SplitChance: 0.75,
		},
		Bomb: BombTuning{
			IntervalMs:     4000,
			Growth:         1.3,
			RangeUpChance:  0.5,
			StandingChance: 1.0,
			StandingDecay:  0.9,
			WallChance:     0.3,
		},
		SpiderBomb: SpiderBombTuning{
			IntervalMs:    5000,
			InitialChance: 0.1,
			ChanceStep:    0.1,
			RaiseChance:   0.1,
		},
		Draw: DrawTuning{
			ReactionDelayMs: 1000,
		},
	}
}
