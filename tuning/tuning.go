package tuning

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/beka-birhanu/vinom-arena-server/arena"
	"github.com/beka-birhanu/vinom-arena-server/shrink"
)

// ErrInvalidMatch wraps every semantic configuration error.
var ErrInvalidMatch = errors.New("invalid match configuration")

//go:embed match.schema.json
var matchSchemaJSON string

var matchSchema = jsonschema.MustCompileString("match.schema.json", matchSchemaJSON)

// Match is the per-match configuration read from match.yaml.
type Match struct {
	Width               int    `yaml:"width"`
	Height              int    `yaml:"height"`
	BrickDensityPercent int    `yaml:"brick_density_percent"`
	Strategy            string `yaml:"strategy"`
	Seed                int64  `yaml:"seed"` // 0 seeds every match from the clock.
	TickMs              int    `yaml:"tick_ms"`
	DurationS           int    `yaml:"duration_s"`
	RecordSeparator     string `yaml:"record_separator"`
	MinPlayers          int    `yaml:"min_players"`
	MaxPlayers          int    `yaml:"max_players"`

	Shrink shrink.Tuning `yaml:"shrink"`
}

// Defaults returns a playable configuration; Load overlays the file on it.
func Defaults() Match {
	return Match{
		Width:               15,
		Height:              13,
		BrickDensityPercent: 50,
		Strategy:            string(shrink.StrategyDefault),
		TickMs:              50,
		DurationS:           300,
		RecordSeparator:     ";",
		MinPlayers:          1,
		MaxPlayers:          4,
		Shrink:              shrink.DefaultTuning(),
	}
}

// Load reads a match file and overlays it on Defaults.
func Load(path string) (Match, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Match{}, err
	}
	return Parse(raw)
}

// Parse validates raw YAML against the match schema, overlays it on the
// defaults and checks the result.
func Parse(raw []byte) (Match, error) {
	if err := validateSchema(raw); err != nil {
		return Match{}, fmt.Errorf("match.yaml: %w", err)
	}
	m := Defaults()
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Match{}, fmt.Errorf("match.yaml: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Match{}, err
	}
	return m, nil
}

func validateSchema(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	// Round-trip through JSON so the validator sees plain JSON values.
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return matchSchema.Validate(v)
}

// Validate checks the cross-field rules the schema cannot express.
func (m Match) Validate() error {
	if m.Width < arena.MinDimension || m.Height < arena.MinDimension {
		return fmt.Errorf("%w: arena %dx%d is smaller than %dx%d", ErrInvalidMatch, m.Width, m.Height, arena.MinDimension, arena.MinDimension)
	}
	if m.BrickDensityPercent < 0 || m.BrickDensityPercent > 100 {
		return fmt.Errorf("%w: brick density %d", ErrInvalidMatch, m.BrickDensityPercent)
	}
	if _, err := shrink.ParseStrategy(m.Strategy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMatch, err)
	}
	if m.TickMs <= 0 || m.DurationS <= 0 {
		return fmt.Errorf("%w: tick and duration must be positive", ErrInvalidMatch)
	}
	if len(m.RecordSeparator) != 1 {
		return fmt.Errorf("%w: record separator must be a single byte", ErrInvalidMatch)
	}
	if m.MinPlayers < 1 || m.MaxPlayers < m.MinPlayers {
		return fmt.Errorf("%w: players %d..%d", ErrInvalidMatch, m.MinPlayers, m.MaxPlayers)
	}
	return nil
}

// StrategyID returns the validated shrink strategy.
func (m Match) StrategyID() shrink.Strategy { return shrink.Strategy(m.Strategy) }

// Separator returns the legacy record separator byte.
func (m Match) Separator() byte { return m.RecordSeparator[0] }
