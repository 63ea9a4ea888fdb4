package threshold

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Mode selects how a threshold value is interpreted.
type Mode int

const (
	// Absolute thresholds are kilobyte values.
	Absolute Mode = iota

	// Percentage thresholds are relative to the total.
	Percentage
)

var (
	// ErrInvalidNumber is returned when the numeric part of a threshold cannot be parsed.
	ErrInvalidNumber = errors.New("invalid threshold given")

	// ErrMixedModes is returned when one threshold is a percentage and the other is not.
	ErrMixedModes = errors.New("thresholds must be either units or percentages, not one of each")

	// ErrPercentRange is returned for percentages outside of 0-100.
	ErrPercentRange = errors.New("percentage must be between 0 and 100")

	// ErrWarnNotAboveCrit is returned when the warning bound does not leave room above critical.
	ErrWarnNotAboveCrit = errors.New("critical threshold must be less than warning threshold")
)

// units are tried longest match first, so "5M" never matches a two letter suffix.
var units = []struct {
	suffix     string
	multiplier float64
}{
	{"KB", 1},
	{"MB", 1024},
	{"GB", 1024 * 1024},
	{"K", 1},
	{"M", 1024},
	{"G", 1024 * 1024},
}

// Threshold is a parsed warning or critical limit. Absolute values are
// normalized to kilobytes.
type Threshold struct {
	Value float64
	Mode  Mode
}

// String prints the Threshold the way it would be given on the command line.
func (t Threshold) String() string {
	if t.Mode == Percentage {
		return strconv.FormatFloat(t.Value, 'f', -1, 64) + "%"
	}

	return strconv.FormatFloat(t.Value, 'f', -1, 64) + "KB"
}

// Parse converts a threshold string into a Threshold. Accepted forms are a
// bare number (kilobytes), a number with a KB/MB/GB suffix (single or double
// letter, case insensitive) or a number followed by a percent sign.
func Parse(raw string) (Threshold, error) {
	def := strings.TrimSpace(raw)
	if def == "" {
		return Threshold{}, fmt.Errorf("%w: empty string", ErrInvalidNumber)
	}

	if strings.HasSuffix(def, "%") {
		num, err := parseNum(strings.TrimSuffix(def, "%"))
		if err != nil {
			return Threshold{}, err
		}

		return Threshold{Value: num, Mode: Percentage}, nil
	}

	upper := strings.ToUpper(def)
	for _, unit := range units {
		if strings.HasSuffix(upper, unit.suffix) {
			num, err := parseNum(def[:len(def)-len(unit.suffix)])
			if err != nil {
				return Threshold{}, err
			}

			return Threshold{Value: num * unit.multiplier, Mode: Absolute}, nil
		}
	}

	num, err := parseNum(def)
	if err != nil {
		return Threshold{}, err
	}

	return Threshold{Value: num, Mode: Absolute}, nil
}

func parseNum(val string) (float64, error) {
	num, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidNumber, val)
	}

	return num, nil
}

// Pair holds the warning and critical limits of one probe.
type Pair struct {
	Warning  Threshold
	Critical Threshold
}

// ParsePair parses both thresholds and validates them for a free-style
// metric, where critical must sit strictly below warning.
func ParsePair(warning, critical string) (Pair, error) {
	warn, err := Parse(warning)
	if err != nil {
		return Pair{}, fmt.Errorf("warning: %w", err)
	}
	crit, err := Parse(critical)
	if err != nil {
		return Pair{}, fmt.Errorf("critical: %w", err)
	}

	pair := Pair{Warning: warn, Critical: crit}
	if err := pair.Validate(); err != nil {
		return Pair{}, err
	}

	return pair, nil
}

// Validate checks the pair invariants: matching modes, percentages within
// 0-100 and warning strictly above critical.
func (p Pair) Validate() error {
	if p.Warning.Mode != p.Critical.Mode {
		return ErrMixedModes
	}

	if p.Warning.Mode == Percentage {
		if p.Warning.Value < 0 || p.Warning.Value > 100 {
			return fmt.Errorf("warning %w", ErrPercentRange)
		}
		if p.Critical.Value < 0 || p.Critical.Value > 100 {
			return fmt.Errorf("critical %w", ErrPercentRange)
		}
	}

	if p.Warning.Value <= p.Critical.Value {
		return ErrWarnNotAboveCrit
	}

	return nil
}

// Level is the outcome of grading a value against a Pair.
type Level int

const (
	LevelOK Level = iota
	LevelWarning
	LevelCritical
)

// GradeFree grades a free-resource value. Strictly below the critical bound
// is critical, strictly below the warning bound is a warning. Values equal
// to a bound pass into the next less severe tier.
func (p Pair) GradeFree(value float64) Level {
	switch {
	case value < p.Critical.Value:
		return LevelCritical
	case value < p.Warning.Value:
		return LevelWarning
	default:
		return LevelOK
	}
}

// GradeUsed grades a used-style value such as a load ratio, where higher is
// worse. Comparisons are strict, mirroring GradeFree.
func (p Pair) GradeUsed(value float64) Level {
	switch {
	case value > p.Critical.Value:
		return LevelCritical
	case value > p.Warning.Value:
		return LevelWarning
	default:
		return LevelOK
	}
}
