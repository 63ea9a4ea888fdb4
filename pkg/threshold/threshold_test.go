package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	stringToThreshold := []struct {
		input     string
		threshold Threshold
		err       error
	}{
		{"1024", Threshold{Value: 1024, Mode: Absolute}, nil},
		{"3.5", Threshold{Value: 3.5, Mode: Absolute}, nil},
		{" 200 ", Threshold{Value: 200, Mode: Absolute}, nil},
		{"50%", Threshold{Value: 50, Mode: Percentage}, nil},
		{"12.5%", Threshold{Value: 12.5, Mode: Percentage}, nil},
		{"10MB", Threshold{Value: 10 * 1024, Mode: Absolute}, nil},
		{"10mb", Threshold{Value: 10 * 1024, Mode: Absolute}, nil},
		{"5M", Threshold{Value: 5 * 1024, Mode: Absolute}, nil},
		{"5m", Threshold{Value: 5 * 1024, Mode: Absolute}, nil},
		{"2G", Threshold{Value: 2 * 1024 * 1024, Mode: Absolute}, nil},
		{"2GB", Threshold{Value: 2 * 1024 * 1024, Mode: Absolute}, nil},
		{"2gB", Threshold{Value: 2 * 1024 * 1024, Mode: Absolute}, nil},
		{"512KB", Threshold{Value: 512, Mode: Absolute}, nil},
		{"512k", Threshold{Value: 512, Mode: Absolute}, nil},
		{"abc", Threshold{}, ErrInvalidNumber},
		{"%", Threshold{}, ErrInvalidNumber},
		{"MB", Threshold{}, ErrInvalidNumber},
		{"12x", Threshold{}, ErrInvalidNumber},
		{"", Threshold{}, ErrInvalidNumber},
	}

	for _, data := range stringToThreshold {
		parsed, err := Parse(data.input)
		if data.err != nil {
			assert.ErrorIsf(t, err, data.err, "parse %q fails", data.input)

			continue
		}
		require.NoErrorf(t, err, "parse %q", data.input)
		assert.Equalf(t, data.threshold, parsed, "parse %q", data.input)
	}
}

func TestParsePair(t *testing.T) {
	t.Parallel()

	pairs := []struct {
		warning  string
		critical string
		err      error
	}{
		{"40%", "20%", nil},
		{"2MB", "1MB", nil},
		{"2000", "1000", nil},
		{"2G", "512MB", nil},
		{"50%", "1024", ErrMixedModes},
		{"1024", "50%", ErrMixedModes},
		{"150%", "10%", ErrPercentRange},
		{"50%", "-3%", ErrPercentRange},
		{"10", "20", ErrWarnNotAboveCrit},
		{"10%", "10%", ErrWarnNotAboveCrit},
		{"abc", "10", ErrInvalidNumber},
		{"10", "abc", ErrInvalidNumber},
	}

	for _, data := range pairs {
		_, err := ParsePair(data.warning, data.critical)
		if data.err != nil {
			assert.ErrorIsf(t, err, data.err, "pair %q/%q fails", data.warning, data.critical)
		} else {
			assert.NoErrorf(t, err, "pair %q/%q", data.warning, data.critical)
		}
	}
}

func TestGradeFree(t *testing.T) {
	t.Parallel()

	pair := Pair{
		Warning:  Threshold{Value: 40, Mode: Percentage},
		Critical: Threshold{Value: 20, Mode: Percentage},
	}

	values := []struct {
		value    float64
		expected Level
	}{
		{50, LevelOK},
		{40, LevelOK},
		{39.9, LevelWarning},
		{21, LevelWarning},
		{20, LevelWarning},
		{19.9, LevelCritical},
		{0, LevelCritical},
	}

	for _, data := range values {
		assert.Equalf(t, data.expected, pair.GradeFree(data.value), "grade %v", data.value)
	}
}

func TestGradeUsed(t *testing.T) {
	t.Parallel()

	pair := Pair{
		Warning:  Threshold{Value: 1.5},
		Critical: Threshold{Value: 3},
	}

	values := []struct {
		value    float64
		expected Level
	}{
		{0.5, LevelOK},
		{1.5, LevelOK},
		{1.6, LevelWarning},
		{3, LevelWarning},
		{3.1, LevelCritical},
	}

	for _, data := range values {
		assert.Equalf(t, data.expected, pair.GradeUsed(data.value), "grade %v", data.value)
	}
}

func TestThresholdString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "50%", Threshold{Value: 50, Mode: Percentage}.String())
	assert.Equal(t, "10240KB", Threshold{Value: 10240, Mode: Absolute}.String())
}
