// Package checkload implements a Nagios plugin which reports the load
// averages scaled by the number of logical cpus, with optional warning and
// critical thresholds on the resulting per core ratios.
package checkload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	flags "github.com/jessevdk/go-flags"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"

	"github.com/consol-monitoring/check_system/pkg/plugin"
	"github.com/consol-monitoring/check_system/pkg/threshold"
)

var (
	// ErrThresholdOrder is returned when the critical bound does not sit above warning.
	ErrThresholdOrder = errors.New("critical threshold must be greater than warning threshold")

	// ErrThresholdPair is returned when only one of the two thresholds is given.
	ErrThresholdPair = errors.New("warning and critical thresholds must be given together")
)

type options struct {
	Warning string `short:"w" long:"warning" description:"Warning threshold on the per core load ratio, a plain number. Returns a warning status if any of the three ratios is greater than this number"`

	Critical string `short:"c" long:"critical" description:"Critical threshold on the per core load ratio, a plain number. Returns a critical status if any of the three ratios is greater than this number"`

	Verbose []bool `short:"v" long:"verbose" description:"Verbose mode. By default only one result line is printed as per Nagios standards. Use multiple times for increasing verbosity (3 times = debug)"`
}

// Ratios are the load averages divided by the logical cpu count.
type Ratios struct {
	Load1  float64
	Load5  float64
	Load15 float64
}

// Normalize scales raw load averages to per core ratios.
func Normalize(avg *load.AvgStat, numCPU int) Ratios {
	n := float64(numCPU)

	return Ratios{
		Load1:  avg.Load1 / n,
		Load5:  avg.Load5 / n,
		Load15: avg.Load15 / n,
	}
}

// Max returns the highest of the three ratios, the figure graded against
// the thresholds.
func (r Ratios) Max() float64 {
	return max(r.Load1, r.Load5, r.Load15)
}

// Check runs the load probe and returns the Nagios exit code.
func Check(ctx context.Context, output io.Writer, args []string) int {
	opts := options{}
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	remaining, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(output, flagsErr.Message)

			return plugin.StateUnknown
		}

		return usageError(output, parser, err.Error())
	}
	if len(remaining) > 0 {
		return usageError(output, parser, fmt.Sprintf("unexpected argument: %s", remaining[0]))
	}

	log := plugin.NewLogger(output, len(opts.Verbose))

	pair, err := ParseThresholds(opts.Warning, opts.Critical)
	if err != nil {
		return plugin.Unknown("%s", err.Error()).Write(output)
	}

	loadStat, err := load.AvgWithContext(ctx)
	if err != nil {
		return plugin.Unknown("load.Avg(): %s", err.Error()).Write(output)
	}
	numCPU, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return plugin.Unknown("cpuinfo: %s", err.Error()).Write(output)
	}
	if numCPU == 0 {
		return plugin.Unknown("cpu count is zero").Write(output)
	}
	log.Tracef("raw load averages: %.2f, %.2f, %.2f on %d logical cpus",
		loadStat.Load1, loadStat.Load5, loadStat.Load15, numCPU)

	return Evaluate(Normalize(loadStat, numCPU), numCPU, pair).Write(output)
}

// ParseThresholds converts the plain numeric warning/critical flags into a
// pair on the per core ratios. Both flags are optional but must be given
// together. Returns nil when no thresholds were requested.
func ParseThresholds(warning, critical string) (*threshold.Pair, error) {
	if warning == "" && critical == "" {
		return nil, nil
	}
	if warning == "" || critical == "" {
		return nil, ErrThresholdPair
	}

	warn, err := strconv.ParseFloat(warning, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", threshold.ErrInvalidNumber, warning)
	}
	crit, err := strconv.ParseFloat(critical, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", threshold.ErrInvalidNumber, critical)
	}
	if crit <= warn {
		return nil, ErrThresholdOrder
	}

	return &threshold.Pair{
		Warning:  threshold.Threshold{Value: warn},
		Critical: threshold.Threshold{Value: crit},
	}, nil
}

// Evaluate grades the per core ratios and builds the status line. Without
// thresholds the result is always OK and purely informational.
func Evaluate(ratios Ratios, cores int, pair *threshold.Pair) *plugin.Result {
	level := threshold.LevelOK
	if pair != nil {
		level = pair.GradeUsed(ratios.Max())
	}

	state := stateFor(level)
	output := fmt.Sprintf("LOAD %s: load average per core: %.2f, %.2f, %.2f on %d cores",
		plugin.StateString(state), ratios.Load1, ratios.Load5, ratios.Load15, cores)

	return &plugin.Result{
		State:  state,
		Output: output,
		Metrics: []*plugin.Metric{
			{Name: "load1", Value: fmt.Sprintf("%.2f", ratios.Load1)},
			{Name: "load5", Value: fmt.Sprintf("%.2f", ratios.Load5)},
			{Name: "load15", Value: fmt.Sprintf("%.2f", ratios.Load15)},
		},
	}
}

func stateFor(level threshold.Level) int {
	switch level {
	case threshold.LevelCritical:
		return plugin.StateCritical
	case threshold.LevelWarning:
		return plugin.StateWarning
	default:
		return plugin.StateOK
	}
}

func usageError(output io.Writer, parser *flags.Parser, msg string) int {
	fmt.Fprintf(output, "UNKNOWN: %s\n\n", msg)
	parser.WriteHelp(output)

	return plugin.StateUnknown
}
