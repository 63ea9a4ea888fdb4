// Package checkram implements a Nagios plugin which checks the amount of
// free ram against warning and critical thresholds.
package checkram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	flags "github.com/jessevdk/go-flags"
	"github.com/kdar/factorlog"

	"github.com/consol-monitoring/check_system/pkg/meminfo"
	"github.com/consol-monitoring/check_system/pkg/plugin"
	"github.com/consol-monitoring/check_system/pkg/threshold"
)

type options struct {
	Warning string `short:"w" long:"warning" description:"Warning threshold. Returns a warning status if the amount of free ram is less than this number. Specify KB, MB or GB after to specify units of KiloBytes, MegaBytes or GigaBytes respectively or % afterwards to indicate a percentage. KiloBytes is used if not specified"`

	Critical string `short:"c" long:"critical" description:"Critical threshold. Returns a critical status if the amount of free ram is less than this number. Same units as the warning threshold"`

	NoCache bool `short:"n" long:"no-include-cache" description:"Do not include cache as free ram. Linux tends to gobble up free ram as disk cache, but this is freely reusable so this plugin counts it as free space by default since this is nearly always what you want. This switch disables this behaviour so you use only the pure free ram. Not advised"`

	Verbose []bool `short:"v" long:"verbose" description:"Verbose mode. By default only one result line is printed as per Nagios standards. Use multiple times for increasing verbosity (3 times = debug)"`

	MemInfo string `long:"meminfo" hidden:"true" description:"override the memory counters source path"`
}

// Check runs the ram probe and returns the Nagios exit code. All output,
// diagnostics included, goes to the given writer.
func Check(_ context.Context, output io.Writer, args []string) int {
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
	if opts.Warning == "" {
		return usageError(output, parser, "you did not specify a warning threshold")
	}
	if opts.Critical == "" {
		return usageError(output, parser, "you did not specify a critical threshold")
	}

	log := plugin.NewLogger(output, len(opts.Verbose))

	pair, err := threshold.ParsePair(opts.Warning, opts.Critical)
	if err != nil {
		return plugin.Unknown("%s", err.Error()).Write(output)
	}
	log.Tracef("thresholds: warning %s, critical %s", pair.Warning.String(), pair.Critical.String())

	reader := &meminfo.Reader{Location: opts.MemInfo}
	log.Tracef("opening %s", reader.Path())
	snapshot, err := reader.Read()
	if err != nil {
		result := &plugin.Result{
			State:  plugin.StateCritical,
			Output: fmt.Sprintf("RAM CRITICAL: Error opening %s - %s", reader.Path(), err.Error()),
		}

		return result.Write(output)
	}
	logSnapshot(log, snapshot, opts.NoCache)

	return Evaluate(snapshot, pair, opts.NoCache).Write(output)
}

// TotalFreeKB applies the free memory accounting policy: pure free ram with
// no-cache set, otherwise the kernel MemAvailable estimate when the source
// reports one, otherwise free plus cached plus buffers.
func TotalFreeKB(snapshot *meminfo.Snapshot, noCache bool) uint64 {
	switch {
	case noCache:
		return snapshot.FreeKB
	case snapshot.AvailableKB != nil && *snapshot.AvailableKB > 0:
		// the kernel estimate accounts for reclaimable slab as well and
		// beats summing the counters up manually
		return *snapshot.AvailableKB
	default:
		return snapshot.FreeKB + snapshot.CachedKB + snapshot.BuffersKB
	}
}

// UsedKB is total minus free, cached and buffers. It ignores the accounting
// mode chosen for free memory on purpose, toggling no-cache never changes
// the used figure.
func UsedKB(snapshot *meminfo.Snapshot) int64 {
	return int64(snapshot.TotalKB) - int64(snapshot.FreeKB) - int64(snapshot.CachedKB) - int64(snapshot.BuffersKB)
}

// Evaluate grades the free memory of one snapshot against the thresholds
// and builds the status line. Percentages are truncated, not rounded, and
// both modes compare with strict less-than, a value equal to a threshold
// passes into the next less severe tier.
func Evaluate(snapshot *meminfo.Snapshot, pair threshold.Pair, noCache bool) *plugin.Result {
	if !snapshot.Complete() || snapshot.TotalKB == 0 {
		return plugin.Unknown("failed to get mem stats")
	}

	totalFree := TotalFreeKB(snapshot, noCache)
	usedMB := UsedKB(snapshot) / 1024
	totalMB := int64(snapshot.TotalKB / 1024)

	var level threshold.Level
	var detail string
	if pair.Warning.Mode == threshold.Percentage {
		pctFree := int64(float64(totalFree) / float64(snapshot.TotalKB) * 100)
		level = pair.GradeFree(float64(pctFree))
		detail = fmt.Sprintf("%d%% ram free", pctFree)
	} else {
		level = pair.GradeFree(float64(totalFree))
		detail = fmt.Sprintf("%dMB ram free", totalFree/1024)
	}

	state := stateFor(level)
	output := fmt.Sprintf("RAM %s: %s", plugin.StateString(state), detail)
	if level != threshold.LevelOK {
		output += fmt.Sprintf(" (%d/%d MB used)", usedMB, totalMB)
	}

	return &plugin.Result{
		State:  state,
		Output: output,
		Metrics: []*plugin.Metric{{
			Name:  "memused",
			Value: strconv.FormatInt(usedMB, 10),
			Max:   strconv.FormatInt(totalMB, 10),
		}},
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

func logSnapshot(log *factorlog.FactorLog, snapshot *meminfo.Snapshot, noCache bool) {
	log.Tracef("total: %s, free: %s, cached: %s, buffers: %s",
		humanize.IBytes(snapshot.TotalKB*1024),
		humanize.IBytes(snapshot.FreeKB*1024),
		humanize.IBytes(snapshot.CachedKB*1024),
		humanize.IBytes(snapshot.BuffersKB*1024),
	)
	switch {
	case noCache:
		log.Tracef("accounting: pure free ram only (no-include-cache)")
	case snapshot.AvailableKB != nil && *snapshot.AvailableKB > 0:
		log.Tracef("accounting: kernel MemAvailable estimate (%s)", humanize.IBytes(*snapshot.AvailableKB*1024))
	default:
		log.Tracef("accounting: free + cached + buffers")
	}
	log.Tracef("total free: %d kB, used: %d kB", TotalFreeKB(snapshot, noCache), UsedKB(snapshot))
}
