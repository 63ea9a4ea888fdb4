package plugin

import (
	"fmt"
	"io"
	"strings"
)

const (
	// StateOK is used for normal exits.
	StateOK = 0

	// StateWarning is used when the warning threshold fires.
	StateWarning = 1

	// StateCritical is used when the critical threshold fires or the
	// monitored source is unreadable.
	StateCritical = 2

	// StateUnknown is used when the probe cannot evaluate at all.
	StateUnknown = 3
)

// StateString maps a state to its Nagios name.
func StateString(state int) string {
	switch state {
	case StateOK:
		return "OK"
	case StateWarning:
		return "WARNING"
	case StateCritical:
		return "CRITICAL"
	}

	return "UNKNOWN"
}

// Metric is a single performance data value. The rendered form keeps the
// warning/critical sub-fields empty, only the value and the optional maximum
// are filled in.
type Metric struct {
	Name  string
	Value string
	Max   string
}

func (m *Metric) String() string {
	return fmt.Sprintf("%s=%s;%s;", m.Name, m.Value, m.Max)
}

// Result is the outcome of a single probe run.
type Result struct {
	State   int
	Output  string
	Metrics []*Metric
}

// BuildPluginOutput returns the status line including the performance data.
func (r *Result) BuildPluginOutput() string {
	output := r.Output
	if len(r.Metrics) > 0 {
		perf := make([]string, 0, len(r.Metrics))
		for _, m := range r.Metrics {
			perf = append(perf, m.String())
		}
		output = output + "|" + strings.Join(perf, " ")
	}

	return output
}

// Write prints the final status line and returns the exit code, the single
// place where a result turns into the process exit status.
func (r *Result) Write(output io.Writer) int {
	fmt.Fprintf(output, "%s\n", r.BuildPluginOutput())

	return r.State
}

// Unknown builds an UNKNOWN result with a formatted message.
func Unknown(format string, args ...interface{}) *Result {
	return &Result{
		State:  StateUnknown,
		Output: "UNKNOWN: " + fmt.Sprintf(format, args...),
	}
}
