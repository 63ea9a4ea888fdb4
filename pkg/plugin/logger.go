package plugin

import (
	"io"
	"strings"

	"github.com/kdar/factorlog"
)

// LogFormat keeps diagnostics terse, they share the stdout channel with the
// status line and must stay out of the way at normal verbosity.
const LogFormat = `[%{Severity}] %{Message}`

// NewLogger builds a logger for one probe run. The verbosity counter from
// the repeatable -v flag maps to severities: 0 logs errors only, 1 info,
// 2 debug and 3 or more trace. Diagnostics never change evaluation results.
func NewLogger(target io.Writer, verbose int) *factorlog.FactorLog {
	logger := factorlog.New(target, factorlog.NewStdFormatter(LogFormat))

	level := "error"
	switch {
	case verbose >= 3:
		level = "trace"
	case verbose == 2:
		level = "debug"
	case verbose == 1:
		level = "info"
	}
	logger.SetMinMaxSeverity(factorlog.StringToSeverity(strings.ToUpper(level)), factorlog.StringToSeverity("PANIC"))

	return logger
}
