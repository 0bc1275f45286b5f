package thinwall

import "github.com/sirupsen/logrus"

// NewLogger returns the package's default structured logger, a plain
// logrus.Logger configured the way the teacher configures its own run
// logging: text formatter, info level, stderr output (logrus default).
// Callers that want JSON output or a different level should build their
// own logrus.Logger and pass it directly to NewRefinementDriver instead.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
	return log
}

// RunSummary is the per-refinement-chain result logged at the end of
// RefinementDriver.Run, letting callers report stage counts and the final
// convergence state without parsing ConvergenceWarning strings.
type RunSummary struct {
	Stages    int
	Converged bool
	Warning   string
}

// LogSummary emits s as a single structured log entry at info level (warn
// level if the chain did not converge).
func LogSummary(log logrus.FieldLogger, s RunSummary) {
	fields := logrus.Fields{"stages": s.Stages, "converged": s.Converged}
	if s.Converged {
		log.WithFields(fields).Info("refinement chain converged")
		return
	}
	fields["warning"] = s.Warning
	log.WithFields(fields).Warn("refinement chain stopped without convergence")
}
