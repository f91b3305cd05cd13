package types

import "github.com/sirupsen/logrus"

// DefaultVersion is the fallback version when AppContext is nil
const DefaultVersion = "dev"

// AppContext holds application-wide context information passed to commands
type AppContext struct {
	Version string
	RunID   string // unique per process invocation, attached to every log line
	Log     *logrus.Entry
}

// Logger returns the run-scoped logger, or a standalone one when ctx is nil.
func (ctx *AppContext) Logger() *logrus.Entry {
	if ctx == nil || ctx.Log == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return ctx.Log
}

// VersionString returns the version, DefaultVersion when unset.
func (ctx *AppContext) VersionString() string {
	if ctx == nil || ctx.Version == "" {
		return DefaultVersion
	}
	return ctx.Version
}
