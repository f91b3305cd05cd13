package types

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestAppContext_NilSafe(t *testing.T) {
	var ctx *AppContext

	if ctx.VersionString() != DefaultVersion {
		t.Errorf("Expected %s for nil context, got %s", DefaultVersion, ctx.VersionString())
	}
	if ctx.Logger() == nil {
		t.Error("Expected a fallback logger for nil context")
	}
}

func TestAppContext_Logger(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	entry := l.WithField("run", "abc")

	ctx := &AppContext{Version: "v1.2.3", RunID: "abc", Log: entry}
	if ctx.VersionString() != "v1.2.3" {
		t.Errorf("Expected v1.2.3, got %s", ctx.VersionString())
	}
	if ctx.Logger() != entry {
		t.Error("Expected the run-scoped logger")
	}
	if ctx.Logger().Data["run"] != "abc" {
		t.Errorf("Expected run field abc, got %v", ctx.Logger().Data["run"])
	}
}
