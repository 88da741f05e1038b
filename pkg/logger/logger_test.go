package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_LevelFollowsEnv(t *testing.T) {
	var buf bytes.Buffer

	dev := NewWithWriter("dev", &buf)
	if !dev.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("dev logger should enable debug")
	}

	prod := NewWithWriter("production", &buf)
	if prod.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("production logger must not enable debug")
	}
}

func TestNew_TagsServiceName(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("production", &buf)

	l.Info("hello")
	if !strings.Contains(buf.String(), `"service":"activity-intake"`) {
		t.Fatalf("expected service tag, got %s", buf.String())
	}
}

func TestFrom_FallsBackToDefault(t *testing.T) {
	if From(context.Background()) == nil {
		t.Fatalf("expected default logger fallback")
	}

	var buf bytes.Buffer
	l := NewWithWriter("dev", &buf)
	ctx := With(context.Background(), l)
	if From(ctx) != l {
		t.Fatalf("expected context logger back")
	}
}
