package observability_test

import (
	"testing"

	"github.com/rs/zerolog"

	"realty/internal/adapters/observability"
)

func TestNewLogger_Level(t *testing.T) {
	if l := observability.NewLogger("test", "api", "debug"); l.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("want debug, got %s", l.GetLevel())
	}
	if l := observability.NewLogger("prod", "api", "nonsense"); l.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("want info fallback, got %s", l.GetLevel())
	}
}
