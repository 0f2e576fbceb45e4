package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
)

func TestValidateAndExtractRequestID(t *testing.T) {
	valid := uuid.NewString()

	if got := ValidateAndExtractRequestID(valid); got != valid {
		t.Errorf("ValidateAndExtractRequestID(valid) = %q, want %q", got, valid)
	}

	for _, in := range []string{"", "not-a-uuid"} {
		got := ValidateAndExtractRequestID(in)
		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("ValidateAndExtractRequestID(%q) = %q, not a uuid", in, got)
		}
	}
}

func TestNewHandler_AddsRequestIDAndServiceAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, HandlerConfig{
		Service:     ServiceInfo{Name: "signage", Version: "v1"},
		Environment: EnvProd,
		Level:       slog.LevelInfo,
		Module:      Module("crowd-signage"),
	}))

	ctx := WithRequestID(context.Background(), "req-1")
	logger.InfoContext(ctx, "decision made", slog.String("reason", "Default (All)"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log entry: %v", err)
	}

	want := map[string]string{
		"service":    "signage",
		"version":    "v1",
		"module":     "crowd-signage",
		"request_id": "req-1",
		"reason":     "Default (All)",
	}
	for key, value := range want {
		if entry[key] != value {
			t.Errorf("entry[%q] = %v, want %q", key, entry[key], value)
		}
	}
}
