package decisionrecorder

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNewRecorderSelection(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		r, err := NewRecorder(ctx, &Config{Disabled: true, SQLitePath: filepath.Join(t.TempDir(), "x.db")})
		if err != nil {
			t.Fatalf("NewRecorder() error = %v", err)
		}
		if _, ok := r.(*noopRecorder); !ok {
			t.Errorf("NewRecorder() = %T, want *noopRecorder", r)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		r, err := NewRecorder(ctx, &Config{SQLitePath: filepath.Join(t.TempDir(), "x.db")})
		if err != nil {
			t.Fatalf("NewRecorder() error = %v", err)
		}
		defer r.Close()
		if _, ok := r.(*SQLiteRecorder); !ok {
			t.Errorf("NewRecorder() = %T, want *SQLiteRecorder", r)
		}
	})

	t.Run("platform without credentials", func(t *testing.T) {
		r, err := NewRecorder(ctx, &Config{})
		if err != nil {
			t.Fatalf("NewRecorder() error = %v", err)
		}
		if _, ok := r.(*noopRecorder); !ok {
			t.Errorf("NewRecorder() = %T, want *noopRecorder", r)
		}
	})
}
