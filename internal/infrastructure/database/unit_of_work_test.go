package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"bankengine/internal/domain"
)

func TestClassify(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		if err := Classify("op", nil); err != nil {
			t.Fatalf("Classify(nil) = %v", err)
		}
	})

	t.Run("taxonomy errors pass through", func(t *testing.T) {
		in := fmt.Errorf("sender: %w", domain.ErrInsufficientFunds)
		if got := Classify("op", in); got != in {
			t.Fatalf("Classify changed a taxonomy error: %v", got)
		}
	})

	t.Run("driver errors become persistence failures", func(t *testing.T) {
		in := errors.New("connection refused")
		got := Classify("failed to begin transaction", in)
		if !errors.Is(got, domain.ErrPersistenceFailure) {
			t.Fatalf("expected ErrPersistenceFailure, got %v", got)
		}
		if !errors.Is(got, in) {
			t.Fatalf("cause lost: %v", got)
		}
	})
}

func TestClassifyAborted(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		persistence bool
	}{
		{"serialization failure", &pq.Error{Code: "40001"}, true},
		{"deadlock", fmt.Errorf("lock: %w", &pq.Error{Code: "40P01"}), true},
		{"statement timeout", &pq.Error{Code: "57014"}, true},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), true},
		{"unique violation is left to the caller", &pq.Error{Code: "23505"}, false},
		{"plain function error", errors.New("handler failed"), false},
		{"validation error", domain.ErrInvalidAmount, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyAborted(tt.err)
			if errors.Is(got, domain.ErrPersistenceFailure) != tt.persistence {
				t.Fatalf("classifyAborted(%v) = %v, persistence want %v", tt.err, got, tt.persistence)
			}
			if !tt.persistence && got != tt.err {
				t.Fatalf("error should be returned unchanged, got %v", got)
			}
		})
	}
}

func TestDBConfigDSN(t *testing.T) {
	cfg := DBConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "bank", SSLMode: "disable"}
	want := "host=db port=5433 user=u password=p dbname=bank sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Fatalf("DSN() = %q, want %q", got, want)
	}
}
