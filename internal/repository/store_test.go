package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestLaterOf(t *testing.T) {
	t.Parallel()

	a := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := a.Add(time.Second)

	if got := LaterOf(a, b); !got.Equal(b) {
		t.Errorf("LaterOf(a, b) = %s, want %s", got, b)
	}
	if got := LaterOf(b, a); !got.Equal(b) {
		t.Errorf("LaterOf(b, a) = %s, want %s", got, b)
	}
	if got := LaterOf(a, a); !got.Equal(a) {
		t.Errorf("LaterOf(a, a) = %s, want %s", got, a)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("unique something"), false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"fk violation", &pgconn.PgError{Code: "23503"}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
