package apierr

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(pgx.ErrNoRows) {
		t.Error("expected IsNotFound(pgx.ErrNoRows) = true")
	}
	if !IsNotFound(fmt.Errorf("load page: %w", pgx.ErrNoRows)) {
		t.Error("expected IsNotFound to see through wrapping")
	}
	if IsNotFound(fmt.Errorf("boom")) {
		t.Error("expected IsNotFound(plain error) = false")
	}
}

func TestIntegrityViolationCodes(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		integrity     bool
		nameCollision bool
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, true, false},
		{"raise exception", &pgconn.PgError{Code: "P0001"}, true, false},
		{"cross-survey link", &pgconn.PgError{Code: "SB001"}, true, false},
		{"page name collision", &pgconn.PgError{Code: "SB002"}, true, true},
		{"wrapped name collision", fmt.Errorf("link wave 3: %w", &pgconn.PgError{Code: "SB002"}), true, true},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, false, false},
		{"no rows", pgx.ErrNoRows, false, false},
		{"plain error", fmt.Errorf("boom"), false, false},
		{"nil", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsIntegrityViolation(tt.err); got != tt.integrity {
				t.Errorf("IsIntegrityViolation = %v, want %v", got, tt.integrity)
			}
			if got := IsNameCollision(tt.err); got != tt.nameCollision {
				t.Errorf("IsNameCollision = %v, want %v", got, tt.nameCollision)
			}
		})
	}
}
