package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind domain.ErrorKind
	}{
		{"not found", domain.NotFound("product %d not found", 7), domain.KindNotFound},
		{"permission denied", domain.PermissionDenied("user %d is not an owner", 3), domain.KindPermissionDenied},
		{"invalid argument", domain.InvalidArgument("price must be positive"), domain.KindInvalidArgument},
		{"conflict", domain.Conflict("bid not high enough"), domain.KindConflict},
		{"inconsistency", domain.Inconsistency("node missing from role tree"), domain.KindInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.KindOf(tc.err); got != tc.kind {
				t.Fatalf("KindOf = %q, want %q", got, tc.kind)
			}
		})
	}
}

func TestErrorIsMatchesSameKind(t *testing.T) {
	err := domain.NotFound("store 1 not found")
	if !errors.Is(err, domain.NotFound("anything")) {
		t.Fatal("errors.Is should match errors of the same kind")
	}
	if errors.Is(err, domain.Conflict("anything")) {
		t.Fatal("errors.Is should not match errors of another kind")
	}
}

func TestErrorWrapping(t *testing.T) {
	inner := domain.Conflict("duplicate pending assignment")
	wrapped := fmt.Errorf("accept assignment: %w", inner)

	if !domain.IsConflict(wrapped) {
		t.Fatal("wrapped error should keep its kind")
	}
	if domain.KindOf(errors.New("plain")) != "" {
		t.Fatal("foreign errors should have empty kind")
	}
}

func TestErrorPredicates(t *testing.T) {
	if !domain.IsNotFound(domain.NotFound("x")) {
		t.Fatal("IsNotFound failed")
	}
	if !domain.IsPermissionDenied(domain.PermissionDenied("x")) {
		t.Fatal("IsPermissionDenied failed")
	}
	if !domain.IsInvalidArgument(domain.InvalidArgument("x")) {
		t.Fatal("IsInvalidArgument failed")
	}
	if !domain.IsInconsistency(domain.Inconsistency("x")) {
		t.Fatal("IsInconsistency failed")
	}
	if domain.IsConflict(domain.NotFound("x")) {
		t.Fatal("predicates must not cross kinds")
	}
}
