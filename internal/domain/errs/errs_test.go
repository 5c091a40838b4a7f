package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/crewdeck/internal/domain/errs"
)

func TestNotFoundf(t *testing.T) {
	err := errs.NotFoundf("task %s", "abc123")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Error("expected wrapped ErrNotFound")
	}
	if got := err.Error(); got != "task abc123: not found" {
		t.Errorf("message: got %q", got)
	}
}

func TestForbiddenf(t *testing.T) {
	err := errs.Forbiddenf("toggle task %s", "abc123")
	if !errors.Is(err, errs.ErrForbidden) {
		t.Error("expected wrapped ErrForbidden")
	}
	if errors.Is(err, errs.ErrNotFound) {
		t.Error("forbidden must not match not-found")
	}
}

func TestValidation(t *testing.T) {
	err := errs.Validationf("priority", "must be Low, Medium or High")
	if !errs.IsValidation(err) {
		t.Error("expected IsValidation to match")
	}
	if got := err.Error(); got != "priority: must be Low, Medium or High" {
		t.Errorf("message: got %q", got)
	}

	// Wrapping keeps the classification.
	wrapped := fmt.Errorf("create task: %w", err)
	if !errs.IsValidation(wrapped) {
		t.Error("expected IsValidation to match through wrapping")
	}

	if errs.IsValidation(errs.ErrNotFound) {
		t.Error("sentinel errors are not validation errors")
	}
}
