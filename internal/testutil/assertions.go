package testutil

import (
	"errors"
	"testing"

	apperrors "faturo/internal/errors"
	"faturo/internal/models"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertInstallmentsSum checks that a set of installment rows adds up to the
// purchase total, cent for cent.
func AssertInstallmentsSum(t *testing.T, rows []models.Installment, total int64) {
	t.Helper()

	var sum int64
	for _, row := range rows {
		sum += row.Amount
	}
	if sum != total {
		t.Errorf("expected installments to sum to %d, got %d", total, sum)
	}
}
