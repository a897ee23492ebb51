package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedgerErrorsWrapClasses(t *testing.T) {
	assert.ErrorIs(t, ErrInvalidAmount, ErrValidation)
	assert.ErrorIs(t, ErrReasonRequired, ErrValidation)
	assert.ErrorIs(t, ErrInvoiceNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrInvoiceCancelled, ErrConflict)
	assert.ErrorIs(t, ErrAlreadyCancelled, ErrConflict)
	assert.NotErrorIs(t, ErrInvoiceCancelled, ErrAlreadyCancelled)
}

func TestAppErrorIsStorage(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("saving invoice: %w", NewAppError(500, "failed to insert invoice", cause))

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")

	assert.NotErrorIs(t, NewAppError(400, "bad input", nil), ErrStorage)
}
