package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	commissionerrors "go-salon/internal/commission/errors"
	settlementerrors "go-salon/internal/settlement/errors"
	"go-salon/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Is(t *testing.T) {
	t.Run("detail-carrying copy still matches its sentinel", func(t *testing.T) {
		err := settlementerrors.ErrCascadeIncomplete.WithDetails(map[string]int{"failed": 2})

		assert.ErrorIs(t, err, settlementerrors.ErrCascadeIncomplete)
	})

	t.Run("wrapped sentinel matches through errors.Is", func(t *testing.T) {
		err := fmt.Errorf("pay period: %w", settlementerrors.ErrConcurrentModification)

		assert.ErrorIs(t, err, settlementerrors.ErrConcurrentModification)
	})

	t.Run("negative sentinels sharing a code stay distinct", func(t *testing.T) {
		assert.NotErrorIs(t, commissionerrors.ErrCannotCancelPaid, commissionerrors.ErrInvalidStateTransition)
		assert.NotErrorIs(t, commissionerrors.ErrInvalidStateTransition, commissionerrors.ErrCannotCancelPaid)
		assert.NotErrorIs(t, settlementerrors.ErrCannotCancelPaidPeriod, settlementerrors.ErrInvalidStateTransition)
		assert.NotErrorIs(t, commissionerrors.ErrInvalidAmount, commissionerrors.ErrInvalidAdjustment)
	})

	t.Run("negative non-app errors never match", func(t *testing.T) {
		assert.NotErrorIs(t, commissionerrors.ErrCannotCancelPaid, errors.New("a paid commission cannot be cancelled"))
	})
}

func TestToHTTP(t *testing.T) {
	t.Run("app error maps status, code and details", func(t *testing.T) {
		err := settlementerrors.ErrCascadeIncomplete.WithDetails(map[string]int{"failed": 1})

		httpErr := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusConflict, httpErr.Status)
		assert.Equal(t, apperror.CodeConflict, httpErr.Code)
		assert.NotNil(t, httpErr.Details)
	})

	t.Run("unknown error is masked as internal", func(t *testing.T) {
		httpErr := apperror.ToHTTP(errors.New("pq: relation does not exist"))

		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, apperror.CodeInternalError, httpErr.Code)
		assert.Equal(t, "An unexpected error occurred", httpErr.Message)
	})
}
