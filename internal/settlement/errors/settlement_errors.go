package settlementerrors

import (
	"net/http"

	"go-salon/internal/shared/apperror"
)

var (
	ErrInvalidBusinessID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid business id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid settlement period id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodType = apperror.New(
		apperror.CodeInvalidInput,
		"period type must be WEEKLY, BIWEEKLY, MONTHLY or QUARTERLY",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"dates must use the YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"year is out of the supported range",
		http.StatusBadRequest,
	)
	ErrPeriodNotFound = apperror.New(
		apperror.CodeNotFound,
		"settlement period not found",
		http.StatusNotFound,
	)
	ErrDuplicatePeriod = apperror.New(
		apperror.CodeConflict,
		"a settlement period already exists for this year and period number",
		http.StatusConflict,
	)
	ErrInvalidStateTransition = apperror.New(
		apperror.CodeInvalidState,
		"settlement period status does not allow this operation",
		http.StatusConflict,
	)
	ErrCannotCancelPaidPeriod = apperror.New(
		apperror.CodeInvalidState,
		"a paid settlement period cannot be cancelled",
		http.StatusConflict,
	)
	ErrNoCommissionsInPeriod = apperror.New(
		apperror.CodeInvalidState,
		"no commissions fall inside this settlement period",
		http.StatusUnprocessableEntity,
	)
	ErrConcurrentModification = apperror.New(
		apperror.CodeConflict,
		"the settlement period was modified concurrently, retry the operation",
		http.StatusConflict,
	)
	ErrCascadeIncomplete = apperror.New(
		apperror.CodeConflict,
		"the commission cascade could not be applied to every record, the operation was rolled back",
		http.StatusConflict,
	)
)
