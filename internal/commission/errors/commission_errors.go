package commissionerrors

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
	ErrInvalidSaleID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid sale id",
		http.StatusBadRequest,
	)
	ErrInvalidExpertID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid expert id",
		http.StatusBadRequest,
	)
	ErrInvalidLineKind = apperror.New(
		apperror.CodeInvalidInput,
		"sale line kind must be SERVICE or RETAIL",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amounts cannot be negative",
		http.StatusBadRequest,
	)
	ErrInvalidAdjustment = apperror.New(
		apperror.CodeInvalidInput,
		"adjustment type must be INCREASE or DECREASE with a positive amount",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid commission status filter",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrCommissionNotFound = apperror.New(
		apperror.CodeNotFound,
		"commission record not found",
		http.StatusNotFound,
	)
	ErrInvalidStateTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid commission status transition",
		http.StatusBadRequest,
	)
	ErrCannotCancelPaid = apperror.New(
		apperror.CodeInvalidState,
		"a paid commission cannot be cancelled",
		http.StatusBadRequest,
	)
	ErrSaleHasPaidCommissions = apperror.New(
		apperror.CodeInvalidState,
		"sale has paid commissions and cannot be recalculated",
		http.StatusBadRequest,
	)
	ErrConcurrentModification = apperror.New(
		apperror.CodeConflict,
		"commission record was modified concurrently, retry the operation",
		http.StatusConflict,
	)
)
