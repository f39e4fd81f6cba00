package cashledgererrors

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
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"movement amount must be a positive integer of minor units",
		http.StatusBadRequest,
	)
	ErrInvalidMovementType = apperror.New(
		apperror.CodeInvalidInput,
		"movement type must be CREDIT or DEBIT",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid movement date filter, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
