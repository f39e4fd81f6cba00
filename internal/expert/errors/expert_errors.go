package experterrors

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
	ErrInvalidExpertID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid expert id",
		http.StatusBadRequest,
	)
	ErrInvalidPolicy = apperror.New(
		apperror.CodeInvalidInput,
		"commission policy is invalid: rates must be within 0..10000bp and max clamp must not be below min",
		http.StatusBadRequest,
	)
	ErrExpertNotFound = apperror.New(
		apperror.CodeNotFound,
		"expert not found",
		http.StatusNotFound,
	)
	ErrExpertInactive = apperror.New(
		apperror.CodeInvalidState,
		"expert is inactive and cannot receive commissions",
		http.StatusBadRequest,
	)
)
