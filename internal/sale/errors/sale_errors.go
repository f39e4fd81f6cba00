package saleerrors

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
	ErrInvalidLine = apperror.New(
		apperror.CodeInvalidInput,
		"sale lines must carry a non-negative amount and input costs",
		http.StatusBadRequest,
	)
	ErrSaleNotFound = apperror.New(
		apperror.CodeNotFound,
		"sale not found",
		http.StatusNotFound,
	)
)
