package api

import (
	"errors"
	"net/http"

	"quant_terminal/internal/model"
	"quant_terminal/pkg/resp"
)

// StatusFor сопоставляет доменную ошибку с HTTP статусом
func StatusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidBet),
		errors.Is(err, model.ErrInvalidAmount),
		errors.Is(err, model.ErrInvalidType):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrInsufficientFunds),
		errors.Is(err, model.ErrSpinInProgress),
		errors.Is(err, model.ErrBonusInactive):
		return http.StatusConflict
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAnalysisFailure):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func WriteServiceError(w http.ResponseWriter, err error) {
	resp.WriteError(w, StatusFor(err), err.Error())
}

// WriteBadRequest - ошибка разбора запроса
func WriteBadRequest(w http.ResponseWriter, err error) {
	resp.WriteError(w, http.StatusBadRequest, err.Error())
}
