package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/UkralStul/posts-presenter/internal/presenter"
	"github.com/UkralStul/posts-presenter/internal/storage"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// errBadRequest marks request bodies or parameters that could not be parsed.
var errBadRequest = errors.New("bad request")

// writeError maps domain errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, storage.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, storage.ErrCommentsDisabled):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, storage.ErrContentTooLong), errors.Is(err, storage.ErrContentEmpty):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.As(err, &validationErrs):
		status, msg = http.StatusUnprocessableEntity, validationErrs.Error()
	case errors.Is(err, errBadRequest):
		status, msg = http.StatusBadRequest, err.Error()
	default:
		s.Logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, presenter.ErrorView{Error: msg})
}
