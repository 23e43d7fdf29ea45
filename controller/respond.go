package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"twitter-api/apperror"
	"twitter-api/model"
)

func respond(w http.ResponseWriter, status int, env model.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// respondError renders an *apperror.AppError with its own message and
// status. Any other error becomes a 500 with fallback as the message and the
// error text as details.
func (c *Controller) respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if appErr, ok := apperror.FromError(err); ok {
		status := appErr.StatusCode()
		respond(w, status, model.Failure(appErr.Message, status, appErr.DetailText()))
		return
	}

	c.log.ErrorContext(r.Context(), fallback, slog.String("path", r.URL.Path), slog.Any("error", err))
	respond(w, http.StatusInternalServerError, model.Failure(fallback, http.StatusInternalServerError, err.Error()))
}

// decode reads the JSON body into dst. An empty body leaves dst untouched.
func decode(r *http.Request, dst any) error {
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("decode request body: %w", err)
}
