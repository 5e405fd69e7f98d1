package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"tweeteroo/service"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger(r).WithError(err).Warn("encode response")
	}
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

// writeBindError answers a body that could not be read as JSON.
func writeBindError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errMalformedBody):
		writeText(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errBodyTooLarge):
		writeText(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		logger(r).WithError(err).Warn("read request body")
		writeText(w, http.StatusBadRequest, "could not read request body")
	}
}

// writeServiceError maps the service error taxonomy to a response. Storage
// failures are logged under op and answered with publicMsg only.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, op, publicMsg string) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		writeText(w, http.StatusUnauthorized, "unauthorized user")
	case errors.Is(err, service.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	default:
		logger(r).WithField("op", op).WithError(err).Error(publicMsg)
		writeText(w, http.StatusInternalServerError, publicMsg)
	}
}

func logger(r *http.Request) *log.Entry {
	return log.WithField("request_id", RequestIDFromContext(r.Context()))
}
