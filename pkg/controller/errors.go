package controller

import (
	"context"
	"net/http"

	"briefing/pkg/logger"
	"briefing/pkg/serrors"

	"go.uber.org/zap"
)

// StatusFor maps a semantic error kind to the HTTP status reported to clients.
func StatusFor(err error) int {
	switch serrors.KindOf(err) {
	case nil:
		if err == nil {
			return http.StatusOK
		}

		return http.StatusInternalServerError
	case serrors.ErrValidation:
		return http.StatusBadRequest
	case serrors.ErrIndex:
		return http.StatusNotFound
	case serrors.ErrCorruptStore:
		return http.StatusConflict
	case serrors.ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError logs err and writes a plain-text error response with the status
// chosen by StatusFor.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))
	} else {
		logger.Warn(ctx, "request rejected", zap.Error(err))
	}

	http.Error(w, err.Error(), status)
}
