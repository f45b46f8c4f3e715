package service

import (
	"errors"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/portalapi"
)

const genericFailure = "Не удалось выполнить действие. Попробуйте ещё раз."

type ToastPublisher interface {
	Publish(sessionID string, t domain.Toast)
}

// failureMessage is what the user is told about a failed change: the
// backend's own message for a rejected request, a generic line otherwise.
func failureMessage(err error) string {
	var apiErr *portalapi.APIError
	if errors.As(err, &apiErr) && apiErr.Status < 500 && apiErr.Message != "" {
		return apiErr.Message
	}

	return genericFailure
}

// upstreamFailure reports whether err came from the backend: it was either
// unreachable or answered with an error status.
func upstreamFailure(err error) bool {
	var apiErr *portalapi.APIError

	return errors.Is(err, portalapi.ErrTransport) || errors.As(err, &apiErr)
}

// reportFailure publishes an error toast to p's session when err is a backend
// failure, and returns err unchanged. Anonymous principals have no stream.
func reportFailure(toasts ToastPublisher, p domain.Principal, err error) error {
	if toasts == nil || err == nil || !upstreamFailure(err) {
		return err
	}
	if session, ok := p.Session(); ok {
		toasts.Publish(session.ID.String(), domain.NewToast(domain.ToastError, failureMessage(err)))
	}

	return err
}
