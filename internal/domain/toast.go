package domain

import "time"

type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastWarning ToastType = "warning"
)

// Toast is a transient notification pushed to one session.
type Toast struct {
	Type      ToastType `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func NewToast(t ToastType, message string) Toast {
	return Toast{Type: t, Message: message, CreatedAt: time.Now()}
}
