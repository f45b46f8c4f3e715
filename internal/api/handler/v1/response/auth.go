package response

import (
	"time"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
)

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}

type Message struct {
	Message string `json:"message"`
}
