package connection

import (
	"errors"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type NoPayload bool

type Message[T any] struct {
	Code    uint8    `json:"code"`
	Payload T        `json:"payload,omitempty"`
	Error   *RespErr `json:"error,omitempty"`
}

func NewMessage[T any](code uint8) Message[T] {
	return Message[T]{Code: code}
}

func (m *Message[T]) AddPayload(payload T) {
	m.Payload = payload
}

func (m *Message[T]) AddError(errorDetails, message string) {
	m.Error = NewRespErr(errorDetails, message)
}

// AddErrorFrom fills the error with err's text and a message
// the client can show as is.
func (m *Message[T]) AddErrorFrom(err error) {
	switch {
	case errors.Is(err, cerr.ErrAttackRejected):
		m.AddError(err.Error(), "attack rejected; pick another cell")
	default:
		var placementErr *cerr.PlacementError
		if errors.As(err, &placementErr) {
			m.AddError(err.Error(), "invalid fleet placement")
			return
		}
		m.AddError(err.Error(), "request failed")
	}
}
