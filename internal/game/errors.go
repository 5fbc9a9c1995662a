package game

import (
	"errors"
	"fmt"
)

// ValidationError reports an illegal action for the current state: wrong
// turn, amount below minimum, amount beyond what an all-in permits, or an
// action not available on this street. It is always recoverable: the
// game state is unchanged and the same player remains to act.
type ValidationError struct {
	PlayerID string
	Msg      string
}

func (e *ValidationError) Error() string {
	if e.PlayerID == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.PlayerID, e.Msg)
}

// IsValidation reports whether err is a recoverable validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func validationf(playerID, format string, args ...any) error {
	return &ValidationError{PlayerID: playerID, Msg: fmt.Sprintf(format, args...)}
}

// integrityf panics with an integrity-violation message. Duplicate deals,
// malformed evaluator input and negative stacks signal a broken engine
// invariant; the hand must abort rather than silently continue.
func integrityf(format string, args ...any) {
	panic(fmt.Sprintf("integrity violation: "+format, args...))
}
