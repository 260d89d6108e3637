package dispatch

import "fmt"

// DispatchError is the typed error surface of the engine.
type DispatchError struct {
	Code    string
	Message string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes. Ledger contention is recovered inside the session loop and is
// never surfaced through these.
const (
	CodeInvalidInput = "invalidInput"
	CodeNotFound     = "notFound"
)

// NewInvalidInputError rejects a malformed request before a session starts.
func NewInvalidInputError(msg string) error {
	return &DispatchError{Code: CodeInvalidInput, Message: msg}
}

// NewNotFoundError reports an unknown or already-evicted session.
func NewNotFoundError(sessionID string) error {
	return &DispatchError{Code: CodeNotFound, Message: fmt.Sprintf("dispatch session %s not found", sessionID)}
}
