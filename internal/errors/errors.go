package errors

import "fmt"

// ErrorCode represents a mog session error code.
type ErrorCode string

const (
	ErrEngine        ErrorCode = "ENGINE"         // external engine invocation failed
	ErrNoResults     ErrorCode = "NO_RESULTS"     // operation needs a prior search/selection
	ErrEmptyDownload ErrorCode = "EMPTY_DOWNLOAD" // materialization produced no message
	ErrEditorAbort   ErrorCode = "EDITOR_ABORT"   // editor exited leaving no usable content
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"  // malformed command arguments
)

// SessionError is a structured error reported at the prompt. All session
// errors are recoverable: the dispatcher prints them and returns to the
// prompt, never terminating the session.
type SessionError struct {
	Code    ErrorCode
	Op      string // engine operation or command that failed, if any
	Message string
	Err     error // underlying error, if any
}

// Error implements the error interface.
func (e *SessionError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *SessionError) Unwrap() error {
	return e.Err
}

// NewEngine creates an error for a failed or malformed engine invocation.
func NewEngine(op string, err error) *SessionError {
	msg := "engine returned no usable output"
	if err != nil {
		msg = err.Error()
	}
	return &SessionError{
		Code:    ErrEngine,
		Op:      op,
		Message: msg,
		Err:     err,
	}
}

// NewNoResults creates an error for operations invoked without an
// established search.
func NewNoResults() *SessionError {
	return &SessionError{
		Code:    ErrNoResults,
		Message: "no active results; run a search first",
	}
}

// NewEmptyDownload creates an error for a materialization that produced
// no message payload.
func NewEmptyDownload() *SessionError {
	return &SessionError{
		Code:    ErrEmptyDownload,
		Message: "download contained no messages",
	}
}

// NewEditorAbort creates a notice-level error for an editor hand-off that
// left no usable content. The previous message.txt is kept unchanged.
func NewEditorAbort() *SessionError {
	return &SessionError{
		Code:    ErrEditorAbort,
		Message: "editor left no content above the cut line; message unchanged",
	}
}

// NewInvalidInput creates an error for malformed command arguments.
func NewInvalidInput(msg string) *SessionError {
	return &SessionError{
		Code:    ErrInvalidInput,
		Message: msg,
	}
}

// Is checks if an error is a SessionError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*SessionError); ok {
		return sErr.Code == code
	}
	return false
}
