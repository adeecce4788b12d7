package export

import "fmt"

// WalkErrorCode categorizes fatal conversion errors.
type WalkErrorCode string

const (
	// ErrCodeReadDir indicates an unreadable export or component directory.
	ErrCodeReadDir WalkErrorCode = "READ_DIR"

	// ErrCodeOpenFile indicates an unreadable document or summary stream.
	ErrCodeOpenFile WalkErrorCode = "OPEN_FILE"

	// ErrCodeReadStream indicates an I/O failure mid-stream.
	ErrCodeReadStream WalkErrorCode = "READ_STREAM"

	// ErrCodeWriteOutput indicates a failure writing a rendered artifact.
	ErrCodeWriteOutput WalkErrorCode = "WRITE_OUTPUT"
)

// WalkError is a fatal error during export conversion. It carries the table
// name so failures are attributable; output already written for prior tables
// is unaffected.
type WalkError struct {
	Code  WalkErrorCode
	Table string
	Path  string
	Err   error
}

// Error implements the error interface.
func (e *WalkError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s: table %s: %s: %v", e.Code, e.Table, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *WalkError) Unwrap() error {
	return e.Err
}
