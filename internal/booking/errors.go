package booking

import "fmt"

// ValidationError reports the first schema or completeness violation found
// in a booking submission. Field is empty for form-level violations such as
// a missing pre-auth document.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SubmissionError wraps a rejected create/update call. The draft and all
// staged documents are preserved so the user can retry without re-uploading.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("booking submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
