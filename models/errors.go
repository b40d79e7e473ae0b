package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeTimeout      = "EXTRACT_TIMEOUT"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeInterstitial = "INTERSTITIAL_DETECTED"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// Diagnostics carries best-effort artifact paths captured before an
	// unrecoverable navigation failure was propagated.
	Diagnostics *DiagnosticArtifacts `json:"diagnostics,omitempty"`
}

// DiagnosticArtifacts are the files captured when a run fails on an
// interstitial or navigation error: a full-page screenshot and the
// serialized HTML at the moment of failure. Capture is best-effort; either
// path may be empty.
type DiagnosticArtifacts struct {
	ScreenshotPath string `json:"screenshot_path,omitempty"`
	HTMLPath       string `json:"html_path,omitempty"`
}

// ExtractError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ExtractError struct {
	Code        string
	Message     string
	Err         error // wrapped original error
	Diagnostics *DiagnosticArtifacts
}

func (e *ExtractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// NewExtractError creates a new ExtractError.
func NewExtractError(code, message string, err error) *ExtractError {
	return &ExtractError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ExtractError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message, Diagnostics: e.Diagnostics}
}
