package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidSource        ErrorCode = 102
	ErrCodeInvalidFilterField   ErrorCode = 103
	ErrCodeMissingParameter     ErrorCode = 104

	// Config file errors (200-299)
	ErrCodeConfigNotFound   ErrorCode = 200
	ErrCodeConfigReadFailed ErrorCode = 201

	// Feed errors (700-799)
	ErrCodeFeedParseFailed       ErrorCode = 700
	ErrCodeFeedConnectionFailed  ErrorCode = 701
	ErrCodeFeedConnectionLost    ErrorCode = 702
	ErrCodeFeedDuplicateSymbol   ErrorCode = 703
	ErrCodeReplayFileUnavailable ErrorCode = 704
	ErrCodeIncompatibleRecording ErrorCode = 705
)
