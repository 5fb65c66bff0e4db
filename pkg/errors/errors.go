package errors

import (
	"errors"
	"fmt"
)

// ErrorCode names an error condition. Codes are stable; messages are not.
type ErrorCode string

const (
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Session
	ErrNoOperatingDir      ErrorCode = "NO_OPERATING_DIR"
	ErrUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM"
	ErrInvalidCommand      ErrorCode = "INVALID_COMMAND"

	// Tool settings
	ErrSettingsLoad  ErrorCode = "SETTINGS_LOAD"
	ErrSettingsValid ErrorCode = "SETTINGS_INVALID"

	// folders.txt
	ErrConfigMissing  ErrorCode = "CONFIG_MISSING"
	ErrConfigLoad     ErrorCode = "CONFIG_LOAD"
	ErrConfigEncoding ErrorCode = "CONFIG_ENCODING"
	ErrConfigParse    ErrorCode = "CONFIG_PARSE"
	ErrConfigEmpty    ErrorCode = "CONFIG_EMPTY"
	ErrConfigWrite    ErrorCode = "CONFIG_WRITE"

	// Per-folder conditions
	ErrFolderMissing  ErrorCode = "FOLDER_MISSING"
	ErrIconResolution ErrorCode = "ICON_RESOLUTION"
	ErrMarkerWrite    ErrorCode = "MARKER_WRITE"
	ErrAttributeOp    ErrorCode = "ATTRIBUTE_OP"

	// Cache refresh
	ErrCacheTier     ErrorCode = "CACHE_TIER"
	ErrShellRecovery ErrorCode = "SHELL_RECOVERY"

	// Filesystem
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileRemove ErrorCode = "FILE_REMOVE"
	ErrBackup     ErrorCode = "BACKUP"
)

// IconfolioError is a coded error. Tests and callers branch on Code; the
// message is for people. Details carry the folder, path or code page the
// error is about.
type IconfolioError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *IconfolioError) Error() string {
	msg := "[" + string(e.Code) + "] " + e.Message
	if e.Wrapped == nil {
		return msg
	}
	return msg + ": " + e.Wrapped.Error()
}

func (e *IconfolioError) Unwrap() error { return e.Wrapped }

// Is matches any IconfolioError with the same code
func (e *IconfolioError) Is(target error) bool {
	t, ok := target.(*IconfolioError)
	return ok && t.Code == e.Code
}

// WithDetail records key=value on the error and returns it for chaining
func (e *IconfolioError) WithDetail(key string, value interface{}) *IconfolioError {
	if e.Details == nil {
		e.Details = map[string]interface{}{}
	}
	e.Details[key] = value
	return e
}

func build(code ErrorCode, message string, wrapped error) *IconfolioError {
	return &IconfolioError{
		Code:    code,
		Message: message,
		Details: map[string]interface{}{},
		Wrapped: wrapped,
	}
}

func New(code ErrorCode, message string) *IconfolioError {
	return build(code, message, nil)
}

func Newf(code ErrorCode, format string, args ...interface{}) *IconfolioError {
	return build(code, fmt.Sprintf(format, args...), nil)
}

// Wrap attaches a code and message to err. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) *IconfolioError {
	if err == nil {
		return nil
	}
	return build(code, message, err)
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *IconfolioError {
	if err == nil {
		return nil
	}
	return build(code, fmt.Sprintf(format, args...), err)
}

// find returns the outermost IconfolioError in err's chain
func find(err error) *IconfolioError {
	var e *IconfolioError
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsErrorCode reports whether the outermost coded error in err's chain
// carries code
func IsErrorCode(err error, code ErrorCode) bool {
	e := find(err)
	return e != nil && e.Code == code
}

// GetErrorCode returns the outermost code, ErrUnknown for uncoded errors
func GetErrorCode(err error) ErrorCode {
	if e := find(err); e != nil {
		return e.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the outermost coded error's details, if any
func GetErrorDetails(err error) map[string]interface{} {
	if e := find(err); e != nil {
		return e.Details
	}
	return nil
}

// IsConfigError reports whether err is one of the folders.txt conditions.
// These skip the dependent operation but never end the session.
func IsConfigError(err error) bool {
	switch GetErrorCode(err) {
	case ErrConfigMissing, ErrConfigLoad, ErrConfigEncoding, ErrConfigParse, ErrConfigEmpty, ErrConfigWrite:
		return true
	}
	return false
}
