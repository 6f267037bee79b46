package apperrors

// ErrorCode identifies a failure class across both of the daemon's surfaces
// (D-Bus faults and web-remote responses).
type ErrorCode string

const (
	ErrorCodeInternalError        ErrorCode = "INTERNAL_ERROR"
	ErrorCodeValidationError      ErrorCode = "VALIDATION_ERROR"
	ErrorCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrorCodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	ErrorCodePropertyNotFound     ErrorCode = "PROPERTY_NOT_FOUND"
	ErrorCodeUnsupportedInterface ErrorCode = "UNSUPPORTED_INTERFACE"
	ErrorCodeReadOnlyProperty     ErrorCode = "READ_ONLY_PROPERTY"
	ErrorCodePairingCodeInvalid   ErrorCode = "PAIRING_CODE_INVALID"
	ErrorCodeAuthTokenExpired     ErrorCode = "AUTH_TOKEN_EXPIRED"
	ErrorCodeAuthTokenInvalid     ErrorCode = "AUTH_TOKEN_INVALID"
)

// Standard D-Bus error names for the property taxonomy. Codes without a
// mapping fall back to the generic Failed name.
const (
	dbusErrUnknownProperty  = "org.freedesktop.DBus.Error.UnknownProperty"
	dbusErrUnknownInterface = "org.freedesktop.DBus.Error.UnknownInterface"
	dbusErrPropertyReadOnly = "org.freedesktop.DBus.Error.PropertyReadOnly"
	dbusErrInvalidArgs      = "org.freedesktop.DBus.Error.InvalidArgs"
	dbusErrFailed           = "org.freedesktop.DBus.Error.Failed"
)

// ErrorBody is the serialized error payload for the web remote.
type ErrorBody struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// AppError is the base error type for both surfaces. StatusCode drives the
// HTTP reply; BusName drives the D-Bus fault name.
type AppError struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    map[string]any
}

func (err *AppError) Error() string {
	return err.Message
}

// BusName returns the D-Bus error name for this error.
func (err *AppError) BusName() string {
	switch err.Code {
	case ErrorCodePropertyNotFound:
		return dbusErrUnknownProperty
	case ErrorCodeUnsupportedInterface:
		return dbusErrUnknownInterface
	case ErrorCodeReadOnlyProperty:
		return dbusErrPropertyReadOnly
	case ErrorCodeValidationError:
		return dbusErrInvalidArgs
	default:
		return dbusErrFailed
	}
}

func (err *AppError) ErrorBody() ErrorBody {
	body := ErrorBody{
		Code:    err.Code,
		Message: err.Message,
	}
	if err.Details != nil {
		body.Details = err.Details
	}
	return body
}

func NewAppError(code ErrorCode, message string, statusCode int, details map[string]any) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// NewPropertyNotFound reports an unknown property name on a known interface.
func NewPropertyNotFound(property string) *AppError {
	return NewAppError(ErrorCodePropertyNotFound, "Property "+property+" was not found.", 404,
		map[string]any{"property": property})
}

// NewUnsupportedInterface reports an interface name outside the implemented set.
func NewUnsupportedInterface(iface string) *AppError {
	return NewAppError(ErrorCodeUnsupportedInterface, "This object does not implement the "+iface+" interface.", 404,
		map[string]any{"interface": iface})
}

// NewReadOnlyProperty reports a write to a non-writable property.
func NewReadOnlyProperty(property string) *AppError {
	return NewAppError(ErrorCodeReadOnlyProperty, "Property "+property+" is not writable.", 403,
		map[string]any{"property": property})
}

func NewValidationError(message string, details map[string]any) *AppError {
	return NewAppError(ErrorCodeValidationError, message, 400, details)
}

func NewUnauthorizedError(message string, code ...ErrorCode) *AppError {
	errCode := ErrorCodeUnauthorized
	if len(code) > 0 {
		errCode = code[0]
	}
	return NewAppError(errCode, message, 401, nil)
}

func NewNotFoundError(message string, details map[string]any) *AppError {
	return NewAppError(ErrorCodeNotFound, message, 404, details)
}

func NewInternalError(message string) *AppError {
	return NewAppError(ErrorCodeInternalError, message, 500, nil)
}

// EnsureAppError converts an arbitrary error into an AppError.
func EnsureAppError(err error) *AppError {
	if err == nil {
		return NewInternalError("Unknown error")
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError("Internal server error")
}
