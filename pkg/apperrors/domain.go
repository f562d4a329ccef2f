package apperrors

import (
	"net/http"
)

// =========================================================================
// Factories for wrapping lower-level errors (repositories, storage)
// =========================================================================

// ErrNotFound wraps a "record not found" style error as a 404.
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrAlreadyExists wraps a uniqueness violation as a 409.
func ErrAlreadyExists(err error, domain, message string) *AppError {
	return Wrap(err, CodeAlreadyExists, domain, message, http.StatusConflict)
}

// ErrConflict is the generic 409 factory.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidRequest reports a malformed or self-referencing request (400).
func ErrInvalidRequest(domain, message string) *AppError {
	return New(CodeInvalidRequest, domain, message, http.StatusBadRequest)
}

// ErrInvalidOperation is a 400 for operations the current state does not allow.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Predefined errors
// =========================================================================

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email or username already in use",
	http.StatusConflict,
)

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusForbidden,
)

// --- Uploads ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Chat ---

var ErrChatAccessDenied = New(
	CodeForbidden,
	"chat",
	"You are not a participant of this chat",
	http.StatusForbidden,
)

// --- Likes ---

var ErrSelfLike = New(
	CodeInvalidRequest,
	"like",
	"You cannot like yourself",
	http.StatusBadRequest,
)

// --- Reviews ---

var ErrReviewAlreadySubmitted = New(
	CodeAlreadyExists,
	"review",
	"You have already reviewed this collaboration",
	http.StatusConflict,
)

var ErrReviewNotAllowed = New(
	CodeInvalidOperation,
	"review",
	"A review requires at least one exchanged message",
	http.StatusBadRequest,
)

// --- Jobs ---

var ErrAlreadyApplied = New(
	CodeAlreadyExists,
	"job",
	"You have already applied to this job",
	http.StatusConflict,
)
