package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation  ErrKind = "validation"   // 400
	KindAuth        ErrKind = "auth"         // 401
	KindForbidden   ErrKind = "forbidden"    // 403
	KindNotFound    ErrKind = "not_found"    // 404
	KindConflict    ErrKind = "conflict"     // 409
	KindRateLimited ErrKind = "rate_limited" // 429
	KindInternal    ErrKind = "internal"     // 500, body is always generic
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code (do not change casually)
// - Message: safe summary for clients (avoid leaking sensitive details)
// - Meta: optional details (field, reason, etc.)
// - Cause: wrapped internal error for logging/diagnostics
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Code returns the stable code of a domain error, or "" for anything else.
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrInvalidForm(cause error) *Error {
	return Wrap(KindValidation, "invalid_form", "invalid form body", cause)
}

// ErrFieldsRequired is returned whenever a required input is absent.
// The message is part of the public contract; clients match on it.
func ErrFieldsRequired(field string) *Error {
	return WithMeta(New(KindValidation, "missing_field", "All fields are required"), map[string]string{
		"field": field,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

func ErrInvalidRole(role string) *Error {
	return WithMeta(New(KindValidation, "invalid_role", "invalid role"), map[string]string{
		"role": role,
	})
}

func ErrResumeTooLarge(limit int64) *Error {
	return WithMeta(New(KindValidation, "resume_too_large", "resume exceeds the size limit"), map[string]string{
		"limit_bytes": fmt.Sprintf("%d", limit),
	})
}

// ----------------------
// Auth errors (401)
// ----------------------

// ErrUnknownUser is a login failure for an email with no account.
func ErrUnknownUser() *Error {
	return New(KindAuth, "user_not_found", "User not found")
}

func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "Invalid credentials")
}

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "No token provided")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "Invalid token")
}

func ErrTokenExpired() *Error {
	return New(KindAuth, "token_expired", "Invalid token: expired")
}

// ----------------------
// Forbidden (403)
// ----------------------

func ErrForbidden() *Error {
	return New(KindForbidden, "forbidden", "Access denied")
}

func ErrInsufficientRole(required string) *Error {
	return WithMeta(New(KindForbidden, "insufficient_role", "Access denied"), map[string]string{
		"required": required,
	})
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "User not found")
}

func ErrApplicationNotFound() *Error {
	return New(KindNotFound, "application_not_found", "Application not found")
}

// ----------------------
// Conflict (409)
// ----------------------

func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, "email_already_exists", "User already exists")
}

// ----------------------
// Rate limit (429)
// ----------------------

func ErrRateLimited(scope string) *Error {
	return WithMeta(New(KindRateLimited, "rate_limited", "too many requests"), map[string]string{
		"scope": scope,
	})
}

// ----------------------
// Internal (500)
// ----------------------

// Store failures are internal errors. Their codes only reach the log.

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInternal, "db_unavailable", "database unavailable", cause)
}

func ErrBlobStoreUnavailable(cause error) *Error {
	return Wrap(KindInternal, "blob_store_unavailable", "resume storage unavailable", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "Internal server error", cause)
}
