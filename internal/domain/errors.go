package domain

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	// ErrAdminImmune rejects punitive or approval transitions aimed at an administrator.
	ErrAdminImmune    = errors.New("admin accounts cannot be moderated")
	ErrReasonTooShort = errors.New("reason is too short")
	ErrDuplicate      = errors.New("duplicate record")
)

// ConflictError is a lifecycle transition that is not legal in the account's
// current state. Its message is meant for the caller.
type ConflictError struct {
	msg string
}

func (e *ConflictError) Error() string { return e.msg }

var (
	ErrAlreadyApproved = &ConflictError{msg: "User is already approved."}
	ErrApproveBlocked  = &ConflictError{msg: "Blocked users must be unblocked before approval."}
	ErrApproveDeleted  = &ConflictError{msg: "Deleted users cannot be approved."}
	ErrAlreadyBlocked  = &ConflictError{msg: "User is already blocked."}
	ErrBlockDeleted    = &ConflictError{msg: "Deleted users cannot be blocked."}
	ErrNotBlocked      = &ConflictError{msg: "User is not blocked."}
	ErrAdminBlocked    = &ConflictError{msg: "User was blocked by an administrator."}
	ErrUnblockDeleted  = &ConflictError{msg: "Deleted users cannot be unblocked."}
	ErrAlreadyDeleted  = &ConflictError{msg: "User is already deleted."}
	ErrNotDeleted      = &ConflictError{msg: "User is not deleted."}
)

// ValidationError carries field level messages for input that failed validation
// after binding, e.g. uniqueness or existence checks.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}
