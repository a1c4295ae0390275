package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MinReasonLength is the minimum length of a block or delete reason.
const MinReasonLength = 10

func ValidateReason(reason string) error {
	if utf8.RuneCountInString(strings.TrimSpace(reason)) < MinReasonLength {
		return ErrReasonTooShort
	}
	return nil
}

// The transitions below only mutate the in-memory record. Callers persist the
// result with a single write. The admin check always runs first, before the
// reason and state checks.

func (u *User) Approve() error {
	if u.IsAdmin {
		return ErrAdminImmune
	}
	if u.IsDeleted() {
		return ErrApproveDeleted
	}
	if u.IsBlocked || u.Status == StatusBlocked {
		return ErrApproveBlocked
	}
	if u.Status == StatusActive {
		return ErrAlreadyApproved
	}
	u.Status = StatusActive
	u.StatusReason = ""
	return nil
}

func (u *User) Block(reason string, now time.Time) error {
	if u.IsAdmin {
		return ErrAdminImmune
	}
	if err := ValidateReason(reason); err != nil {
		return err
	}
	if u.IsDeleted() {
		return ErrBlockDeleted
	}
	if u.IsBlocked {
		return ErrAlreadyBlocked
	}
	at := now
	u.IsBlocked = true
	u.BlockedAt = &at
	u.BlockedReason = strings.TrimSpace(reason)
	u.Status = StatusBlocked
	return nil
}

func (u *User) Unblock() error {
	if u.IsDeleted() {
		return ErrUnblockDeleted
	}
	if !u.IsBlocked && u.Status != StatusBlocked {
		return ErrNotBlocked
	}
	u.clearBlock()
	u.Status = StatusActive
	u.StatusReason = ""
	return nil
}

func (u *User) SoftDelete(reason string, now time.Time) error {
	if u.IsAdmin {
		return ErrAdminImmune
	}
	if err := ValidateReason(reason); err != nil {
		return err
	}
	if u.IsDeleted() {
		return ErrAlreadyDeleted
	}
	u.DeletedReason = strings.TrimSpace(reason)
	u.DeletedAt.Time = now
	u.DeletedAt.Valid = true
	return nil
}

// Restore puts a deleted account back into the approval queue with any block lifted.
func (u *User) Restore() error {
	if !u.IsDeleted() {
		return ErrNotDeleted
	}
	u.DeletedAt.Valid = false
	u.DeletedAt.Time = time.Time{}
	u.DeletedReason = ""
	u.clearBlock()
	u.Status = StatusPendingApproval
	u.StatusReason = ""
	return nil
}

// CanForceDelete reports whether the account may be erased permanently.
func (u *User) CanForceDelete() error {
	if u.IsAdmin {
		return ErrAdminImmune
	}
	if !u.IsDeleted() {
		return ErrNotDeleted
	}
	return nil
}

func (u *User) clearBlock() {
	u.IsBlocked = false
	u.BlockedAt = nil
	u.BlockedReason = ""
}

// Organizer-side moderation of sub-users. Block and unblock only flip status;
// is_blocked, blocked_at and blocked_reason belong to the admin flow, and an
// admin block can only be lifted by an admin.

func (u *User) TeamBlock(reason string) error {
	if u.IsDeleted() {
		return ErrBlockDeleted
	}
	if u.IsBlocked || u.Status == StatusBlocked {
		return ErrAlreadyBlocked
	}
	u.Status = StatusBlocked
	u.StatusReason = strings.TrimSpace(reason)
	return nil
}

func (u *User) TeamUnblock() error {
	if u.IsDeleted() {
		return ErrUnblockDeleted
	}
	if u.IsBlocked {
		return ErrAdminBlocked
	}
	if u.Status != StatusBlocked {
		return ErrNotBlocked
	}
	u.Status = StatusActive
	u.StatusReason = ""
	return nil
}

// TeamRemove soft-deletes a sub-user. The reason is optional here.
func (u *User) TeamRemove(reason string, now time.Time) error {
	if u.IsDeleted() {
		return ErrAlreadyDeleted
	}
	u.DeletedReason = strings.TrimSpace(reason)
	u.DeletedAt.Time = now
	u.DeletedAt.Valid = true
	return nil
}
