// Package workflow holds the vendor status state machine and the role model
// shared by the vendor and admin views.
package workflow

import (
	"errors"
	"fmt"
	"strings"
)

type Status string

const (
	StatusDraft        Status = "draft"
	StatusSubmitted    Status = "submitted"
	StatusApproved     Status = "approved"
	StatusRejected     Status = "rejected"
	StatusNeedsChanges Status = "needs_changes"
)

var (
	ErrLegalNameRequired = errors.New("legal name is required to submit")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrNotAdmin          = errors.New("access denied: you are not an admin")
)

var reviewOutcomes = []Status{StatusApproved, StatusNeedsChanges, StatusRejected}

// ReviewOutcomes returns the statuses an admin can assign, in action order.
func ReviewOutcomes() []Status {
	out := make([]Status, len(reviewOutcomes))
	copy(out, reviewOutcomes)
	return out
}

// Parse returns the status named by raw, or false when raw is not one of the
// five known values. Case and surrounding space are ignored.
func Parse(raw string) (Status, bool) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected, StatusNeedsChanges:
		return s, true
	default:
		return "", false
	}
}

// Normalize maps a stored status to its display status. Absent and unknown
// values display as draft; the stored value is never rewritten.
func Normalize(raw string) Status {
	if s, ok := Parse(raw); ok {
		return s
	}
	return StatusDraft
}

// IsReviewOutcome reports whether s is one of the admin decisions.
func (s Status) IsReviewOutcome() bool {
	for _, o := range reviewOutcomes {
		if s == o {
			return true
		}
	}
	return false
}

// CanSubmit is the submit guard: the legal name must be non-empty after trimming.
func CanSubmit(legalName string) bool {
	return strings.TrimSpace(legalName) != ""
}

// ValidateVendorTransition checks a vendor save. Vendors may only write draft
// or submitted, and submitted requires a legal name. The prior status is not
// consulted: a save always rewrites the status.
func ValidateVendorTransition(target Status, legalName string) error {
	switch target {
	case StatusDraft:
		return nil
	case StatusSubmitted:
		if !CanSubmit(legalName) {
			return ErrLegalNameRequired
		}
		return nil
	default:
		return fmt.Errorf("%w: vendors cannot set %q", ErrInvalidStatus, target)
	}
}

// ValidateReviewTransition checks an admin decision. The caller must be an
// admin and the target one of the review outcomes.
func ValidateReviewTransition(role Role, target Status) error {
	if err := Authorize(role, RoleAdmin); err != nil {
		return err
	}
	if !target.IsReviewOutcome() {
		return fmt.Errorf("%w: %q is not a review outcome", ErrInvalidStatus, target)
	}
	return nil
}
