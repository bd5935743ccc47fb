package intake

import (
	"fmt"

	"github.com/google/uuid"
)

// Code classifies a failed submission.
type Code string

const (
	// CodeStoreUnavailable means no unit of work could be opened. Retrying the whole submission is safe.
	CodeStoreUnavailable Code = "store_unavailable"
	// CodeIdentityLookupFailed means the existing lead for the email could not be read.
	CodeIdentityLookupFailed Code = "identity_lookup_failed"
	// CodeLeadWriteFailed means the lead row could not be written or committed.
	CodeLeadWriteFailed Code = "lead_write_failed"
	// CodeInterestReplaceFailed means the lead is stored but its service interests are not.
	CodeInterestReplaceFailed Code = "interest_replace_failed"
)

// SubmitError is the structured failure of a submission.
type SubmitError struct {
	Code Code
	// LeadID is set only when the lead itself was stored.
	LeadID    *uuid.UUID
	Retryable bool
	Err       error
}

func (e *SubmitError) Error() string {
	if e.LeadID != nil {
		return fmt.Sprintf("%s (lead %s): %v", e.Code, e.LeadID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

func newSubmitError(code Code, err error) *SubmitError {
	return &SubmitError{Code: code, Retryable: code != CodeInterestReplaceFailed, Err: err}
}
