package quote

import (
	"fmt"

	"aqualink/internal/pkg/errs"
)

// Status is the lifecycle state of a single quote.
type Status int

const (
	Unknown Status = iota
	Pending
	Accepted
	Rejected
	Expired
)

var statusStrings = map[Status]string{
	Unknown:  "UNKNOWN",
	Pending:  "PENDING",
	Accepted: "ACCEPTED",
	Rejected: "REJECTED",
	Expired:  "EXPIRED",
}

func ParseStatus(s string) (Status, error) {
	for status, str := range statusStrings {
		if status != Unknown && str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("quote status", fmt.Errorf("%q is not a valid quote status", s))
}

func (s Status) Validate() error {
	if _, ok := statusStrings[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("quote status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return statusStrings[Unknown]
}

// IsFinal reports whether the quote can no longer change.
func (s Status) IsFinal() bool {
	return s != Pending
}
