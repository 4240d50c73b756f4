package quote

import (
	"fmt"

	"aqualink/internal/pkg/errs"
)

// RequestStatus is the lifecycle state of a quote request.
type RequestStatus int

const (
	RequestUnknown RequestStatus = iota
	RequestOpen
	RequestClosed
	RequestExpired
)

var requestStatusStrings = map[RequestStatus]string{
	RequestUnknown: "UNKNOWN",
	RequestOpen:    "OPEN",
	RequestClosed:  "CLOSED",
	RequestExpired: "EXPIRED",
}

func ParseRequestStatus(s string) (RequestStatus, error) {
	for status, str := range requestStatusStrings {
		if status != RequestUnknown && str == s {
			return status, nil
		}
	}
	return RequestUnknown, errs.NewValueIsInvalidErrorWithCause(
		"request status", fmt.Errorf("%q is not a valid request status", s))
}

func (s RequestStatus) Validate() error {
	if _, ok := requestStatusStrings[s]; !ok || s == RequestUnknown {
		return errs.NewValueIsInvalidErrorWithCause("request status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s RequestStatus) String() string {
	if str, ok := requestStatusStrings[s]; ok {
		return str
	}
	return requestStatusStrings[RequestUnknown]
}
