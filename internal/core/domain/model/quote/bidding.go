package quote

import (
	"errors"
	"time"
)

// CloseBidding closes req and settles every still-PENDING quote of it: each becomes
// REJECTED, or EXPIRED when already past its validity. Quotes in a final status are
// left alone. It is used both after an acceptance and when the order leaves
// DELIVERY_PENDING by other means.
func CloseBidding(req *Request, quotes []*Quote, now time.Time) error {
	if err := req.Close(); err != nil {
		return err
	}

	var errList []error
	for _, q := range quotes {
		if q.status != Pending {
			continue
		}
		errList = append(errList, q.Reject(now))
	}
	return errors.Join(errList...)
}
