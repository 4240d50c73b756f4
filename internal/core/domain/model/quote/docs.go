// Package quote holds the delivery bidding ledger: the Request opened for an order
// needing delivery and the Quotes providers submit against it.
//
// A Request is OPEN until its deadline passes (EXPIRED) or a quote is accepted
// (CLOSED). A Quote is PENDING until it is ACCEPTED, REJECTED when a sibling wins,
// or EXPIRED once its validity window has passed. Readers never trust a stored
// PENDING or OPEN status alone: EffectiveStatus and IsOpen compare deadlines with
// the current time, so rows the expiry sweep has not reached yet are still inert.
package quote
