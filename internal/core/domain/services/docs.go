// Package services provides domain services that span more than one aggregate.
//
// The package includes:
//   - QuoteMatcher: decides which open quote requests a provider is shown
//   - QuoteAcceptor: settles a request's bidding in favour of one quote and
//     advances the order
//
// Both services are pure: they mutate the aggregates handed to them and leave
// loading, locking and persisting to the application layer.
package services
