// Package kernel provides the value objects shared by every aggregate of the
// marketplace core:
//   - UUID: identifiers for orders, quotes, requests and actors
//   - Area: a serviceable (district, town) pair, comparable and usable as a map key
//   - Address: a delivery destination whose Area drives coverage matching
//   - DomainEvent: facts recorded by aggregates and published after commit
//
// Zero values are invalid; constructors validate their input and embed a
// guard.ConstructorGuard so Validate can tell a built value from a zero one.
package kernel
