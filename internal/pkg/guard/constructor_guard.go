// Package guard holds the constructor guard shared by domain objects and
// application commands.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as produced by its constructor. Embedding it lets a
// type tell a constructed value from a zero value:
//
//	type SubmitQuoteCommand struct {
//	    fee   decimal.Decimal
//	    guard guard.ConstructorGuard
//	}
//
//	func (c SubmitQuoteCommand) Validate() error {
//	    return c.guard.Validate(ErrSubmitQuoteCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guarded value was not built by its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
