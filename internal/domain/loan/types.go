package loan

import "errors"

var (
	ErrDueDateNotAfterBorrow = errors.New("due date must be after borrow time")
	ErrDueDateInPast         = errors.New("due date must be in the future")
	ErrAlreadyReturned       = errors.New("loan already returned")
	ErrNegativeFine          = errors.New("fine cannot be negative")
)
