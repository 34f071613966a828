package types

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrPolicyNotFound = errors.New("policy not found")
	ErrNotFound       = errors.New("not found")

	// ErrInvalidDateRange is returned when a purchase start date does not
	// strictly precede its end date.
	ErrInvalidDateRange = errors.New("end date must be after start date")

	// ErrInvalidFrequency rejects payment frequencies outside the closed
	// Monthly/Quarterly/Half-Yearly/Yearly set.
	ErrInvalidFrequency = errors.New("unrecognized payment frequency")

	// ErrOwnershipViolation is returned when a ledger entry is referenced by
	// a user who does not own it.
	ErrOwnershipViolation = errors.New("access denied to this policy")

	ErrUnsupportedDocumentType = errors.New("only image, PDF and document files are allowed")
	ErrDocumentTooLarge        = errors.New("document exceeds the maximum allowed size")

	// ErrDuplicateIdentifier surfaces a generated-number uniqueness collision
	// that persisted through retries.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	// ErrPartialWriteFailure is returned when a multi-statement write could
	// not complete; the transaction has been rolled back.
	ErrPartialWriteFailure = errors.New("partial write failure, rolled back")

	// ErrInvalidTransition rejects a lifecycle status change not permitted
	// from the current state.
	ErrInvalidTransition = errors.New("invalid status transition")
)
