package models

// UserState is the last known state of one user, aggregated from a dataset.
type UserState struct {
	// UserID is the user's unique identifier.
	UserID string

	// Balance is the balance on the user's latest record.
	Balance float64

	// Interactions is the number of transaction records the user has so far.
	// Registrations do not count.
	Interactions int

	// Country is the user's country.
	Country string

	// Device is the user's device.
	Device string
}
