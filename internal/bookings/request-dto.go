package bookings

// ConfirmRequest carries the payment outcome for a confirm call. Validation
// happens in the service so a missing body gets the same message as a bad
// status.
type ConfirmRequest struct {
	PaymentStatus string `json:"payment_status"`
}
