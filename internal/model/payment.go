package model

// PaymentStatus mirrors the status reported by the external payment
// gateway.  The engine only ever acts on completed; every other value
// is treated as failure.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

// Valid reports whether s is one of the statuses the gateway may
// report.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentProcessing, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// PaymentResult is the gateway's answer to a charge attempt.  The
// ReferenceID identifies the charge on the gateway's side and is
// stored for audit; Reason carries the gateway's failure message when
// it is safe to show to the attendee.
type PaymentResult struct {
	ReferenceID string        `json:"reference_id"`
	Status      PaymentStatus `json:"status"`
	AmountCents int64         `json:"amount_cents"`
	Reason      string        `json:"reason,omitempty"`
}

// Completed reports whether the charge went through.
func (r PaymentResult) Completed() bool {
	return r.Status == PaymentCompleted
}
