package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// SandboxGateway approves every charge without contacting a provider.
// It exists for local development and demos, selected with
// PAYMENT_PROVIDER=sandbox. Attendee IDs containing "decline" are
// refused so failure paths can be exercised end to end.
type SandboxGateway struct{}

// NewSandboxGateway returns a gateway that settles charges locally.
func NewSandboxGateway() *SandboxGateway { return &SandboxGateway{} }

// Charge approves or declines immediately.
func (g *SandboxGateway) Charge(_ context.Context, req ChargeRequest) (model.PaymentResult, error) {
	if strings.Contains(req.AttendeeID, "decline") {
		return model.PaymentResult{
			ReferenceID: "sandbox-" + uuid.New().String(),
			Status:      model.PaymentFailed,
			AmountCents: req.AmountCents,
			Reason:      "card declined",
		}, nil
	}
	return model.PaymentResult{
		ReferenceID: "sandbox-" + uuid.New().String(),
		Status:      model.PaymentCompleted,
		AmountCents: req.AmountCents,
	}, nil
}
