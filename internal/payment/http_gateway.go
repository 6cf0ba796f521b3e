package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// HTTPGateway charges through a remote payment provider over HTTPS.
// The provider exposes a single POST /charge endpoint that answers
// with the charge status and its own reference ID.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPGateway builds a gateway client. timeout bounds the whole
// round trip; when it fires the charge outcome is unknown and the
// caller keeps the registration pending.
func NewHTTPGateway(baseURL, apiKey string, timeout time.Duration) *HTTPGateway {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Charge submits the charge and decodes the provider's verdict.
func (g *HTTPGateway) Charge(ctx context.Context, req ChargeRequest) (model.PaymentResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return model.PaymentResult{}, fmt.Errorf("encode charge request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/charge", bytes.NewReader(body))
	if err != nil {
		return model.PaymentResult{}, fmt.Errorf("build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return model.PaymentResult{}, fmt.Errorf("charge request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		// Outcome unknown; surface as an error so the registration
		// stays pending and the attendee can retry.
		return model.PaymentResult{}, fmt.Errorf("gateway returned %d", resp.StatusCode)
	}

	var result model.PaymentResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return model.PaymentResult{}, fmt.Errorf("decode charge response: %w", err)
	}
	if !result.Status.Valid() {
		return model.PaymentResult{}, fmt.Errorf("gateway returned unknown status %q", result.Status)
	}
	return result, nil
}
