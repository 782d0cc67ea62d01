// Package payments is the HTTP client for the external payment gateway. Only
// the refund surface is consumed in-process; charges are confirmed by the
// gateway before checkout reaches us.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/foodcourt/internal/orderstate"
)

// Gateway error taxonomy, mapped from the gateway's error codes.
var (
	ErrNotFound              = errors.New("payment not found")
	ErrUnauthorized          = errors.New("not authorized to refund this payment")
	ErrAmountExceedsCapacity = errors.New("refund amount exceeds remaining capacity")
	ErrNotRefundable         = errors.New("payment is not refundable")
)

// Gateway talks to the payment provider's REST API.
type Gateway struct {
	client  *resty.Client
	baseURL string
}

func NewGateway(baseURL, apiKey string) *Gateway {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiKey)
	return &Gateway{client: client, baseURL: baseURL}
}

type refundRequest struct {
	OrderID   string `json:"order_id"`
	IntentRef string `json:"payment_intent_id"`
	Amount    string `json:"amount"`
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
}

type refundResponse struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
	Status string `json:"status"`
	Error  string `json:"error"`
	Code   string `json:"code"`
}

// RefundOrder initiates a refund against the original payment intent.
func (g *Gateway) RefundOrder(ctx context.Context, orderID uuid.UUID, intentRef string,
	amount decimal.Decimal, actorID uuid.UUID, actorRole string) (*orderstate.RefundResult, error) {

	req := refundRequest{
		OrderID:   orderID.String(),
		IntentRef: intentRef,
		Amount:    amount.StringFixed(2),
		ActorID:   actorID.String(),
		ActorRole: actorRole,
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(g.baseURL + "/v1/refunds")
	if err != nil {
		return nil, err
	}

	var body refundResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("invalid response from payment gateway: %w", err)
	}

	if resp.IsError() {
		switch body.Code {
		case "not_found":
			return nil, ErrNotFound
		case "unauthorized":
			return nil, ErrUnauthorized
		case "amount_exceeds_capacity":
			return nil, ErrAmountExceedsCapacity
		case "not_refundable":
			return nil, ErrNotRefundable
		}
		return nil, fmt.Errorf("payment gateway returned status %d: %s", resp.StatusCode(), body.Error)
	}

	refunded, err := decimal.NewFromString(body.Amount)
	if err != nil {
		refunded = amount
	}
	return &orderstate.RefundResult{ID: body.ID, Amount: refunded, Status: body.Status}, nil
}
