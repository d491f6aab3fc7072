package flightapi

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/andeanfly/flightdesk/client"
	"github.com/andeanfly/flightdesk/domain"
)

// PaymentAttempt is one logical attempt to pay. Its idempotency key is
// generated when the user initiates the attempt and reused on network
// retries of the same attempt, so the backend can deduplicate. A genuine
// user retry gets a fresh attempt and a fresh key.
type PaymentAttempt struct {
	key string
}

// NewPaymentAttempt mints an attempt with a fresh idempotency key.
func NewPaymentAttempt() PaymentAttempt {
	return PaymentAttempt{key: uuid.NewString()}
}

// Key exposes the attempt's idempotency key.
func (p PaymentAttempt) Key() string {
	return p.key
}

// InitiatePaymentRequest starts a payment for a booking.
type InitiatePaymentRequest struct {
	BookingID string               `json:"bookingId"`
	Amount    float64              `json:"amount"`
	Currency  string               `json:"currency"`
	Method    domain.PaymentMethod `json:"method"`
	ReturnURL string               `json:"returnUrl,omitempty"`
	CancelURL string               `json:"cancelUrl,omitempty"`
}

// InitiatePayment starts a payment. The caller's user ID travels on
// X-User-Id and the attempt's idempotency key on Idempotency-Key.
func (a *API) InitiatePayment(ctx context.Context, req InitiatePaymentRequest, userID string, attempt PaymentAttempt) (*domain.Payment, error) {
	var out domain.Payment
	err := a.c.Post(ctx, "/api/payments", req, &out,
		client.WithUserID(userID),
		client.WithIdempotencyKey(attempt.Key()),
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CapturePayment captures an approved PayPal order.
func (a *API) CapturePayment(ctx context.Context, paypalOrderID string) (*domain.Payment, error) {
	var out domain.Payment
	if err := a.c.Post(ctx, "/api/payments/capture/"+paypalOrderID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Payment fetches a payment by ID.
func (a *API) Payment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	var out domain.Payment
	if err := a.c.Get(ctx, "/api/payments/"+paymentID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PaymentByBooking fetches the payment attached to a booking.
func (a *API) PaymentByBooking(ctx context.Context, bookingID string) (*domain.Payment, error) {
	var out domain.Payment
	if err := a.c.Get(ctx, "/api/payments/booking/"+bookingID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserPayments lists a user's payments, paginated.
func (a *API) UserPayments(ctx context.Context, userID string, page, size int) (*Page[domain.Payment], error) {
	var out Page[domain.Payment]
	if err := a.c.Get(ctx, "/api/payments/user/"+userID, &out, client.WithQuery(pageQuery(page, size))); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelPayment cancels a pending payment.
func (a *API) CancelPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	var out domain.Payment
	if err := a.c.Put(ctx, "/api/payments/"+paymentID+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefundPayment requests a refund with a reason.
func (a *API) RefundPayment(ctx context.Context, paymentID, reason string) (*domain.Payment, error) {
	q := url.Values{"reason": []string{reason}}
	var out domain.Payment
	if err := a.c.Post(ctx, "/api/payments/"+paymentID+"/refund", nil, &out, client.WithQuery(q)); err != nil {
		return nil, err
	}
	return &out, nil
}
