package domain

import "time"

// PaymentStatus defines the possible states of a payment.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentCompleted  PaymentStatus = "COMPLETED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentCancelled  PaymentStatus = "CANCELLED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

// PaymentMethod defines the payment methods the storefront offers.
type PaymentMethod string

const (
	PaymentMethodPayPal     PaymentMethod = "PAYPAL"
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
)

// Payment is the payment record as served by the payments service.
// ApprovalURL is present while a PayPal order awaits user approval.
type Payment struct {
	ID            string        `json:"id"`
	BookingID     string        `json:"bookingId"`
	UserID        string        `json:"userId,omitempty"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Method        PaymentMethod `json:"method"`
	Status        PaymentStatus `json:"status"`
	ApprovalURL   string        `json:"approvalUrl,omitempty"`
	PaypalOrderID string        `json:"paypalOrderId,omitempty"`
	CreatedAt     time.Time     `json:"createdAt,omitempty"`
}
