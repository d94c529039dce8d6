package model

import "time"

type PaymentStatus string

const (
	PaymentStatusCreated PaymentStatus = "CREATED"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

type Payment struct {
	Id                int64         `json:"id"`
	BookingId         int64         `json:"bookingId"`
	RazorpayOrderId   string        `json:"razorpayOrderId"`
	RazorpayPaymentId string        `json:"razorpayPaymentId,omitempty"`
	RazorpaySignature string        `json:"razorpaySignature,omitempty"`
	Amount            float64       `json:"amount"`
	Status            PaymentStatus `json:"status"`
	CreatedAt         LocalTime     `json:"createdAt"`
}

// PaymentUpdate is the body of update-status; the API looks the payment up by order id.
type PaymentUpdate struct {
	RazorpayOrderId   string        `json:"razorpayOrderId"`
	RazorpayPaymentId string        `json:"razorpayPaymentId,omitempty"`
	RazorpaySignature string        `json:"razorpaySignature,omitempty"`
	Status            PaymentStatus `json:"status"`
}

// PaymentResult is what the checkout page reports back once the shopper finishes.
type PaymentResult struct {
	OrderId    string
	PaymentId  string
	Signature  string
	Status     PaymentStatus
	ReceivedAt time.Time
}
