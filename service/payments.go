package service

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"sportzone-cli/model"
)

// CreateOrder opens a payment order for a pending booking. The API takes the
// booking and amount as query parameters.
func (c *Client) CreateOrder(ctx context.Context, bookingID int64, amount float64) (model.Payment, error) {
	if bookingID == 0 {
		return model.Payment{}, errors.New("booking id is required")
	}
	if amount <= 0 {
		return model.Payment{}, errors.New("amount must be positive")
	}
	query := url.Values{
		"bookingId": {strconv.FormatInt(bookingID, 10)},
		"amount":    {strconv.FormatFloat(amount, 'f', 2, 64)},
	}
	var payment model.Payment
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("/api/payments/create-order", query), nil, &payment); err != nil {
		return model.Payment{}, err
	}
	if payment.RazorpayOrderId == "" {
		return model.Payment{}, errors.New("payment order has no order id")
	}
	return payment, nil
}

func (c *Client) UpdatePaymentStatus(ctx context.Context, update model.PaymentUpdate) (model.Payment, error) {
	if strings.TrimSpace(update.RazorpayOrderId) == "" {
		return model.Payment{}, errors.New("order id is required")
	}
	var payment model.Payment
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("/api/payments/update-status", nil), update, &payment); err != nil {
		return model.Payment{}, err
	}
	return payment, nil
}
