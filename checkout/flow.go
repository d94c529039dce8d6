// Package checkout runs the payment leg of a booking: it opens an order,
// sends the shopper to the hosted checkout page and reports the result back
// to the API.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"sportzone-cli/config"
	"sportzone-cli/model"
)

var (
	ErrPaymentFailed = errors.New("payment failed")
	ErrTimeout       = errors.New("timed out waiting for payment")
)

// PaymentAPI is the part of the API client the flow needs.
type PaymentAPI interface {
	CreateOrder(ctx context.Context, bookingID int64, amount float64) (model.Payment, error)
	UpdatePaymentStatus(ctx context.Context, update model.PaymentUpdate) (model.Payment, error)
}

type Flow struct {
	api          PaymentAPI
	logger       *zap.Logger
	checkoutURL  string
	callbackAddr string
	currency     string
	timeout      time.Duration
	open         func(string) error
}

func NewFlow(api PaymentAPI, cfg config.Config, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{
		api:          api,
		logger:       logger.Named("checkout"),
		checkoutURL:  cfg.CheckoutURL,
		callbackAddr: cfg.CallbackAddr,
		currency:     cfg.Currency,
		timeout:      cfg.CheckoutTimeout,
		open:         OpenURL,
	}
}

// Pending is an order waiting for the shopper to pay.
type Pending struct {
	Payment model.Payment
	Link    string

	flow   *Flow
	server *CallbackServer
}

// Start creates the payment order for a saved booking and begins listening
// for the checkout callback. The caller must Wait, which also releases the
// callback listener.
func (f *Flow) Start(ctx context.Context, booking model.Booking) (*Pending, error) {
	if booking.Id == 0 {
		return nil, errors.New("booking must be saved before payment")
	}
	payment, err := f.api.CreateOrder(ctx, booking.Id, booking.Amount)
	if err != nil {
		return nil, fmt.Errorf("create payment order: %w", err)
	}

	server := NewCallbackServer(f.callbackAddr, f.logger)
	if err := server.Start(); err != nil {
		f.markFailed(payment)
		return nil, fmt.Errorf("start payment callback: %w", err)
	}

	link, err := f.link(payment, server.URL())
	if err != nil {
		_ = server.Shutdown(context.Background())
		f.markFailed(payment)
		return nil, err
	}
	f.logger.Info("payment order created",
		zap.Int64("booking_id", booking.Id),
		zap.String("order_id", payment.RazorpayOrderId),
		zap.Float64("amount", payment.Amount),
	)
	return &Pending{Payment: payment, Link: link, flow: f, server: server}, nil
}

// Open launches the checkout link in the browser.
func (p *Pending) Open() error {
	return p.flow.open(p.Link)
}

// Wait blocks until the checkout page calls back, ctx ends or the configured
// timeout passes, then records the outcome with the API.
func (p *Pending) Wait(ctx context.Context) (model.Payment, error) {
	defer p.shutdown()

	if p.flow.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.flow.timeout)
		defer cancel()
	}

	for {
		select {
		case <-ctx.Done():
			p.flow.markFailed(p.Payment)
			return p.Payment, ErrTimeout
		case result := <-p.server.Results():
			if result.OrderId != p.Payment.RazorpayOrderId {
				p.flow.logger.Warn("callback for another order", zap.String("order_id", result.OrderId))
				continue
			}
			payment, err := p.flow.api.UpdatePaymentStatus(ctx, model.PaymentUpdate{
				RazorpayOrderId:   result.OrderId,
				RazorpayPaymentId: result.PaymentId,
				RazorpaySignature: result.Signature,
				Status:            result.Status,
			})
			if err != nil {
				return p.Payment, fmt.Errorf("record payment: %w", err)
			}
			if result.Status != model.PaymentStatusPaid {
				return payment, ErrPaymentFailed
			}
			return payment, nil
		}
	}
}

func (p *Pending) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.server.Shutdown(ctx); err != nil {
		p.flow.logger.Warn("callback server shutdown", zap.Error(err))
	}
}

func (f *Flow) link(payment model.Payment, callbackURL string) (string, error) {
	base, err := url.Parse(f.checkoutURL)
	if err != nil || base.Scheme == "" {
		return "", fmt.Errorf("invalid checkout url %q", f.checkoutURL)
	}
	query := base.Query()
	query.Set("order_id", payment.RazorpayOrderId)
	query.Set("amount", strconv.FormatFloat(payment.Amount, 'f', 2, 64))
	query.Set("currency", f.currency)
	query.Set("callback_url", callbackURL)
	base.RawQuery = query.Encode()
	return base.String(), nil
}

// markFailed reports an abandoned order on a fresh context, since the
// caller's context is usually the one that ended.
func (f *Flow) markFailed(payment model.Payment) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := f.api.UpdatePaymentStatus(ctx, model.PaymentUpdate{
		RazorpayOrderId: payment.RazorpayOrderId,
		Status:          model.PaymentStatusFailed,
	})
	if err != nil {
		f.logger.Warn("could not mark payment failed", zap.String("order_id", payment.RazorpayOrderId), zap.Error(err))
	}
}
