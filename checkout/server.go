package checkout

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sportzone-cli/model"
)

const CallbackPath = "/payment/callback"

// CallbackServer receives the checkout page's redirect on the loopback
// interface and hands the outcome to whoever is waiting on Results.
type CallbackServer struct {
	addr     string
	logger   *zap.Logger
	router   *gin.Engine
	results  chan model.PaymentResult
	srv      *http.Server
	listener net.Listener
	now      func() time.Time
}

func NewCallbackServer(addr string, logger *zap.Logger) *CallbackServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &CallbackServer{
		addr:    addr,
		logger:  logger.Named("callback"),
		results: make(chan model.PaymentResult, 1),
		now:     time.Now,
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET(CallbackPath, s.handleCallback)
	router.POST(CallbackPath, s.handleCallback)
	s.router = router
	return s
}

func (s *CallbackServer) Handler() http.Handler {
	return s.router
}

func (s *CallbackServer) Results() <-chan model.PaymentResult {
	return s.results
}

// Start binds the listener and serves in the background.
func (s *CallbackServer) Start() error {
	if s.listener != nil {
		return errors.New("callback server already started")
	}
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.srv = &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	s.logger.Info("listening for payment callback", zap.String("addr", listener.Addr().String()))
	go func() {
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("callback server stopped", zap.Error(err))
		}
	}()
	return nil
}

// URL is the callback address the checkout page should redirect to.
func (s *CallbackServer) URL() string {
	addr := s.addr
	if s.listener != nil {
		addr = s.listener.Addr().String()
	}
	return "http://" + addr + CallbackPath
}

func (s *CallbackServer) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *CallbackServer) handleCallback(c *gin.Context) {
	orderID := param(c, "order_id", "razorpay_order_id")
	if orderID == "" {
		c.String(http.StatusBadRequest, "missing order id")
		return
	}
	result := model.PaymentResult{
		OrderId:    orderID,
		PaymentId:  param(c, "payment_id", "razorpay_payment_id"),
		Signature:  param(c, "signature", "razorpay_signature"),
		Status:     resultStatus(param(c, "status"), param(c, "payment_id", "razorpay_payment_id")),
		ReceivedAt: s.now(),
	}

	select {
	case s.results <- result:
		s.logger.Info("payment callback", zap.String("order_id", orderID), zap.String("status", string(result.Status)))
	default:
		s.logger.Warn("dropping duplicate payment callback", zap.String("order_id", orderID))
	}

	if result.Status == model.PaymentStatusPaid {
		c.String(http.StatusOK, "Payment received. You can return to the terminal.")
		return
	}
	c.String(http.StatusOK, "Payment was not completed. You can return to the terminal.")
}

// param reads the first non-empty value among names from the query string or form body.
func param(c *gin.Context, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(c.Query(name)); v != "" {
			return v
		}
		if v := strings.TrimSpace(c.PostForm(name)); v != "" {
			return v
		}
	}
	return ""
}

// resultStatus maps the checkout page's outcome. A payment id without an
// explicit status means the gateway completed the charge.
func resultStatus(status string, paymentID string) model.PaymentStatus {
	switch strings.ToLower(status) {
	case "paid", "success", "captured", "authorized":
		return model.PaymentStatusPaid
	case "":
		if paymentID != "" {
			return model.PaymentStatusPaid
		}
	}
	return model.PaymentStatusFailed
}
