package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"sportzone-cli/model"
)

func TestListUserBookings_PagedEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/bookings/user/5" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("page") != "1" || r.URL.Query().Get("size") != "10" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{
  "content": [{"id": 3, "userId": 5, "courtId": 11, "venueId": 1,
    "startTime": "2026-03-01T09:00:00", "endTime": "2026-03-01T11:00:00",
    "status": "CONFIRMED", "amount": 800}],
  "totalPages": 3, "totalElements": 21, "number": 1, "size": 10, "first": false, "last": false
}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	page, err := client.ListUserBookings(context.Background(), 5, 1, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if page.TotalPages != 3 || len(page.Content) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	b := page.Content[0]
	if b.StartTime.Hour() != 9 || b.EndTime.Hour() != 11 || b.Status != model.BookingStatusConfirmed {
		t.Fatalf("unexpected booking: %+v", b)
	}
}

func TestCreateBooking_EncodesLocalDateTimes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["startTime"] != "2026-03-01T22:00:00" || body["endTime"] != "2026-03-02T00:00:00" {
			t.Fatalf("unexpected times: %v %v", body["startTime"], body["endTime"])
		}
		if body["status"] != "PENDING" {
			t.Fatalf("unexpected status: %v", body["status"])
		}
		_, _ = w.Write([]byte(`{"id": 99}`))
	}))
	defer server.Close()

	var booking model.Booking
	if err := json.Unmarshal([]byte(`{"userId":1,"courtId":2,"venueId":3,"startTime":"2026-03-01T22:00:00","endTime":"2026-03-02T00:00:00","status":"PENDING","amount":600}`), &booking); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	client := newTestClient(server)
	created, err := client.CreateBooking(context.Background(), booking)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.Id != 99 {
		t.Fatalf("unexpected id: %d", created.Id)
	}
}

func TestCancelBooking_UsesPut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/bookings/3/cancel" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id": 3, "status": "CANCELLED"}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	booking, err := client.CancelBooking(context.Background(), 3)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if booking.Status != model.BookingStatusCancelled {
		t.Fatalf("unexpected status: %s", booking.Status)
	}
}

func TestCreateOrder_QueryParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/payments/create-order" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("bookingId") != "99" || q.Get("amount") != "1200.00" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"id": 1, "bookingId": 99, "razorpayOrderId": "order_x", "amount": 1200, "status": "CREATED"}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	payment, err := client.CreateOrder(context.Background(), 99, 1200)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if payment.RazorpayOrderId != "order_x" || payment.Status != model.PaymentStatusCreated {
		t.Fatalf("unexpected payment: %+v", payment)
	}
}

func TestUpdatePaymentStatus_Body(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body model.PaymentUpdate
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.RazorpayOrderId != "order_x" || body.Status != model.PaymentStatusPaid {
			t.Fatalf("unexpected body: %+v", body)
		}
		_, _ = w.Write([]byte(`{"id": 1, "razorpayOrderId": "order_x", "status": "PAID"}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	payment, err := client.UpdatePaymentStatus(context.Background(), model.PaymentUpdate{
		RazorpayOrderId:   "order_x",
		RazorpayPaymentId: "pay_y",
		Status:            model.PaymentStatusPaid,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if payment.Status != model.PaymentStatusPaid {
		t.Fatalf("unexpected status: %s", payment.Status)
	}
}

func TestCreateBooking_SlotTakenIsNotRetried(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":500,"message":"This slot is already booked. Please choose another time."}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	client.maxAttempts = 3

	_, err := client.CreateBooking(context.Background(), model.Booking{UserId: 1, CourtId: 2, VenueId: 3})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
	if !IsConflict(err) {
		t.Fatalf("expected slot-taken error to count as a conflict: %v", err)
	}
}

func TestCreateOrder_ServerErrorIsNotRetried(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server)
	client.maxAttempts = 3

	if _, err := client.CreateOrder(context.Background(), 99, 600); err == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestCancelBooking_RetriesServerErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id": 3, "status": "CANCELLED"}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	client.maxAttempts = 3

	if _, err := client.CancelBooking(context.Background(), 3); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}
