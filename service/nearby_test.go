package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLocate_FirstProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"city":"Pune","region":"Maharashtra","country_name":"India"}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	place, err := client.locateWith(context.Background(), []geoProvider{
		{name: "ipapi", endpoint: server.URL, parse: parseIPAPI},
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if place.City != "Pune" || place.Source != "ipapi" {
		t.Fatalf("unexpected place: %+v", place)
	}
	if got := place.String(); got != "Pune, Maharashtra, India" {
		t.Fatalf("unexpected label: %q", got)
	}
}

func TestLocate_FallsBackAndCompactsHTML(t *testing.T) {
	blocked := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><body>blocked</body></html>`))
	}))
	defer blocked.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"city":"","region":"Goa","country":"India"}`))
	}))
	defer fallback.Close()

	client := newTestClient(blocked)
	place, err := client.locateWith(context.Background(), []geoProvider{
		{name: "blocked", endpoint: blocked.URL, parse: parseIPAPI},
		{name: "fallback", endpoint: fallback.URL, parse: parseIPWhoIs},
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if place.SearchTerm() != "Goa" || place.Source != "fallback" {
		t.Fatalf("unexpected place: %+v", place)
	}

	_, err = client.locateWith(context.Background(), []geoProvider{
		{name: "blocked", endpoint: blocked.URL, parse: parseIPAPI},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(strings.ToLower(err.Error()), "<html") || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected compact error with status, got %q", err.Error())
	}
}

func TestLocate_CanceledContextStopsEarly(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(server)
	_, err := client.locateWith(ctx, []geoProvider{
		{name: "a", endpoint: server.URL, parse: parseIPAPI},
		{name: "b", endpoint: server.URL, parse: parseIPAPI},
	})
	if err == nil || !strings.Contains(err.Error(), "canceled") {
		t.Fatalf("expected canceled error, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no requests, got %d", calls)
	}
}

func TestParseIPInfo_Bogon(t *testing.T) {
	if _, err := parseIPInfo([]byte(`{"bogon":true}`)); err == nil {
		t.Fatal("expected bogon error")
	}
	place, err := parseIPInfo([]byte(`{"city":"Chennai","region":"Tamil Nadu","country":"IN"}`))
	if err != nil || place.City != "Chennai" {
		t.Fatalf("unexpected result: %+v, %v", place, err)
	}
}

func TestNearbyVenues_SearchesDetectedCity(t *testing.T) {
	var gotLocation string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/geo":
			_, _ = w.Write([]byte(`{"city":"Pune","region":"Maharashtra","country_name":"India"}`))
		case "/api/venues/search":
			gotLocation = r.URL.Query().Get("location")
			_, _ = w.Write([]byte(`[{"id":1,"name":"Baner Sports Hub","location":"Pune"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	previous := geoProviders
	geoProviders = []geoProvider{{name: "test", endpoint: server.URL + "/geo", parse: parseIPAPI}}
	defer func() { geoProviders = previous }()

	client := newTestClient(server)
	place, venues, err := client.NearbyVenues(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if place.City != "Pune" || gotLocation != "Pune" {
		t.Fatalf("unexpected search: place=%+v location=%q", place, gotLocation)
	}
	if len(venues) != 1 || venues[0].Name != "Baner Sports Hub" {
		t.Fatalf("unexpected venues: %+v", venues)
	}
}
