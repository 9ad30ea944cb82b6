package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"

	"coworkly/types"
)

type memStore struct {
	token   string
	saves   int
	clears  int
	loadErr error
}

func (m *memStore) LoadToken() (string, error) { return m.token, m.loadErr }
func (m *memStore) SaveToken(token string) error {
	m.token = token
	m.saves++
	return nil
}
func (m *memStore) ClearToken() error {
	m.token = ""
	m.clears++
	return nil
}

func parseQuery(raw string) (url.Values, error) {
	return url.ParseQuery(raw)
}

func newTestClient(t *testing.T, handler http.Handler, store TokenStore) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL+"/api", store, zerolog.Nop(), 5*time.Second)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID": 1,
		"exp":    exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestAuthorizationHeaderPresentIffTokenSet(t *testing.T) {
	var gotAuth []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})

	client := newTestClient(t, handler, &memStore{})

	if _, err := client.Locations(context.Background()); err != nil {
		t.Fatalf("locations without token: %v", err)
	}
	if gotAuth[0] != "" {
		t.Fatalf("expected no Authorization header without token, got %q", gotAuth[0])
	}

	if err := client.SetToken("tok-123"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if _, err := client.Locations(context.Background()); err != nil {
		t.Fatalf("locations with token: %v", err)
	}
	if gotAuth[1] != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth[1])
	}

	if err := client.SetToken(""); err != nil {
		t.Fatalf("clear token: %v", err)
	}
	if _, err := client.Locations(context.Background()); err != nil {
		t.Fatalf("locations after clearing token: %v", err)
	}
	if gotAuth[2] != "" {
		t.Fatalf("expected no Authorization header after clear, got %q", gotAuth[2])
	}
}

func TestSetTokenWritesThrough(t *testing.T) {
	store := &memStore{}
	client := newTestClient(t, http.NotFoundHandler(), store)

	if err := client.SetToken("abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if store.token != "abc" || store.saves != 1 {
		t.Fatalf("expected write-through save, store=%+v", store)
	}

	if err := client.SetToken(""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if store.token != "" || store.clears != 1 {
		t.Fatalf("expected write-through clear, store=%+v", store)
	}
}

func TestExpiredPersistedTokenDroppedAtLoad(t *testing.T) {
	store := &memStore{token: signedToken(t, time.Now().Add(-time.Hour))}
	client := newTestClient(t, http.NotFoundHandler(), store)

	if client.Token() != "" {
		t.Fatalf("expected expired token to be dropped, got %q", client.Token())
	}
	if store.clears != 1 {
		t.Fatalf("expected store clear, got %d", store.clears)
	}
}

func TestValidPersistedTokenKeptAtLoad(t *testing.T) {
	valid := signedToken(t, time.Now().Add(time.Hour))
	store := &memStore{token: valid}
	client := newTestClient(t, http.NotFoundHandler(), store)

	if client.Token() != valid {
		t.Fatalf("expected persisted token to be loaded")
	}

	// Opaque non-JWT tokens are left for the server to judge.
	store = &memStore{token: "opaque-token"}
	client = newTestClient(t, http.NotFoundHandler(), store)
	if client.Token() != "opaque-token" {
		t.Fatalf("expected opaque token to survive load, got %q", client.Token())
	}
}

func TestErrorBodySurfacedVerbatim(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("Место уже занято"))
	})
	client := newTestClient(t, handler, &memStore{})

	_, err := client.CreateBooking(context.Background(), types.CreateBookingRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Место уже занято" {
		t.Fatalf("expected body as message, got %q", err.Error())
	}
}

func TestEmptyErrorBodyFallsBackToStatusLine(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	client := newTestClient(t, handler, &memStore{})

	_, err := client.Me(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "request failed with status 502" {
		t.Fatalf("unexpected fallback message: %q", err.Error())
	}
}

func TestNoContentResponse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	client := newTestClient(t, handler, &memStore{})

	if err := client.ConfirmBooking(context.Background(), 7); err != nil {
		t.Fatalf("confirm with 204: %v", err)
	}
}

func TestFreeSpacesQueryEncoding(t *testing.T) {
	var gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})
	client := newTestClient(t, handler, &memStore{})

	_, err := client.FreeSpaces(context.Background(), FreeSpaceParams{
		LocationID: 1,
		From:       "2026-01-10T10:00:00Z",
		To:         "2026-01-10T12:00:00Z",
	})
	if err != nil {
		t.Fatalf("free spaces: %v", err)
	}

	values, err := parseQuery(gotQuery)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	if values.Get("locationId") != "1" {
		t.Fatalf("expected locationId=1, got %q", values.Get("locationId"))
	}
	if values.Get("from") != "2026-01-10T10:00:00Z" || values.Get("to") != "2026-01-10T12:00:00Z" {
		t.Fatalf("unexpected range in query: %q", gotQuery)
	}
	if _, present := values["capacity"]; present {
		t.Fatalf("capacity must be omitted when unset, query: %q", gotQuery)
	}

	capacity := 4
	_, err = client.FreeSpaces(context.Background(), FreeSpaceParams{
		LocationID: 1,
		From:       "2026-01-10T10:00:00Z",
		To:         "2026-01-10T12:00:00Z",
		Capacity:   &capacity,
	})
	if err != nil {
		t.Fatalf("free spaces with capacity: %v", err)
	}
	values, _ = parseQuery(gotQuery)
	if values.Get("capacity") != "4" {
		t.Fatalf("expected capacity=4, got %q", values.Get("capacity"))
	}
}

func TestPenaltyFilterEncoding(t *testing.T) {
	var gotURL string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Write([]byte(`[]`))
	})
	client := newTestClient(t, handler, &memStore{})

	if _, err := client.AdminPenalties(context.Background(), PenaltyFilter{}); err != nil {
		t.Fatalf("list without filter: %v", err)
	}
	if gotURL != "/api/admin/penalties" {
		t.Fatalf("expected bare path without filter, got %q", gotURL)
	}

	userID := int64(9)
	if _, err := client.AdminPenalties(context.Background(), PenaltyFilter{UserID: &userID, ActiveOnly: true}); err != nil {
		t.Fatalf("list with filter: %v", err)
	}
	values, err := parseQuery(gotURL[len("/api/admin/penalties?"):])
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	if values.Get("userId") != "9" || values.Get("activeOnly") != "true" {
		t.Fatalf("unexpected filter encoding: %q", gotURL)
	}
}
