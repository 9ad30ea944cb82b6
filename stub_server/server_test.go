package main

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"coworkly/api"
	"coworkly/db"
	"coworkly/types"
)

type memStore struct {
	mu    sync.Mutex
	token string
}

func (m *memStore) LoadToken() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memStore) SaveToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memStore) ClearToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func newStubClient(t *testing.T) *api.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := db.InitDB(filepath.Join(t.TempDir(), "stub.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.CloseDB(conn) })

	if err := ensureStubSchema(conn); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if err := seedStubData(conn); err != nil {
		t.Fatalf("seed data: %v", err)
	}

	server := newServer(conn, []byte("test-secret"), zerolog.Nop())
	ts := httptest.NewServer(server.router())
	t.Cleanup(ts.Close)

	client, err := api.NewClient(ts.URL+"/api", &memStore{}, zerolog.Nop(), 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func loginAdmin(t *testing.T, client *api.Client) *types.AuthResponse {
	t.Helper()
	auth, err := client.Login(context.Background(), types.LoginRequest{
		Email:    "admin@coworkly.local",
		Password: "admin123",
	})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if err := client.SetToken(auth.Token); err != nil {
		t.Fatalf("set token: %v", err)
	}
	return auth
}

func registerResident(t *testing.T, client *api.Client, email string) *types.AuthResponse {
	t.Helper()
	auth, err := client.Register(context.Background(), types.RegisterRequest{
		Email:    email,
		Password: "resident123",
		FullName: "Test Resident",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return auth
}

func testWindow(offset time.Duration) (string, string) {
	start := time.Now().Add(48*time.Hour + offset).Truncate(time.Hour).UTC()
	return start.Format(time.RFC3339), start.Add(2 * time.Hour).Format(time.RFC3339)
}

func TestRegisterLoginMe(t *testing.T) {
	client := newStubClient(t)
	ctx := context.Background()

	auth := registerResident(t, client, "ivan@example.com")
	if auth.Role == types.RoleAdmin {
		t.Fatalf("fresh registration must not be admin, got role %q", auth.Role)
	}
	if err := client.SetToken(auth.Token); err != nil {
		t.Fatalf("set token: %v", err)
	}

	profile, err := client.Me(ctx)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if profile.Email != "ivan@example.com" || profile.ID != auth.UserID {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	client := newStubClient(t)

	_, err := client.Locations(context.Background())
	if err == nil {
		t.Fatal("expected error without a token")
	}
	if !strings.Contains(err.Error(), "авторизация") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBookingLifecycle(t *testing.T) {
	client := newStubClient(t)
	ctx := context.Background()
	admin := loginAdmin(t, client)

	locations, err := client.Locations(ctx)
	if err != nil || len(locations) == 0 {
		t.Fatalf("locations: %v (%d)", err, len(locations))
	}

	from, to := testWindow(0)
	free, err := client.FreeSpaces(ctx, api.FreeSpaceParams{
		LocationID: locations[0].ID,
		From:       from,
		To:         to,
	})
	if err != nil || len(free) == 0 {
		t.Fatalf("free spaces: %v (%d)", err, len(free))
	}
	spaceID := free[0].SpaceID

	created, err := client.CreateBooking(ctx, types.CreateBookingRequest{
		UserID:   admin.UserID,
		SpaceID:  spaceID,
		StartsAt: from,
		EndsAt:   to,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	// The same window on the same space must now conflict.
	_, err = client.CreateBooking(ctx, types.CreateBookingRequest{
		UserID:   admin.UserID,
		SpaceID:  spaceID,
		StartsAt: from,
		EndsAt:   to,
	})
	if err == nil || !strings.Contains(err.Error(), "Место уже занято") {
		t.Fatalf("expected conflict, got %v", err)
	}

	// And the space must have dropped out of the availability search.
	freeAfter, err := client.FreeSpaces(ctx, api.FreeSpaceParams{
		LocationID: locations[0].ID,
		From:       from,
		To:         to,
	})
	if err != nil {
		t.Fatalf("free spaces after booking: %v", err)
	}
	for _, fs := range freeAfter {
		if fs.SpaceID == spaceID {
			t.Fatalf("booked space %d still reported free", spaceID)
		}
	}

	if err := client.ConfirmBooking(ctx, created.BookingID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	bookings, err := client.BookingsForUser(ctx, admin.UserID)
	if err != nil {
		t.Fatalf("bookings: %v", err)
	}
	var found bool
	for _, b := range bookings {
		if b.ID == created.BookingID {
			found = true
			if b.Status != types.BookingStatusConfirmed {
				t.Fatalf("booking status = %q, want CONFIRMED", b.Status)
			}
			if b.TotalCents == nil || *b.TotalCents <= 0 {
				t.Fatalf("booking total not priced: %+v", b.TotalCents)
			}
		}
	}
	if !found {
		t.Fatalf("booking %d missing from list", created.BookingID)
	}
}

func TestResidentCannotReadOthersBookings(t *testing.T) {
	client := newStubClient(t)
	ctx := context.Background()

	auth := registerResident(t, client, "curious@example.com")
	if err := client.SetToken(auth.Token); err != nil {
		t.Fatalf("set token: %v", err)
	}

	_, err := client.BookingsForUser(ctx, auth.UserID+100)
	if err == nil || !strings.Contains(err.Error(), "только свои") {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestResidentCannotBookForOthers(t *testing.T) {
	client := newStubClient(t)
	ctx := context.Background()

	victim := registerResident(t, client, "victim@example.com")
	sneaky := registerResident(t, client, "sneaky@example.com")
	if err := client.SetToken(sneaky.Token); err != nil {
		t.Fatalf("set token: %v", err)
	}

	from, to := testWindow(0)
	_, err := client.CreateBooking(ctx, types.CreateBookingRequest{
		UserID:   victim.UserID,
		SpaceID:  1,
		StartsAt: from,
		EndsAt:   to,
	})
	if err == nil || !strings.Contains(err.Error(), "только для себя") {
		t.Fatalf("expected forbidden, got %v", err)
	}

	// Booking for oneself still goes through.
	if _, err := client.CreateBooking(ctx, types.CreateBookingRequest{
		UserID:   sneaky.UserID,
		SpaceID:  1,
		StartsAt: from,
		EndsAt:   to,
	}); err != nil {
		t.Fatalf("own booking: %v", err)
	}
}

func TestTimeoutPenaltyBlocksBooking(t *testing.T) {
	client := newStubClient(t)
	ctx := context.Background()

	resident := registerResident(t, client, "late@example.com")
	loginAdmin(t, client)

	expires := time.Now().Add(24 * time.Hour)
	penalty, err := client.CreatePenalty(ctx, types.PenaltyRequest{
		UserID:    resident.UserID,
		Type:      types.PenaltyTypeTimeout,
		Reason:    "no-show",
		ExpiresAt: &expires,
	})
	if err != nil {
		t.Fatalf("create penalty: %v", err)
	}
	if !penalty.Active {
		t.Fatal("fresh penalty must be active")
	}

	from, to := testWindow(0)
	_, err = client.CreateBooking(ctx, types.CreateBookingRequest{
		UserID:   resident.UserID,
		SpaceID:  1,
		StartsAt: from,
		EndsAt:   to,
	})
	if err == nil || !strings.Contains(err.Error(), "тайм-аут") {
		t.Fatalf("expected timeout rejection, got %v", err)
	}

	// Revoking lifts the block.
	if err := client.RevokePenalty(ctx, penalty.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := client.CreateBooking(ctx, types.CreateBookingRequest{
		UserID:   resident.UserID,
		SpaceID:  1,
		StartsAt: from,
		EndsAt:   to,
	}); err != nil {
		t.Fatalf("booking after revoke: %v", err)
	}
}

func TestDurationPenaltyCapsWindow(t *testing.T) {
	client := newStubClient(t)
	ctx := context.Background()

	resident := registerResident(t, client, "marathon@example.com")
	loginAdmin(t, client)

	limit := 60
	if _, err := client.CreatePenalty(ctx, types.PenaltyRequest{
		UserID:       resident.UserID,
		Type:         types.PenaltyTypeMaxDuration,
		LimitMinutes: &limit,
	}); err != nil {
		t.Fatalf("create penalty: %v", err)
	}

	from, to := testWindow(0) // two hours, over the 60 minute cap
	_, err := client.CreateBooking(ctx, types.CreateBookingRequest{
		UserID:   resident.UserID,
		SpaceID:  1,
		StartsAt: from,
		EndsAt:   to,
	})
	if err == nil || !strings.Contains(err.Error(), "Максимальная длительность") {
		t.Fatalf("expected duration rejection, got %v", err)
	}

	// A window inside the cap goes through.
	start := time.Now().Add(72 * time.Hour).Truncate(time.Hour).UTC()
	if _, err := client.CreateBooking(ctx, types.CreateBookingRequest{
		UserID:   resident.UserID,
		SpaceID:  1,
		StartsAt: start.Format(time.RFC3339),
		EndsAt:   start.Add(30 * time.Minute).Format(time.RFC3339),
	}); err != nil {
		t.Fatalf("booking inside cap: %v", err)
	}
}

func TestWalkInProvisionsAccountOnce(t *testing.T) {
	client := newStubClient(t)
	ctx := context.Background()
	loginAdmin(t, client)

	from, to := testWindow(0)
	first, err := client.CreateWalkIn(ctx, types.WalkInBookingRequest{
		Email:    "visitor@example.com",
		FullName: "Walk-in Visitor",
		SpaceID:  2,
		StartsAt: from,
		EndsAt:   to,
	})
	if err != nil {
		t.Fatalf("walk-in: %v", err)
	}
	if first.ExistingUser {
		t.Fatal("first walk-in must create a new user")
	}
	if first.TempPassword == nil || *first.TempPassword == "" {
		t.Fatal("new walk-in user must get a temp password")
	}

	// Temp password is a real credential.
	if _, err := client.Login(ctx, types.LoginRequest{
		Email:    "visitor@example.com",
		Password: *first.TempPassword,
	}); err != nil {
		t.Fatalf("login with temp password: %v", err)
	}

	from2, to2 := testWindow(6 * time.Hour)
	second, err := client.CreateWalkIn(ctx, types.WalkInBookingRequest{
		Email:    "visitor@example.com",
		FullName: "Walk-in Visitor",
		SpaceID:  2,
		StartsAt: from2,
		EndsAt:   to2,
	})
	if err != nil {
		t.Fatalf("second walk-in: %v", err)
	}
	if !second.ExistingUser || second.TempPassword != nil {
		t.Fatalf("repeat walk-in must reuse the account: %+v", second)
	}
	if second.UserID != first.UserID {
		t.Fatalf("walk-in user id changed: %d vs %d", first.UserID, second.UserID)
	}
}

func TestWalkInRequiresAdmin(t *testing.T) {
	client := newStubClient(t)
	ctx := context.Background()

	auth := registerResident(t, client, "plain@example.com")
	if err := client.SetToken(auth.Token); err != nil {
		t.Fatalf("set token: %v", err)
	}

	from, to := testWindow(0)
	_, err := client.CreateWalkIn(ctx, types.WalkInBookingRequest{
		Email:   "someone@example.com",
		SpaceID: 1, StartsAt: from, EndsAt: to,
	})
	if err == nil || !strings.Contains(err.Error(), "администраторов") {
		t.Fatalf("expected admin-only rejection, got %v", err)
	}
}

func TestReportAggregatesBookings(t *testing.T) {
	client := newStubClient(t)
	ctx := context.Background()
	admin := loginAdmin(t, client)

	from, to := testWindow(0)
	created, err := client.CreateBooking(ctx, types.CreateBookingRequest{
		UserID:   admin.UserID,
		SpaceID:  1,
		StartsAt: from,
		EndsAt:   to,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if err := client.ConfirmBooking(ctx, created.BookingID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	report, err := client.Report(ctx, types.ReportRequest{
		From: time.Now().UTC().Format(time.RFC3339),
		To:   time.Now().Add(96 * time.Hour).UTC().Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Summary.TotalBookings != 1 || report.Summary.Confirmed != 1 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if report.Summary.TotalRevenueCents <= 0 {
		t.Fatalf("confirmed booking must count as revenue: %+v", report.Summary)
	}
	if len(report.ByType) == 0 || len(report.Daily) == 0 || len(report.TopSpaces) == 0 {
		t.Fatalf("report breakdowns empty: %+v", report)
	}
}
