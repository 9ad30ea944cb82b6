package main

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"coworkly/api"
	"coworkly/types"
)

type Tone string

const (
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
	ToneInfo    Tone = "info"
)

// Status is the single banner shown after each action.
type Status struct {
	Tone Tone
	Text string
}

type AuthMode string

const (
	AuthModeLogin    AuthMode = "login"
	AuthModeRegister AuthMode = "register"
)

type AuthForm struct {
	Email    string
	Password string
	FullName string
}

type WalkInForm struct {
	Email    string
	FullName string
	SpaceID  int64
}

// fence tags each outgoing fetch of a logical query with a monotonically
// increasing sequence number; responses older than the last applied one are
// discarded instead of overwriting newer state.
type fence struct {
	issued  uint64
	applied uint64
}

func (f *fence) next() uint64 {
	f.issued++
	return f.issued
}

func (f *fence) apply(seq uint64) bool {
	if seq < f.applied {
		return false
	}
	f.applied = seq
	return true
}

// App holds all transient UI state and sequences the network calls behind
// user actions. Every decision (availability, conflicts, pricing, penalties)
// belongs to the backend; the app only re-renders from responses.
type App struct {
	api *api.Client
	log zerolog.Logger

	mu     sync.Mutex
	busy   bool
	status *Status

	authUser *types.UserProfile
	authMode AuthMode
	authForm AuthForm

	locations          []types.Location
	selectedLocationID int64
	spaces             []types.SpaceResponse
	freeSpaces         []types.FreeSpaceResponse
	bookings           []types.BookingResponse

	rangeFrom    time.Time
	rangeTo      time.Time
	capacity     *int
	actingUserID int64

	walkInForm   WalkInForm
	walkInResult *types.WalkInBookingResponse
	report       *types.ReportResponse
	penalties    []types.PenaltyResponse

	spacesFence    fence
	freeSpaceFence fence
	bookingsFence  fence
}

func NewApp(apiClient *api.Client, logger zerolog.Logger) *App {
	from, to := defaultRange()
	return &App{
		api:       apiClient,
		log:       logger,
		authMode:  AuthModeLogin,
		rangeFrom: from,
		rangeTo:   to,
	}
}

// defaultRange proposes a booking window an hour from now, two hours long.
func defaultRange() (time.Time, time.Time) {
	from := time.Now().Add(time.Hour).Truncate(time.Minute)
	return from, from.Add(2 * time.Hour)
}

func (a *App) setStatusLocked(tone Tone, text string) {
	a.status = &Status{Tone: tone, Text: text}
}

func (a *App) setStatus(tone Tone, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.setStatusLocked(tone, text)
}

// fail converts an action failure into an error-tone banner and a log line.
func (a *App) fail(err error) {
	a.log.Error().Err(err).Msg("action failed")
	a.setStatus(ToneError, err.Error())
}

func (a *App) setBusy(v bool) {
	a.mu.Lock()
	a.busy = v
	a.mu.Unlock()
}

// Getters below hand the CLI copies of the current state.

func (a *App) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}

func (a *App) Status() *Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *App) Profile() *types.UserProfile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.authUser
}

func (a *App) IsAdmin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.authUser != nil && a.authUser.IsAdmin()
}

func (a *App) Locations() []types.Location {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.locations
}

func (a *App) SelectedLocationID() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selectedLocationID
}

func (a *App) SelectedLocation() *types.Location {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.locations {
		if a.locations[i].ID == a.selectedLocationID {
			loc := a.locations[i]
			return &loc
		}
	}
	return nil
}

func (a *App) Spaces() []types.SpaceResponse {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.spaces
}

func (a *App) FreeSpaces() []types.FreeSpaceResponse {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.freeSpaces
}

func (a *App) Bookings() []types.BookingResponse {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bookings
}

func (a *App) Penalties() []types.PenaltyResponse {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.penalties
}

func (a *App) Report() *types.ReportResponse {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.report
}

func (a *App) WalkInResult() *types.WalkInBookingResponse {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.walkInResult
}

func (a *App) ActingUserID() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.actingUserID
}

func (a *App) Range() (time.Time, time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rangeFrom, a.rangeTo
}

func (a *App) AuthMode() AuthMode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.authMode
}

func (a *App) WalkInForm() WalkInForm {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.walkInForm
}

// Form mutators driven by the CLI.

func (a *App) SetAuthMode(mode AuthMode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.authMode = mode
}

func (a *App) SetAuthForm(form AuthForm) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.authForm = form
}

func (a *App) SetRange(from, to time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rangeFrom = from
	a.rangeTo = to
}

func (a *App) SetCapacity(capacity *int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.capacity = capacity
}

// SetActingUserID picks the user bookings are queried and created for.
// Only admins may point it at another user; for residents it stays pinned
// to their own id.
func (a *App) SetActingUserID(id int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.authUser == nil || !a.authUser.IsAdmin() {
		return
	}
	a.actingUserID = id
}

func (a *App) SetWalkInForm(form WalkInForm) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.walkInForm = form
}

// applyProfile is the profile-acquired transition: remember who is logged in
// and seed the acting user id from the profile.
func (a *App) applyProfile(profile *types.UserProfile) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.authUser = profile
	a.actingUserID = profile.ID
}

// authLost is the opposite transition: drop everything fetched on behalf of
// the authenticated user.
func (a *App) authLost() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.authUser = nil
	a.actingUserID = 0
	a.locations = nil
	a.spaces = nil
	a.freeSpaces = nil
	a.bookings = nil
	a.selectedLocationID = 0
}
