package main

import (
	"context"
	"fmt"

	"coworkly/types"
)

// Book creates a booking for the acting user over the current date range and
// refreshes the booking list on success.
func (a *App) Book(ctx context.Context, spaceID int64) {
	a.mu.Lock()
	if a.authUser == nil || a.actingUserID == 0 {
		a.setStatusLocked(ToneError, "Нужна авторизация")
		a.mu.Unlock()
		return
	}
	payload := types.CreateBookingRequest{
		UserID:   a.actingUserID,
		SpaceID:  spaceID,
		StartsAt: toISO(a.rangeFrom),
		EndsAt:   toISO(a.rangeTo),
	}
	a.mu.Unlock()

	a.setBusy(true)
	defer a.setBusy(false)

	created, err := a.api.CreateBooking(ctx, payload)
	if err != nil {
		a.fail(err)
		return
	}

	a.setStatus(ToneSuccess, fmt.Sprintf("Бронь #%d создана.", created.BookingID))
	a.LoadBookings(ctx)
}

// LoadBookings fetches the acting user's bookings. An empty result is
// information, not an error.
func (a *App) LoadBookings(ctx context.Context) {
	a.mu.Lock()
	if a.authUser == nil || a.actingUserID == 0 {
		a.setStatusLocked(ToneError, "Нужна авторизация")
		a.mu.Unlock()
		return
	}
	userID := a.actingUserID
	seq := a.bookingsFence.next()
	a.mu.Unlock()

	a.setBusy(true)
	defer a.setBusy(false)

	data, err := a.api.BookingsForUser(ctx, userID)
	if err != nil {
		a.fail(err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.bookingsFence.apply(seq) {
		a.log.Debug().Uint64("seq", seq).Msg("discarding stale bookings response")
		return
	}
	a.bookings = data
	if len(data) == 0 {
		a.setStatusLocked(ToneInfo, "Для этого пользователя нет броней")
	}
}

// Confirm transitions a booking to CONFIRMED. The transition itself belongs
// to the backend; the client only gates the action to admins locally.
func (a *App) Confirm(ctx context.Context, bookingID int64) {
	a.mu.Lock()
	if a.authUser == nil || !a.authUser.IsAdmin() {
		a.setStatusLocked(ToneError, "Только администратор может подтверждать брони")
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	a.setBusy(true)
	defer a.setBusy(false)

	if err := a.api.ConfirmBooking(ctx, bookingID); err != nil {
		a.fail(err)
		return
	}

	a.setStatus(ToneSuccess, fmt.Sprintf("Booking #%d confirmed.", bookingID))
	a.LoadBookings(ctx)
}
