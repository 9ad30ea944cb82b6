package main

import (
	"context"
	"fmt"
	"strings"

	"coworkly/api"
	"coworkly/types"
)

// CreateWalkIn registers a visitor booking on behalf of an admin. The
// backend decides whether a new account (with a temp password) is
// provisioned or an existing one is reused.
func (a *App) CreateWalkIn(ctx context.Context) {
	a.mu.Lock()
	if a.authUser == nil || !a.authUser.IsAdmin() {
		a.setStatusLocked(ToneError, "Только администратор")
		a.mu.Unlock()
		return
	}
	if a.walkInForm.SpaceID == 0 || a.rangeFrom.IsZero() || a.rangeTo.IsZero() {
		a.setStatusLocked(ToneError, "Укажите посетителя, место и время")
		a.mu.Unlock()
		return
	}
	a.walkInResult = nil
	payload := types.WalkInBookingRequest{
		Email:    strings.TrimSpace(a.walkInForm.Email),
		FullName: strings.TrimSpace(a.walkInForm.FullName),
		SpaceID:  a.walkInForm.SpaceID,
		StartsAt: toISO(a.rangeFrom),
		EndsAt:   toISO(a.rangeTo),
	}
	a.mu.Unlock()

	a.setBusy(true)
	defer a.setBusy(false)

	res, err := a.api.CreateWalkIn(ctx, payload)
	if err != nil {
		a.fail(err)
		return
	}

	text := fmt.Sprintf("Walk-in оформлен. Booking #%d, user #%d", res.BookingID, res.UserID)
	if res.TempPassword != nil {
		text += ", выдан временный пароль"
	}

	a.mu.Lock()
	a.walkInResult = res
	a.walkInForm.Email = ""
	a.walkInForm.FullName = ""
	a.setStatusLocked(ToneSuccess, text)
	a.mu.Unlock()

	a.LoadBookings(ctx)
}

// FetchReport loads the admin aggregate report for the current range. The
// location filter is optional: no selection means all locations.
func (a *App) FetchReport(ctx context.Context) {
	a.mu.Lock()
	if a.authUser == nil || !a.authUser.IsAdmin() {
		a.setStatusLocked(ToneError, "Только администратор")
		a.mu.Unlock()
		return
	}
	if a.rangeFrom.IsZero() || a.rangeTo.IsZero() {
		a.setStatusLocked(ToneError, "Укажите даты")
		a.mu.Unlock()
		return
	}
	payload := types.ReportRequest{
		From: toISO(a.rangeFrom),
		To:   toISO(a.rangeTo),
	}
	if a.selectedLocationID != 0 {
		id := a.selectedLocationID
		payload.LocationID = &id
	}
	a.mu.Unlock()

	a.setBusy(true)
	defer a.setBusy(false)

	data, err := a.api.Report(ctx, payload)
	if err != nil {
		a.fail(err)
		return
	}

	a.mu.Lock()
	a.report = data
	a.setStatusLocked(ToneSuccess, "Отчет обновлен")
	a.mu.Unlock()
}

// LoadAdminPenalties lists penalties, optionally filtered by user and
// active-only.
func (a *App) LoadAdminPenalties(ctx context.Context, filter api.PenaltyFilter) {
	if !a.IsAdmin() {
		a.setStatus(ToneError, "Только администратор")
		return
	}

	a.setBusy(true)
	defer a.setBusy(false)

	data, err := a.api.AdminPenalties(ctx, filter)
	if err != nil {
		a.fail(err)
		return
	}

	a.mu.Lock()
	a.penalties = data
	if len(data) == 0 {
		a.setStatusLocked(ToneInfo, "Штрафов нет")
	}
	a.mu.Unlock()
}

func (a *App) CreatePenalty(ctx context.Context, req types.PenaltyRequest) {
	if !a.IsAdmin() {
		a.setStatus(ToneError, "Только администратор")
		return
	}

	a.setBusy(true)
	defer a.setBusy(false)

	created, err := a.api.CreatePenalty(ctx, req)
	if err != nil {
		a.fail(err)
		return
	}

	a.setStatus(ToneSuccess, fmt.Sprintf("Штраф #%d создан", created.ID))
	a.LoadAdminPenalties(ctx, api.PenaltyFilter{})
}

func (a *App) RevokePenalty(ctx context.Context, penaltyID int64) {
	if !a.IsAdmin() {
		a.setStatus(ToneError, "Только администратор")
		return
	}

	a.setBusy(true)
	defer a.setBusy(false)

	if err := a.api.RevokePenalty(ctx, penaltyID); err != nil {
		a.fail(err)
		return
	}

	a.setStatus(ToneSuccess, fmt.Sprintf("Штраф #%d отозван", penaltyID))
	a.LoadAdminPenalties(ctx, api.PenaltyFilter{})
}

// LoadMyPenalties shows the logged-in user their own penalties.
func (a *App) LoadMyPenalties(ctx context.Context) {
	a.mu.Lock()
	if a.authUser == nil {
		a.setStatusLocked(ToneError, "Нужна авторизация")
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	a.setBusy(true)
	defer a.setBusy(false)

	data, err := a.api.MyPenalties(ctx)
	if err != nil {
		a.fail(err)
		return
	}

	a.mu.Lock()
	a.penalties = data
	if len(data) == 0 {
		a.setStatusLocked(ToneInfo, "Штрафов нет")
	}
	a.mu.Unlock()
}
