package main

import (
	"context"
	"fmt"

	"coworkly/api"
)

// LoadLocations runs on the profile-acquired transition. The first location
// becomes the selection, which in turn loads its spaces.
func (a *App) LoadLocations(ctx context.Context) {
	a.setBusy(true)
	defer a.setBusy(false)

	data, err := a.api.Locations(ctx)
	if err != nil {
		a.fail(err)
		return
	}

	a.mu.Lock()
	a.locations = data
	var first int64
	if len(data) > 0 && a.selectedLocationID == 0 {
		first = data[0].ID
	}
	a.mu.Unlock()

	if first != 0 {
		a.SelectLocation(ctx, first)
	}
}

// SelectLocation is the location-selected transition: remember the choice
// and fetch that location's spaces.
func (a *App) SelectLocation(ctx context.Context, locationID int64) {
	a.mu.Lock()
	a.selectedLocationID = locationID
	seq := a.spacesFence.next()
	a.mu.Unlock()

	a.setBusy(true)
	defer a.setBusy(false)

	data, err := a.api.SpacesByLocation(ctx, locationID)
	if err != nil {
		a.fail(err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.spacesFence.apply(seq) {
		a.log.Debug().Uint64("seq", seq).Msg("discarding stale spaces response")
		return
	}
	a.spaces = data
	if len(data) > 0 && a.walkInForm.SpaceID == 0 {
		a.walkInForm.SpaceID = data[0].ID
	}
}

// FindFreeSpaces validates locally before touching the network: a location,
// both range ends and an authenticated user are required; capacity is only
// sent when set.
func (a *App) FindFreeSpaces(ctx context.Context) {
	a.mu.Lock()
	if a.selectedLocationID == 0 || a.rangeFrom.IsZero() || a.rangeTo.IsZero() {
		a.setStatusLocked(ToneError, "Выберите локацию и диапазон дат")
		a.mu.Unlock()
		return
	}
	if a.authUser == nil {
		a.setStatusLocked(ToneError, "Авторизуйтесь, чтобы искать и бронировать")
		a.mu.Unlock()
		return
	}
	params := api.FreeSpaceParams{
		LocationID: a.selectedLocationID,
		From:       toISO(a.rangeFrom),
		To:         toISO(a.rangeTo),
		Capacity:   a.capacity,
	}
	seq := a.freeSpaceFence.next()
	a.mu.Unlock()

	a.setBusy(true)
	defer a.setBusy(false)

	data, err := a.api.FreeSpaces(ctx, params)
	if err != nil {
		a.fail(err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.freeSpaceFence.apply(seq) {
		a.log.Debug().Uint64("seq", seq).Msg("discarding stale availability response")
		return
	}
	a.freeSpaces = data
	a.setStatusLocked(ToneInfo, fmt.Sprintf("Свободно %d мест.", len(data)))
}
