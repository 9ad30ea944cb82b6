package main

import (
	"context"
	"strings"

	"coworkly/types"
)

// Bootstrap tries to resolve the current profile with any persisted token.
// Failure is not an error: the token is cleared silently and the user stays
// logged out.
func (a *App) Bootstrap(ctx context.Context) {
	if a.api.Token() == "" {
		return
	}

	a.setBusy(true)
	defer a.setBusy(false)

	profile, err := a.api.Me(ctx)
	if err != nil {
		a.log.Debug().Err(err).Msg("persisted token rejected, logging out")
		if err := a.api.SetToken(""); err != nil {
			a.log.Error().Err(err).Msg("failed to clear token")
		}
		return
	}

	a.applyProfile(profile)
	a.setStatus(ToneInfo, "Авторизован как "+profile.Email)
	a.LoadLocations(ctx)
}

// HandleAuth performs login or registration depending on the current mode,
// then resolves the full profile and greets the user.
func (a *App) HandleAuth(ctx context.Context) {
	a.mu.Lock()
	form := a.authForm
	mode := a.authMode
	a.mu.Unlock()

	a.setBusy(true)
	defer a.setBusy(false)

	var (
		resp *types.AuthResponse
		err  error
	)
	email := strings.TrimSpace(form.Email)
	if mode == AuthModeLogin {
		resp, err = a.api.Login(ctx, types.LoginRequest{Email: email, Password: form.Password})
	} else {
		resp, err = a.api.Register(ctx, types.RegisterRequest{
			Email:    email,
			Password: form.Password,
			FullName: form.FullName,
		})
	}
	if err != nil {
		a.fail(err)
		return
	}

	if err := a.api.SetToken(resp.Token); err != nil {
		a.fail(err)
		return
	}

	profile, err := a.api.Me(ctx)
	if err != nil {
		a.fail(err)
		return
	}

	a.applyProfile(profile)
	name := profile.FullName
	if name == "" {
		name = profile.Email
	}
	a.setStatus(ToneSuccess, "Добро пожаловать, "+name)
	a.LoadLocations(ctx)
}

// Logout clears the token and every collection tied to the session.
func (a *App) Logout() {
	if err := a.api.SetToken(""); err != nil {
		a.log.Error().Err(err).Msg("failed to clear token")
	}
	a.authLost()
	a.setStatus(ToneInfo, "Вышли из системы")
}
