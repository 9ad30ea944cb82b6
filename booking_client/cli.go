package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"coworkly/api"
	"coworkly/types"
)

const inputTimeLayout = "2006-01-02 15:04"

func promptInput(prompt string) string {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(prompt)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func promptInt64(prompt string) (int64, bool) {
	raw := promptInput(prompt)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Println("Нужно целое число")
		return 0, false
	}
	return value, true
}

func promptTime(prompt string, fallback time.Time) time.Time {
	raw := promptInput(fmt.Sprintf("%s [%s]: ", prompt, fallback.Format(inputTimeLayout)))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseInLocation(inputTimeLayout, raw, time.Local)
	if err != nil {
		fmt.Println("Неверный формат, оставляю", fallback.Format(inputTimeLayout))
		return fallback
	}
	return parsed
}

func printMenu(app *App) {
	fmt.Println()
	fmt.Println("========================================")
	if profile := app.Profile(); profile != nil {
		fmt.Printf("Coworkly — %s (%s)\n", profile.Email, profile.Role)
	} else {
		fmt.Println("Coworkly — не авторизован")
	}
	fmt.Println("========================================")
	if app.Profile() == nil {
		fmt.Println(" 1) Войти")
		fmt.Println(" 2) Зарегистрироваться")
	} else {
		fmt.Println(" 1) Выйти")
		fmt.Println(" 2) Локации и выбор локации")
		fmt.Println(" 3) Пространства выбранной локации")
		fmt.Println(" 4) Диапазон дат и вместимость")
		fmt.Println(" 5) Найти свободные места")
		fmt.Println(" 6) Забронировать место")
		fmt.Println(" 7) Мои брони")
		fmt.Println(" 8) Мои штрафы")
	}
	if app.IsAdmin() {
		fmt.Println(" 9) Подтвердить бронь")
		fmt.Println("10) Walk-in оформление")
		fmt.Println("11) Отчет")
		fmt.Println("12) Экспорт отчета в PDF")
		fmt.Println("13) Штрафы (админ)")
		fmt.Println("14) Пользователь для операций (acting user)")
	}
	fmt.Println(" 0) Выход")
}

func runCLI(ctx context.Context, app *App, reportDir string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		printMenu(app)
		choice := promptInput("> ")

		if app.Profile() == nil {
			switch choice {
			case "1", "2":
				mode := AuthModeLogin
				if choice == "2" {
					mode = AuthModeRegister
				}
				app.SetAuthMode(mode)
				form := AuthForm{
					Email:    promptInput("Email: "),
					Password: promptInput("Пароль: "),
				}
				if mode == AuthModeRegister {
					form.FullName = promptInput("Имя: ")
				}
				app.SetAuthForm(form)
				app.HandleAuth(ctx)
			case "0":
				return
			default:
				fmt.Println("Неизвестная команда")
			}
			printStatus(app.Status())
			continue
		}

		switch choice {
		case "1":
			app.Logout()
		case "2":
			printLocations(app.Locations(), app.SelectedLocationID())
			if id, ok := promptInt64("Выбрать локацию (Enter — пропустить): "); ok {
				app.SelectLocation(ctx, id)
			}
		case "3":
			printSpaces(app.Spaces())
		case "4":
			from, to := app.Range()
			from = promptTime("Начало", from)
			to = promptTime("Конец", to)
			app.SetRange(from, to)
			raw := promptInput("Вместимость (Enter — без фильтра): ")
			if raw == "" {
				app.SetCapacity(nil)
			} else if capacity, err := strconv.Atoi(raw); err == nil {
				app.SetCapacity(&capacity)
			} else {
				fmt.Println("Нужно целое число, фильтр сброшен")
				app.SetCapacity(nil)
			}
		case "5":
			app.FindFreeSpaces(ctx)
			printFreeSpaces(app.FreeSpaces())
		case "6":
			if id, ok := promptInt64("ID места: "); ok {
				app.Book(ctx, id)
			}
		case "7":
			app.LoadBookings(ctx)
			printBookings(app.Bookings())
		case "8":
			app.LoadMyPenalties(ctx)
			printPenalties(app.Penalties())
		case "9":
			if id, ok := promptInt64("ID брони: "); ok {
				app.Confirm(ctx, id)
			}
		case "10":
			form := app.WalkInForm()
			form.Email = promptInput("Email посетителя: ")
			form.FullName = promptInput("Имя посетителя: ")
			if id, ok := promptInt64(fmt.Sprintf("ID места [%d]: ", form.SpaceID)); ok {
				form.SpaceID = id
			}
			app.SetWalkInForm(form)
			app.CreateWalkIn(ctx)
		case "11":
			app.FetchReport(ctx)
			printReport(app.Report())
		case "12":
			report := app.Report()
			if report == nil {
				fmt.Println("Сначала загрузите отчет")
				break
			}
			path, err := exportReportPDF(report, reportDir)
			if err != nil {
				app.setStatus(ToneError, err.Error())
				break
			}
			app.setStatus(ToneSuccess, "Отчет сохранен: "+path)
		case "13":
			runPenaltyMenu(ctx, app)
		case "14":
			if !app.IsAdmin() {
				fmt.Println("Неизвестная команда")
				break
			}
			if id, ok := promptInt64("ID пользователя: "); ok {
				app.SetActingUserID(id)
			}
		case "0":
			return
		default:
			fmt.Println("Неизвестная команда")
		}

		printStatus(app.Status())
	}
}

func runPenaltyMenu(ctx context.Context, app *App) {
	fmt.Println(" a) Список  b) Создать  c) Отозвать")
	switch promptInput("> ") {
	case "a":
		filter := api.PenaltyFilter{}
		if id, ok := promptInt64("Фильтр по пользователю (Enter — все): "); ok {
			filter.UserID = &id
		}
		filter.ActiveOnly = promptInput("Только активные? (y/N): ") == "y"
		app.LoadAdminPenalties(ctx, filter)
		printPenalties(app.Penalties())
	case "b":
		req := types.PenaltyRequest{}
		id, ok := promptInt64("ID пользователя: ")
		if !ok {
			return
		}
		req.UserID = id
		req.Type = types.PenaltyType(promptInput("Тип (TIMEOUT/MAX_DURATION_LIMIT/FINE): "))
		req.Reason = promptInput("Причина: ")
		switch req.Type {
		case types.PenaltyTypeMaxDuration:
			if limit, ok := promptInt64("Лимит, минут: "); ok {
				v := int(limit)
				req.LimitMinutes = &v
			}
		case types.PenaltyTypeFine:
			if amount, ok := promptInt64("Сумма, центов: "); ok {
				req.AmountCents = &amount
			}
		}
		app.CreatePenalty(ctx, req)
	case "c":
		if id, ok := promptInt64("ID штрафа: "); ok {
			app.RevokePenalty(ctx, id)
		}
	}
}
