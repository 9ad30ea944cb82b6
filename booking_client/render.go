package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"coworkly/types"
)

// toISO encodes a timestamp the way the backend expects instants.
func toISO(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatMoney(cents *int64) string {
	if cents == nil {
		return "—"
	}
	return fmt.Sprintf("$%.2f", float64(*cents)/100)
}

func formatDateTime(t time.Time) string {
	return t.Local().Format("02 Jan 15:04")
}

// statusTone maps a booking lifecycle status to a display tone.
func statusTone(status types.BookingStatus) string {
	switch status {
	case types.BookingStatusConfirmed, types.BookingStatusCompleted:
		return "good"
	case types.BookingStatusPending, types.BookingStatusDraft:
		return "warn"
	default:
		return "bad"
	}
}

func tonePrefix(tone Tone) string {
	switch tone {
	case ToneSuccess:
		return "✅"
	case ToneError:
		return "❌"
	default:
		return "ℹ️ "
	}
}

func printStatus(status *Status) {
	if status == nil {
		return
	}
	fmt.Printf("%s %s\n", tonePrefix(status.Tone), status.Text)
}

func printLocations(locations []types.Location, selectedID int64) {
	if len(locations) == 0 {
		fmt.Println("Локации еще не загружены")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tНазвание\tАдрес")
	for _, loc := range locations {
		marker := ""
		if loc.ID == selectedID {
			marker = " *"
		}
		fmt.Fprintf(w, "%d%s\t%s\t%s\n", loc.ID, marker, loc.Name, loc.Address)
	}
	w.Flush()
}

func printSpaces(spaces []types.SpaceResponse) {
	if len(spaces) == 0 {
		fmt.Println("Пространств нет")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tНазвание\tТип\tВместимость\tАктивно")
	for _, s := range spaces {
		active := "да"
		if !s.Active {
			active = "нет"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", s.ID, s.Name, s.Type, s.Capacity, active)
	}
	w.Flush()
}

func printFreeSpaces(freeSpaces []types.FreeSpaceResponse) {
	if len(freeSpaces) == 0 {
		fmt.Println("Свободных мест не найдено")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tНазвание\tВместимость")
	for _, fs := range freeSpaces {
		capacity := "—"
		if fs.Capacity != nil {
			capacity = strconv.Itoa(*fs.Capacity)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", fs.SpaceID, fs.SpaceName, capacity)
	}
	w.Flush()
}

func printBookings(bookings []types.BookingResponse) {
	if len(bookings) == 0 {
		fmt.Println("Броней нет")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tМесто\tЛокация\tНачало\tКонец\tСтатус\tСумма")
	for _, b := range bookings {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s (%s)\t%s\n",
			b.ID, b.SpaceName, b.LocationName,
			formatDateTime(b.StartsAt), formatDateTime(b.EndsAt),
			b.Status, statusTone(b.Status), formatMoney(b.TotalCents))
	}
	w.Flush()
}

func printPenalties(penalties []types.PenaltyResponse) {
	if len(penalties) == 0 {
		fmt.Println("Штрафов нет")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tПользователь\tТип\tПричина\tСумма\tИстекает\tАктивен")
	for _, p := range penalties {
		expires := "—"
		if p.ExpiresAt != nil {
			expires = formatDateTime(*p.ExpiresAt)
		}
		active := "нет"
		if p.Active {
			active = "да"
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.UserID, p.Type, p.Reason, formatMoney(p.AmountCents), expires, active)
	}
	w.Flush()
}

func printReport(report *types.ReportResponse) {
	if report == nil {
		fmt.Println("Отчет еще не загружен")
		return
	}

	s := report.Summary
	fmt.Println("Сводка:")
	fmt.Printf("  всего броней: %d (подтверждено %d, в ожидании %d, отменено %d, завершено %d)\n",
		s.TotalBookings, s.Confirmed, s.Pending, s.Canceled, s.Completed)
	fmt.Printf("  средняя длительность: %.1f мин, выручка: %s\n",
		s.AvgDurationMinutes, formatMoney(&s.TotalRevenueCents))

	if len(report.ByType) > 0 {
		fmt.Println("По типам:")
		for _, bt := range report.ByType {
			fmt.Printf("  %s: %d броней, %.1f мин\n", bt.Type, bt.Bookings, bt.DurationMinutes)
		}
	}
	if len(report.Daily) > 0 {
		fmt.Println("По дням:")
		for _, d := range report.Daily {
			fmt.Printf("  %s: %d\n", d.Day, d.Bookings)
		}
	}
	if len(report.TopSpaces) > 0 {
		fmt.Println("Топ пространств:")
		for _, ts := range report.TopSpaces {
			fmt.Printf("  #%d %s: %d броней\n", ts.SpaceID, ts.SpaceName, ts.Bookings)
		}
	}
}
