package main

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"coworkly/types"
)

func (s *Server) handleLocations(c *gin.Context) {
	rows, err := s.conn.Query(`SELECT id, name, address FROM locations ORDER BY name`)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}
	defer rows.Close()

	locations := []types.Location{}
	for rows.Next() {
		var loc types.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Address); err != nil {
			continue
		}
		locations = append(locations, loc)
	}
	c.JSON(http.StatusOK, locations)
}

const selectSpaces = `
	SELECT s.id, s.location_id, l.name, l.address, s.name, s.capacity, s.type, s.tariff_plan_id, s.active
	  FROM spaces s
	  JOIN locations l ON l.id = s.location_id
	 WHERE s.active = 1`

func scanSpaces(rows *sql.Rows) []types.SpaceResponse {
	spaces := []types.SpaceResponse{}
	for rows.Next() {
		var sp types.SpaceResponse
		if err := rows.Scan(&sp.ID, &sp.LocationID, &sp.LocationName, &sp.LocationAddress,
			&sp.Name, &sp.Capacity, &sp.Type, &sp.TariffPlanID, &sp.Active); err != nil {
			continue
		}
		spaces = append(spaces, sp)
	}
	return spaces
}

func (s *Server) handleSpaces(c *gin.Context) {
	rows, err := s.conn.Query(selectSpaces + ` ORDER BY s.name`)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}
	defer rows.Close()
	c.JSON(http.StatusOK, scanSpaces(rows))
}

func (s *Server) handleSpacesByLocation(c *gin.Context) {
	locationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Некорректный id локации")
		return
	}
	rows, err := s.conn.Query(selectSpaces+` AND s.location_id = ? ORDER BY s.name`, locationID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}
	defer rows.Close()
	c.JSON(http.StatusOK, scanSpaces(rows))
}

// handleFreeSpaces lists active spaces of a location with no overlapping
// live booking in the requested window.
func (s *Server) handleFreeSpaces(c *gin.Context) {
	locationID, err := strconv.ParseInt(c.Query("locationId"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Параметр locationId обязателен")
		return
	}
	from, err1 := time.Parse(time.RFC3339, c.Query("from"))
	to, err2 := time.Parse(time.RFC3339, c.Query("to"))
	if err1 != nil || err2 != nil || !to.After(from) {
		c.String(http.StatusBadRequest, "Параметры from и to должны быть корректными ISO-датами")
		return
	}
	capacity := 0
	if raw := c.Query("capacity"); raw != "" {
		if capacity, err = strconv.Atoi(raw); err != nil {
			c.String(http.StatusBadRequest, "Некорректная вместимость")
			return
		}
	}

	rows, err := s.conn.Query(`
		SELECT s.id, s.name, s.capacity
		  FROM spaces s
		 WHERE s.location_id = ? AND s.active = 1 AND s.capacity >= ?
		   AND NOT EXISTS (
				SELECT 1 FROM bookings b
				 WHERE b.space_id = s.id
				   AND b.status NOT IN ('CANCELED', 'NO_SHOW')
				   AND b.starts_at < ? AND b.ends_at > ?
		   )
		 ORDER BY s.name`,
		locationID, capacity, isoString(to), isoString(from),
	)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}
	defer rows.Close()

	free := []types.FreeSpaceResponse{}
	for rows.Next() {
		var fs types.FreeSpaceResponse
		if err := rows.Scan(&fs.SpaceID, &fs.SpaceName, &fs.Capacity); err != nil {
			continue
		}
		free = append(free, fs)
	}
	c.JSON(http.StatusOK, free)
}

func (s *Server) handleCreateBooking(c *gin.Context) {
	var req types.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Некорректный запрос")
		return
	}
	from, err1 := time.Parse(time.RFC3339, req.StartsAt)
	to, err2 := time.Parse(time.RFC3339, req.EndsAt)
	if err1 != nil || err2 != nil || !to.After(from) {
		c.String(http.StatusBadRequest, "Некорректный диапазон дат")
		return
	}

	// Residents may only book for themselves.
	user := currentUser(c)
	if user.Role != types.RoleAdmin && user.UserID != req.UserID {
		c.String(http.StatusForbidden, "Можно бронировать только для себя")
		return
	}

	if msg := s.checkPenalties(req.UserID, to.Sub(from)); msg != "" {
		c.String(http.StatusConflict, msg)
		return
	}

	var rate int64
	err := s.conn.QueryRow(
		`SELECT hourly_rate_cents FROM spaces WHERE id = ? AND active = 1`, req.SpaceID,
	).Scan(&rate)
	if err != nil {
		if err == sql.ErrNoRows {
			c.String(http.StatusNotFound, "Место не найдено или неактивно")
			return
		}
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}

	var conflicts int
	err = s.conn.QueryRow(`
		SELECT COUNT(*) FROM bookings
		 WHERE space_id = ? AND status NOT IN ('CANCELED', 'NO_SHOW')
		   AND starts_at < ? AND ends_at > ?`,
		req.SpaceID, isoString(to), isoString(from),
	).Scan(&conflicts)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}
	if conflicts > 0 {
		c.String(http.StatusConflict, "Место уже занято на этот интервал")
		return
	}

	total := int64(to.Sub(from).Hours()*float64(rate) + 0.5)
	res, err := s.conn.Exec(`
		INSERT INTO bookings (user_id, space_id, starts_at, ends_at, status, total_cents, created_at)
		VALUES (?, ?, ?, ?, 'PENDING', ?, ?)`,
		req.UserID, req.SpaceID, isoString(from), isoString(to), total, isoString(time.Now()),
	)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}
	bookingID, _ := res.LastInsertId()
	c.JSON(http.StatusOK, types.CreateBookingResponse{BookingID: bookingID})
}

// checkPenalties mirrors the service-side booking guards: an active TIMEOUT
// blocks booking entirely, MAX_DURATION_LIMIT caps the window length.
func (s *Server) checkPenalties(userID int64, duration time.Duration) string {
	rows, err := s.conn.Query(`
		SELECT type, limit_minutes, expires_at FROM penalties
		 WHERE user_id = ? AND revoked_at IS NULL
		   AND (expires_at IS NULL OR expires_at > ?)`,
		userID, isoString(time.Now()),
	)
	if err != nil {
		return ""
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind         string
			limitMinutes sql.NullInt64
			expiresAt    sql.NullString
		)
		if err := rows.Scan(&kind, &limitMinutes, &expiresAt); err != nil {
			continue
		}
		switch types.PenaltyType(kind) {
		case types.PenaltyTypeTimeout:
			until := "отмены"
			if expiresAt.Valid {
				until = expiresAt.String
			}
			return "У пользователя действует тайм-аут до " + until
		case types.PenaltyTypeMaxDuration:
			if limitMinutes.Valid && int64(duration.Minutes()) > limitMinutes.Int64 {
				return "Максимальная длительность брони: " + strconv.FormatInt(limitMinutes.Int64, 10) + " минут"
			}
		}
	}
	return ""
}

const selectBookings = `
	SELECT b.id, b.user_id, b.space_id, s.name, s.type, l.id, l.name,
	       b.starts_at, b.ends_at, b.status, b.total_cents, b.created_at
	  FROM bookings b
	  JOIN spaces s ON s.id = b.space_id
	  JOIN locations l ON l.id = s.location_id`

func (s *Server) handleBookingsForUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Некорректный id пользователя")
		return
	}
	// Residents may only read their own bookings.
	user := currentUser(c)
	if user.Role != types.RoleAdmin && user.UserID != userID {
		c.String(http.StatusForbidden, "Можно смотреть только свои брони")
		return
	}

	rows, err := s.conn.Query(selectBookings+` WHERE b.user_id = ? ORDER BY b.starts_at DESC`, userID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}
	defer rows.Close()

	bookings := []types.BookingResponse{}
	for rows.Next() {
		var (
			b                  types.BookingResponse
			starts, ends, made string
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.SpaceID, &b.SpaceName, &b.SpaceType,
			&b.LocationID, &b.LocationName, &starts, &ends, &b.Status, &b.TotalCents, &made); err != nil {
			continue
		}
		b.StartsAt, _ = time.Parse(time.RFC3339, starts)
		b.EndsAt, _ = time.Parse(time.RFC3339, ends)
		b.CreatedAt, _ = time.Parse(time.RFC3339, made)
		bookings = append(bookings, b)
	}
	c.JSON(http.StatusOK, bookings)
}

func (s *Server) handleConfirmBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Некорректный id брони")
		return
	}

	res, err := s.conn.Exec(
		`UPDATE bookings SET status = 'CONFIRMED' WHERE id = ? AND status IN ('DRAFT', 'PENDING')`,
		bookingID,
	)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.String(http.StatusConflict, "Бронь не найдена или не может быть подтверждена")
		return
	}
	c.Status(http.StatusNoContent)
}

func isoString(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
