package main

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"coworkly/types"
)

// handleWalkIn books a space for a visitor, provisioning an account with a
// temporary password when the email is unknown.
func (s *Server) handleWalkIn(c *gin.Context) {
	var req types.WalkInBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Некорректный запрос")
		return
	}
	if req.Email == "" || req.SpaceID == 0 {
		c.String(http.StatusBadRequest, "Email и место обязательны")
		return
	}
	from, err1 := time.Parse(time.RFC3339, req.StartsAt)
	to, err2 := time.Parse(time.RFC3339, req.EndsAt)
	if err1 != nil || err2 != nil || !to.After(from) {
		c.String(http.StatusBadRequest, "Некорректный диапазон дат")
		return
	}

	var (
		userID       int64
		fullName     string
		tempPassword *string
		existingUser bool
	)
	err := s.conn.QueryRow(`SELECT id, full_name FROM users WHERE email = ?`, req.Email).
		Scan(&userID, &fullName)
	switch {
	case err == sql.ErrNoRows:
		generated := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(generated), bcrypt.DefaultCost)
		if hashErr != nil {
			c.String(http.StatusInternalServerError, "Ошибка хэширования пароля")
			return
		}
		res, insErr := s.conn.Exec(
			`INSERT INTO users (email, full_name, password_hash) VALUES (?, ?, ?)`,
			req.Email, req.FullName, string(hash),
		)
		if insErr != nil {
			c.String(http.StatusInternalServerError, "Ошибка базы данных")
			return
		}
		userID, _ = res.LastInsertId()
		fullName = req.FullName
		tempPassword = &generated
	case err != nil:
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	default:
		existingUser = true
	}

	var rate int64
	if err := s.conn.QueryRow(
		`SELECT hourly_rate_cents FROM spaces WHERE id = ? AND active = 1`, req.SpaceID,
	).Scan(&rate); err != nil {
		c.String(http.StatusNotFound, "Место не найдено или неактивно")
		return
	}

	total := int64(to.Sub(from).Hours()*float64(rate) + 0.5)
	res, err := s.conn.Exec(`
		INSERT INTO bookings (user_id, space_id, starts_at, ends_at, status, total_cents, created_at)
		VALUES (?, ?, ?, ?, 'CONFIRMED', ?, ?)`,
		userID, req.SpaceID, isoString(from), isoString(to), total, isoString(time.Now()),
	)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}
	bookingID, _ := res.LastInsertId()

	c.JSON(http.StatusOK, types.WalkInBookingResponse{
		UserID:       userID,
		BookingID:    bookingID,
		TempPassword: tempPassword,
		ExistingUser: existingUser,
		UserEmail:    req.Email,
		UserFullName: fullName,
	})
}

func (s *Server) handleReport(c *gin.Context) {
	var req types.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Некорректный запрос")
		return
	}
	from, err1 := time.Parse(time.RFC3339, req.From)
	to, err2 := time.Parse(time.RFC3339, req.To)
	if err1 != nil || err2 != nil {
		c.String(http.StatusBadRequest, "Параметры from и to обязательны")
		return
	}
	var locationID int64
	if req.LocationID != nil {
		locationID = *req.LocationID
	}

	report := types.ReportResponse{
		ByType:    []types.ReportByType{},
		Daily:     []types.ReportDaily{},
		TopSpaces: []types.ReportTopSpace{},
	}

	err := s.conn.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN b.status = 'CONFIRMED' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN b.status = 'PENDING' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN b.status = 'CANCELED' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN b.status = 'COMPLETED' THEN 1 ELSE 0 END), 0),
		       COALESCE(AVG((julianday(b.ends_at) - julianday(b.starts_at)) * 1440), 0),
		       COALESCE(SUM(CASE WHEN b.status IN ('CONFIRMED', 'COMPLETED') THEN b.total_cents END), 0)
		  FROM bookings b
		  JOIN spaces s ON s.id = b.space_id
		 WHERE b.starts_at >= ? AND b.starts_at < ?
		   AND (? = 0 OR s.location_id = ?)`,
		isoString(from), isoString(to), locationID, locationID,
	).Scan(&report.Summary.TotalBookings, &report.Summary.Confirmed, &report.Summary.Pending,
		&report.Summary.Canceled, &report.Summary.Completed,
		&report.Summary.AvgDurationMinutes, &report.Summary.TotalRevenueCents)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}

	rows, err := s.conn.Query(`
		SELECT s.type, COUNT(*),
		       COALESCE(SUM((julianday(b.ends_at) - julianday(b.starts_at)) * 1440), 0)
		  FROM bookings b
		  JOIN spaces s ON s.id = b.space_id
		 WHERE b.starts_at >= ? AND b.starts_at < ?
		   AND (? = 0 OR s.location_id = ?)
		 GROUP BY s.type`,
		isoString(from), isoString(to), locationID, locationID,
	)
	if err == nil {
		for rows.Next() {
			var bt types.ReportByType
			if rows.Scan(&bt.Type, &bt.Bookings, &bt.DurationMinutes) == nil {
				report.ByType = append(report.ByType, bt)
			}
		}
		rows.Close()
	}

	rows, err = s.conn.Query(`
		SELECT date(b.starts_at), COUNT(*)
		  FROM bookings b
		  JOIN spaces s ON s.id = b.space_id
		 WHERE b.starts_at >= ? AND b.starts_at < ?
		   AND (? = 0 OR s.location_id = ?)
		 GROUP BY date(b.starts_at)
		 ORDER BY date(b.starts_at)`,
		isoString(from), isoString(to), locationID, locationID,
	)
	if err == nil {
		for rows.Next() {
			var d types.ReportDaily
			if rows.Scan(&d.Day, &d.Bookings) == nil {
				report.Daily = append(report.Daily, d)
			}
		}
		rows.Close()
	}

	rows, err = s.conn.Query(`
		SELECT s.id, s.name, COUNT(*) AS bookings
		  FROM bookings b
		  JOIN spaces s ON s.id = b.space_id
		 WHERE b.starts_at >= ? AND b.starts_at < ?
		   AND (? = 0 OR s.location_id = ?)
		 GROUP BY s.id, s.name
		 ORDER BY bookings DESC
		 LIMIT 5`,
		isoString(from), isoString(to), locationID, locationID,
	)
	if err == nil {
		for rows.Next() {
			var ts types.ReportTopSpace
			if rows.Scan(&ts.SpaceID, &ts.SpaceName, &ts.Bookings) == nil {
				report.TopSpaces = append(report.TopSpaces, ts)
			}
		}
		rows.Close()
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) handleCreatePenalty(c *gin.Context) {
	var req types.PenaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Некорректный запрос")
		return
	}
	switch req.Type {
	case types.PenaltyTypeTimeout, types.PenaltyTypeMaxDuration, types.PenaltyTypeFine:
	default:
		c.String(http.StatusBadRequest, "Неизвестный тип штрафа")
		return
	}

	admin := currentUser(c)
	var expires interface{}
	if req.ExpiresAt != nil {
		expires = isoString(*req.ExpiresAt)
	}
	res, err := s.conn.Exec(`
		INSERT INTO penalties (user_id, type, reason, limit_minutes, amount_cents, expires_at, created_at, created_by_admin_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		req.UserID, req.Type, req.Reason, req.LimitMinutes, req.AmountCents,
		expires, isoString(time.Now()), admin.UserID,
	)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}
	penaltyID, _ := res.LastInsertId()

	penalty, err := s.loadPenalty(penaltyID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}
	c.JSON(http.StatusOK, penalty)
}

func (s *Server) handleListPenalties(c *gin.Context) {
	var userID int64
	if raw := c.Query("userId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.String(http.StatusBadRequest, "Некорректный id пользователя")
			return
		}
		userID = parsed
	}
	activeOnly := c.Query("activeOnly") == "true"
	s.listPenalties(c, userID, activeOnly)
}

func (s *Server) handleMyPenalties(c *gin.Context) {
	s.listPenalties(c, currentUser(c).UserID, true)
}

func (s *Server) listPenalties(c *gin.Context, userID int64, activeOnly bool) {
	now := isoString(time.Now())
	rows, err := s.conn.Query(`
		SELECT id, user_id, type, reason, limit_minutes, amount_cents, expires_at, created_at, revoked_at, created_by_admin_id
		  FROM penalties
		 WHERE (? = 0 OR user_id = ?)
		   AND (? = 0 OR (revoked_at IS NULL AND (expires_at IS NULL OR expires_at > ?)))
		 ORDER BY created_at DESC`,
		userID, userID, boolArg(activeOnly), now,
	)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}
	defer rows.Close()

	penalties := []types.PenaltyResponse{}
	for rows.Next() {
		if p, err := scanPenalty(rows); err == nil {
			penalties = append(penalties, p)
		}
	}
	c.JSON(http.StatusOK, penalties)
}

func (s *Server) handleRevokePenalty(c *gin.Context) {
	penaltyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Некорректный id штрафа")
		return
	}
	res, err := s.conn.Exec(
		`UPDATE penalties SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
		isoString(time.Now()), penaltyID,
	)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.String(http.StatusNotFound, "Штраф не найден")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) loadPenalty(id int64) (types.PenaltyResponse, error) {
	row := s.conn.QueryRow(`
		SELECT id, user_id, type, reason, limit_minutes, amount_cents, expires_at, created_at, revoked_at, created_by_admin_id
		  FROM penalties WHERE id = ?`, id)
	return scanPenalty(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPenalty(row rowScanner) (types.PenaltyResponse, error) {
	var (
		p            types.PenaltyResponse
		limitMinutes sql.NullInt64
		amountCents  sql.NullInt64
		expiresAt    sql.NullString
		createdAt    string
		revokedAt    sql.NullString
		adminID      sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Type, &p.Reason, &limitMinutes, &amountCents,
		&expiresAt, &createdAt, &revokedAt, &adminID)
	if err != nil {
		return p, err
	}

	if limitMinutes.Valid {
		v := int(limitMinutes.Int64)
		p.LimitMinutes = &v
	}
	if amountCents.Valid {
		p.AmountCents = &amountCents.Int64
	}
	if expiresAt.Valid {
		if t, err := time.Parse(time.RFC3339, expiresAt.String); err == nil {
			p.ExpiresAt = &t
		}
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if revokedAt.Valid {
		if t, err := time.Parse(time.RFC3339, revokedAt.String); err == nil {
			p.RevokedAt = &t
		}
	}
	if adminID.Valid {
		p.CreatedByAdminID = &adminID.Int64
	}

	now := time.Now()
	p.Active = p.RevokedAt == nil && (p.ExpiresAt == nil || p.ExpiresAt.After(now))
	return p, nil
}

func boolArg(v bool) int {
	if v {
		return 1
	}
	return 0
}
