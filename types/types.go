package types

import "time"

type SpaceType string

const (
	SpaceTypeOpenDesk    SpaceType = "OPEN_DESK"
	SpaceTypeMeetingRoom SpaceType = "MEETING_ROOM"
)

type BookingStatus string

const (
	BookingStatusDraft     BookingStatus = "DRAFT"
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCanceled  BookingStatus = "CANCELED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusNoShow    BookingStatus = "NO_SHOW"
)

const RoleAdmin = "ADMIN"

type PenaltyType string

const (
	PenaltyTypeTimeout     PenaltyType = "TIMEOUT"
	PenaltyTypeMaxDuration PenaltyType = "MAX_DURATION_LIMIT"
	PenaltyTypeFine        PenaltyType = "FINE"
)

type Location struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type SpaceResponse struct {
	ID              int64     `json:"id"`
	LocationID      int64     `json:"locationId"`
	LocationName    string    `json:"locationName"`
	LocationAddress string    `json:"locationAddress"`
	Name            string    `json:"name"`
	Capacity        int       `json:"capacity"`
	Type            SpaceType `json:"type"`
	TariffPlanID    *int64    `json:"tariffPlanId"`
	Active          bool      `json:"active"`
}

// FreeSpaceResponse is one row of an availability search, not a persisted entity.
type FreeSpaceResponse struct {
	SpaceID   int64  `json:"spaceId"`
	SpaceName string `json:"spaceName"`
	Capacity  *int   `json:"capacity"`
}

type BookingResponse struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"userId"`
	SpaceID      int64         `json:"spaceId"`
	SpaceName    string        `json:"spaceName"`
	SpaceType    SpaceType     `json:"spaceType"`
	LocationID   int64         `json:"locationId"`
	LocationName string        `json:"locationName"`
	StartsAt     time.Time     `json:"startsAt"`
	EndsAt       time.Time     `json:"endsAt"`
	Status       BookingStatus `json:"status"`
	TotalCents   *int64        `json:"totalCents"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type CreateBookingRequest struct {
	UserID   int64  `json:"userId"`
	SpaceID  int64  `json:"spaceId"`
	StartsAt string `json:"startsAt"`
	EndsAt   string `json:"endsAt"`
}

type CreateBookingResponse struct {
	BookingID int64 `json:"bookingId"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type UserProfile struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

func (p UserProfile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type WalkInBookingRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	SpaceID  int64  `json:"spaceId"`
	StartsAt string `json:"startsAt"`
	EndsAt   string `json:"endsAt"`
}

type WalkInBookingResponse struct {
	UserID       int64   `json:"userId"`
	BookingID    int64   `json:"bookingId"`
	TempPassword *string `json:"tempPassword"`
	ExistingUser bool    `json:"existingUser"`
	UserEmail    string  `json:"userEmail"`
	UserFullName string  `json:"userFullName"`
}

type ReportRequest struct {
	From       string `json:"from"`
	To         string `json:"to"`
	LocationID *int64 `json:"locationId,omitempty"`
}

type ReportSummary struct {
	TotalBookings      int64   `json:"totalBookings"`
	Confirmed          int64   `json:"confirmed"`
	Pending            int64   `json:"pending"`
	Canceled           int64   `json:"canceled"`
	Completed          int64   `json:"completed"`
	AvgDurationMinutes float64 `json:"avgDurationMinutes"`
	TotalRevenueCents  int64   `json:"totalRevenueCents"`
}

type ReportByType struct {
	Type            string  `json:"type"`
	Bookings        int64   `json:"bookings"`
	DurationMinutes float64 `json:"durationMinutes"`
}

type ReportDaily struct {
	Day      string `json:"day"`
	Bookings int64  `json:"bookings"`
}

type ReportTopSpace struct {
	SpaceID   int64  `json:"spaceId"`
	SpaceName string `json:"spaceName"`
	Bookings  int64  `json:"bookings"`
}

type ReportResponse struct {
	Summary   ReportSummary    `json:"summary"`
	ByType    []ReportByType   `json:"byType"`
	Daily     []ReportDaily    `json:"daily"`
	TopSpaces []ReportTopSpace `json:"topSpaces"`
}

type PenaltyRequest struct {
	UserID       int64       `json:"userId"`
	Type         PenaltyType `json:"type"`
	Reason       string      `json:"reason,omitempty"`
	LimitMinutes *int        `json:"limitMinutes,omitempty"`
	AmountCents  *int64      `json:"amountCents,omitempty"`
	ExpiresAt    *time.Time  `json:"expiresAt,omitempty"`
}

type PenaltyResponse struct {
	ID               int64       `json:"id"`
	UserID           int64       `json:"userId"`
	Type             PenaltyType `json:"type"`
	Reason           string      `json:"reason"`
	LimitMinutes     *int        `json:"limitMinutes"`
	AmountCents      *int64      `json:"amountCents"`
	ExpiresAt        *time.Time  `json:"expiresAt"`
	CreatedAt        time.Time   `json:"createdAt"`
	RevokedAt        *time.Time  `json:"revokedAt"`
	CreatedByAdminID *int64      `json:"createdByAdminId"`
	Active           bool        `json:"active"`
}
