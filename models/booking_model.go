package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ActiveBookingStatuses hold a slot.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCompleted, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Duration is a consultation length in minutes.
type Duration int

const (
	Duration30  Duration = 30
	Duration60  Duration = 60
	Duration90  Duration = 90
	Duration120 Duration = 120
)

var Durations = []Duration{Duration30, Duration60, Duration90, Duration120}

func (d Duration) Valid() bool {
	for _, allowed := range Durations {
		if d == allowed {
			return true
		}
	}
	return false
}

func (d Duration) Minutes() int { return int(d) }

func (d Duration) Span() time.Duration {
	return time.Duration(d) * time.Minute
}

type Booking struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FarmerID           uuid.UUID     `gorm:"type:uuid;not null;index" json:"farmer_id"`
	ExpertID           uuid.UUID     `gorm:"type:uuid;not null;index" json:"expert_id"`
	BookingDate        Date          `gorm:"type:date;not null" json:"booking_date"`
	BookingTime        SlotTime      `gorm:"size:5;not null" json:"booking_time"`
	DurationMinutes    Duration      `gorm:"not null" json:"duration_minutes"`
	TotalPrice         float64       `gorm:"type:numeric(10,2);not null" json:"total_price"`
	FarmerName         string        `gorm:"size:255;not null" json:"farmer_name"`
	FarmerEmail        string        `gorm:"size:255;not null" json:"farmer_email"`
	FarmerPhone        string        `gorm:"size:50;not null" json:"farmer_phone"`
	ConsultationReason string        `gorm:"type:text;not null" json:"consultation_reason"`
	Status             BookingStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`

	StartsAt time.Time `gorm:"type:timestamp with time zone;not null;index" json:"starts_at"`
	EndsAt   time.Time `gorm:"type:timestamp with time zone;not null" json:"ends_at"`

	Expert *Expert `gorm:"foreignKey:ExpertID" json:"expert,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Overlaps reports whether b occupies any part of [start, end).
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartsAt.Before(end) && b.EndsAt.After(start)
}

// Covers reports whether the minute-of-day m falls within b's slot.
func (b *Booking) Covers(m int) bool {
	start := b.BookingTime.Minutes()
	return m >= start && m < start+b.DurationMinutes.Minutes()
}
