package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBookingStatusTransitions(t *testing.T) {
	all := []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted}
	allowed := map[BookingStatus]map[BookingStatus]bool{
		BookingPending:   {BookingConfirmed: true, BookingCompleted: true, BookingCancelled: true},
		BookingConfirmed: {BookingCompleted: true, BookingCancelled: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	if !BookingCancelled.Terminal() || !BookingCompleted.Terminal() {
		t.Fatalf("cancelled and completed must be terminal")
	}
	if BookingPending.Terminal() || BookingConfirmed.Terminal() {
		t.Fatalf("pending and confirmed must not be terminal")
	}
}

func TestDurationValid(t *testing.T) {
	for _, d := range []Duration{30, 60, 90, 120} {
		if !d.Valid() {
			t.Errorf("expected %d to be valid", d)
		}
	}
	for _, d := range []Duration{0, 15, 45, 180} {
		if d.Valid() {
			t.Errorf("expected %d to be invalid", d)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	var payload struct {
		Date Date `json:"date"`
	}
	if err := json.Unmarshal([]byte(`{"date":"2024-06-10"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Date.String() != "2024-06-10" {
		t.Fatalf("unexpected date %s", payload.Date)
	}
	if payload.Date.Weekday() != time.Monday {
		t.Fatalf("expected Monday, got %s", payload.Date.Weekday())
	}

	if err := json.Unmarshal([]byte(`{"date":"10/06/2024"}`), &payload); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan time: %v", err)
	}
	if d.String() != "2024-06-10" {
		t.Fatalf("unexpected date %s", d)
	}
	if err := d.Scan("2024-07-01T00:00:00Z"); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if d.String() != "2024-07-01" {
		t.Fatalf("unexpected date %s", d)
	}
}

func TestSlotTime(t *testing.T) {
	st, err := ParseSlotTime("9:00")
	if err == nil {
		t.Fatalf("expected single-digit hour to be rejected, got %s", st)
	}

	st, err = ParseSlotTime("14:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if st.Minutes() != 14*60 {
		t.Fatalf("unexpected minutes %d", st.Minutes())
	}
	if !st.OnGrid() {
		t.Fatalf("14:00 should be on the grid")
	}
	if SlotTime("13:00").OnGrid() {
		t.Fatalf("13:00 is the lunch gap")
	}

	lagos, _ := time.LoadLocation("Africa/Lagos")
	d, _ := ParseDate("2024-06-10")
	at := st.At(d, lagos)
	if at.Hour() != 14 || at.Location() != lagos {
		t.Fatalf("unexpected instant %v", at)
	}
}

func TestBookingCovers(t *testing.T) {
	b := Booking{BookingTime: "10:00", DurationMinutes: Duration90}
	cases := map[string]bool{"09:00": false, "10:00": true, "11:00": true, "11:30": false}
	for slot, want := range cases {
		if got := b.Covers(SlotTime(slot).Minutes()); got != want {
			t.Errorf("Covers(%s) = %v, want %v", slot, got, want)
		}
	}
}

func TestEnumLabels(t *testing.T) {
	if SpecLivestock.Label() != "Livestock Management" {
		t.Fatalf("unexpected label %q", SpecLivestock.Label())
	}
	if Specialization("astrology").Valid() {
		t.Fatalf("unknown specialization must be invalid")
	}
	if Experience20Plus.Label() != "20+ years" {
		t.Fatalf("unexpected label %q", Experience20Plus.Label())
	}
	if AvailabilityWeekends.Label() != "Weekends only" {
		t.Fatalf("unexpected label %q", AvailabilityWeekends.Label())
	}
}
