package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2024-01-01 is a Monday
func monday(hour, minute int) time.Time {
	return time.Date(2024, time.January, 1, hour, minute, 0, 0, time.UTC)
}

func weekdayHoursWithBreak() WeeklyHours {
	return WeeklyHours{
		"monday": {OpenTime: "08:00", CloseTime: "18:00", BreakStart: "12:00", BreakEnd: "13:00"},
		"sunday": {Closed: true},
	}
}

func TestWeeklyHours_IsOpen_MiddayBreak(t *testing.T) {
	hours := weekdayHoursWithBreak()

	assert.False(t, hours.IsOpen(monday(12, 30)))
	assert.True(t, hours.IsOpen(monday(10, 0)))
	assert.False(t, hours.IsOpen(monday(19, 0)))
}

func TestWeeklyHours_StatusAt(t *testing.T) {
	hours := weekdayHoursWithBreak()

	tests := []struct {
		name string
		at   time.Time
		want OpenStatus
	}{
		{name: "before opening", at: monday(7, 59), want: OpenStatus{State: OpenStateBeforeOpening, OpensAt: "08:00"}},
		{name: "at opening", at: monday(8, 0), want: OpenStatus{Open: true, State: OpenStateOpen, ClosesAt: "12:00"}},
		{name: "break start is closed", at: monday(12, 0), want: OpenStatus{State: OpenStateOnBreak, OpensAt: "13:00"}},
		{name: "break end is open", at: monday(13, 0), want: OpenStatus{Open: true, State: OpenStateOpen, ClosesAt: "18:00"}},
		{name: "close time is closed", at: monday(18, 0), want: OpenStatus{State: OpenStateAfterClosing}},
		{name: "closed day", at: monday(10, 0).AddDate(0, 0, 6), want: OpenStatus{State: OpenStateClosedToday}},
		{name: "no schedule", at: monday(10, 0).AddDate(0, 0, 1), want: OpenStatus{State: OpenStateNoSchedule}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hours.StatusAt(tt.at))
		})
	}
}

func TestWeeklyHours_MissingTimesTreatedAsClosed(t *testing.T) {
	hours := WeeklyHours{
		"monday": {OpenTime: "08:00"},
	}

	status := hours.StatusAt(monday(10, 0))
	assert.False(t, status.Open)
	assert.Equal(t, OpenStateClosedToday, status.State)
}

func TestWeeklyHours_AllDaySchedule(t *testing.T) {
	hours := WeeklyHours{
		"monday": {OpenTime: "00:00", CloseTime: "23:59"},
	}

	assert.True(t, hours.IsOpen(monday(0, 0)))
	assert.True(t, hours.IsOpen(monday(23, 58)))
	assert.False(t, hours.IsOpen(monday(23, 59)))
}

func TestWeeklyHours_OvernightSchedule(t *testing.T) {
	hours := WeeklyHours{
		"sunday": {OpenTime: "20:00", CloseTime: "02:00"},
		"monday": {OpenTime: "20:00", CloseTime: "02:00"},
	}

	assert.True(t, hours.IsOpen(monday(1, 30)), "sunday's span runs into monday")
	assert.False(t, hours.IsOpen(monday(2, 0)))
	assert.False(t, hours.IsOpen(monday(12, 0)))
	assert.True(t, hours.IsOpen(monday(21, 0)))
	assert.True(t, hours.IsOpen(monday(23, 59)))
}

func TestWeeklyHours_OvernightFromSaturdayWrapsToSunday(t *testing.T) {
	hours := WeeklyHours{
		"saturday": {OpenTime: "22:00", CloseTime: "03:00"},
	}
	sundayEarly := time.Date(2024, time.January, 7, 1, 0, 0, 0, time.UTC)

	status := hours.StatusAt(sundayEarly)
	assert.True(t, status.Open)
	assert.Equal(t, "03:00", status.ClosesAt)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "08:30", want: 510},
		{in: "9:05", want: 545},
		{in: "24:00", want: 1440},
		{in: "24:01", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "12:5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClinic_IsOpenAt_UsesClinicTimeZone(t *testing.T) {
	clinic := &Clinic{
		TimeZone: "America/Los_Angeles",
		Hours:    WeeklyHours{"monday": {OpenTime: "08:00", CloseTime: "18:00"}},
	}

	// 17:00 UTC Monday is 09:00 Monday in Los Angeles
	assert.True(t, clinic.IsOpenAt(monday(17, 0)))
	// 03:00 UTC Tuesday is 19:00 Monday in Los Angeles
	assert.False(t, clinic.IsOpenAt(monday(3, 0).AddDate(0, 0, 1)))
}
