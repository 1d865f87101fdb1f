package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// DaySchedule is a single weekday's opening hours. Times are "HH:MM" on a
// 24-hour clock. When a break exists, OpenTime < BreakStart < BreakEnd < CloseTime.
type DaySchedule struct {
	Closed     bool   `json:"closed"`
	OpenTime   string `json:"open_time,omitempty"`
	CloseTime  string `json:"close_time,omitempty"`
	BreakStart string `json:"break_start,omitempty"`
	BreakEnd   string `json:"break_end,omitempty"`
}

// WeeklyHours maps lowercase weekday names ("monday") to schedules
type WeeklyHours map[string]DaySchedule

// OpenState explains the outcome of an hours evaluation
type OpenState string

const (
	OpenStateOpen          OpenState = "open"
	OpenStateClosedToday   OpenState = "closed_today"
	OpenStateOnBreak       OpenState = "on_break"
	OpenStateBeforeOpening OpenState = "before_opening"
	OpenStateAfterClosing  OpenState = "after_closing"
	OpenStateNoSchedule    OpenState = "no_schedule"
)

// OpenStatus is the result of evaluating weekly hours at an instant
type OpenStatus struct {
	Open     bool      `json:"open"`
	State    OpenState `json:"state"`
	ClosesAt string    `json:"closes_at,omitempty"`
	OpensAt  string    `json:"opens_at,omitempty"`
}

// ParseClock parses "HH:MM" into minutes after midnight. "24:00" is accepted
// as the end of the day.
func ParseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", value, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", value, err)
	}
	if hours < 0 || hours > 24 || minutes < 0 || minutes > 59 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("clock value %q out of range", value)
	}
	return hours*60 + minutes, nil
}

// ForDay returns the schedule for a weekday and whether one was defined
func (h WeeklyHours) ForDay(day time.Weekday) (DaySchedule, bool) {
	schedule, ok := h[strings.ToLower(day.String())]
	return schedule, ok
}

// IsOpen reports whether the hours table is open at now. Evaluation uses
// now's own location; convert to the clinic's zone before calling.
func (h WeeklyHours) IsOpen(now time.Time) bool {
	return h.StatusAt(now).Open
}

// StatusAt evaluates the hours table at now.
//
// A schedule whose close time is not after its open time runs past midnight
// and is closed by the following day's evaluation.
func (h WeeklyHours) StatusAt(now time.Time) OpenStatus {
	minute := now.Hour()*60 + now.Minute()

	if prev, ok := h.ForDay(now.Weekday() - 1 + weekdayWrap(now.Weekday())); ok {
		if span, ok := prev.span(); ok && span.overnight && minute < span.close {
			return OpenStatus{Open: true, State: OpenStateOpen, ClosesAt: prev.CloseTime}
		}
	}

	today, ok := h.ForDay(now.Weekday())
	if !ok {
		return OpenStatus{State: OpenStateNoSchedule}
	}
	if today.Closed {
		return OpenStatus{State: OpenStateClosedToday}
	}

	span, ok := today.span()
	if !ok {
		return OpenStatus{State: OpenStateClosedToday}
	}

	if span.hasBreak && minute >= span.breakStart && minute < span.breakEnd {
		return OpenStatus{State: OpenStateOnBreak, OpensAt: today.BreakEnd}
	}

	if minute < span.open {
		return OpenStatus{State: OpenStateBeforeOpening, OpensAt: today.OpenTime}
	}

	if span.overnight || minute < span.close {
		closesAt := today.CloseTime
		if span.hasBreak && minute < span.breakStart {
			closesAt = today.BreakStart
		}
		return OpenStatus{Open: true, State: OpenStateOpen, ClosesAt: closesAt}
	}

	return OpenStatus{State: OpenStateAfterClosing}
}

type daySpan struct {
	open       int
	close      int
	breakStart int
	breakEnd   int
	hasBreak   bool
	overnight  bool
}

// span parses the schedule. A day without both open and close times is
// reported as unusable and treated as closed.
func (d DaySchedule) span() (daySpan, bool) {
	if d.Closed || d.OpenTime == "" || d.CloseTime == "" {
		return daySpan{}, false
	}
	open, err := ParseClock(d.OpenTime)
	if err != nil {
		return daySpan{}, false
	}
	closeAt, err := ParseClock(d.CloseTime)
	if err != nil {
		return daySpan{}, false
	}

	s := daySpan{open: open, close: closeAt, overnight: closeAt <= open}
	if s.overnight {
		s.close = closeAt % minutesPerDay
	}

	if d.BreakStart != "" && d.BreakEnd != "" {
		bs, errStart := ParseClock(d.BreakStart)
		be, errEnd := ParseClock(d.BreakEnd)
		if errStart == nil && errEnd == nil && bs < be {
			s.breakStart, s.breakEnd, s.hasBreak = bs, be, true
		}
	}

	return s, true
}

// weekdayWrap lets Sunday-1 index Saturday
func weekdayWrap(day time.Weekday) time.Weekday {
	if day == time.Sunday {
		return 7
	}
	return 0
}
