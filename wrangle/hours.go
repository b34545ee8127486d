package wrangle

import (
	"strings"
	"time"

	"cartotaco/models"
)

// dayAbbrevs is indexed by time.Weekday (Sunday = 0).
var dayAbbrevs = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// IsOpenNow reports whether an establishment with the given per-day hours
// is open at wall-clock time.
func IsOpenNow(startHours, endHours map[string]string) bool {
	return IsOpenNowAt(startHours, endHours, time.Now())
}

// IsOpenNowAt is the clock-injected form of IsOpenNow. It looks up
// {day}_start and {day}_end for now's weekday; a missing or unparseable
// bound means closed. Both interval ends are inclusive, and an end earlier
// than the start is treated as crossing midnight.
func IsOpenNowAt(startHours, endHours map[string]string, now time.Time) bool {
	day := dayAbbrevs[now.Weekday()]

	startRaw, ok := startHours[day+"_start"]
	if !ok {
		return false
	}
	endRaw, ok := endHours[day+"_end"]
	if !ok {
		return false
	}

	open, ok := ParseClockMinutes(startRaw)
	if !ok {
		return false
	}
	close, ok := ParseClockMinutes(endRaw)
	if !ok {
		return false
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	if close < open {
		return nowMinutes >= open || nowMinutes <= close
	}
	return nowMinutes >= open && nowMinutes <= close
}

// ParseClockMinutes converts "H:MM"/"HH:MM" 24-hour or "H:MM AM/PM" 12-hour
// time strings to minutes since midnight. The period marker is
// case-insensitive; 12:00 AM is 0 and 12:00 PM is 720.
func ParseClockMinutes(s string) (int, bool) {
	s = strings.TrimSpace(s)

	period := ""
	upper := strings.ToUpper(s)
	if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
		period = upper[len(upper)-2:]
		s = strings.TrimSpace(s[:len(s)-2])
	}

	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, ok := parseInt64(parts[0])
	if !ok {
		return 0, false
	}
	minute, ok := parseInt64(parts[1])
	if !ok || minute < 0 || minute > 59 {
		return 0, false
	}

	h := int(hour)
	switch period {
	case "":
		if h < 0 || h > 23 {
			return 0, false
		}
	default:
		if h < 1 || h > 12 {
			return 0, false
		}
		if h == 12 {
			h = 0
		}
		if period == "PM" {
			h += 12
		}
	}

	return h*60 + int(minute), true
}

var weekdayOrder = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

var dayDisplay = map[string]string{
	"mon": "Mo", "tue": "Tu", "wed": "We", "thu": "Th",
	"fri": "Fr", "sat": "Sa", "sun": "Su",
}

// ConvertHoursData shapes the raw per-day start/end values into the weekly
// Monday-first display schedule. A day missing either bound, or with an
// "NA" close, is closed; open/close show just the hour component.
func ConvertHoursData(startHours, endHours map[string]string) []models.DaySchedule {
	out := make([]models.DaySchedule, 0, len(weekdayOrder))
	for _, prefix := range weekdayOrder {
		start := startHours[prefix+"_start"]
		end := endHours[prefix+"_end"]

		row := models.DaySchedule{Day: dayDisplay[prefix]}
		if start == "" || end == "" || end == "NA" {
			row.Closed = true
		} else {
			row.Open = hourPart(start)
			row.Close = hourPart(end)
		}
		out = append(out, row)
	}
	return out
}

func hourPart(clock string) string {
	if i := strings.Index(clock, ":"); i >= 0 {
		return clock[:i]
	}
	return clock
}
