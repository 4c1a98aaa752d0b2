package review

import (
	"errors"
	"fmt"
)

// InvalidTimeSlot is returned by FormatTimeSlot for hours outside 0-23.
const InvalidTimeSlot = "Invalid hour"

var ErrInvalidHour = errors.New("invalid hour")

// FormatTimeSlot renders an hour of day as a one hour range on a 12 hour clock,
// e.g. 13 -> "1:00 PM - 2:00 PM".
//
// The end suffix is PM only for afternoon hours whose end is not 12, so 11 renders
// as "11:00 AM - 12:00 AM" and 23 as "11:00 PM - 12:00 AM".
func FormatTimeSlot(hour int) (string, error) {
	if hour < 0 || hour > 23 {
		return InvalidTimeSlot, fmt.Errorf("hour %d: %w", hour, ErrInvalidHour)
	}

	isPM := hour >= 12
	start := twelveHour(hour)
	end := twelveHour(hour + 1)

	return fmt.Sprintf("%d:00 %s - %d:00 %s", start, meridiem(isPM), end, meridiem(isPM && end != 12)), nil
}

func twelveHour(hour int) int {
	if h := hour % 12; h != 0 {
		return h
	}
	return 12
}

func meridiem(pm bool) string {
	if pm {
		return "PM"
	}
	return "AM"
}
