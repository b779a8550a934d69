package util

import "time"

// DateLayout is the ISO calendar date layout used across the assistant.
const DateLayout = "2006-01-02"

// IsISODate reports whether value is a valid YYYY-MM-DD calendar date.
func IsISODate(value string) bool {
	if len(value) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, value)
	return err == nil
}
