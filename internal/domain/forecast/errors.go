package forecast

// IncompleteDataError signals a malformed or empty upstream series. It is recoverable:
// callers surface it as a descriptive payload instead of aborting.
type IncompleteDataError struct {
	Reason string
}

func (e *IncompleteDataError) Error() string {
	if e.Reason == "" {
		return "incomplete weather data"
	}
	return "incomplete weather data: " + e.Reason
}

// ErrorCode maps the failure onto the application error taxonomy.
func (e *IncompleteDataError) ErrorCode() string {
	return "incomplete_data"
}

// Payload is the tool-result body reported when the forecast is unavailable.
func (e *IncompleteDataError) Payload() map[string]string {
	return map[string]string{"error": "Incomplete weather data.", "detail": e.Reason}
}
