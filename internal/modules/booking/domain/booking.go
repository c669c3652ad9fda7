package domain

import "strings"

// BookingRequest is the widget submission shape received over HTTP.
type BookingRequest struct {
	RestaurantID string `json:"restaurantId"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	GuestsCount  int    `json:"guests_count"`
	Duration     *int   `json:"duration,omitempty"`
	Comment      string `json:"comment,omitempty"`
	TableIDs     []int  `json:"table_ids,omitempty"`
	EventTags    []int  `json:"eventTags,omitempty"`
	ConfirmCode  string `json:"confirm_code,omitempty"`
}

// MissingFields lists the required fields the request lacks, in a stable
// order, so the caller gets one complete validation answer per attempt.
func (r BookingRequest) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(r.RestaurantID) == "" {
		missing = append(missing, "restaurantId")
	}
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(r.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(r.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(r.Time) == "" {
		missing = append(missing, "time")
	}
	if r.GuestsCount <= 0 {
		missing = append(missing, "guests_count")
	}
	return missing
}

// BookingResult is the user-facing outcome of a successful submission.
type BookingResult struct {
	ReserveID int64  `json:"reserve_id"`
	FormURL   string `json:"form_url,omitempty"`
	Message   string `json:"message"`
}
