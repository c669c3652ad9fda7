package domain

// Period scopes availability and slot queries to a calendar range.
// Dates are ISO YYYY-MM-DD strings, From is expected to not exceed To.
type Period struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TokenOptions tunes a token issuance call. UniqueID is the caller's
// idempotency key; AdditionalInfo asks for venue capacity metadata
// alongside the token.
type TokenOptions struct {
	AdditionalInfo bool
	UniqueID       string
}

// TokenInfo is the answer of a getToken call. Capacity metadata is only
// present when the call asked for additional info.
type TokenInfo struct {
	Token       string `json:"token"`
	MaxGuests   int    `json:"max_guests,omitempty"`
	MinGuests   int    `json:"min_guests,omitempty"`
	SMSRequired bool   `json:"sms_confirmation,omitempty"`
}

// DayState is the per-day availability flag returned by getDaysStates.
type DayState struct {
	Date  string `json:"date"`
	State string `json:"state"`
}

// TableBundle groups tables that are only bookable together.
type TableBundle struct {
	TableIDs []int `json:"table_ids"`
}

// Slot is a discrete bookable window produced by the provider.
type Slot struct {
	Start    string        `json:"start"`
	End      string        `json:"end"`
	Free     bool          `json:"free"`
	TableIDs []int         `json:"table_ids,omitempty"`
	Bundles  []TableBundle `json:"combinations,omitempty"`
}

// SlotOptions tunes a getSlots query. Nil fields are omitted from the
// request entirely; the provider distinguishes absent from false.
type SlotOptions struct {
	WithRooms    *bool
	SlotDuration *int
}

// ReserveData is the payload submitted to createReserve. Name, Phone,
// Date, Time and GuestsCount are required by the provider; everything
// else is optional and omitted when unset.
type ReserveData struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	GuestsCount int    `json:"guests_count"`
	Duration    *int   `json:"duration,omitempty"`
	Comment     string `json:"comment,omitempty"`
	TableIDs    []int  `json:"table_ids,omitempty"`
	EventTags   []int  `json:"event_tags,omitempty"`
	Source      string `json:"source,omitempty"`
}

// ReserveResult is what a successful createReserve yields. FormURL is set
// when the venue requires a deposit before the reservation is confirmed.
type ReserveResult struct {
	ReserveID int64  `json:"reserve_id"`
	FormURL   string `json:"form_url,omitempty"`
}

// Reserve is a provider-side reservation record.
type Reserve struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	GuestsCount int    `json:"guests_count"`
	Duration    int    `json:"duration,omitempty"`
	Comment     string `json:"comment,omitempty"`
	TableIDs    []int  `json:"table_ids,omitempty"`
}

// ReserveList is a page of reservations.
type ReserveList struct {
	Reserves []Reserve `json:"reserves"`
	Total    int       `json:"total"`
}

// ReserveFilters narrows getReservesByPhone. Nil fields are absent from
// the request.
type ReserveFilters struct {
	Limit  *int
	Offset *int
	Sort   string
	Period *Period
}

// EventTag is a bookable occasion the venue advertises (banquets,
// birthdays and the like).
type EventTag struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Reservation statuses understood by changeReserveStatus.
const (
	ReserveStatusNew       = "new"
	ReserveStatusConfirmed = "confirmed"
	ReserveStatusClosed    = "closed"
	ReserveStatusCanceled  = "canceled"
)
