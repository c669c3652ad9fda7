package domain

// Venue is the persistence-layer restaurant record as the booking path
// sees it: the provider point id and the activity flag decide whether a
// venue is bookable at all.
type Venue struct {
	ID      string
	Title   string
	City    string
	Address string
	// PointID is the venue id at the reservation provider; zero means the
	// venue was never wired up for online booking.
	PointID int
	Active  bool
}

// Bookable reports whether reservations may be submitted for the venue.
func (v Venue) Bookable() bool {
	return v.Active && v.PointID != 0
}
