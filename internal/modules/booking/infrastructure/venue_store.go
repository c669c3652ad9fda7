package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stolikiApi/internal/modules/booking/application/port"
	"stolikiApi/internal/modules/booking/domain"
)

// PostgresVenueStore reads restaurants from the application database. The
// booking path only ever reads; venue CRUD lives in the CMS.
type PostgresVenueStore struct {
	pool *pgxpool.Pool
}

func NewPostgresVenueStore(pool *pgxpool.Pool) *PostgresVenueStore {
	return &PostgresVenueStore{pool: pool}
}

const venueColumns = `id, title, city, address, coalesce(remarked_point_id, 0), active`

func (s *PostgresVenueStore) FindByID(ctx context.Context, id string) (*domain.Venue, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+venueColumns+` FROM restaurants WHERE id = $1`, id)
	venue, err := scanVenue(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, port.ErrVenueNotFound
		}
		return nil, fmt.Errorf("select restaurant %s: %w", id, err)
	}
	return venue, nil
}

func (s *PostgresVenueStore) FindActive(ctx context.Context) ([]domain.Venue, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+venueColumns+` FROM restaurants WHERE active ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("select active restaurants: %w", err)
	}
	defer rows.Close()

	var venues []domain.Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		venues = append(venues, *venue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurants: %w", err)
	}
	return venues, nil
}

func scanVenue(row pgx.Row) (*domain.Venue, error) {
	var venue domain.Venue
	if err := row.Scan(&venue.ID, &venue.Title, &venue.City, &venue.Address, &venue.PointID, &venue.Active); err != nil {
		return nil, err
	}
	return &venue, nil
}
