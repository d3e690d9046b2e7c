package repository

import (
	"context"
	"errors"
	"fmt"

	"rental-booking/internal/data/entity"
	"rental-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PropertyRepository is a read-only view of the listing service's catalogue.
type PropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)
}

type propertyRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPropertyRepository(db database.Querier, log *zap.Logger) PropertyRepository {
	return &propertyRepository{
		db:  db,
		log: log.With(zap.String("repository", "property")),
	}
}

func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	query := `SELECT id, price_per_night::text, max_guests FROM properties WHERE id = $1`

	var (
		property entity.Property
		price    string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&property.ID, &price, &property.MaxGuests)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find property by ID",
			zap.Error(err),
			zap.String("property_id", id.String()),
		)
		return nil, fmt.Errorf("find property by ID %s: %w", id, err)
	}

	if property.PricePerNight, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price of property %s: %w", id, err)
	}

	return &property, nil
}
