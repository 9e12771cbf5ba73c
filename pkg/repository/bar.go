package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"serveza.dev/Serveza/pkg/geo"
	"serveza.dev/Serveza/pkg/model"
)

// BarFilter narrows and ranks a bar listing. With a Position, results come
// back sorted by distance with Bar.Distance populated; RangeKm is an
// inclusive radius cut and only meaningful alongside a Position. BeerIDs
// keeps only bars whose menu is a superset of the requested set.
type BarFilter struct {
	Position *geo.Point
	RangeKm  *float64
	BeerIDs  []uint
	OwnerID  *uint
}

func (r *Repository) ListBars(ctx context.Context, filter BarFilter) ([]*model.Bar, error) {
	var bars []*model.Bar

	query := r.DB.WithContext(ctx).Model(&model.Bar{})

	if filter.OwnerID != nil {
		query = query.Where("bars.owner_id = ?", *filter.OwnerID)
	}

	if filter.Position != nil {
		distance := geo.DistanceSQL("bars.latitude", "bars.longitude")
		args := geo.DistanceArgs(*filter.Position)

		query = query.
			Select("bars.*, "+distance+" AS distance", args...).
			Order("distance")

		if filter.RangeKm != nil {
			// Postgres cannot reference the select alias in WHERE, so the
			// expression is repeated with its own bindings.
			query = query.Where(distance+" <= ?", append(append([]interface{}{}, args...), *filter.RangeKm)...)
		}
	} else {
		query = query.Order("bars.id")
	}

	if beerIDs := distinctIDs(filter.BeerIDs); len(beerIDs) > 0 {
		matched := r.DB.Table("bar_beers").
			Select("bar_id, count(distinct beer_id) AS matched").
			Where("beer_id IN ?", beerIDs).
			Group("bar_id")

		query = query.
			Joins("JOIN (?) AS menu_matches ON menu_matches.bar_id = bars.id", matched).
			Where("menu_matches.matched = ?", len(beerIDs))
	}

	if result := query.Find(&bars); result.Error != nil {
		r.Logger.Error("error listing bars", zap.Error(result.Error))

		return nil, result.Error
	}

	return bars, nil
}

func distinctIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	distinct := make([]uint, 0, len(ids))

	for _, id := range ids {
		if _, found := seen[id]; found {
			continue
		}

		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	return distinct
}

func (r *Repository) GetBar(ctx context.Context, barID uint) (*model.Bar, error) {
	var bar model.Bar

	result := r.DB.WithContext(ctx).
		Joins("Owner").
		Preload("Menu").
		Preload("Menu.Beer").
		First(&bar, barID)
	if result.Error != nil {
		return nil, result.Error
	}

	return &bar, nil
}

// FindBarByNamePosition is the idempotency lookup for bar creation: an
// existing bar with the same name and coordinates is reused instead of
// creating a duplicate. Returns nil without error when there is no match.
func (r *Repository) FindBarByNamePosition(ctx context.Context, name string, latitude *float64, longitude *float64) (*model.Bar, error) {
	var bar model.Bar

	query := r.DB.WithContext(ctx).Where("name = ?", name)

	if latitude != nil {
		query = query.Where("latitude = ?", *latitude)
	} else {
		query = query.Where("latitude IS NULL")
	}

	if longitude != nil {
		query = query.Where("longitude = ?", *longitude)
	} else {
		query = query.Where("longitude IS NULL")
	}

	result := query.First(&bar)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, result.Error
	}

	return &bar, nil
}

func (r *Repository) AddBar(ctx context.Context, bar *model.Bar) error {
	result := r.DB.WithContext(ctx).Create(bar)

	return result.Error
}

func (r *Repository) SaveBar(ctx context.Context, bar *model.Bar) error {
	result := r.DB.WithContext(ctx).Save(bar)

	return result.Error
}

func (r *Repository) DeleteBar(ctx context.Context, barID uint) error {
	result := r.DB.WithContext(ctx).Delete(&model.Bar{}, barID)

	return result.Error
}
