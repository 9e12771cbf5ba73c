package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"serveza.dev/Serveza/pkg/model"
)

func (r *Repository) ListBeers(ctx context.Context) ([]*model.Beer, error) {
	var beers []*model.Beer

	if result := r.DB.WithContext(ctx).Order("beers.id").Find(&beers); result.Error != nil {
		return nil, result.Error
	}

	return beers, nil
}

func (r *Repository) GetBeer(ctx context.Context, beerID uint) (*model.Beer, error) {
	var beer model.Beer

	if result := r.DB.WithContext(ctx).First(&beer, beerID); result.Error != nil {
		return nil, result.Error
	}

	return &beer, nil
}

// FindBeerByName backs the idempotent create: a beer already known under the
// same name is reused. Returns nil without error when there is no match.
func (r *Repository) FindBeerByName(ctx context.Context, name string) (*model.Beer, error) {
	var beer model.Beer

	result := r.DB.WithContext(ctx).Where("name = ?", name).First(&beer)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, result.Error
	}

	return &beer, nil
}

func (r *Repository) AddBeer(ctx context.Context, beer *model.Beer) error {
	result := r.DB.WithContext(ctx).Create(beer)

	return result.Error
}
