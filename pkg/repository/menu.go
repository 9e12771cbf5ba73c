package repository

import (
	"context"

	"gorm.io/gorm"

	"serveza.dev/Serveza/pkg/model"
)

func (r *Repository) GetMenu(ctx context.Context, barID uint) ([]*model.BarBeer, error) {
	var entries []*model.BarBeer

	result := r.DB.WithContext(ctx).
		Joins("Beer").
		Where("bar_beers.bar_id = ?", barID).
		Order("bar_beers.beer_id").
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

// AddMenuEntry relies on the composite primary key: a second price for the
// same (bar, beer) pair comes back as gorm.ErrDuplicatedKey.
func (r *Repository) AddMenuEntry(ctx context.Context, entry *model.BarBeer) error {
	result := r.DB.WithContext(ctx).Create(entry)

	return result.Error
}

func (r *Repository) UpdateMenuPrice(ctx context.Context, barID uint, beerID uint, price model.Price) error {
	result := r.DB.WithContext(ctx).Model(&model.BarBeer{}).
		Where("bar_id = ? AND beer_id = ?", barID, beerID).
		Updates(map[string]interface{}{"price_amount": price.Amount, "price_currency": price.Currency})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *Repository) RemoveMenuEntry(ctx context.Context, barID uint, beerID uint) error {
	result := r.DB.WithContext(ctx).
		Where("bar_id = ? AND beer_id = ?", barID, beerID).
		Delete(&model.BarBeer{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
