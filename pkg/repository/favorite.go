package repository

import (
	"context"

	"serveza.dev/Serveza/pkg/model"
)

// Favorites are explicit association operations on the join tables; nothing
// is lazily loaded through the user aggregate.

func (r *Repository) GetFavoriteBars(ctx context.Context, user *model.User) ([]*model.Bar, error) {
	var bars []*model.Bar

	err := r.DB.WithContext(ctx).Model(user).Association("FavoriteBars").Find(&bars)
	if err != nil {
		return nil, err
	}

	return bars, nil
}

func (r *Repository) AddFavoriteBar(ctx context.Context, user *model.User, bar *model.Bar) error {
	return r.DB.WithContext(ctx).Model(user).Association("FavoriteBars").Append(bar)
}

func (r *Repository) RemoveFavoriteBar(ctx context.Context, user *model.User, bar *model.Bar) error {
	return r.DB.WithContext(ctx).Model(user).Association("FavoriteBars").Delete(bar)
}

func (r *Repository) GetFavoriteBeers(ctx context.Context, user *model.User) ([]*model.Beer, error) {
	var beers []*model.Beer

	err := r.DB.WithContext(ctx).Model(user).Association("FavoriteBeers").Find(&beers)
	if err != nil {
		return nil, err
	}

	return beers, nil
}

func (r *Repository) AddFavoriteBeer(ctx context.Context, user *model.User, beer *model.Beer) error {
	return r.DB.WithContext(ctx).Model(user).Association("FavoriteBeers").Append(beer)
}

func (r *Repository) RemoveFavoriteBeer(ctx context.Context, user *model.User, beer *model.Beer) error {
	return r.DB.WithContext(ctx).Model(user).Association("FavoriteBeers").Delete(beer)
}
