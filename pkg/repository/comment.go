package repository

import (
	"context"

	"serveza.dev/Serveza/pkg/model"
)

// Comment appends return any persistence error to the caller; a comment is
// only ever handed back once it is committed.

func (r *Repository) GetBarComments(ctx context.Context, barID uint) ([]*model.BarComment, error) {
	var comments []*model.BarComment

	result := r.DB.WithContext(ctx).
		Joins("Author").
		Where("bar_comments.bar_id = ?", barID).
		Order("bar_comments.id").
		Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}

	return comments, nil
}

func (r *Repository) AddBarComment(ctx context.Context, comment *model.BarComment) error {
	result := r.DB.WithContext(ctx).Create(comment)

	return result.Error
}

func (r *Repository) GetBeerComments(ctx context.Context, beerID uint) ([]*model.BeerComment, error) {
	var comments []*model.BeerComment

	result := r.DB.WithContext(ctx).
		Joins("Author").
		Where("beer_comments.beer_id = ?", beerID).
		Order("beer_comments.id").
		Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}

	return comments, nil
}

func (r *Repository) AddBeerComment(ctx context.Context, comment *model.BeerComment) error {
	result := r.DB.WithContext(ctx).Create(comment)

	return result.Error
}
