package repository

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"serveza.dev/Serveza/pkg/model"
)

// EventFilter narrows the notification feed. Since is the caller's watermark
// (inclusive); Kind filters on the type discriminator; BarIDs keeps only
// variants carrying one of the given bars, which excludes variants without a
// bar reference altogether.
type EventFilter struct {
	Since  *time.Time
	Kind   *string
	BarIDs []uint
}

// AddBarEvent writes the shared base row and the subtype row together; the
// two share the notification primary key.
func (r *Repository) AddBarEvent(ctx context.Context, event *model.BarEvent) error {
	event.Notification.Type = model.NotificationTypeBarEvent

	result := r.DB.WithContext(ctx).Create(event)

	return result.Error
}

// ListBarEvents returns the events attached to one bar, oldest first.
func (r *Repository) ListBarEvents(ctx context.Context, barID uint) ([]*model.BarEvent, error) {
	var events []*model.BarEvent

	result := r.DB.WithContext(ctx).
		Joins("Notification").
		Joins("Bar").
		Where("bar_events.bar_id = ?", barID).
		Order(`"Notification".created_at, "Notification".id`).
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

type eventRow struct {
	ID          uint
	Type        string
	CreatedAt   time.Time
	BarID       *uint
	Name        *string
	Description *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Latitude    *float64
	Longitude   *float64
	BarImage    *string
}

// ListEvents assembles the polymorphic feed in one query: the base table LEFT
// JOINed against every subtype table, dispatched on the type discriminator.
func (r *Repository) ListEvents(ctx context.Context, filter EventFilter) ([]model.Event, error) {
	query := r.DB.WithContext(ctx).Table("notifications").
		Select("notifications.id, notifications.type, notifications.created_at, " +
			"bar_events.bar_id, bar_events.name, bar_events.description, " +
			"bar_events.starts_at, bar_events.ends_at, bar_events.latitude, bar_events.longitude, " +
			"bars.image_url AS bar_image").
		Joins("LEFT JOIN bar_events ON bar_events.notification_id = notifications.id").
		Joins("LEFT JOIN bars ON bars.id = bar_events.bar_id")

	if filter.Since != nil {
		query = query.Where("notifications.created_at >= ?", *filter.Since)
	}

	if filter.Kind != nil {
		query = query.Where("notifications.type = ?", *filter.Kind)
	}

	if len(filter.BarIDs) > 0 {
		query = query.Where("bar_events.bar_id IN ?", filter.BarIDs)
	}

	var rows []eventRow

	result := query.Order("notifications.created_at, notifications.id").Scan(&rows)
	if result.Error != nil {
		r.Logger.Error("error listing notifications", zap.Error(result.Error))

		return nil, result.Error
	}

	events := make([]model.Event, 0, len(rows))

	for _, row := range rows {
		events = append(events, eventFromRow(row))
	}

	return events, nil
}

func eventFromRow(row eventRow) model.Event {
	base := model.Notification{ID: row.ID, Type: row.Type, CreatedAt: row.CreatedAt}

	if row.Type != model.NotificationTypeBarEvent || row.BarID == nil {
		return base
	}

	event := model.BarEvent{
		NotificationID: row.ID,
		BarID:          *row.BarID,
		Start:          row.StartsAt,
		End:            row.EndsAt,
		Latitude:       row.Latitude,
		Longitude:      row.Longitude,
		Notification:   base,
		Bar:            model.Bar{Model: gorm.Model{ID: *row.BarID}},
	}

	if row.Name != nil {
		event.Name = *row.Name
	}

	if row.Description != nil {
		event.Description = *row.Description
	}

	if row.BarImage != nil {
		event.Bar.ImageURL = *row.BarImage
	}

	return event
}
