package model

import (
	"fmt"
	"time"

	"go.openly.dev/pointy"
)

const (
	NotificationTypePlain    = "notification"
	NotificationTypeBarEvent = "bar_event"
)

// Notification is the base row shared by every feed variant. Concrete
// variants share its primary key and are dispatched on Type.
type Notification struct {
	ID        uint   `gorm:"primaryKey"`
	Type      string `gorm:"index"`
	CreatedAt time.Time
}

type BarEvent struct {
	NotificationID uint `gorm:"primaryKey;autoIncrement:false"`
	BarID          uint
	Name           string
	Description    string
	Start          *time.Time `gorm:"column:starts_at"`
	End            *time.Time `gorm:"column:ends_at"`
	Latitude       *float64
	Longitude      *float64

	Notification Notification `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE;"`
	Bar          Bar          `gorm:"foreignKey:BarID"`
}

// Event is the tagged union over the notification variants.
type Event interface {
	Projection() EventProjection
}

// EventProjection is the JSON record a feed item marshals to. Variant
// fields stay nil on plain notifications.
type EventProjection struct {
	Type        string     `json:"type"`
	CreatedAt   time.Time  `json:"created_at"`
	Bar         *string    `json:"bar,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    []float64  `json:"location,omitempty"`
	BarImage    *string    `json:"bar_image,omitempty"`
}

func (n Notification) Projection() EventProjection {
	return EventProjection{Type: n.Type, CreatedAt: n.CreatedAt}
}

func (e BarEvent) Projection() EventProjection {
	projection := e.Notification.Projection()

	projection.Bar = pointy.String(fmt.Sprintf("/bars/%d", e.BarID))
	projection.Start = e.Start
	projection.End = e.End
	projection.Name = pointy.String(e.Name)
	projection.Description = pointy.String(e.Description)
	projection.BarImage = pointy.String(e.Bar.ImageURL)

	if e.Latitude != nil && e.Longitude != nil {
		projection.Location = []float64{*e.Latitude, *e.Longitude}
	}

	return projection
}
