package model

import (
	"fmt"

	"gorm.io/gorm"
)

type Bar struct {
	gorm.Model
	Name       string
	Latitude   *float64
	Longitude  *float64
	ImageURL   string
	WebsiteURL string
	OwnerID    *uint

	// Distance is only populated by listing queries that carry a
	// reference position; it is never persisted.
	Distance *float64 `gorm:"->;-:migration"`

	Owner    *User       `gorm:"foreignKey:OwnerID"`
	Fans     []User      `gorm:"many2many:user_bars;"`
	Menu     []BarBeer   `gorm:"foreignKey:BarID"`
	Comments []BarComment
	Events   []BarEvent  `gorm:"foreignKey:BarID"`
}

// Position renders the "lat, lng" pair; empty when either coordinate is unset.
func (b *Bar) Position() string {
	if b.Latitude == nil || b.Longitude == nil {
		return ""
	}

	return fmt.Sprintf("%g, %g", *b.Latitude, *b.Longitude)
}

func (b *Bar) SetPosition(latitude, longitude float64) {
	b.Latitude = &latitude
	b.Longitude = &longitude
}

type Price struct {
	Amount   float64
	Currency string
}

func (p Price) String() string {
	return fmt.Sprintf("%g %s", p.Amount, p.Currency)
}

// BarBeer is one menu entry; the composite key guarantees at most one
// price per (bar, beer) pair.
type BarBeer struct {
	BarID  uint  `gorm:"primaryKey"`
	BeerID uint  `gorm:"primaryKey"`
	Price  Price `gorm:"embedded;embeddedPrefix:price_"`

	Bar  Bar  `gorm:"foreignKey:BarID"`
	Beer Beer `gorm:"foreignKey:BeerID"`
}
