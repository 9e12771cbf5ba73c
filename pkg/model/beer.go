package model

import "gorm.io/gorm"

type Beer struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex:idx_beer_name"`
	ImageURL    string
	Brewery     string
	Degree      *float64
	Description string

	Fans     []User        `gorm:"many2many:user_beers;"`
	Comments []BeerComment `gorm:"foreignKey:BeerID"`
}
