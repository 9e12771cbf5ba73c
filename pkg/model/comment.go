package model

import "gorm.io/gorm"

// Comments are append-only; there is no edit or delete.

type BarComment struct {
	gorm.Model
	BarID    uint
	AuthorID uint
	Score    int
	Comment  string

	Author User `gorm:"foreignKey:AuthorID"`
}

type BeerComment struct {
	gorm.Model
	BeerID   uint
	AuthorID uint
	Score    int
	Comment  string

	Author User `gorm:"foreignKey:AuthorID"`
}
