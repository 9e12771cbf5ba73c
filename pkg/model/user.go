package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	APIToken     string `gorm:"size:32;uniqueIndex"`
	AvatarURL    string
	FirstName    string
	LastName     string

	// LastEventCheck is the notification watermark; nil means the user
	// has never checked and sees the full feed.
	LastEventCheck *time.Time

	OwnedBars     []Bar  `gorm:"foreignKey:OwnerID"`
	FavoriteBars  []Bar  `gorm:"many2many:user_bars;"`
	FavoriteBeers []Beer `gorm:"many2many:user_beers;"`
}

func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}
