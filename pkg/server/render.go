package server

import (
	"fmt"

	"serveza.dev/Serveza/pkg/model"
)

func barURL(barID uint) string {
	return fmt.Sprintf("/bars/%d", barID)
}

func beerURL(beerID uint) string {
	return fmt.Sprintf("/beers/%d", beerID)
}

type barListItem struct {
	ID       uint     `json:"id"`
	URL      string   `json:"url"`
	Name     string   `json:"name"`
	Position string   `json:"position"`
	Distance *float64 `json:"distance,omitempty"`
}

func barListFromModel(bars []*model.Bar) []barListItem {
	items := make([]barListItem, 0, len(bars))

	for _, bar := range bars {
		items = append(items, barListItem{
			ID:       bar.ID,
			URL:      barURL(bar.ID),
			Name:     bar.Name,
			Position: bar.Position(),
			Distance: bar.Distance,
		})
	}

	return items
}

type menuEntry struct {
	ID    uint   `json:"id"`
	URL   string `json:"url"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

func menuFromModel(entries []*model.BarBeer) []menuEntry {
	carte := make([]menuEntry, 0, len(entries))

	for _, entry := range entries {
		carte = append(carte, menuEntry{
			ID:    entry.BeerID,
			URL:   beerURL(entry.BeerID),
			Name:  entry.Beer.Name,
			Price: entry.Price.String(),
		})
	}

	return carte
}

type barDetails struct {
	ID       uint        `json:"id"`
	URL      string      `json:"url"`
	Name     string      `json:"name"`
	Position string      `json:"position"`
	Address  *string     `json:"address,omitempty"`
	Carte    []menuEntry `json:"carte"`
	Image    string      `json:"image"`
	Website  string      `json:"website"`
}

func barDetailsFromModel(bar *model.Bar, address *string) barDetails {
	menu := make([]*model.BarBeer, 0, len(bar.Menu))
	for index := range bar.Menu {
		menu = append(menu, &bar.Menu[index])
	}

	return barDetails{
		ID:       bar.ID,
		URL:      barURL(bar.ID),
		Name:     bar.Name,
		Position: bar.Position(),
		Address:  address,
		Carte:    menuFromModel(menu),
		Image:    bar.ImageURL,
		Website:  bar.WebsiteURL,
	}
}

type commentAuthor struct {
	Avatar    string `json:"avatar"`
	Firstname string `json:"firstname"`
}

type commentItem struct {
	Score   int           `json:"score"`
	Comment string        `json:"comment"`
	Author  commentAuthor `json:"author"`
}

func commentFromParts(score int, text string, author model.User) commentItem {
	return commentItem{
		Score:   score,
		Comment: text,
		Author:  commentAuthor{Avatar: author.AvatarURL, Firstname: author.FirstName},
	}
}

type beerListItem struct {
	ID   uint   `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

func beerListFromModel(beers []*model.Beer) []beerListItem {
	items := make([]beerListItem, 0, len(beers))

	for _, beer := range beers {
		items = append(items, beerListItem{ID: beer.ID, URL: beerURL(beer.ID), Name: beer.Name})
	}

	return items
}

type beerDetails struct {
	ID          uint     `json:"id"`
	URL         string   `json:"url"`
	Name        string   `json:"name"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Brewery     string   `json:"brewery"`
	Degree      *float64 `json:"degree"`
}

func beerDetailsFromModel(beer *model.Beer) beerDetails {
	return beerDetails{
		ID:          beer.ID,
		URL:         beerURL(beer.ID),
		Name:        beer.Name,
		Image:       beer.ImageURL,
		Description: beer.Description,
		Brewery:     beer.Brewery,
		Degree:      beer.Degree,
	}
}

type userProfile struct {
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	APIToken  string `json:"api_token"`
	Avatar    string `json:"avatar"`
}

func profileFromModel(user *model.User) userProfile {
	return userProfile{
		Email:     user.Email,
		Firstname: user.FirstName,
		Lastname:  user.LastName,
		APIToken:  user.APIToken,
		Avatar:    user.AvatarURL,
	}
}

func projectionsFromEvents(events []model.Event) []model.EventProjection {
	projections := make([]model.EventProjection, 0, len(events))

	for _, event := range events {
		projections = append(projections, event.Projection())
	}

	return projections
}
