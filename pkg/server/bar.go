package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"serveza.dev/Serveza/pkg/auth"
	"serveza.dev/Serveza/pkg/geo"
	"serveza.dev/Serveza/pkg/model"
	"serveza.dev/Serveza/pkg/repository"
)

type barRepository interface { //nolint:interfacebloat // one method per REST operation on the aggregate
	ListBars(ctx context.Context, filter repository.BarFilter) ([]*model.Bar, error)
	GetBar(ctx context.Context, barID uint) (*model.Bar, error)
	FindBarByNamePosition(ctx context.Context, name string, latitude *float64, longitude *float64) (*model.Bar, error)
	AddBar(ctx context.Context, bar *model.Bar) error
	SaveBar(ctx context.Context, bar *model.Bar) error
	DeleteBar(ctx context.Context, barID uint) error
	GetBarComments(ctx context.Context, barID uint) ([]*model.BarComment, error)
	AddBarComment(ctx context.Context, comment *model.BarComment) error
	GetMenu(ctx context.Context, barID uint) ([]*model.BarBeer, error)
	AddMenuEntry(ctx context.Context, entry *model.BarBeer) error
	UpdateMenuPrice(ctx context.Context, barID uint, beerID uint, price model.Price) error
	RemoveMenuEntry(ctx context.Context, barID uint, beerID uint) error
	ListBarEvents(ctx context.Context, barID uint) ([]*model.BarEvent, error)
	AddBarEvent(ctx context.Context, event *model.BarEvent) error
}

type beerLookup interface {
	GetBeer(ctx context.Context, beerID uint) (*model.Beer, error)
}

type BarServer struct {
	bars     barRepository
	beers    beerLookup
	geocoder geo.ReverseGeocoder
	logger   *zap.Logger
}

func NewBarServer(bars barRepository, beers beerLookup, geocoder geo.ReverseGeocoder, logger *zap.Logger) *BarServer {
	return &BarServer{bars: bars, beers: beers, geocoder: geocoder, logger: logger}
}

func (b *BarServer) ListBars(writer http.ResponseWriter, request *http.Request) {
	position, err := parsePosition(request)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	rangeKm, err := formFloat(request, "range")
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	beerIDs, err := formUints(request, "beers")
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	owned, err := formBool(request, "owned")
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	filter := repository.BarFilter{Position: position, RangeKm: rangeKm, BeerIDs: beerIDs}

	if user, found := auth.CurrentUser(request.Context()); owned && found {
		filter.OwnerID = &user.ID
	}

	bars, err := b.bars.ListBars(request.Context(), filter)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, map[string]interface{}{"bars": barListFromModel(bars)})
}

// CreateBar is idempotent on (name, latitude, longitude): an existing match
// is returned unchanged instead of creating a duplicate.
func (b *BarServer) CreateBar(writer http.ResponseWriter, request *http.Request) {
	user, _ := auth.CurrentUser(request.Context())

	name := request.FormValue("name")
	if len(name) == 0 {
		respondError(b.logger, writer, fmt.Errorf("%w: name is required", ErrInvalidArgument))

		return
	}

	bar := model.Bar{
		Name:       name,
		ImageURL:   request.FormValue("image"),
		WebsiteURL: request.FormValue("website"),
		OwnerID:    &user.ID,
	}

	if raw := request.FormValue("position"); len(raw) > 0 {
		position, err := parsePoint(raw)
		if err != nil {
			respondError(b.logger, writer, err)

			return
		}

		bar.SetPosition(position.Latitude, position.Longitude)
	}

	existing, err := b.bars.FindBarByNamePosition(request.Context(), bar.Name, bar.Latitude, bar.Longitude)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	if existing == nil {
		if err = b.bars.AddBar(request.Context(), &bar); err != nil {
			respondError(b.logger, writer, err)

			return
		}

		existing = &bar
	}

	respondJSON(writer, http.StatusOK, map[string]interface{}{"bar": barDetailsFromModel(existing, nil)})
}

func (b *BarServer) GetBar(writer http.ResponseWriter, request *http.Request) {
	bar, err := b.fetchBar(request)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, map[string]interface{}{"bar": barDetailsFromModel(bar, b.lookupAddress(request.Context(), bar))})
}

// lookupAddress resolves the bar's address through the external geocoder;
// the address is omitted when no geocoder is wired in or lookup fails.
func (b *BarServer) lookupAddress(ctx context.Context, bar *model.Bar) *string {
	if b.geocoder == nil || bar.Latitude == nil || bar.Longitude == nil {
		return nil
	}

	address, err := b.geocoder.ReverseGeocode(ctx, geo.Point{Latitude: *bar.Latitude, Longitude: *bar.Longitude})
	if err != nil {
		b.logger.Warn("reverse geocoding failed", zap.Uint("bar_id", bar.ID), zap.Error(err))

		return nil
	}

	return &address
}

// UpdateBar only touches the supplied fields.
func (b *BarServer) UpdateBar(writer http.ResponseWriter, request *http.Request) {
	bar, err := b.fetchBar(request)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	if name := request.FormValue("name"); len(name) > 0 {
		bar.Name = name
	}

	if image := request.FormValue("image"); len(image) > 0 {
		bar.ImageURL = image
	}

	if website := request.FormValue("website"); len(website) > 0 {
		bar.WebsiteURL = website
	}

	if raw := request.FormValue("position"); len(raw) > 0 {
		position, err := parsePoint(raw)
		if err != nil {
			respondError(b.logger, writer, err)

			return
		}

		bar.SetPosition(position.Latitude, position.Longitude)
	}

	if err = b.bars.SaveBar(request.Context(), bar); err != nil {
		respondError(b.logger, writer, err)

		return
	}

	respondOK(writer)
}

func (b *BarServer) DeleteBar(writer http.ResponseWriter, request *http.Request) {
	bar, err := b.fetchBar(request)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	if err = b.bars.DeleteBar(request.Context(), bar.ID); err != nil {
		respondError(b.logger, writer, err)

		return
	}

	respondOK(writer)
}

func (b *BarServer) ListComments(writer http.ResponseWriter, request *http.Request) {
	bar, err := b.fetchBar(request)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	comments, err := b.bars.GetBarComments(request.Context(), bar.ID)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	items := make([]commentItem, 0, len(comments))
	for _, comment := range comments {
		items = append(items, commentFromParts(comment.Score, comment.Comment, comment.Author))
	}

	respondJSON(writer, http.StatusOK, map[string]interface{}{"comments": items})
}

func (b *BarServer) AddComment(writer http.ResponseWriter, request *http.Request) {
	user, _ := auth.CurrentUser(request.Context())

	bar, err := b.fetchBar(request)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	score, err := formInt(request, "score")
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	comment := model.BarComment{BarID: bar.ID, AuthorID: user.ID, Comment: request.FormValue("comment")}
	if score != nil {
		comment.Score = *score
	}

	if err = b.bars.AddBarComment(request.Context(), &comment); err != nil {
		respondError(b.logger, writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, map[string]interface{}{"comment": commentFromParts(comment.Score, comment.Comment, *user)})
}

func (b *BarServer) GetMenu(writer http.ResponseWriter, request *http.Request) {
	bar, err := b.fetchBar(request)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	entries, err := b.bars.GetMenu(request.Context(), bar.ID)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, map[string]interface{}{"beers": menuFromModel(entries)})
}

func (b *BarServer) AddMenuEntry(writer http.ResponseWriter, request *http.Request) {
	bar, beer, price, err := b.menuEntryParams(request)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	entry := model.BarBeer{BarID: bar.ID, BeerID: beer.ID, Price: *price}

	if err = b.bars.AddMenuEntry(request.Context(), &entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = fmt.Errorf("%w: %s is already on the menu", ErrConflict, beer.Name)
		}

		respondError(b.logger, writer, err)

		return
	}

	entry.Beer = *beer

	respondJSON(writer, http.StatusOK, map[string]interface{}{"beer": menuFromModel([]*model.BarBeer{&entry})[0]})
}

func (b *BarServer) UpdateMenuEntry(writer http.ResponseWriter, request *http.Request) {
	bar, beer, price, err := b.menuEntryParams(request)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	if err = b.bars.UpdateMenuPrice(request.Context(), bar.ID, beer.ID, *price); err != nil {
		respondError(b.logger, writer, err)

		return
	}

	respondOK(writer)
}

func (b *BarServer) RemoveMenuEntry(writer http.ResponseWriter, request *http.Request) {
	bar, err := b.fetchBar(request)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	beerID, err := formUint(request, "beer")
	if err == nil && beerID == nil {
		err = fmt.Errorf("%w: beer is required", ErrInvalidArgument)
	}

	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	if err = b.bars.RemoveMenuEntry(request.Context(), bar.ID, *beerID); err != nil {
		respondError(b.logger, writer, err)

		return
	}

	respondOK(writer)
}

// menuEntryParams validates the shared input of menu mutations: an existing
// bar, an existing beer and a well-formed "<amount> <currency-code>" price.
func (b *BarServer) menuEntryParams(request *http.Request) (*model.Bar, *model.Beer, *model.Price, error) {
	bar, err := b.fetchBar(request)
	if err != nil {
		return nil, nil, nil, err
	}

	beerID, err := formUint(request, "beer")
	if err != nil {
		return nil, nil, nil, err
	}

	if beerID == nil {
		return nil, nil, nil, fmt.Errorf("%w: beer is required", ErrInvalidArgument)
	}

	beer, err := b.beers.GetBeer(request.Context(), *beerID)
	if err != nil {
		return nil, nil, nil, err
	}

	price, err := parsePrice(request.FormValue("price"))
	if err != nil {
		return nil, nil, nil, err
	}

	return bar, beer, &price, nil
}

func (b *BarServer) ListEvents(writer http.ResponseWriter, request *http.Request) {
	bar, err := b.fetchBar(request)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	events, err := b.bars.ListBarEvents(request.Context(), bar.ID)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	projections := make([]model.EventProjection, 0, len(events))
	for _, event := range events {
		projections = append(projections, event.Projection())
	}

	respondJSON(writer, http.StatusOK, map[string]interface{}{"events": projections})
}

func (b *BarServer) AddEvent(writer http.ResponseWriter, request *http.Request) {
	bar, err := b.fetchBar(request)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	name := request.FormValue("name")
	if len(name) == 0 {
		respondError(b.logger, writer, fmt.Errorf("%w: name is required", ErrInvalidArgument))

		return
	}

	event := model.BarEvent{BarID: bar.ID, Name: name, Description: request.FormValue("description")}

	if raw := request.FormValue("start"); len(raw) > 0 {
		if event.Start, err = parseDate(raw); err != nil {
			respondError(b.logger, writer, err)

			return
		}
	}

	if raw := request.FormValue("end"); len(raw) > 0 {
		if event.End, err = parseDate(raw); err != nil {
			respondError(b.logger, writer, err)

			return
		}
	}

	if raw := request.FormValue("location"); len(raw) > 0 {
		location, err := parsePoint(raw)
		if err != nil {
			respondError(b.logger, writer, err)

			return
		}

		event.Latitude = &location.Latitude
		event.Longitude = &location.Longitude
	}

	if err = b.bars.AddBarEvent(request.Context(), &event); err != nil {
		respondError(b.logger, writer, err)

		return
	}

	event.Bar = *bar

	respondJSON(writer, http.StatusOK, map[string]interface{}{"event": event.Projection()})
}

func (b *BarServer) fetchBar(request *http.Request) (*model.Bar, error) {
	barID, err := idParam(request, "barID")
	if err != nil {
		return nil, err
	}

	bar, err := b.bars.GetBar(request.Context(), barID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: bar %d", ErrNotFound, barID)
		}

		return nil, err
	}

	return bar, nil
}
