package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"serveza.dev/Serveza/configs"
	"serveza.dev/Serveza/pkg/auth"
	"serveza.dev/Serveza/pkg/integrations"
	"serveza.dev/Serveza/pkg/model"
)

type beerRepository interface {
	ListBeers(ctx context.Context) ([]*model.Beer, error)
	GetBeer(ctx context.Context, beerID uint) (*model.Beer, error)
	FindBeerByName(ctx context.Context, name string) (*model.Beer, error)
	AddBeer(ctx context.Context, beer *model.Beer) error
	GetBeerComments(ctx context.Context, beerID uint) ([]*model.BeerComment, error)
	AddBeerComment(ctx context.Context, comment *model.BeerComment) error
}

type BeerServer struct {
	beers  beerRepository
	logger *zap.Logger
	config *configs.Config
}

func NewBeerServer(beers beerRepository, logger *zap.Logger, config *configs.Config) *BeerServer {
	return &BeerServer{beers: beers, logger: logger, config: config}
}

func (b *BeerServer) ListBeers(writer http.ResponseWriter, request *http.Request) {
	beers, err := b.beers.ListBeers(request.Context())
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, map[string]interface{}{"beers": beerListFromModel(beers)})
}

func (b *BeerServer) GetBeer(writer http.ResponseWriter, request *http.Request) {
	beer, err := b.fetchBeer(request)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, map[string]interface{}{"beer": beerDetailsFromModel(beer)})
}

// CreateBeer is idempotent on name. Details missing from the request are
// looked up through the configured beer integrations; a beer nobody can
// describe is a NotFound.
func (b *BeerServer) CreateBeer(writer http.ResponseWriter, request *http.Request) {
	name := request.FormValue("name")
	if len(name) == 0 {
		respondError(b.logger, writer, fmt.Errorf("%w: name is required", ErrInvalidArgument))

		return
	}

	existing, err := b.beers.FindBeerByName(request.Context(), name)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	if existing != nil {
		respondJSON(writer, http.StatusOK, map[string]interface{}{"beer": beerDetailsFromModel(existing)})

		return
	}

	degree, err := formFloat(request, "degree")
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	beer := model.Beer{
		Name:        name,
		Brewery:     request.FormValue("brewery"),
		Degree:      degree,
		Description: request.FormValue("description"),
		ImageURL:    request.FormValue("image"),
	}

	if beerIsBare(&beer) {
		found := b.findBeerDetails(name)
		if found == nil {
			respondError(b.logger, writer, fmt.Errorf("%w: can't find information about this beer", ErrNotFound))

			return
		}

		mergeBeerDetails(&beer, found)
	}

	if err = b.beers.AddBeer(request.Context(), &beer); err != nil {
		respondError(b.logger, writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, map[string]interface{}{"beer": beerDetailsFromModel(&beer)})
}

func beerIsBare(beer *model.Beer) bool {
	return len(beer.Brewery) == 0 && beer.Degree == nil && len(beer.Description) == 0 && len(beer.ImageURL) == 0
}

// findBeerDetails asks each configured integration in turn and takes the
// first description that comes back.
func (b *BeerServer) findBeerDetails(name string) *model.Beer {
	for _, integration := range b.config.Integrations.Beer {
		beerIntegration := integrations.GetIntegration(integration, b.logger)
		if beerIntegration == nil {
			b.logger.Warn("unknown beer integration", zap.String("integration", integration))

			continue
		}

		foundBeers, err := beerIntegration.FindBeer(name)
		if err != nil {
			b.logger.Error("failed beer lookup", zap.String("integration", integration), zap.Error(err))

			continue
		}

		if len(foundBeers) > 0 {
			return &foundBeers[0]
		}
	}

	return nil
}

// mergeBeerDetails fills the gaps in beer; fields the caller supplied win.
func mergeBeerDetails(beer *model.Beer, found *model.Beer) {
	if len(beer.Brewery) == 0 {
		beer.Brewery = found.Brewery
	}

	if beer.Degree == nil {
		beer.Degree = found.Degree
	}

	if len(beer.Description) == 0 {
		beer.Description = found.Description
	}

	if len(beer.ImageURL) == 0 {
		beer.ImageURL = found.ImageURL
	}
}

func (b *BeerServer) ListComments(writer http.ResponseWriter, request *http.Request) {
	beer, err := b.fetchBeer(request)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	comments, err := b.beers.GetBeerComments(request.Context(), beer.ID)
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

func (b *BeerServer) AddComment(writer http.ResponseWriter, request *http.Request) {
	user, _ := auth.CurrentUser(request.Context())

	beer, err := b.fetchBeer(request)
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	score, err := formInt(request, "score")
	if err != nil {
		respondError(b.logger, writer, err)

		return
	}

	comment := model.BeerComment{BeerID: beer.ID, AuthorID: user.ID, Comment: request.FormValue("comment")}
	if score != nil {
		comment.Score = *score
	}

	if err = b.beers.AddBeerComment(request.Context(), &comment); err != nil {
		respondError(b.logger, writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, map[string]interface{}{"comment": commentFromParts(comment.Score, comment.Comment, *user)})
}

func (b *BeerServer) fetchBeer(request *http.Request) (*model.Beer, error) {
	beerID, err := idParam(request, "beerID")
	if err != nil {
		return nil, err
	}

	beer, err := b.beers.GetBeer(request.Context(), beerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: beer %d", ErrNotFound, beerID)
		}

		return nil, err
	}

	return beer, nil
}
