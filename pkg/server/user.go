package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"serveza.dev/Serveza/pkg/auth"
	"serveza.dev/Serveza/pkg/model"
	"serveza.dev/Serveza/pkg/repository"
)

type userRepository interface { //nolint:interfacebloat // one method per REST operation on the aggregate
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	RegisterUser(ctx context.Context, user *model.User) error
	SetLastEventCheck(ctx context.Context, userID uint, at *time.Time) error
	GetFavoriteBars(ctx context.Context, user *model.User) ([]*model.Bar, error)
	AddFavoriteBar(ctx context.Context, user *model.User, bar *model.Bar) error
	RemoveFavoriteBar(ctx context.Context, user *model.User, bar *model.Bar) error
	GetFavoriteBeers(ctx context.Context, user *model.User) ([]*model.Beer, error)
	AddFavoriteBeer(ctx context.Context, user *model.User, beer *model.Beer) error
	RemoveFavoriteBeer(ctx context.Context, user *model.User, beer *model.Beer) error
}

type eventRepository interface {
	ListEvents(ctx context.Context, filter repository.EventFilter) ([]model.Event, error)
}

type barLookup interface {
	GetBar(ctx context.Context, barID uint) (*model.Bar, error)
}

type UserServer struct {
	users  userRepository
	events eventRepository
	bars   barLookup
	beers  beerLookup
	logger *zap.Logger
}

func NewUserServer(users userRepository, events eventRepository, bars barLookup, beers beerLookup, logger *zap.Logger) *UserServer {
	return &UserServer{users: users, events: events, bars: bars, beers: beers, logger: logger}
}

func (u *UserServer) Login(writer http.ResponseWriter, request *http.Request) {
	email := request.FormValue("email")
	password := request.FormValue("password")

	if len(email) == 0 || len(password) == 0 {
		respondError(u.logger, writer, fmt.Errorf("%w: email and password are required", ErrInvalidArgument))

		return
	}

	user, err := u.users.GetUserByEmail(request.Context(), email)
	if err != nil {
		respondError(u.logger, writer, err)

		return
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		respondError(u.logger, writer, fmt.Errorf("%w: bad credentials", ErrForbidden))

		return
	}

	respondJSON(writer, http.StatusOK, profileFromModel(user))
}

func (u *UserServer) Register(writer http.ResponseWriter, request *http.Request) {
	email := request.FormValue("email")
	password := request.FormValue("password")

	if len(email) == 0 || len(password) == 0 {
		respondError(u.logger, writer, fmt.Errorf("%w: email and password are required", ErrInvalidArgument))

		return
	}

	existing, err := u.users.GetUserByEmail(request.Context(), email)
	if err != nil {
		respondError(u.logger, writer, err)

		return
	}

	if existing != nil {
		respondError(u.logger, writer, fmt.Errorf("%w: email already registered", ErrConflict))

		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		respondError(u.logger, writer, err)

		return
	}

	user := model.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    request.FormValue("firstname"),
		LastName:     request.FormValue("lastname"),
		AvatarURL:    request.FormValue("avatar"),
	}

	if err = u.users.RegisterUser(request.Context(), &user); err != nil {
		// A concurrent registration of the same address loses on the
		// unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = fmt.Errorf("%w: email already registered", ErrConflict)
		}

		respondError(u.logger, writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, profileFromModel(&user))
}

// ListNotifications returns the feed at or after the caller's watermark.
// With update=true the watermark advances to a timestamp captured before the
// read, so the response itself is unaffected and nothing falls into a gap.
func (u *UserServer) ListNotifications(writer http.ResponseWriter, request *http.Request) {
	user, _ := auth.CurrentUser(request.Context())

	barIDs, err := formUints(request, "bar")
	if err != nil {
		respondError(u.logger, writer, err)

		return
	}

	update, err := formBool(request, "update")
	if err != nil {
		respondError(u.logger, writer, err)

		return
	}

	filter := repository.EventFilter{Since: user.LastEventCheck, BarIDs: barIDs}

	if kind := request.FormValue("type"); len(kind) > 0 {
		filter.Kind = &kind
	}

	now := time.Now()

	events, err := u.events.ListEvents(request.Context(), filter)
	if err != nil {
		respondError(u.logger, writer, err)

		return
	}

	if update {
		if err = u.users.SetLastEventCheck(request.Context(), user.ID, &now); err != nil {
			respondError(u.logger, writer, err)

			return
		}
	}

	respondJSON(writer, http.StatusOK, map[string]interface{}{"notifications": projectionsFromEvents(events)})
}

// ResetNotifications clears the watermark back to "unset".
func (u *UserServer) ResetNotifications(writer http.ResponseWriter, request *http.Request) {
	user, _ := auth.CurrentUser(request.Context())

	if err := u.users.SetLastEventCheck(request.Context(), user.ID, nil); err != nil {
		respondError(u.logger, writer, err)

		return
	}

	respondOK(writer)
}

func (u *UserServer) ListFavoriteBars(writer http.ResponseWriter, request *http.Request) {
	user, _ := auth.CurrentUser(request.Context())

	bars, err := u.users.GetFavoriteBars(request.Context(), user)
	if err != nil {
		respondError(u.logger, writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, map[string]interface{}{"bars": barListFromModel(bars)})
}

func (u *UserServer) AddFavoriteBar(writer http.ResponseWriter, request *http.Request) {
	user, _ := auth.CurrentUser(request.Context())

	bar, err := u.favoriteBarParam(request)
	if err != nil {
		respondError(u.logger, writer, err)

		return
	}

	if err = u.users.AddFavoriteBar(request.Context(), user, bar); err != nil {
		respondError(u.logger, writer, err)

		return
	}

	respondOK(writer)
}

func (u *UserServer) RemoveFavoriteBar(writer http.ResponseWriter, request *http.Request) {
	user, _ := auth.CurrentUser(request.Context())

	bar, err := u.favoriteBarParam(request)
	if err != nil {
		respondError(u.logger, writer, err)

		return
	}

	if err = u.users.RemoveFavoriteBar(request.Context(), user, bar); err != nil {
		respondError(u.logger, writer, err)

		return
	}

	respondOK(writer)
}

func (u *UserServer) ListFavoriteBeers(writer http.ResponseWriter, request *http.Request) {
	user, _ := auth.CurrentUser(request.Context())

	beers, err := u.users.GetFavoriteBeers(request.Context(), user)
	if err != nil {
		respondError(u.logger, writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, map[string]interface{}{"beers": beerListFromModel(beers)})
}

func (u *UserServer) AddFavoriteBeer(writer http.ResponseWriter, request *http.Request) {
	user, _ := auth.CurrentUser(request.Context())

	beer, err := u.favoriteBeerParam(request)
	if err != nil {
		respondError(u.logger, writer, err)

		return
	}

	if err = u.users.AddFavoriteBeer(request.Context(), user, beer); err != nil {
		respondError(u.logger, writer, err)

		return
	}

	respondOK(writer)
}

func (u *UserServer) RemoveFavoriteBeer(writer http.ResponseWriter, request *http.Request) {
	user, _ := auth.CurrentUser(request.Context())

	beer, err := u.favoriteBeerParam(request)
	if err != nil {
		respondError(u.logger, writer, err)

		return
	}

	if err = u.users.RemoveFavoriteBeer(request.Context(), user, beer); err != nil {
		respondError(u.logger, writer, err)

		return
	}

	respondOK(writer)
}

func (u *UserServer) favoriteBarParam(request *http.Request) (*model.Bar, error) {
	barID, err := formUint(request, "bar")
	if err != nil {
		return nil, err
	}

	if barID == nil {
		return nil, fmt.Errorf("%w: bar is required", ErrInvalidArgument)
	}

	bar, err := u.bars.GetBar(request.Context(), *barID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: bar %d", ErrNotFound, *barID)
		}

		return nil, err
	}

	return bar, nil
}

func (u *UserServer) favoriteBeerParam(request *http.Request) (*model.Beer, error) {
	beerID, err := formUint(request, "beer")
	if err != nil {
		return nil, err
	}

	if beerID == nil {
		return nil, fmt.Errorf("%w: beer is required", ErrInvalidArgument)
	}

	beer, err := u.beers.GetBeer(request.Context(), *beerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: beer %d", ErrNotFound, *beerID)
		}

		return nil, err
	}

	return beer, nil
}
