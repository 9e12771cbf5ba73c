package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"serveza.dev/Serveza/configs"
	"serveza.dev/Serveza/pkg/auth"
	"serveza.dev/Serveza/pkg/model"
	"serveza.dev/Serveza/pkg/repository"
	"serveza.dev/Serveza/pkg/server"
)

// fakeStore is an in-memory stand-in for the repository, close enough to the
// real one to keep the handlers honest: missing rows come back as
// gorm.ErrRecordNotFound, duplicate menu pairs as gorm.ErrDuplicatedKey, and
// the lookup-by-name helpers return nil without error on a miss.
type fakeStore struct {
	bars         map[uint]*model.Bar
	beers        map[uint]*model.Beer
	users        map[uint]*model.User
	menu         map[uint]map[uint]*model.BarBeer
	barComments  map[uint][]*model.BarComment
	beerComments map[uint][]*model.BeerComment
	barEvents    map[uint][]*model.BarEvent
	events       []model.Event

	favoriteBars  map[uint][]*model.Bar
	favoriteBeers map[uint][]*model.Beer

	nextID      uint
	barFilter   *repository.BarFilter
	eventFilter *repository.EventFilter
	watermarks  []watermarkCall
}

type watermarkCall struct {
	userID uint
	at     *time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bars:          map[uint]*model.Bar{},
		beers:         map[uint]*model.Beer{},
		users:         map[uint]*model.User{},
		menu:          map[uint]map[uint]*model.BarBeer{},
		barComments:   map[uint][]*model.BarComment{},
		beerComments:  map[uint][]*model.BeerComment{},
		barEvents:     map[uint][]*model.BarEvent{},
		favoriteBars:  map[uint][]*model.Bar{},
		favoriteBeers: map[uint][]*model.Beer{},
	}
}

func (f *fakeStore) newID() uint {
	f.nextID++

	return f.nextID
}

func (f *fakeStore) ListBars(_ context.Context, filter repository.BarFilter) ([]*model.Bar, error) {
	f.barFilter = &filter

	bars := make([]*model.Bar, 0, len(f.bars))
	for _, bar := range f.bars {
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].ID < bars[j].ID })

	return bars, nil
}

func (f *fakeStore) GetBar(_ context.Context, barID uint) (*model.Bar, error) {
	bar, found := f.bars[barID]
	if !found {
		return nil, gorm.ErrRecordNotFound
	}

	loaded := *bar
	loaded.Menu = nil

	for _, entry := range f.menu[barID] {
		loaded.Menu = append(loaded.Menu, *entry)
	}

	sort.Slice(loaded.Menu, func(i, j int) bool { return loaded.Menu[i].BeerID < loaded.Menu[j].BeerID })

	return &loaded, nil
}

func (f *fakeStore) FindBarByNamePosition(_ context.Context, name string, latitude *float64, longitude *float64) (*model.Bar, error) {
	for _, bar := range f.bars {
		if bar.Name == name && floatsEqual(bar.Latitude, latitude) && floatsEqual(bar.Longitude, longitude) {
			return bar, nil
		}
	}

	return nil, nil
}

func floatsEqual(left *float64, right *float64) bool {
	if left == nil || right == nil {
		return left == right
	}

	return *left == *right
}

func (f *fakeStore) AddBar(_ context.Context, bar *model.Bar) error {
	bar.ID = f.newID()
	f.bars[bar.ID] = bar

	return nil
}

func (f *fakeStore) SaveBar(_ context.Context, bar *model.Bar) error {
	f.bars[bar.ID] = bar

	return nil
}

func (f *fakeStore) DeleteBar(_ context.Context, barID uint) error {
	delete(f.bars, barID)

	return nil
}

func (f *fakeStore) GetBarComments(_ context.Context, barID uint) ([]*model.BarComment, error) {
	comments := f.barComments[barID]
	for _, comment := range comments {
		comment.Author = *f.users[comment.AuthorID]
	}

	return comments, nil
}

func (f *fakeStore) AddBarComment(_ context.Context, comment *model.BarComment) error {
	comment.ID = f.newID()
	f.barComments[comment.BarID] = append(f.barComments[comment.BarID], comment)

	return nil
}

func (f *fakeStore) GetMenu(_ context.Context, barID uint) ([]*model.BarBeer, error) {
	entries := make([]*model.BarBeer, 0, len(f.menu[barID]))
	for _, entry := range f.menu[barID] {
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].BeerID < entries[j].BeerID })

	return entries, nil
}

func (f *fakeStore) AddMenuEntry(_ context.Context, entry *model.BarBeer) error {
	if _, exists := f.menu[entry.BarID][entry.BeerID]; exists {
		return gorm.ErrDuplicatedKey
	}

	if f.menu[entry.BarID] == nil {
		f.menu[entry.BarID] = map[uint]*model.BarBeer{}
	}

	entry.Beer = *f.beers[entry.BeerID]
	f.menu[entry.BarID][entry.BeerID] = entry

	return nil
}

func (f *fakeStore) UpdateMenuPrice(_ context.Context, barID uint, beerID uint, price model.Price) error {
	entry, found := f.menu[barID][beerID]
	if !found {
		return gorm.ErrRecordNotFound
	}

	entry.Price = price

	return nil
}

func (f *fakeStore) RemoveMenuEntry(_ context.Context, barID uint, beerID uint) error {
	if _, found := f.menu[barID][beerID]; !found {
		return gorm.ErrRecordNotFound
	}

	delete(f.menu[barID], beerID)

	return nil
}

func (f *fakeStore) ListBarEvents(_ context.Context, barID uint) ([]*model.BarEvent, error) {
	return f.barEvents[barID], nil
}

func (f *fakeStore) AddBarEvent(_ context.Context, event *model.BarEvent) error {
	event.NotificationID = f.newID()
	event.Notification.Type = model.NotificationTypeBarEvent
	event.Notification.ID = event.NotificationID
	event.Notification.CreatedAt = time.Now()

	f.barEvents[event.BarID] = append(f.barEvents[event.BarID], event)

	return nil
}

func (f *fakeStore) ListBeers(_ context.Context) ([]*model.Beer, error) {
	beers := make([]*model.Beer, 0, len(f.beers))
	for _, beer := range f.beers {
		beers = append(beers, beer)
	}

	sort.Slice(beers, func(i, j int) bool { return beers[i].ID < beers[j].ID })

	return beers, nil
}

func (f *fakeStore) GetBeer(_ context.Context, beerID uint) (*model.Beer, error) {
	beer, found := f.beers[beerID]
	if !found {
		return nil, gorm.ErrRecordNotFound
	}

	return beer, nil
}

func (f *fakeStore) FindBeerByName(_ context.Context, name string) (*model.Beer, error) {
	for _, beer := range f.beers {
		if beer.Name == name {
			return beer, nil
		}
	}

	return nil, nil
}

func (f *fakeStore) AddBeer(_ context.Context, beer *model.Beer) error {
	beer.ID = f.newID()
	f.beers[beer.ID] = beer

	return nil
}

func (f *fakeStore) GetBeerComments(_ context.Context, beerID uint) ([]*model.BeerComment, error) {
	comments := f.beerComments[beerID]
	for _, comment := range comments {
		comment.Author = *f.users[comment.AuthorID]
	}

	return comments, nil
}

func (f *fakeStore) AddBeerComment(_ context.Context, comment *model.BeerComment) error {
	comment.ID = f.newID()
	f.beerComments[comment.BeerID] = append(f.beerComments[comment.BeerID], comment)

	return nil
}

func (f *fakeStore) GetUserByAPIToken(_ context.Context, token string) (*model.User, error) {
	for _, user := range f.users {
		if user.APIToken == token {
			return user, nil
		}
	}

	return nil, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, nil
}

func (f *fakeStore) RegisterUser(_ context.Context, user *model.User) error {
	user.ID = f.newID()
	user.APIToken = repository.NewAPIToken()
	f.users[user.ID] = user

	return nil
}

func (f *fakeStore) SetLastEventCheck(_ context.Context, userID uint, at *time.Time) error {
	user, found := f.users[userID]
	if !found {
		return gorm.ErrRecordNotFound
	}

	user.LastEventCheck = at
	f.watermarks = append(f.watermarks, watermarkCall{userID: userID, at: at})

	return nil
}

func (f *fakeStore) ListEvents(_ context.Context, filter repository.EventFilter) ([]model.Event, error) {
	f.eventFilter = &filter

	return f.events, nil
}

func (f *fakeStore) GetFavoriteBars(_ context.Context, user *model.User) ([]*model.Bar, error) {
	return f.favoriteBars[user.ID], nil
}

func (f *fakeStore) AddFavoriteBar(_ context.Context, user *model.User, bar *model.Bar) error {
	f.favoriteBars[user.ID] = append(f.favoriteBars[user.ID], bar)

	return nil
}

func (f *fakeStore) RemoveFavoriteBar(_ context.Context, user *model.User, bar *model.Bar) error {
	favorites := f.favoriteBars[user.ID]
	for index, favorite := range favorites {
		if favorite.ID == bar.ID {
			f.favoriteBars[user.ID] = append(favorites[:index], favorites[index+1:]...)

			return nil
		}
	}

	return nil
}

func (f *fakeStore) GetFavoriteBeers(_ context.Context, user *model.User) ([]*model.Beer, error) {
	return f.favoriteBeers[user.ID], nil
}

func (f *fakeStore) AddFavoriteBeer(_ context.Context, user *model.User, beer *model.Beer) error {
	f.favoriteBeers[user.ID] = append(f.favoriteBeers[user.ID], beer)

	return nil
}

func (f *fakeStore) RemoveFavoriteBeer(_ context.Context, user *model.User, beer *model.Beer) error {
	favorites := f.favoriteBeers[user.ID]
	for index, favorite := range favorites {
		if favorite.ID == beer.ID {
			f.favoriteBeers[user.ID] = append(favorites[:index], favorites[index+1:]...)

			return nil
		}
	}

	return nil
}

const testToken = "deadbeefdeadbeefdeadbeefdeadbeef"

type ServerTestSuite struct {
	suite.Suite
	store   *fakeStore
	handler http.Handler
	user    *model.User
}

func (suite *ServerTestSuite) SetupTest() {
	logger := zaptest.NewLogger(suite.T())
	suite.store = newFakeStore()

	suite.user = &model.User{
		Model:     gorm.Model{ID: suite.store.newID()},
		Email:     "alice@example.com",
		FirstName: "Alice",
		APIToken:  testToken,
	}
	suite.store.users[suite.user.ID] = suite.user

	manager := auth.NewAuthManager(suite.store, logger)
	barServer := server.NewBarServer(suite.store, suite.store, nil, logger)
	beerServer := server.NewBeerServer(suite.store, logger, &configs.Config{})
	userServer := server.NewUserServer(suite.store, suite.store, suite.store, suite.store, logger)

	suite.handler = server.NewRouter(manager, barServer, beerServer, userServer)
}

func (suite *ServerTestSuite) seedBar(name string, latitude, longitude float64) *model.Bar {
	bar := &model.Bar{Model: gorm.Model{ID: suite.store.newID()}, Name: name}
	bar.SetPosition(latitude, longitude)
	suite.store.bars[bar.ID] = bar

	return bar
}

func (suite *ServerTestSuite) seedBeer(name string) *model.Beer {
	beer := &model.Beer{Model: gorm.Model{ID: suite.store.newID()}, Name: name}
	suite.store.beers[beer.ID] = beer

	return beer
}

// get issues an unauthenticated request; authed adds the bearer credential of
// the suite's seeded user.
func (suite *ServerTestSuite) get(target string) *httptest.ResponseRecorder {
	return suite.do(http.MethodGet, target, "", nil)
}

func (suite *ServerTestSuite) authed(method, target string, form url.Values) *httptest.ResponseRecorder {
	return suite.do(method, target, testToken, form)
}

func (suite *ServerTestSuite) do(method, target, token string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	request := httptest.NewRequest(method, target, body)
	if form != nil {
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	if len(token) > 0 {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	suite.handler.ServeHTTP(recorder, request)

	return recorder
}

func (suite *ServerTestSuite) decode(recorder *httptest.ResponseRecorder, target interface{}) {
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), target))
}
