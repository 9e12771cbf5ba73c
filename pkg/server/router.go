package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"serveza.dev/Serveza/pkg/auth"
)

// NewRouter wires every REST resource. The auth manager's Optional
// middleware runs on everything so listing endpoints can see the caller when
// one is present; Required guards the mutating and per-user routes.
func NewRouter(authManager *auth.Manager, bars *BarServer, beers *BeerServer, users *UserServer) http.Handler {
	router := chi.NewRouter()
	router.Use(authManager.Optional())

	protected := authManager.Required()

	router.Route("/bars", func(route chi.Router) {
		route.Get("/", bars.ListBars)
		route.With(protected).Post("/", bars.CreateBar)

		route.Route("/{barID}", func(route chi.Router) {
			route.Get("/", bars.GetBar)
			route.With(protected).Put("/", bars.UpdateBar)
			route.With(protected).Delete("/", bars.DeleteBar)

			route.Get("/comments", bars.ListComments)
			route.With(protected).Post("/comments", bars.AddComment)

			route.Get("/beers", bars.GetMenu)
			route.With(protected).Post("/beers", bars.AddMenuEntry)
			route.With(protected).Put("/beers", bars.UpdateMenuEntry)
			route.With(protected).Delete("/beers", bars.RemoveMenuEntry)

			route.Get("/events", bars.ListEvents)
			route.With(protected).Post("/events", bars.AddEvent)
		})
	})

	router.Route("/beers", func(route chi.Router) {
		route.Get("/", beers.ListBeers)
		route.With(protected).Post("/", beers.CreateBeer)

		route.Route("/{beerID}", func(route chi.Router) {
			route.Get("/", beers.GetBeer)
			route.Get("/comments", beers.ListComments)
			route.With(protected).Post("/comments", beers.AddComment)
		})
	})

	router.Route("/user", func(route chi.Router) {
		route.Post("/login", users.Login)
		route.Post("/register", users.Register)

		route.With(protected).Get("/notifications", users.ListNotifications)
		route.With(protected).Delete("/notifications", users.ResetNotifications)

		route.Route("/favorites", func(route chi.Router) {
			route.Use(protected)

			route.Get("/bars", users.ListFavoriteBars)
			route.Post("/bars", users.AddFavoriteBar)
			route.Delete("/bars", users.RemoveFavoriteBar)

			route.Get("/beers", users.ListFavoriteBeers)
			route.Post("/beers", users.AddFavoriteBeer)
			route.Delete("/beers", users.RemoveFavoriteBeer)
		})
	})

	return router
}
