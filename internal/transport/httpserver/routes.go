package httpserver

import (
	"net/http"
	"time"

	"household-app-go/internal/config"
	"household-app-go/internal/observability"
	"household-app-go/internal/transport/httpserver/handler"
	authmw "household-app-go/internal/transport/httpserver/middleware"
	"household-app-go/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Dependencies struct {
	Handlers *handler.Handlers
	Auth     *authmw.Auth
	Scope    *authmw.Scope
	// Metrics is optional; nil disables instrumentation and /metrics.
	Metrics *observability.Metrics
	Log     logger.Logger
}

func NewRouter(cfg config.Config, deps Dependencies) http.Handler {
	handlers := deps.Handlers

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(deps.Log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORS.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)
		r.Post("/webhooks/identity", handlers.Common.IdentityWebhook)

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Middleware)

			r.Get("/me", handlers.Common.Me)

			r.Group(func(r chi.Router) {
				r.Use(deps.Scope.Identity)

				r.Get("/households", handlers.Households.ListHouseholds)
				r.Post("/households", handlers.Households.CreateHousehold)
				r.Get("/memberships", handlers.Households.ListMemberships)
			})

			r.Route("/households/{public_id}", func(r chi.Router) {
				r.Use(deps.Scope.Household)

				r.Get("/", handlers.Households.GetHousehold)
				r.Patch("/", handlers.Households.UpdateHousehold)
				r.Delete("/", handlers.Households.DeleteHousehold)
				r.Get("/join", handlers.Households.JoinInfo)
				r.Post("/join", handlers.Households.JoinHousehold)
				r.Post("/leave", handlers.Households.LeaveHousehold)

				r.Get("/members", handlers.Households.ListMembers)
				r.Patch("/members/{member_id}/role", handlers.Households.UpdateMemberRole)
				r.Patch("/members/{member_id}/status", handlers.Households.UpdateMemberStatus)
				r.Patch("/members/{member_id}/permissions", handlers.Households.UpdateMemberPermissions)
				r.Delete("/members/{member_id}", handlers.Households.RemoveMember)

				r.Get("/products", handlers.Products.ListProducts)
				r.Post("/products", handlers.Products.CreateProduct)
				r.Get("/products/{product_id}", handlers.Products.GetProduct)
				r.Put("/products/{product_id}", handlers.Products.UpdateProduct)
				r.Delete("/products/{product_id}", handlers.Products.DeleteProduct)

				r.Get("/recipes", handlers.Recipes.ListRecipes)
				r.Post("/recipes", handlers.Recipes.CreateRecipe)
				r.Get("/recipes/{recipe_id}", handlers.Recipes.GetRecipe)
				r.Put("/recipes/{recipe_id}", handlers.Recipes.UpdateRecipe)
				r.Delete("/recipes/{recipe_id}", handlers.Recipes.DeleteRecipe)
				r.Post("/recipes/{recipe_id}/favorite", handlers.Recipes.ToggleFavorite)
				r.Get("/favorites", handlers.Recipes.ListFavorites)
			})
		})
	})

	return r
}
