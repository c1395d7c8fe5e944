package http

import (
	"net/http"

	"pantry/internal/auth"
	"pantry/internal/config"
	"pantry/internal/http/handler"
	mw "pantry/internal/http/middleware"
	"pantry/internal/inventory"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(cfg config.Config, users auth.UserStore, invSvc *inventory.Service, jwtSvc *auth.JWT, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{Users: users, JWT: jwtSvc, Log: log}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	uh := &handler.UserHandler{Users: users, Log: log}
	r.Route("/users", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/{id}", uh.Get)
		r.Put("/{id}", uh.Update)
	})

	ih := &handler.InventoryHandler{Svc: invSvc, Log: log}
	r.Route("/inventory", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/", ih.Get)
		r.Put("/", ih.Replace)

		r.Post("/ingredient", ih.AddIngredient)
		r.Delete("/ingredient/{ingredientId}", ih.RemoveIngredient)
	})

	return r
}
