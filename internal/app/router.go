package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/foodshare/foodshare/internal/auth"
	"github.com/foodshare/foodshare/internal/food"
	"github.com/foodshare/foodshare/internal/mealplan"
	"github.com/foodshare/foodshare/internal/nutrition"
	"github.com/foodshare/foodshare/internal/observability"
	"github.com/foodshare/foodshare/internal/platform/httpx"
	"github.com/foodshare/foodshare/jobs"
	"github.com/foodshare/foodshare/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthHandler      *auth.Handler
	FoodHandler      *food.Handler
	NutritionHandler *nutrition.Handler
	MealPlanHandler  *mealplan.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
	// Static overrides the embedded frontend, mainly for tests.
	Static fs.FS
}

// NewRouter constructs the chi.Router with foodshare defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(params.Metrics.AuthOutcomes)
			params.AuthHandler.MountRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(params.AuthHandler.Middleware().RequireToken(auth.FullCheck))
			if params.FoodHandler != nil {
				r.Route("/food", params.FoodHandler.MountRoutes)
			}
			if params.NutritionHandler != nil {
				r.Route("/nutrition", params.NutritionHandler.MountRoutes)
			}
			if params.MealPlanHandler != nil {
				r.Route("/meal-plan", params.MealPlanHandler.MountRoutes)
			}
		})
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			httpx.Message(w, http.StatusNotFound, "Not found")
		})
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS := params.Static
	if staticFS == nil {
		sub, err := fs.Sub(web.Static, "static")
		if err != nil {
			params.Logger.Error("create static sub filesystem", slog.Any("error", err))
			return r
		}
		staticFS = sub
	}
	r.Handle("/*", staticCacheHandler(http.FileServer(http.FS(staticFS))))

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
