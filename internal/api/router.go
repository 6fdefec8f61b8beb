package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	apihandler "github.com/slclab/surveybase/internal/api/handler"
	apimw "github.com/slclab/surveybase/internal/api/middleware"
	"github.com/slclab/surveybase/internal/auth"
	"github.com/slclab/surveybase/internal/cleanup"
	"github.com/slclab/surveybase/internal/duplicate"
	"github.com/slclab/surveybase/internal/orphan"
	"github.com/slclab/surveybase/internal/store"
)

// RouterDeps holds optional dependencies for the router.
type RouterDeps struct {
	Reviews     *orphan.Manager
	Verifier    *auth.Verifier
	AuthEnabled bool
}

func NewRouter(logger *slog.Logger, s *store.Store, deps *RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apimw.Logger(logger))
	r.Use(apimw.CORS)
	r.Use(chimw.Recoverer)

	// Health checks
	health := apihandler.NewHealthHandler(s.Pool())
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	if deps == nil {
		deps = &RouterDeps{}
	}

	cleanupEngine := cleanup.NewEngine(logger)
	duplicateEngine := duplicate.NewEngine(s, logger)

	surveys := apihandler.NewSurveyHandler(logger, s)
	waves := apihandler.NewWaveHandler(logger, s, cleanupEngine, deps.Reviews)
	pages := apihandler.NewPageHandler(logger, s, cleanupEngine, duplicateEngine, deps.Reviews)
	questions := apihandler.NewQuestionHandler(logger, s, cleanupEngine)
	variables := apihandler.NewVariableHandler(logger, s)
	vallabs := apihandler.NewValLabHandler(logger, s)
	orphans := apihandler.NewOrphanHandler(logger, s, cleanupEngine, deps.Reviews)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if deps.AuthEnabled && deps.Verifier != nil {
			r.Use(auth.RequireAuth(deps.Verifier, logger))
		} else {
			r.Use(auth.DevModeMiddleware(logger))
		}

		read := auth.RequireScope("surveybase:read", "surveybase:write")
		write := auth.RequireScope("surveybase:write")

		r.Route("/surveys", func(r chi.Router) {
			r.With(read).Get("/", surveys.List)
			r.With(write).Post("/", surveys.Create)
			r.With(read).Get("/duplication-targets", surveys.DuplicationTargets)
			r.Route("/{surveyID}", func(r chi.Router) {
				r.With(read).Get("/", surveys.Get)
				r.With(read).Get("/waves", surveys.ListWaves)
				r.With(write).Post("/waves", waves.Create)
			})
		})

		r.Route("/waves/{waveID}", func(r chi.Router) {
			r.With(read).Get("/", waves.Get)
			r.With(read).Get("/pages", waves.ListPages)
			r.With(write).Post("/lock", waves.Lock)
			r.With(write).Delete("/", waves.Delete)
		})

		r.Route("/pages", func(r chi.Router) {
			r.With(write).Post("/", pages.Create)
			r.With(read).Get("/check-name", pages.CheckName)
			r.Route("/{pageID}", func(r chi.Router) {
				r.With(read).Get("/", pages.Get)
				r.With(write).Put("/", pages.Update)
				r.With(write).Put("/content", pages.UpdateContent)
				r.With(write).Delete("/", pages.Delete)
				r.With(read).Get("/questions", pages.ListQuestions)
				r.With(write).Put("/questions", pages.SetQuestions)
				r.With(write).Post("/duplicate", pages.Duplicate)
			})
		})

		r.Route("/questions", func(r chi.Router) {
			r.With(write).Post("/", questions.Create)
			r.Route("/{questionID}", func(r chi.Router) {
				r.With(read).Get("/", questions.Get)
				r.With(write).Put("/", questions.Update)
				r.With(write).Delete("/", questions.Delete)
				r.With(write).Post("/attach", questions.Attach)
				r.Route("/waves/{waveID}/variables", func(r chi.Router) {
					r.With(read).Get("/", questions.ListVariables)
					r.With(write).Put("/", questions.SetVariables)
				})
			})
		})

		r.Route("/variables", func(r chi.Router) {
			r.With(read).Get("/", variables.List)
			r.With(write).Post("/", variables.Create)
			r.With(read).Get("/check-name", variables.CheckName)
			r.Route("/{variableID}", func(r chi.Router) {
				r.With(read).Get("/", variables.Get)
				r.With(write).Put("/", variables.Update)
				r.With(write).Delete("/", variables.Delete)
			})
		})

		r.Route("/vallabs", func(r chi.Router) {
			r.With(read).Get("/", vallabs.List)
			r.With(write).Post("/", vallabs.Create)
			r.With(read).Get("/{vallabID}", vallabs.Get)
		})

		r.Route("/orphan-review", func(r chi.Router) {
			r.With(read).Get("/", orphans.Pending)
			r.With(write).Post("/", orphans.Resolve)
		})
	})

	return r
}
