package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/icco/gutil/logging"
	"github.com/icco/pokejournal"
	"github.com/icco/pokejournal/cmd/server/docs"
	"github.com/jessevdk/go-flags"
	"github.com/microcosm-cc/bluemonday"
	"github.com/swaggo/http-swagger"
	"github.com/unrolled/render"
	"github.com/unrolled/secure"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

var (
	// Renderer is a renderer for all occasions. These are our preferred default options.
	// See:
	//  - https://github.com/unrolled/render/blob/v1/README.md
	//  - https://godoc.org/gopkg.in/unrolled/render.v1
	Renderer = render.New(render.Options{
		Charset:                   "UTF-8",
		Directory:                 "views",
		DisableHTTPErrorRendering: false,
		Extensions:                []string{".tmpl", ".html"},
		IndentJSON:                false,
		IndentXML:                 true,
		Layout:                    "layout",
		RequirePartials:           true,
		Funcs:                     []template.FuncMap{},
	})

	log       = logging.Must(logging.NewLogger(pokejournal.Service))
	ugcPolicy = bluemonday.StrictPolicy()
)

// @title Pokemon Journal API
// @version 1.0
// @description Tracks Pokemon captures, showdowns and trainer statistics across play sessions
// @contact.name API Support
// @contact.url http://github.com/icco/pokejournal
// @license.name MIT
// @BasePath /
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name tokenPokemonJournal

func main() {
	loadDotEnv()

	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		log.Fatalw("could not parse options", zap.Error(err))
	}
	log.Infow("Starting up", "port", opts.Port, "env", opts.Env)

	db, err := pokejournal.Open(opts.DatabaseURL)
	if err != nil {
		log.Panicw("could not get db", zap.Error(err))
		return
	}

	scoring, err := opts.scoring()
	if err != nil {
		log.Fatalw("could not load scoring rules", "file", opts.ScoringFile, zap.Error(err))
	}
	store := pokejournal.NewStore(db, pokejournal.WithScoring(scoring))

	revoker, err := newRevoker(context.Background(), opts.RedisURL)
	if err != nil {
		log.Fatalw("could not connect to redis", zap.Error(err))
	}

	metrics, err := setupMetrics()
	if err != nil {
		log.Fatalw("could not set up metrics", zap.Error(err))
	}

	a := &api{
		store: store,
		auth:  newAuthenticator(store, opts.JWTSecret, opts.SecureCookies, revoker),
	}

	server := &http.Server{
		Addr:           ":" + opts.Port,
		Handler:        otelhttp.NewHandler(a.routes(opts, metrics), pokejournal.Service),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", zap.Error(err))
	}
}

// routes builds the full router. Everything under /api speaks JSON.
func (a *api) routes(opts *options, metrics http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(log.Desugar()))
	r.Use(middleware.Recoverer)

	r.Use(cors.New(cors.Options{
		AllowCredentials:   true,
		OptionsPassthrough: false,
		AllowedOrigins:     opts.AllowedOrigins,
		AllowedMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:     []string{"Link"},
		MaxAge:             300, // Maximum value not ignored by any of major browsers
	}).Handler)

	r.NotFound(notFoundHandler)

	// Stuff that does not ssl redirect
	r.Get("/healthz", healthCheckHandler)
	r.Handle("/metrics", metrics)

	r.Group(func(r chi.Router) {
		r.Use(secure.New(secure.Options{
			BrowserXssFilter:     true,
			ContentTypeNosniff:   true,
			FrameDeny:            true,
			HostsProxyHeaders:    []string{"X-Forwarded-Host"},
			IsDevelopment:        !opts.production(),
			SSLProxyHeaders:      map[string]string{"X-Forwarded-Proto": "https"},
			SSLRedirect:          opts.production(),
			STSIncludeSubdomains: true,
			STSPreload:           true,
			STSSeconds:           315360000,
		}).Handler)

		r.Get("/", rootHandler)
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))

		r.Route("/api", func(r chi.Router) {
			r.Mount("/auth", a.auth.routes())

			// The catalog is readable without a session.
			r.Get("/pokemon", a.listPokemonHandler)
			r.Get("/pokemon/search", a.searchPokemonHandler)
			r.Get("/pokemon/{id}", a.getPokemonHandler)

			r.Group(func(r chi.Router) {
				r.Use(a.auth.middleware)

				r.Route("/games", func(r chi.Router) {
					r.Get("/", a.listGamesHandler)
					r.Post("/", a.createGameHandler)
					r.Get("/{id}", a.getGameHandler)
					r.Put("/{id}", a.updateGameHandler)
					r.Delete("/{id}", a.deleteGameHandler)
					r.Post("/{id}/restore", a.restoreGameHandler)
				})

				r.Route("/players", func(r chi.Router) {
					r.Get("/", a.listPlayersHandler)
					r.Post("/", a.createPlayerHandler)
					r.Get("/stats/{playerId}", a.trainerStatsHandler)
					r.Get("/stats/pokemon/{playerId}", a.pokemonStatsHandler)
					r.Get("/{playerId}/pokemon/{pokemonId}/detail", a.pokemonDetailHandler)
					r.Put("/{id}", a.updatePlayerHandler)
					r.Delete("/{id}", a.deletePlayerHandler)
					r.Post("/{id}/restore", a.restorePlayerHandler)
				})

				r.Route("/player-games", func(r chi.Router) {
					r.Post("/", a.linkPlayerHandler)
					r.Get("/{gameId}", a.gamePlayersHandler)
					r.Delete("/{playerId}/{gameId}", a.unlinkPlayerHandler)
				})

				r.Route("/events", func(r chi.Router) {
					r.Get("/", a.listEventsHandler)
					r.Post("/", a.createEventHandler)
					r.Get("/game/{gameId}", a.gameEventsHandler)
					r.Put("/{id}/status", a.updateEventStatusHandler)
					r.Put("/{id}/attributes", a.updateEventAttributesHandler)
					r.Delete("/{id}", a.deleteEventHandler)
					r.Post("/{id}/restore", a.restoreEventHandler)
				})

				r.Route("/showdowns", func(r chi.Router) {
					r.Get("/game/{gameId}", a.listShowdownsHandler)
					r.Post("/", a.createShowdownHandler)
					r.Put("/{id}", a.updateShowdownHandler)
					r.Delete("/{id}", a.deleteShowdownHandler)
				})

				r.Post("/pokemon", a.createPokemonHandler)
				r.Put("/pokemon/{id}", a.updatePokemonHandler)
				r.Delete("/pokemon/{id}", a.deletePokemonHandler)
				r.Post("/pokemon/{id}/restore", a.restorePokemonHandler)

				r.Get("/utils/stats", a.databaseStatsHandler)
			})
		})
	})

	return r
}

// @Summary Get API information
// @Description Returns basic API information and available endpoints
// @Tags info
// @Accept json
// @Produce html
// @Success 200 {string} string "HTML page with API information"
// @Router / [get]
func rootHandler(w http.ResponseWriter, r *http.Request) {
	// Use embedded swagger.json data from docs package
	spec, err := docs.GetSwaggerSpec()
	if err != nil {
		log.Errorw("failed to parse swagger.json", zap.Error(err))
		// Fallback to static content
		writeStaticHomePage(w)
		return
	}

	html := `
<html>
  <head>
    <title>Pokemon Journal API</title>
    <style>
      body { font-family: Arial, sans-serif; max-width: 800px; margin: 40px auto; padding: 20px; }
      h1 { color: #333; }
      .endpoint { margin: 20px 0; padding: 15px; border-left: 4px solid #cc0000; background: #f8f9fa; }
      .method { font-weight: bold; color: #cc0000; text-transform: uppercase; }
      .path { font-family: monospace; color: #333; margin: 5px 0; }
      .description { color: #666; margin: 5px 0; }
      .tag { background: #fbe9e7; color: #9d3939; padding: 2px 6px; border-radius: 3px; font-size: 0.8em; margin-right: 5px; }
      a { color: #cc0000; text-decoration: none; }
      a:hover { text-decoration: underline; }
    </style>
  </head>
  <body>
    <h1>Pokemon Journal API</h1>
    <p>Captures, showdowns and trainer statistics for your play sessions.</p>
    <p><a href="/swagger/">📚 View Swagger Documentation</a></p>

    <h2>Available Endpoints</h2>`

	paths := make([]string, 0, len(spec.Paths))
	for path := range spec.Paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		methods := spec.Paths[path]
		names := make([]string, 0, len(methods))
		for method := range methods {
			names = append(names, method)
		}
		sort.Strings(names)

		for _, method := range names {
			info := methods[method]
			html += fmt.Sprintf(`
    <div class="endpoint">
      <div class="method">%s</div>
      <div class="path">%s</div>
      <div class="description">%s</div>
      <div>`, method, template.HTMLEscapeString(path), template.HTMLEscapeString(info.Description))

			for _, tag := range info.Tags {
				html += fmt.Sprintf(`<span class="tag">%s</span>`, template.HTMLEscapeString(tag))
			}

			html += `</div>
    </div>`
		}
	}

	html += `
  </body>
</html>`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(html)); err != nil {
		log.Errorw("failed to write response", zap.Error(err))
	}
}

func writeStaticHomePage(w http.ResponseWriter) {
	html := `
<html>
  <head>
    <title>Pokemon Journal API</title>
    <style>
      body { font-family: Arial, sans-serif; max-width: 800px; margin: 40px auto; padding: 20px; }
    </style>
  </head>
  <body>
    <h1>Pokemon Journal API</h1>
    <p><a href="/swagger/">📚 View Swagger Documentation</a></p>
    <ul>
      <li>POST /api/auth/login - Start a session</li>
      <li>GET /api/games - List your games</li>
      <li>GET /api/showdowns/game/{gameId} - Matchup board of a game</li>
      <li>GET /api/players/stats/pokemon/{playerId} - Per-Pokemon trainer stats</li>
      <li>GET /api/pokemon - Pokemon catalog</li>
      <li>GET /healthz - Health check</li>
    </ul>
  </body>
</html>`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(html)); err != nil {
		log.Errorw("failed to write response", zap.Error(err))
	}
}

// @Summary Health check
// @Description Returns service health status
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := Renderer.JSON(w, http.StatusOK, HealthResponse{
		Healthy:  "true",
		Revision: os.Getenv("GIT_REVISION"),
		Tag:      os.Getenv("GIT_TAG"),
		Branch:   os.Getenv("GIT_BRANCH"),
	}); err != nil {
		log.Errorw("failed to render JSON", zap.Error(err))
	}
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	if err := Renderer.JSON(w, http.StatusNotFound, ErrorResponse{
		Error: "404: This page could not be found",
	}); err != nil {
		log.Errorw("failed to render JSON", zap.Error(err))
	}
}
