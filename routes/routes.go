package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/clubhub/handlers"
	"github.com/Dosada05/clubhub/metrics"
	"github.com/Dosada05/clubhub/middleware"
	"github.com/Dosada05/clubhub/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Club      *handlers.ClubHandler
	Event     *handlers.EventHandler
	News      *handlers.NewsHandler
	Forum     *handlers.ForumHandler
	Media     *handlers.MediaHandler
	Hub       *handlers.HubHandler
	WebSocket *handlers.WebSocketHandler
	Health    http.HandlerFunc
}

type Options struct {
	Logger         *slog.Logger
	Resolver       middleware.IdentityResolver
	Cookies        middleware.SessionCookies
	Gate           services.AccessGate
	Metrics        *metrics.Collectors
	AllowedOrigins []string
	AuthLimiter    *middleware.IPRateLimiter
	// UploadsDir is served under /uploads when files are kept on local disk.
	UploadsDir string
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(chiMiddleware.Recoverer)
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.Authenticate(opts.Resolver, opts.Cookies, opts.Logger))

	router.Get("/healthz", h.Health)
	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	if opts.UploadsDir != "" {
		router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir))))
	}

	clubGuard := middleware.ClubGuard{Gate: opts.Gate, Param: "clubID"}

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(opts.AuthLimiter))
				r.Post("/register", h.Auth.Register)
				r.Post("/login", h.Auth.Login)
				r.Post("/forgot-password", h.Auth.ForgotPassword)
				r.Post("/reset-password", h.Auth.ResetPassword)
			})
			r.Post("/logout", h.Auth.Logout)
		})

		r.Get("/hub", h.Hub.Overview)
		r.Get("/menu", h.Hub.WeekMenu)
		r.Get("/calendar", h.Hub.Calendar)
		r.Get("/badges", h.Hub.ListBadges)

		r.Route("/me", func(r chi.Router) {
			r.Use(middleware.RequireAuthenticated)
			r.Get("/", h.User.Me)
			r.Delete("/", h.Auth.DeleteAccount)
			r.Put("/password", h.Auth.ChangePassword)
			r.Post("/avatar", h.User.UploadAvatar)
		})

		r.Get("/users/{userID}", h.User.GetUser)

		r.Route("/clubs", func(r chi.Router) {
			r.Get("/", h.Club.ListClubs)
			r.Get("/ranking", h.Club.Ranking)
			r.With(middleware.RequireAuthenticated).Post("/", h.Club.CreateClub)

			r.Route("/{clubID}", func(r chi.Router) {
				r.Get("/", h.Club.GetClub)
				r.Get("/members", h.Club.ListMembers)
				r.Get("/events", h.Event.ListClubEvents)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAuthenticated)
					r.Post("/join", h.Club.JoinClub)
					r.Post("/leave", h.Club.LeaveClub)
				})

				r.Group(func(r chi.Router) {
					r.Use(clubGuard.RequireLeader)
					r.Put("/", h.Club.UpdateClub)
					r.Delete("/", h.Club.DeleteClub)
					r.Post("/events", h.Event.CreateEvent)
					r.Post("/media", h.Media.UploadMedia)
				})

				r.Group(func(r chi.Router) {
					r.Use(clubGuard.RequireMember)
					r.Get("/media", h.Media.ListMedia)
					r.Get("/media/{mediaID}", h.Media.GetMedia)
					r.Get("/forum/topics", h.Forum.ListTopics)
					r.Post("/forum/topics", h.Forum.CreateTopic)
					r.Get("/forum/topics/{topicID}", h.Forum.GetTopic)
					r.Post("/forum/topics/{topicID}/posts", h.Forum.CreatePost)
				})
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.Event.ListEvents)
			r.Get("/upcoming", h.Event.Upcoming)
			r.Get("/{eventID}", h.Event.GetEvent)
			r.With(middleware.RequireAuthenticated).Post("/{eventID}/enroll", h.Event.Enroll)
		})

		r.Route("/news", func(r chi.Router) {
			r.Get("/", h.News.ListNews)
			r.Get("/{newsID}", h.News.GetNews)
			r.With(middleware.RequireAuthenticated).Post("/", h.News.CreateNews)
		})
	})

	router.Route("/ws", func(r chi.Router) {
		r.Get("/me", h.WebSocket.ServeUserFeed)
		r.Get("/clubs/{clubID}", h.WebSocket.ServeClubFeed)
	})
}
