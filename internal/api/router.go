package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/explore-taroudant/explore-api/internal/api/handler"
	"github.com/explore-taroudant/explore-api/internal/api/middleware"
	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

// Deps are the services and probes the router wires into handlers.
type Deps struct {
	JWTSecret string
	Logger    zerolog.Logger

	Users middleware.ActorFinder

	Auth     ports.AuthService
	Guides   ports.GuideService
	Accounts ports.AccountService

	Places     ports.PlaceService
	Activities ports.ActivityService
	Circuits   ports.CircuitService
	Events     ports.EventService
	Artisans   ports.ArtisanService

	Reservations ports.ReservationService
	Reports      ports.ReportService
	Reviews      ports.ReviewService

	// Probes maps a dependency name to its readiness check.
	Probes map[string]handler.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddleware("tourism"))

	// public: token optional, actor loaded when present.
	public := []echo.MiddlewareFunc{middleware.OptionalAuth(deps.JWTSecret), middleware.LoadActor(deps.Users)}
	// authed: token required.
	authed := []echo.MiddlewareFunc{middleware.Auth(deps.JWTSecret), middleware.LoadActor(deps.Users)}

	with := func(base []echo.MiddlewareFunc, roles ...domain.Role) []echo.MiddlewareFunc {
		mw := append([]echo.MiddlewareFunc{}, base...)
		if len(roles) > 0 {
			mw = append(mw, middleware.RBAC(roles...))
		}
		return mw
	}

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authed...)
	e.PUT("/auth/profile", authHandler.UpdateProfile, authed...)

	guideHandler := handler.NewGuideHandler(deps.Guides)
	guide := e.Group("/guide", with(authed, domain.RoleGuide)...)
	guide.GET("/profile", guideHandler.Profile)
	guide.PUT("/profile", guideHandler.UpdateProfile)

	// --- Listings ---
	places := handler.NewPlaceHandler(deps.Places)
	activities := handler.NewActivityHandler(deps.Activities)
	circuits := handler.NewCircuitHandler(deps.Circuits)
	events := handler.NewEventHandler(deps.Events)
	artisans := handler.NewArtisanHandler(deps.Artisans)

	placeGroup := e.Group("/places")
	placeGroup.GET("/search", places.Search, public...)
	placeGroup.GET("/city/:city", places.ByCity, public...)
	registerListing(placeGroup, places, public, authed, with)

	activityGroup := e.Group("/activities")
	activityGroup.GET("/place/:placeId", activities.ByPlace, public...)
	activityGroup.GET("/guide/:guideId", activities.ByGuide, public...)
	registerListing(activityGroup, activities, public, authed, with)

	registerListing(e.Group("/circuits"), circuits, public, authed, with)

	eventGroup := e.Group("/events")
	eventGroup.GET("/upcoming", events.Upcoming, public...)
	registerListing(eventGroup, events, public, authed, with)

	registerListing(e.Group("/artisans"), artisans, public, authed, with)

	// --- Reservations ---
	reservations := handler.NewReservationHandler(deps.Reservations)
	res := e.Group("/reservations")
	res.POST("", reservations.Create, authed...)
	res.GET("/my", reservations.Mine, authed...)
	res.GET("/guide", reservations.ForGuide, with(authed, domain.RoleGuide)...)
	res.GET("/all", reservations.All, with(authed, domain.RoleAdmin)...)
	res.PUT("/:id/cancel", reservations.Cancel, authed...)
	res.PUT("/:id/status", reservations.UpdateStatus, with(authed, domain.RoleAdmin)...)
	res.DELETE("/:id", reservations.Delete, authed...)

	// --- Reports & reviews ---
	reports := handler.NewReportHandler(deps.Reports)
	rep := e.Group("/reports")
	rep.POST("", reports.Submit, authed...)
	rep.GET("", reports.List, with(authed, domain.RoleAdmin)...)
	rep.PUT("/:id/status", reports.SetStatus, with(authed, domain.RoleAdmin)...)

	reviews := handler.NewReviewHandler(deps.Reviews)
	rev := e.Group("/reviews")
	rev.POST("", reviews.Create, authed...)
	rev.GET("/place/:placeId", reviews.ByPlace)
	rev.GET("/place/:placeId/average", reviews.Average)
	rev.GET("/user/:userId", reviews.ByUser)
	rev.GET("/:id", reviews.Get)
	rev.PUT("/:id", reviews.Update, authed...)
	rev.DELETE("/:id", reviews.Delete, authed...)

	// --- Administration ---
	adminHandler := handler.NewAdminHandler(deps.Accounts)
	admin := e.Group("/admin", with(authed, domain.RoleAdmin)...)
	admin.GET("/users", adminHandler.Users)
	admin.PUT("/guides/:id/status", adminHandler.SetGuideStatus)
	admin.DELETE("/guides/:id", adminHandler.DeleteGuide)
	admin.DELETE("/tourists/:id", adminHandler.DeleteTourist)

	// --- Health probes, metrics and docs (no auth required) ---
	health := handler.NewHealthHandler(deps.Probes)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// registerListing mounts the moderation routes every listing kind shares.
// Static segments are registered before /:id so echo prefers them.
func registerListing(
	g *echo.Group,
	h handler.ListingRoutes,
	public, authed []echo.MiddlewareFunc,
	with func([]echo.MiddlewareFunc, ...domain.Role) []echo.MiddlewareFunc,
) {
	g.GET("", h.List, public...)
	g.GET("/pending", h.Pending, with(authed, domain.RoleAdmin)...)
	g.GET("/all", h.All, with(authed, domain.RoleAdmin)...)
	g.GET("/mine", h.Mine, with(authed, domain.RoleGuide, domain.RoleAdmin)...)
	g.GET("/:id", h.Get, public...)
	g.POST("", h.Create, with(authed, domain.RoleGuide, domain.RoleAdmin)...)
	g.PUT("/:id", h.Update, with(authed, domain.RoleGuide, domain.RoleAdmin)...)
	g.PUT("/:id/validate", h.Validate, with(authed, domain.RoleAdmin)...)
	g.DELETE("/:id", h.Delete, with(authed, domain.RoleGuide, domain.RoleAdmin)...)
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
