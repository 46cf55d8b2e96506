package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lmendo/tripdesk/internal/app/domain/auth"
	"github.com/lmendo/tripdesk/internal/app/domain/booking"
	"github.com/lmendo/tripdesk/internal/app/domain/catalog"
	"github.com/lmendo/tripdesk/internal/app/domain/checkout"
	"github.com/lmendo/tripdesk/internal/app/domain/provider"
	"github.com/lmendo/tripdesk/internal/app/domain/reservations"
	"github.com/lmendo/tripdesk/internal/app/domain/session"
	"github.com/lmendo/tripdesk/internal/app/handlers"
	"github.com/lmendo/tripdesk/internal/app/middleware"
	"github.com/lmendo/tripdesk/internal/app/models"
	"github.com/lmendo/tripdesk/internal/backend"
	"github.com/lmendo/tripdesk/internal/pkg/config"
)

type AppHandlers struct {
	Auth         *auth.AuthHandlers
	Catalog      *catalog.CatalogHandlers
	Checkout     *checkout.CheckoutHandlers
	Reservations *reservations.ReservationHandlers
	Provider     *provider.ProviderHandlers
}

// Setup wires services and handlers onto the engine. The session middleware
// runs on every route so public pages can still greet a signed-in user.
func Setup(r *gin.Engine, cfg *config.Config, client *backend.Client, log *zap.Logger) {
	store := session.NewStore(cfg.Session.TTL)
	codec := session.NewTokenCodec(cfg.Session)
	authService := auth.NewAuthService(client, store, codec, log)

	r.Use(middleware.SessionMiddleware(authService, codec, cfg.Session))

	setupRouter(r, setupDependencies(cfg, client, authService, log))
}

func setupDependencies(cfg *config.Config, client *backend.Client, authService auth.AuthService, log *zap.Logger) *AppHandlers {
	catalogService := catalog.NewCatalogService(client, log)
	submitter := booking.NewSubmitter(client, log)

	// Any authenticated backend call can come back 401 once the token dies
	// server-side. The shared responder drops the local session on that
	// path so the guards stop admitting it.
	respond := handlers.NewResponder(cfg.Session, authService)

	return &AppHandlers{
		Auth:         auth.NewAuthHandlers(authService, cfg.Session, log),
		Catalog:      catalog.NewCatalogHandlers(catalogService, log),
		Checkout:     checkout.NewCheckoutHandlers(client, submitter, respond, log),
		Reservations: reservations.NewReservationHandlers(client, respond, log),
		Provider:     provider.NewProviderHandlers(client, respond, log),
	}
}

func setupRouter(r *gin.Engine, h *AppHandlers) {
	api := r.Group("/api")

	public := api.Group("/")
	{
		public.GET("/hotels", h.Catalog.HandleSearchHotels)
		public.GET("/hotels/:id", h.Catalog.HandleHotelDetails)
		public.GET("/tours", h.Catalog.HandleSearchTours)
		public.GET("/tours/:id", h.Catalog.HandleTourDetails)
		public.GET("/destinations", h.Catalog.HandleDestinations)
		public.POST("/checkout/quote", h.Checkout.HandleQuote)
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.HandleLogin)
		authGroup.POST("/logout", h.Auth.HandleLogout)
		authGroup.POST("/register", h.Auth.HandleRegister)
		authGroup.GET("/me", middleware.RequireAuth(), h.Auth.HandleMe)
	}

	traveler := api.Group("/")
	traveler.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleTraveler))
	{
		traveler.POST("/checkout", h.Checkout.HandleSubmit)
		traveler.POST("/tours/:id/reserve", h.Reservations.HandleReserveTour)
		traveler.GET("/reservations", h.Reservations.HandleList)
		traveler.POST("/reservations/:id/cancel", h.Reservations.HandleCancel)
	}

	providerGroup := api.Group("/provider")
	providerGroup.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleProvider))
	{
		providerGroup.GET("/listings", h.Provider.HandleListings)
		providerGroup.POST("/listings", h.Provider.HandleCreate)
		providerGroup.PUT("/listings/:kind/:id", h.Provider.HandleUpdate)
		providerGroup.POST("/listings/:kind/:id/deactivate", h.Provider.HandleDeactivate)
		providerGroup.DELETE("/listings/:kind/:id", h.Provider.HandleDelete)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "redirect": "/hotels"})
	})
}
