package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/cabin-booking-backend/internal/auth"
	"github.com/nekogravitycat/cabin-booking-backend/internal/availability"
	availabilityHttp "github.com/nekogravitycat/cabin-booking-backend/internal/availability/http"
	"github.com/nekogravitycat/cabin-booking-backend/internal/chat"
	chatHttp "github.com/nekogravitycat/cabin-booking-backend/internal/chat/http"
	"github.com/nekogravitycat/cabin-booking-backend/internal/pricing"
	pricingHttp "github.com/nekogravitycat/cabin-booking-backend/internal/pricing/http"
	"github.com/nekogravitycat/cabin-booking-backend/internal/reservation"
	reservationHttp "github.com/nekogravitycat/cabin-booking-backend/internal/reservation/http"
	"github.com/nekogravitycat/cabin-booking-backend/internal/unit"
	unitHttp "github.com/nekogravitycat/cabin-booking-backend/internal/unit/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *zap.Logger
	Now          func() time.Time

	UnitService         unit.Service
	PricingService      pricing.Service
	ReservationService  reservation.Service
	AvailabilityService availability.Service
	ChatShell           *chat.Shell
	DeepLinker          chat.DeepLinker
	BotPolicy           func() chat.BotPolicy

	JWTManager *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - RequestLogger: Logs request information through zap.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestLogger(cfg.Logger), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:8081", // Swagger
		"http://localhost:3000", // Booking site
	}
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", Health)

	// adminMiddleware: Validates the bearer token and requires the admin role.
	adminMiddleware := auth.AdminRequired(cfg.JWTManager)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	unitHandler := unitHttp.NewHandler(cfg.UnitService)
	pricingHandler := pricingHttp.NewHandler(cfg.PricingService)
	reservationHandler := reservationHttp.NewHandler(cfg.ReservationService)
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService, cfg.Now)
	chatHandler := chatHttp.NewHandler(cfg.ChatShell, cfg.DeepLinker, cfg.BotPolicy)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		unitHttp.RegisterRoutes(v1, unitHandler, adminMiddleware)
		pricingHttp.RegisterRoutes(v1, pricingHandler, adminMiddleware)
		reservationHttp.RegisterRoutes(v1, reservationHandler, adminMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler)
		chatHttp.RegisterRoutes(v1, chatHandler, adminMiddleware)
	}

	return r
}
