package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nekogravitycat/cabin-booking-backend/internal/api"
	"github.com/nekogravitycat/cabin-booking-backend/internal/auth"
	"github.com/nekogravitycat/cabin-booking-backend/internal/availability"
	"github.com/nekogravitycat/cabin-booking-backend/internal/chat"
	"github.com/nekogravitycat/cabin-booking-backend/internal/pricing"
	"github.com/nekogravitycat/cabin-booking-backend/internal/reservation"
	"github.com/nekogravitycat/cabin-booking-backend/internal/unit"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	// Redis is optional; without it chat sessions are kept in memory.
	Redis     *redis.Client
	Logger    *zap.Logger
	JWTSecret string
	JWTTTL    time.Duration

	SessionTTL     time.Duration
	MaxPartySize   int
	BookingURL     string
	DeepLinkTTL    time.Duration
	ChatRatePerMin int
	BotEnabled     bool
	Location       *time.Location
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Init Components
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	now := func() time.Time { return time.Now().In(cfg.Location) }

	// Pricing and reservations both need cabins, and cabins need to know
	// about reservations before they can be deleted, so the unit service
	// gets a late-bound occupancy checker.
	occupancy := &lateOccupancy{}

	// Unit Module
	unitRepo := unit.NewPgxRepository(cfg.DBPool)
	unitService := unit.NewService(unitRepo, occupancy)

	// Pricing Module
	pricingRepo := pricing.NewPgxRepository(cfg.DBPool)
	pricingService := pricing.NewService(pricingRepo, unitService, cfg.Logger.Named("pricing"))

	// Reservation Module
	reservationRepo := reservation.NewPgxRepository(cfg.DBPool)
	reservationService := reservation.NewService(reservationRepo, unitService, pricingService, now, cfg.Logger.Named("reservation"))
	occupancy.OccupancyChecker = reservationService

	// Availability Module
	availabilityService := availability.NewService(unitService, reservationService, pricingService, cfg.Logger.Named("availability"))

	// Chat Module
	var store chat.SessionStore
	if cfg.Redis != nil {
		store = chat.NewRedisStore(cfg.Redis, cfg.SessionTTL)
	} else {
		store = chat.NewMemoryStore(cfg.SessionTTL)
	}
	deepLinker := chat.NewJWTDeepLinker(cfg.JWTSecret, cfg.BookingURL, cfg.DeepLinkTTL)
	resolver := chat.NewResolver(availabilityService, chat.RegexGuestExtractor{}, deepLinker, chat.ResolverConfig{
		MaxPartySize: cfg.MaxPartySize,
		Location:     cfg.Location,
		Now:          now,
	})
	topics := chat.NewKeywordResponder(chat.DefaultTopics)
	shell := chat.NewShell(resolver, store, topics, cfg.ChatRatePerMin, cfg.Logger.Named("chat"))
	botPolicy := func() chat.BotPolicy { return chat.BotPolicy{Enabled: cfg.BotEnabled} }

	// API Router Config
	routerParams := api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		Logger:              cfg.Logger.Named("http"),
		Now:                 now,
		UnitService:         unitService,
		PricingService:      pricingService,
		ReservationService:  reservationService,
		AvailabilityService: availabilityService,
		ChatShell:           shell,
		DeepLinker:          deepLinker,
		BotPolicy:           botPolicy,
		JWTManager:          jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}

type lateOccupancy struct {
	unit.OccupancyChecker
}
