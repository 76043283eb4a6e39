package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jack-boyd5/geartrade/internal/config"
	s3infra "github.com/jack-boyd5/geartrade/internal/infra/s3"
	pgrepo "github.com/jack-boyd5/geartrade/internal/repo/postgres"
	redrepo "github.com/jack-boyd5/geartrade/internal/repo/redis"
	authsvc "github.com/jack-boyd5/geartrade/internal/services/auth"
	listingssvc "github.com/jack-boyd5/geartrade/internal/services/listings"
	matchessvc "github.com/jack-boyd5/geartrade/internal/services/matches"
	mediasvc "github.com/jack-boyd5/geartrade/internal/services/media"
	messagingsvc "github.com/jack-boyd5/geartrade/internal/services/messaging"
	statssvc "github.com/jack-boyd5/geartrade/internal/services/stats"
	swipesvc "github.com/jack-boyd5/geartrade/internal/services/swipes"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres init: %w", err)
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	userRepo := pgrepo.NewUserRepo(pool)
	listingRepo := pgrepo.NewListingRepo(pool)
	photoRepo := pgrepo.NewPhotoRepo(pool)
	interestRepo := pgrepo.NewInterestRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)
	statsRepo := pgrepo.NewStatsRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	authService := authsvc.NewService(jwtManager, userRepo, sessionRepo, cfg.Auth.SessionTTL)
	listingsService := listingssvc.NewService(listingRepo, photoRepo, listingssvc.Config{
		MarketplacePageSize: cfg.App.MarketplacePageSize,
	})
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Pool:      pool,
		Listings:  listingRepo,
		Interests: interestRepo,
		Matches:   matchRepo,
		Users:     userRepo,
	})
	matchesService := matchessvc.NewService(matchRepo, cfg.App.MatchesLimit)
	messagingService := messagingsvc.NewService(messagingsvc.Dependencies{
		Pool:     pool,
		Matches:  matchRepo,
		Messages: messageRepo,
	}, cfg.App.MessageMaxLength)
	statsService := statssvc.NewService(statsRepo)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	mediaService := mediasvc.NewService(mediasvc.Dependencies{
		Listings: listingRepo,
		Photos:   photoRepo,
		Users:    userRepo,
		Storage:  mediaStorage,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:      authService,
		ListingsService:  listingsService,
		SwipeService:     swipeService,
		MatchService:     matchesService,
		MessagingService: messagingService,
		MediaService:     mediaService,
		StatsService:     statsService,
		Logger:           log,
		Config:           cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
