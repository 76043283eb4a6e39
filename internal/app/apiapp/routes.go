package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jack-boyd5/geartrade/internal/config"
	authsvc "github.com/jack-boyd5/geartrade/internal/services/auth"
	listingssvc "github.com/jack-boyd5/geartrade/internal/services/listings"
	matchessvc "github.com/jack-boyd5/geartrade/internal/services/matches"
	mediasvc "github.com/jack-boyd5/geartrade/internal/services/media"
	messagingsvc "github.com/jack-boyd5/geartrade/internal/services/messaging"
	statssvc "github.com/jack-boyd5/geartrade/internal/services/stats"
	swipesvc "github.com/jack-boyd5/geartrade/internal/services/swipes"
	"github.com/jack-boyd5/geartrade/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService      *authsvc.Service
	ListingsService  *listingssvc.Service
	SwipeService     *swipesvc.Service
	MatchService     *matchessvc.Service
	MessagingService *messagingsvc.Service
	MediaService     *mediasvc.Service
	StatsService     *statssvc.Service
	Logger           *zap.Logger
	Config           config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	healthHandler := handlers.NewHealthHandler()
	listingsHandler := handlers.NewListingsHandler(deps.ListingsService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	messagesHandler := handlers.NewMessagesHandler(deps.MessagingService)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService)
	statsHandler := handlers.NewStatsHandler(deps.StatsService)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.With(authMW).Post("/logout", authHandler.Logout)
			r.With(authMW).Get("/me", authHandler.Me)
		})

		r.Route("/cars", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/", listingsHandler.Create)
			r.Get("/marketplace", listingsHandler.Marketplace)
			r.Get("/my-garage", listingsHandler.Garage)
			r.Put("/{listing_id}", listingsHandler.Update)
			r.Delete("/{listing_id}", listingsHandler.Delete)
			r.Post("/{listing_id}/view", listingsHandler.RecordView)
		})

		r.Route("/upload", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/car-photo/{listing_id}", mediaHandler.ListingPhotoUpload)
			r.Post("/profile-photo", mediaHandler.ProfilePhotoUpload)
		})

		r.With(authMW).Post("/swipe", swipeHandler.Handle)
		r.With(authMW).Get("/matches", matchesHandler.Handle)

		r.Route("/messages", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/", messagesHandler.Send)
			r.Get("/unread/count", messagesHandler.UnreadCount)
			r.Get("/{other_user_id}", messagesHandler.Conversation)
		})

		r.With(authMW).Get("/stats", statsHandler.Handle)
	})
}
