package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flexbnb/flexbnb-backend/api/controllers"
	"github.com/flexbnb/flexbnb-backend/api/middleware"
	"github.com/flexbnb/flexbnb-backend/internal/bookings"
	"github.com/flexbnb/flexbnb-backend/internal/pools"
	"github.com/flexbnb/flexbnb-backend/internal/recommendations"
	"github.com/flexbnb/flexbnb-backend/internal/roommates"
	"github.com/flexbnb/flexbnb-backend/internal/users"
	"github.com/flexbnb/flexbnb-backend/pkg/config"
	"github.com/flexbnb/flexbnb-backend/pkg/db"
	"github.com/flexbnb/flexbnb-backend/pkg/logger"
	"github.com/flexbnb/flexbnb-backend/pkg/metrics"
	"github.com/flexbnb/flexbnb-backend/pkg/redis"
)

// Services groups the domain services the router wires into handlers.
type Services struct {
	Users           users.Service
	Pools           pools.Service
	Roommates       roommates.Service
	Bookings        bookings.Service
	Recommendations recommendations.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	joinPolicy := middleware.NewRateLimitPolicy(
		"join",
		cfg.RateLimit.JoinWindow,
		cfg.RateLimit.JoinLimit,
	)
	chatbotPolicy := middleware.NewRateLimitPolicy(
		"chatbot",
		cfg.RateLimit.ChatbotWindow,
		cfg.RateLimit.ChatbotLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Open surfaces. OptionalAuth lets signed-in callers carry their
		// identity into discovery and the feed.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, svcs.Users, logg))

			r.Get("/pools", controllers.PoolDiscover(svcs.Pools, logg))
			r.Get("/pools/{poolId}", controllers.PoolDetail(svcs.Pools, logg))

			r.Get("/properties/{propertyId}/reviews", controllers.PropertyReviewsList(svcs.Bookings, logg))
			r.Get("/properties/{propertyId}/pricing", controllers.PropertyPricing(svcs.Recommendations, logg))
			r.Get("/pricing/location", controllers.LocationPricing(svcs.Recommendations, logg))

			r.Get("/recommendations", controllers.RecommendationsFeed(svcs.Recommendations, logg))

			r.With(middleware.RateLimit(chatbotPolicy, redisClient, logg)).
				Post("/chatbot/message", controllers.ChatbotMessage(svcs.Recommendations, logg))

			r.Post("/tracking/search", controllers.TrackSearch(svcs.Recommendations, logg))
			r.Post("/tracking/view", controllers.TrackView(svcs.Recommendations, logg))
		})

		// Authenticated surfaces.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, svcs.Users, logg))

			r.Get("/me", controllers.Me(svcs.Users, logg))

			// Flat registrations here: the open group already owns GET
			// routes under /pools on this tree, so mounting a subrouter
			// would conflict.
			r.Post("/pools", controllers.PoolCreate(svcs.Pools, logg))
			r.Get("/pools/mine", controllers.MyPools(svcs.Pools, logg))

			r.With(middleware.RateLimit(joinPolicy, redisClient, logg)).
				Post("/pools/{poolId}/join", controllers.PoolJoin(svcs.Pools, logg))
			r.Post("/pools/{poolId}/leave", controllers.PoolLeave(svcs.Pools, logg))
			r.Post("/pools/{poolId}/cancel", controllers.PoolCancel(svcs.Pools, logg))
			r.Post("/pools/{poolId}/finalize", controllers.PoolFinalize(svcs.Pools, logg))
			r.Get("/pools/{poolId}/booking-status", controllers.PoolBookingStatus(svcs.Pools, logg))

			r.Post("/pools/{poolId}/members/{memberId}/approve", controllers.PoolApproveMember(svcs.Pools, logg))
			r.Post("/pools/{poolId}/members/{memberId}/reject", controllers.PoolRejectMember(svcs.Pools, logg))
			r.Delete("/pools/{poolId}/members/{memberId}", controllers.PoolRemoveMember(svcs.Pools, logg))

			r.Get("/pools/{poolId}/cost-split", controllers.PoolCostSplit(svcs.Pools, logg))
			r.Put("/pools/{poolId}/cost-split", controllers.PoolConfigureCostSplit(svcs.Pools, logg))
			r.Post("/cost-calculator", controllers.CostCalculator(logg))

			r.Get("/pools/{poolId}/messages", controllers.PoolMessages(svcs.Pools, logg))
			r.Post("/pools/{poolId}/messages", controllers.PoolPostMessage(svcs.Pools, logg))
			r.Post("/pools/{poolId}/messages/read", controllers.PoolMarkMessagesRead(svcs.Pools, logg))

			r.Post("/pools/{poolId}/invitations", controllers.PoolInvite(svcs.Pools, logg))

			r.Get("/pools/{poolId}/payments", controllers.PoolPayments(svcs.Pools, logg))
			r.Post("/pools/{poolId}/payments", controllers.PoolRecordPayment(svcs.Pools, logg))

			r.Route("/invitations", func(r chi.Router) {
				r.Get("/", controllers.MyInvitations(svcs.Pools, logg))
				r.Post("/{invitationId}/respond", controllers.InvitationRespond(svcs.Pools, logg))
			})

			r.Route("/roommates", func(r chi.Router) {
				r.Get("/profile", controllers.RoommateProfile(svcs.Roommates, logg))
				r.Put("/profile", controllers.RoommateProfileUpdate(svcs.Roommates, logg))
				r.Get("/matches", controllers.RoommateMatches(svcs.Roommates, logg))
			})

			r.Route("/reservations", func(r chi.Router) {
				r.Post("/", controllers.ReservationCreate(svcs.Bookings, logg))
				r.Get("/", controllers.GuestReservations(svcs.Bookings, logg))
				r.Patch("/{reservationId}/status", controllers.ReservationUpdateStatus(svcs.Bookings, logg))
			})

			r.Route("/host", func(r chi.Router) {
				r.Use(middleware.RequireHost(logg))
				r.Get("/reservations", controllers.HostReservations(svcs.Bookings, logg))
				r.Get("/dashboard", controllers.HostDashboardStats(svcs.Bookings, logg))
				r.Get("/earnings", controllers.HostEarnings(svcs.Bookings, logg))
				r.Get("/reviews", controllers.HostPropertyReviews(svcs.Bookings, logg))
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", controllers.MessagesList(svcs.Bookings, logg))
				r.Post("/", controllers.MessageSend(svcs.Bookings, logg))
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Post("/property", controllers.PropertyReviewSubmit(svcs.Bookings, logg))
				r.Post("/guest", controllers.GuestReviewSubmit(svcs.Bookings, logg))
				r.Get("/guest", controllers.GuestReviewsList(svcs.Bookings, logg))
			})
			r.Get("/properties/{propertyId}/can-review", controllers.CanReviewProperty(svcs.Bookings, logg))

			r.Get("/recommendations/personalization-score", controllers.PersonalizationScore(svcs.Recommendations, logg))
			r.Route("/preferences", func(r chi.Router) {
				r.Get("/", controllers.PreferencesGet(svcs.Recommendations, logg))
				r.Put("/", controllers.PreferencesUpdate(svcs.Recommendations, logg))
			})
			r.Get("/matches", controllers.GuestMatchesList(svcs.Recommendations, logg))

			r.Route("/itineraries", func(r chi.Router) {
				r.Post("/", controllers.ItineraryGenerate(svcs.Recommendations, logg))
				r.Get("/", controllers.ItinerariesList(svcs.Recommendations, logg))
				r.Delete("/{itineraryId}", controllers.ItineraryDelete(svcs.Recommendations, logg))
			})
		})
	})

	return r
}
