package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/secondchance/secondchance-backend/api/controllers"
	"github.com/secondchance/secondchance-backend/api/middleware"
	"github.com/secondchance/secondchance-backend/internal/adminlog"
	authsvc "github.com/secondchance/secondchance-backend/internal/auth"
	"github.com/secondchance/secondchance-backend/internal/categories"
	"github.com/secondchance/secondchance-backend/internal/chats"
	"github.com/secondchance/secondchance-backend/internal/items"
	"github.com/secondchance/secondchance-backend/internal/locations"
	"github.com/secondchance/secondchance-backend/internal/orders"
	"github.com/secondchance/secondchance-backend/internal/reviews"
	"github.com/secondchance/secondchance-backend/internal/users"
	pkgauth "github.com/secondchance/secondchance-backend/pkg/auth"
	"github.com/secondchance/secondchance-backend/pkg/auth/session"
	"github.com/secondchance/secondchance-backend/pkg/config"
	"github.com/secondchance/secondchance-backend/pkg/db"
	"github.com/secondchance/secondchance-backend/pkg/enums"
	"github.com/secondchance/secondchance-backend/pkg/logger"
	"github.com/secondchance/secondchance-backend/pkg/metrics"
	"github.com/secondchance/secondchance-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	sessions session.Checker,
	googleProvider *pkgauth.GoogleProvider,
	authService authsvc.Service,
	usersService users.Service,
	itemsService items.Service,
	categoriesService categories.Service,
	locationsService locations.Service,
	ordersService orders.Service,
	reviewsService reviews.Service,
	chatsService chats.Service,
	adminService adminlog.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.Recoverer(logg),
		middleware.CORS(cfg.Frontend),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	healthDeps := map[string]controllers.Pingable{}
	if dbP != nil {
		healthDeps["database"] = dbP
	}
	if redisClient != nil {
		healthDeps["redis"] = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, healthDeps))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	// Browser-facing OAuth entry points live outside /api so the provider
	// redirect URLs stay short.
	r.Route("/auth", func(r chi.Router) {
		r.Get("/google", controllers.GoogleRedirect(googleProvider, logg))
		r.Get("/google/callback", controllers.GoogleCallback(googleProvider, authService, cfg.Frontend, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, sessions, logg))
				r.Post("/logout", controllers.AuthLogout(authService, logg))
				r.Get("/user", controllers.AuthCurrentUser(usersService, logg))
			})
		})

		// Public catalog reads.
		r.Get("/items", controllers.ListItems(itemsService, logg))
		r.Get("/landing-items", controllers.LandingItems(itemsService, logg))
		r.Get("/search-items", controllers.SearchItems(itemsService, logg))
		r.Get("/items/{id}", controllers.GetItem(itemsService, logg))
		r.Get("/items/{itemID}/reviews", controllers.ItemReviews(reviewsService, logg))
		r.Get("/items/{itemID}/reviews/stats", controllers.ItemReviewStats(reviewsService, logg))
		r.Get("/categories", controllers.ListCategories(categoriesService, logg))
		r.Get("/categories/{id}", controllers.GetCategory(categoriesService, logg))
		r.Get("/users/{id}", controllers.GetPublicUser(usersService, logg))
		r.Get("/users/{id}/profile", controllers.PublicProfile(usersService, itemsService, reviewsService, logg))

		// Everything below needs a live session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))

			r.With(middleware.RequireSeller(logg)).Post("/items", controllers.CreateItem(itemsService, logg))
			r.With(middleware.RequireSeller(logg)).Post("/sell-item", controllers.SellItem(itemsService, logg))
			r.Put("/items/{id}", controllers.UpdateItem(itemsService, logg))
			r.Delete("/items/{id}", controllers.DeleteItem(itemsService, logg))

			r.Put("/users/{id}", controllers.UpdateUser(usersService, logg))

			r.Get("/locations/{userID}", controllers.GetUserLocation(locationsService, logg))
			r.Put("/locations", controllers.UpsertMyLocation(locationsService, logg))
			r.Delete("/locations/{userID}", controllers.DeleteUserLocation(locationsService, logg))

			r.Get("/orders", controllers.MyOrders(ordersService, logg))
			r.Post("/orders", controllers.CreateOrder(ordersService, logg))
			r.Get("/orders/{id}", controllers.GetOrder(ordersService, logg))

			r.Post("/reviews", controllers.CreateReview(reviewsService, logg))
			r.Put("/reviews/{id}", controllers.UpdateReview(reviewsService, logg))
			r.Delete("/reviews/{id}", controllers.DeleteReview(reviewsService, logg))

			r.Route("/chats", func(r chi.Router) {
				r.Get("/", controllers.MyChats(chatsService, logg))
				r.Post("/", controllers.CreateChat(chatsService, logg))
				r.Get("/{id}/messages", controllers.ChatMessages(chatsService, logg))
				r.Post("/{id}/messages", controllers.SendMessage(chatsService, logg))
			})

			r.Get("/profile", controllers.MyProfile(usersService, itemsService, reviewsService, logg))
			r.Get("/my-items", controllers.MyItems(itemsService, logg))
			r.Get("/my-orders", controllers.MyOrders(ordersService, logg))
			r.Get("/my-reviews", controllers.MyReviews(reviewsService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))

			r.Get("/stats", controllers.AdminStats(adminService, logg))
			r.Get("/logs", controllers.AdminLogs(adminService, logg))
			r.Post("/logs", controllers.CreateAdminLog(adminService, logg))

			r.Get("/users", controllers.ListUsers(usersService, logg))
			r.Post("/users", controllers.CreateUser(usersService, logg))
			r.Delete("/users/{id}", controllers.DeleteUser(usersService, logg))

			r.Get("/locations", controllers.ListLocations(locationsService, logg))

			r.Post("/categories", controllers.CreateCategory(categoriesService, logg))
			r.Put("/categories/{id}", controllers.UpdateCategory(categoriesService, logg))
			r.Delete("/categories/{id}", controllers.DeleteCategory(categoriesService, logg))

			r.Put("/orders/{id}/status", controllers.UpdateOrderStatus(ordersService, logg))
		})
	})

	return r
}
