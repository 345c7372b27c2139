package api

import (
	"log/slog"
	"net/http"

	"github.com/user/storefront/internal/adapter/api/handler"
	"github.com/user/storefront/internal/adapter/api/middleware"
	"github.com/user/storefront/internal/domain"
	"github.com/user/storefront/internal/pkg/config"
	"github.com/user/storefront/internal/pkg/token"
	"github.com/user/storefront/internal/usecase"
)

// NewRouter creates and configures the main HTTP router for the store API.
// Note: path patterns with methods (e.g., "GET /items/{id}") require Go 1.22+.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	signer *token.Signer,
	users domain.UserRepository,
	authService *usecase.AuthService,
	itemService *usecase.ItemService,
	cartService *usecase.CartService,
	checkoutService *usecase.CheckoutService,
	userService *usecase.UserService,
) http.Handler {
	mux := http.NewServeMux()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, logger, cfg.CookieSecure)
	itemHandler := handler.NewItemHandler(itemService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)
	userHandler := handler.NewUserHandler(userService, logger)

	// Auth
	mux.HandleFunc("POST /signup", authHandler.Signup)
	mux.HandleFunc("POST /signin", authHandler.Signin)
	mux.HandleFunc("POST /signout", authHandler.Signout)
	mux.HandleFunc("POST /password-reset/request", authHandler.RequestReset)
	mux.HandleFunc("POST /password-reset/redeem", authHandler.RedeemReset)

	// Catalog
	mux.HandleFunc("GET /items", itemHandler.List)
	mux.HandleFunc("POST /items", itemHandler.Create)
	mux.HandleFunc("GET /items/{id}", itemHandler.Get)
	mux.HandleFunc("PATCH /items/{id}", itemHandler.Update)
	mux.HandleFunc("DELETE /items/{id}", itemHandler.Delete)

	// Cart
	mux.HandleFunc("GET /cart", cartHandler.List)
	mux.HandleFunc("POST /cart", cartHandler.Add)
	mux.HandleFunc("DELETE /cart/{id}", cartHandler.Remove)

	// Checkout
	mux.HandleFunc("POST /checkout", checkoutHandler.Checkout)

	// Accounts and orders
	mux.HandleFunc("GET /me", userHandler.Me)
	mux.HandleFunc("GET /users", userHandler.List)
	mux.HandleFunc("PUT /users/{id}/permissions", userHandler.UpdatePermissions)
	mux.HandleFunc("GET /orders", userHandler.ListOrders)
	mux.HandleFunc("GET /orders/{id}", userHandler.GetOrder)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Every route passes through session resolution; operations decide for
	// themselves whether anonymous callers are acceptable. Logging sits
	// inside Session so each request line carries the resolved identity.
	sessionMiddleware := middleware.Session(signer, users, logger)
	loggingMiddleware := middleware.Logging(logger)

	return sessionMiddleware(loggingMiddleware(mux))
}
