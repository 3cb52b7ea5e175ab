package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saveplate/saveplate-backend/api/controllers"
	"github.com/saveplate/saveplate-backend/api/middleware"
	cartsvc "github.com/saveplate/saveplate-backend/internal/cart"
	checkoutsvc "github.com/saveplate/saveplate-backend/internal/checkout"
	foodsvc "github.com/saveplate/saveplate-backend/internal/foods"
	ordersvc "github.com/saveplate/saveplate-backend/internal/orders"
	storesvc "github.com/saveplate/saveplate-backend/internal/stores"
	"github.com/saveplate/saveplate-backend/pkg/config"
	"github.com/saveplate/saveplate-backend/pkg/db"
	"github.com/saveplate/saveplate-backend/pkg/enums"
	"github.com/saveplate/saveplate-backend/pkg/logger"
	"github.com/saveplate/saveplate-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Foods    foodsvc.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
	Stores   storesvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	cache redis.Pinger,
	idem redis.IdempotencyStore,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, database, cache))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public browse surface.
		r.Get("/foods", controllers.FoodList(svcs.Foods, logg))
		r.Get("/foods/{foodId}", controllers.FoodDetail(svcs.Foods, logg))
		r.Get("/stores/{storeId}", controllers.StoreProfileDetail(svcs.Stores, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(idem, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartList(svcs.Cart, logg))
				r.Post("/", controllers.CartAdd(svcs.Cart, logg))
				r.Patch("/{lineId}", controllers.CartUpdateQuantity(svcs.Cart, logg))
				r.Delete("/{lineId}", controllers.CartRemove(svcs.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
				r.Post("/{orderId}/cancel", controllers.OrderCancel(svcs.Orders, logg))
				r.With(
					middleware.RequireRole(string(enums.UserRoleSeller), logg),
					middleware.StoreContext(logg),
				).Post("/{orderId}/complete", controllers.OrderComplete(svcs.Orders, logg))
			})

			r.Route("/seller", func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleSeller), logg))

				r.Route("/foods", func(r chi.Router) {
					r.Get("/", controllers.SellerFoodList(svcs.Foods, logg))
					r.Post("/", controllers.SellerFoodCreate(svcs.Foods, logg))
					r.Patch("/{foodId}", controllers.SellerFoodUpdate(svcs.Foods, logg))
					r.Delete("/{foodId}", controllers.SellerFoodDelete(svcs.Foods, logg))
					r.Post("/{foodId}/stock", controllers.SellerFoodAdjustStock(svcs.Foods, logg))
				})

				r.Route("/store", func(r chi.Router) {
					r.Use(middleware.StoreContext(logg))
					r.Get("/", controllers.StoreProfileMe(svcs.Stores, logg))
					r.Put("/", controllers.StoreProfileUpsert(svcs.Stores, logg))
				})
			})
		})
	})

	return r
}
