package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davidcastellanos/shopstream-backend/api/controllers"
	"github.com/davidcastellanos/shopstream-backend/api/middleware"
	"github.com/davidcastellanos/shopstream-backend/internal/checkout"
	"github.com/davidcastellanos/shopstream-backend/internal/pricing"
	"github.com/davidcastellanos/shopstream-backend/pkg/config"
	"github.com/davidcastellanos/shopstream-backend/pkg/logger"
	"github.com/davidcastellanos/shopstream-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient redis.Pinger,
	stores controllers.StoreProvider,
	catalogClient controllers.CatalogReader,
	ordersReader controllers.OrderReader,
	checkoutService *checkout.Service,
	calc *pricing.Calculator,
	registry *prometheus.Registry,
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	cartMax := cfg.Checkout.CartMaxItems

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductsList(catalogClient, logg))
		r.Get("/products/{id}", controllers.ProductGet(catalogClient, logg))
		r.Get("/orders/{orderNumber}", controllers.OrderGet(ordersReader, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.ShopperID(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(stores, calc, cartMax, logg))
				r.Delete("/", controllers.CartClear(stores, logg))
				r.Post("/items", controllers.CartAdd(stores, catalogClient, calc, cartMax, logg))
				r.Patch("/items", controllers.CartUpdate(stores, catalogClient, calc, cartMax, logg))
				r.Delete("/items", controllers.CartRemove(stores, calc, cartMax, logg))
			})

			r.Post("/checkout", controllers.CheckoutSubmit(stores, checkoutService, logg))
		})
	})

	return r
}
