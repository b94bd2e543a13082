package di

import (
	"github.com/redis/go-redis/v9"

	"shop_backend/internal/app/config"
	authhandler "shop_backend/internal/feature/auth/transport/handler"
	authusecase "shop_backend/internal/feature/auth/usecase"
	carthandler "shop_backend/internal/feature/cart/transport/handler"
	cartusecase "shop_backend/internal/feature/cart/usecase"
	cataloghandler "shop_backend/internal/feature/catalog/transport/handler"
	catalogusecase "shop_backend/internal/feature/catalog/usecase"
	useradminhandler "shop_backend/internal/feature/useradmin/transport/handler"
	useradminusecase "shop_backend/internal/feature/useradmin/usecase"
	"shop_backend/internal/platform/cache"
	jwtmw "shop_backend/internal/platform/jwt"
	"shop_backend/internal/platform/txn"
)

// Handlers are the HTTP entry points of every feature.
type Handlers struct {
	Auth      *authhandler.AuthHandler
	UserAdmin *useradminhandler.UserAdminHandler
	Category  *cataloghandler.CategoryHandler
	Product   *cataloghandler.ProductHandler
	Cart      *carthandler.CartHandler
}

// NewProductCache wraps the product adapter with the Redis read-through cache.
// A nil rdb yields a pass-through decorator, so callers never branch on Redis availability.
func NewProductCache(rdb *redis.Client, cfg config.RedisConfig, products catalogusecase.ProductRepository) *cache.CachingProductRepository {
	return cache.NewCachingProductRepository(rdb, cfg.CacheTTL, products, "products")
}

// NewHandlers builds usecases over store and returns their handlers.
func NewHandlers(cfg config.Config, store *Store, rdb *redis.Client) Handlers {
	products := NewProductCache(rdb, cfg.Redis, store.Products)

	authUC := authusecase.NewAuthUsecase(store.Users, jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.Expiration))
	userAdminUC := useradminusecase.NewUserAdminUsecase(store.Users)
	categoryUC := catalogusecase.NewCategoryUsecase(store.Categories, store.Products, store.Tx, products)
	productUC := catalogusecase.NewProductUsecase(products, store.Categories)
	cartUC := cartusecase.NewCartUsecase(store.Carts, store.Products, store.Tx, txn.Policy{
		MaxAttempts: cfg.Cart.TxMaxAttempts,
		Timeout:     cfg.Cart.TxTimeout,
	}, products)

	return Handlers{
		Auth:      authhandler.NewAuthHandler(authUC),
		UserAdmin: useradminhandler.NewUserAdminHandler(userAdminUC),
		Category:  cataloghandler.NewCategoryHandler(categoryUC),
		Product:   cataloghandler.NewProductHandler(productUC),
		Cart:      carthandler.NewCartHandler(cartUC),
	}
}
