// Package di wires stores, caches, usecases and handlers together.
package di

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"shop_backend/internal/app/config"
	authadapters "shop_backend/internal/feature/auth/adapters"
	authusecase "shop_backend/internal/feature/auth/usecase"
	cartadapters "shop_backend/internal/feature/cart/adapters"
	cartusecase "shop_backend/internal/feature/cart/usecase"
	catalogadapters "shop_backend/internal/feature/catalog/adapters"
	catalogusecase "shop_backend/internal/feature/catalog/usecase"
	useradminusecase "shop_backend/internal/feature/useradmin/usecase"
	platformdb "shop_backend/internal/platform/db"
	platformmongo "shop_backend/internal/platform/mongo"
	"shop_backend/internal/platform/txn"
)

// UserStore is what both user-facing features need from the users collection.
type UserStore interface {
	authusecase.UserRepository
	useradminusecase.UserStore
}

// ProductStore is the raw product adapter: catalog repository, category usage check
// and the stock operations used by checkout.
type ProductStore interface {
	catalogusecase.ProductRepository
	catalogusecase.CategoryUsage
	cartusecase.ProductStore
}

// Store holds the repositories of one backing database.
type Store struct {
	Driver     string
	Users      UserStore
	Categories catalogusecase.CategoryRepository
	Products   ProductStore
	Carts      cartusecase.CartRepository
	Tx         txn.Runner

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

// Close releases the connection.
func (s *Store) Close(ctx context.Context) error { return s.close(ctx) }

// GormModels lists every table the relational store needs, in migration order.
func GormModels() []any {
	return []any{
		&authadapters.UserModel{},
		&catalogadapters.CategoryModel{},
		&catalogadapters.ProductModel{},
		&cartadapters.CartModel{},
		&cartadapters.CartItemModel{},
	}
}

// OpenStore connects to the database named by cfg.Store.Driver.
// With RunMigrations set, the schema or indexes are brought up to date first.
func OpenStore(ctx context.Context, cfg config.Config) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		dsn := platformdb.BuildDSN(platformdb.LoadConfigFromEnv())
		db, err := platformdb.ConnectWithRetry(dsn, cfg.Store.ConnectTimeout, platformdb.OpenPostgres)
		if err != nil {
			return nil, err
		}
		return newGormStore(cfg, db)
	case config.DriverSQLite:
		db, err := platformdb.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.Store.SQLitePath, err)
		}
		return newGormStore(cfg, db)
	case config.DriverMongo:
		client, err := platformmongo.Connect(ctx, cfg.Store.MongoURI, cfg.Store.ConnectTimeout)
		if err != nil {
			return nil, err
		}
		s := NewMongoStore(client, cfg.Store.MongoDatabase)
		if cfg.Store.RunMigrations {
			if err := MigrateMongo(ctx, client.Database(cfg.Store.MongoDatabase)); err != nil {
				_ = client.Disconnect(ctx)
				return nil, err
			}
		}
		return s, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

func newGormStore(cfg config.Config, db *gorm.DB) (*Store, error) {
	if cfg.Store.RunMigrations {
		if err := platformdb.Migrate(db, GormModels()...); err != nil {
			_ = platformdb.Close(db)
			return nil, err
		}
		slog.Info("database migrated", "driver", cfg.Store.Driver)
	}
	return NewGormStore(cfg.Store.Driver, db), nil
}

// NewGormStore builds the repositories over an open gorm connection.
func NewGormStore(driver string, db *gorm.DB) *Store {
	return &Store{
		Driver:     driver,
		Users:      authadapters.NewUserGorm(db),
		Categories: catalogadapters.NewCategoryGorm(db),
		Products:   catalogadapters.NewProductGorm(db),
		Carts:      cartadapters.NewCartGorm(db),
		Tx:         txn.NewGormRunner(db),
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func(context.Context) error { return platformdb.Close(db) },
	}
}

// NewMongoStore builds the repositories over database of client.
func NewMongoStore(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		Driver:     config.DriverMongo,
		Users:      authadapters.NewUserMongo(db),
		Categories: catalogadapters.NewCategoryMongo(db),
		Products:   catalogadapters.NewProductMongo(db),
		Carts:      cartadapters.NewCartMongo(db),
		Tx:         txn.NewMongoRunner(client),
		ping:       func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:      client.Disconnect,
	}
}

// MigrateMongo creates the collection indexes: unique users.email, unique categories.name,
// unique carts.userId and the product lookup indexes.
func MigrateMongo(ctx context.Context, db *mongo.Database) error {
	if err := platformmongo.EnsureIndexes(ctx,
		authadapters.NewUserMongo(db),
		catalogadapters.NewCategoryMongo(db),
		catalogadapters.NewProductMongo(db),
		cartadapters.NewCartMongo(db),
	); err != nil {
		return err
	}
	slog.Info("mongo indexes ensured", "database", db.Name())
	return nil
}
