package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	// _ "github.com/mattn/go-sqlite3" // requires gcc
	_ "modernc.org/sqlite"

	config "github.com/davicafu/hexapager/internal/config"
	pagingHTTP "github.com/davicafu/hexapager/internal/pagination/infra/inbound/http"
	userApp "github.com/davicafu/hexapager/internal/user/application"
	userDomain "github.com/davicafu/hexapager/internal/user/domain"
	userHttp "github.com/davicafu/hexapager/internal/user/infra/inbound/http"
	userCache "github.com/davicafu/hexapager/internal/user/infra/outbound/cache"
	userClickHouse "github.com/davicafu/hexapager/internal/user/infra/outbound/db/clickhouse"
	userMemory "github.com/davicafu/hexapager/internal/user/infra/outbound/db/memory"
	userMongo "github.com/davicafu/hexapager/internal/user/infra/outbound/db/mongodb"
	userPostgres "github.com/davicafu/hexapager/internal/user/infra/outbound/db/postgre"
	userSQLite "github.com/davicafu/hexapager/internal/user/infra/outbound/db/sqlite"
	"github.com/davicafu/hexapager/pkg/logger"
)

// ---------------- Main ----------------
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.LogLevel) // inicializa zap
	log := logger.Logger()    // obtiene logger estructurado
	defer log.Sync()          // flush buffers al salir

	ctx := context.Background()

	// ---------------- DB ----------------
	repo, closeRepo, err := openUserRepository(ctx, cfg)
	if err != nil {
		log.Fatal("failed to open user store", zap.String("store", cfg.Store), zap.Error(err))
	}
	defer closeRepo()
	log.Info("User store ready", zap.String("store", cfg.Store))

	// ---------------- Cache ----------------
	var cacheInstance userDomain.UserCache
	if rdb, err := userCache.ConnectRedis(ctx, cfg.RedisAddr); err != nil {
		log.Warn("Redis no disponible, cache en memoria", zap.Error(err))
		memCache := userCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL, log)
		defer memCache.Stop()
		cacheInstance = memCache
	} else {
		defer rdb.Close()
		cacheInstance = userCache.NewRedisCache(rdb, cfg.CacheTTL)
		log.Info("Redis conectado, cache habilitado")
	}

	// --------------- Servicio --------------
	userService := userApp.NewUserService(repo, cacheInstance, cfg.CacheTTL, log)

	// ---------------- HTTP ----------------
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	userHandler := userHttp.NewUserHandler(userService, pagingHTTP.Defaults{
		ItemsPerPage:    cfg.DefaultItemsPerPage,
		MaxItemsPerPage: cfg.MaxItemsPerPage,
	})
	router := gin.Default()
	userHttp.RegisterUserRoutes(router, userHandler)

	log.Info("Server running",
		zap.String("url", "http://localhost:"+cfg.HTTPPort),
	)
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// openUserRepository crea el repositorio del backend elegido en STORE e inicializa su esquema.
// La función devuelta libera la conexión.
func openUserRepository(ctx context.Context, cfg *config.Config) (userDomain.UserRepository, func(), error) {
	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch cfg.Store {
	case config.StoreMemory:
		return userMemory.NewUserRepoMemory(), func() {}, nil

	case config.StoreSQLite:
		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := userSQLite.InitSQLite(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to initialize SQLite: %w", err)
		}
		return userSQLite.NewUserRepoSQLite(db), func() { db.Close() }, nil

	case config.StorePostgres:
		db, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := userPostgres.InitPostgres(initCtx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		return userPostgres.NewUserRepoPostgres(db), func() { db.Close() }, nil

	case config.StoreClickHouse:
		db, err := userClickHouse.OpenClickHouse(cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			return nil, nil, err
		}
		if err := userClickHouse.InitClickHouse(initCtx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to initialize ClickHouse: %w", err)
		}
		return userClickHouse.NewUserRepoClickHouse(db), func() { db.Close() }, nil

	case config.StoreMongoDB:
		client, err := mongo.Connect(initCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, err
		}
		disconnect := func() { _ = client.Disconnect(context.Background()) }
		repo, err := userMongo.NewUserRepoMongoDB(initCtx, client, cfg.MongoDB)
		if err != nil {
			disconnect()
			return nil, nil, err
		}
		if err := userMongo.InitMongo(initCtx, client, cfg.MongoDB); err != nil {
			disconnect()
			return nil, nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
		}
		return repo, disconnect, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}
