package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/surrealdb/surrealdb.go"

	"github.com/nfrund/genewar/internal/config"
	"github.com/nfrund/genewar/internal/database"
	"github.com/nfrund/genewar/internal/game"
	"github.com/nfrund/genewar/internal/handlers"
	"github.com/nfrund/genewar/internal/logging"
	"github.com/nfrund/genewar/internal/matchmaking"
	appmiddleware "github.com/nfrund/genewar/internal/middleware"
	"github.com/nfrund/genewar/internal/pubsub"
	"github.com/nfrund/genewar/internal/snapshot"
	"github.com/nfrund/genewar/internal/store"
	"github.com/nfrund/genewar/internal/websocket"
)

// Server holds the dependencies for the game server process.
type Server struct {
	E     *echo.Echo
	DB    *surrealdb.DB
	Redis *redis.Client
	Cfg   *config.Config

	bus        pubsub.Bus
	dispatcher *game.Dispatcher
	bridge     *websocket.Bridge
	queue      *matchmaking.Queue
	loop       *matchmaking.Loop
	ratings    *store.SurrealRatingLedger
}

// New creates a new Server instance with every collaborator wired.
func New() *Server {
	logging.New() // Initialize the structured logger
	cfg := config.New()

	db, err := database.NewDB(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Error("Failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}

	var bus pubsub.Bus
	if cfg.PubSubBackend == "memory" {
		bus = pubsub.NewWatermillBridge()
	} else {
		bus = pubsub.NewRedisBridge(rdb)
	}
	snapshots := snapshot.NewRedisStore(rdb)
	matches := store.NewSurrealMatchStore(db)
	ratings := store.NewSurrealRatingLedger(db)

	sessionCfg := game.DefaultSessionConfig()
	sessionCfg.DisconnectGrace = cfg.DisconnectGrace
	sessionCfg.MaxTurns = cfg.MaxTurns
	sessionCfg.KFactor = cfg.EloK

	dispatcher := game.NewDispatcher(game.NewRegistry(), game.Dependencies{
		Snapshots: snapshots,
		Matches:   matches,
		Ratings:   ratings,
		Publisher: bus,
	}, sessionCfg)

	queue := matchmaking.NewQueue(rdb)
	loop := matchmaking.NewLoop(queue, matches, bus, cfg.MatchTick)
	bridge := websocket.NewBridge(dispatcher, bus)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(appmiddleware.Logger)
	e.Validator = handlers.NewValidator()

	return &Server{
		E:          e,
		DB:         db,
		Redis:      rdb,
		Cfg:        cfg,
		bus:        bus,
		dispatcher: dispatcher,
		bridge:     bridge,
		queue:      queue,
		loop:       loop,
		ratings:    ratings,
	}
}

// Dispatcher is a getter for the server's session dispatcher, useful for testing.
func (s *Server) Dispatcher() *game.Dispatcher {
	return s.dispatcher
}
