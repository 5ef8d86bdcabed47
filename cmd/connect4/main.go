package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/iamasit07/connect4-matrix/internal/config"
	"github.com/iamasit07/connect4-matrix/internal/repository/kafka"
	"github.com/iamasit07/connect4-matrix/internal/repository/postgres"
	"github.com/iamasit07/connect4-matrix/internal/repository/redis"
	"github.com/iamasit07/connect4-matrix/internal/service/cleanup"
	"github.com/iamasit07/connect4-matrix/internal/service/game"
	"github.com/iamasit07/connect4-matrix/internal/service/history"
	transportHttp "github.com/iamasit07/connect4-matrix/internal/transport/http"
	"github.com/iamasit07/connect4-matrix/internal/transport/terminal"
	"github.com/iamasit07/connect4-matrix/internal/transport/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] No .env file found, using process environment")
	}
	cfg := config.LoadConfig()

	// The terminal belongs to the game; logs go to LOG_FILE when set
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("[CONFIG] Cannot open LOG_FILE: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}
	gin.DefaultWriter = log.Writer()
	gin.DefaultErrorWriter = log.Writer()
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := cfg.AISeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Printf("[CONFIG] Board %dx%d, AI enabled: %v, seed: %d", cfg.BoardWidth, cfg.BoardHeight, cfg.AIEnabled, seed)

	match, err := game.NewMatch(game.Options{
		Width:       cfg.BoardWidth,
		Height:      cfg.BoardHeight,
		Player1Name: cfg.Player1Name,
		Player2Name: cfg.Player2Name,
		AIEnabled:   cfg.AIEnabled,
		Rand:        rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		log.Fatalf("[CONFIG] Invalid board: %v", err)
	}

	// 1. Optional persistence
	var (
		sinks  history.Sinks
		rounds transportHttp.RoundLister
		totals transportHttp.ScoreTotals
	)

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			log.Printf("[POSTGRES] Warning: %v. Round history disabled.", err)
		} else {
			defer db.Close()
			if err := postgres.RunMigrations(ctx, db); err != nil {
				log.Fatalf("[POSTGRES] Migration failed: %v", err)
			}
			repo := postgres.NewRoundRepo(db)
			sinks.Rounds = repo
			rounds = repo
			cleanup.NewWorker(repo, cfg.HistoryRetention).Start(ctx)
		}
	}

	if client := redis.InitRedis(ctx, cfg.RedisURL, cfg.RedisPassword); client != nil {
		defer client.Close()
		cache := redis.NewScoreCache(client)
		sinks.Scores = cache
		totals = cache
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		sinks.Events = producer
	}

	recorder := history.NewRecorder(sinks)
	match.AddListener(recorder)

	// 2. Optional spectator server
	var srv *http.Server
	conns := websocket.NewConnectionManager()
	if cfg.Port != "" {
		hub := websocket.NewHub(conns)
		hub.BoardChanged(match.Frame())
		hub.SetScores(match.Scores())
		match.AddListener(hub)

		router := transportHttp.NewRouter(
			transportHttp.NewSpectatorHandler(hub, conns, rounds, totals),
			websocket.NewHandler(hub, conns, cfg.AllowedOrigins),
			cfg.AllowedOrigins,
		)
		srv = &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: router,
		}

		go func() {
			log.Printf("Spectator server starting on :%s", cfg.Port)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Server error: %v", err)
			}
		}()
	}

	// 3. The game itself
	console := terminal.NewConsole(match, os.Stdin, os.Stdout)
	if err := console.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[MATCH] Console stopped: %v", err)
	}

	recorder.Close()

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		conns.CloseAll()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}
	log.Println("Exited gracefully")
}
