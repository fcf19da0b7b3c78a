package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rocketscienceinc/connect4-backend/internal/config"
	"github.com/rocketscienceinc/connect4-backend/internal/player"
	"github.com/rocketscienceinc/connect4-backend/internal/repository"
	"github.com/rocketscienceinc/connect4-backend/internal/repository/storage"
	"github.com/rocketscienceinc/connect4-backend/internal/usecase"
	"github.com/rocketscienceinc/connect4-backend/transport/rest"
	"github.com/rocketscienceinc/connect4-backend/transport/tcp"
	"github.com/rocketscienceinc/connect4-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	gameRepo := repository.NewGameRepository(redisStorage, conf.SnapshotTTL)
	gameManager := usecase.NewGameManager(logger, gameRepo, conf.OpponentWaitTimeout)
	playerHandler := player.NewHandler(logger, gameManager, conf.MaxConnections)

	var wg sync.WaitGroup
	errCh := make(chan error, 3)

	run := func(name, port string, start func(context.Context, string) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()

			log.Info("Starting "+name+" server", "port", port)
			if startErr := start(ctx, port); startErr != nil {
				log.Error(name+" server error", "error", startErr)
				errCh <- fmt.Errorf("%s server error: %w", name, startErr)
			}
		}()
	}

	run("TCP", conf.SocketPort, tcp.New(logger, playerHandler, conf.IdleTimeout).Start)
	run("WebSocket", conf.WebSocketPort, websocket.New(logger, playerHandler, conf.IdleTimeout).Start)
	run("HTTP", conf.HTTPPort, rest.New(logger, gameRepo, gameManager).Start)

	select {
	case err = <-errCh:
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	cancel()
	wg.Wait()

	return err
}
