// Command closet runs the Kinder Closet API and its maintenance tasks.
//
//	closet serve                               start the HTTP server
//	closet bootstrap -auth0-id ID -email ADDR  create the first manager
//	closet token -sub ID [-scopes a,b]         mint a development token
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/TANADADaisuke/kinder-closet-app/internal/api"
	"github.com/TANADADaisuke/kinder-closet-app/internal/api/handler"
	"github.com/TANADADaisuke/kinder-closet-app/internal/auth"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/ports"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/service"
	"github.com/TANADADaisuke/kinder-closet-app/internal/infrastructure/config"
	"github.com/TANADADaisuke/kinder-closet-app/internal/infrastructure/db/mongo"
	"github.com/TANADADaisuke/kinder-closet-app/internal/infrastructure/db/redis"
	"github.com/TANADADaisuke/kinder-closet-app/internal/infrastructure/db/sqlite"
	"github.com/TANADADaisuke/kinder-closet-app/internal/infrastructure/lock"
	"github.com/TANADADaisuke/kinder-closet-app/pkg/logger"
)

const usage = "Usage: closet <serve|bootstrap|token> [flags]"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "kinder-closet",
	})

	switch os.Args[1] {
	case "serve":
		err = cmdServe(ctx, cfg, log)
	case "bootstrap":
		err = cmdBootstrap(ctx, cfg, os.Args[2:])
	case "token":
		err = cmdToken(cfg, os.Args[2:])
	default:
		err = fmt.Errorf("unknown command %q\n%s", os.Args[1], usage)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Error().Err(err).Str("command", os.Args[1]).Msg("command failed")
		os.Exit(1)
	}
}

// storage is what every backend offers the rest of the process.
type storage interface {
	ports.Transactor
	Ping(ctx context.Context) error
}

// openStorage connects the configured backend and returns a func releasing it.
func openStorage(ctx context.Context, cfg *config.Config) (storage, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		store := mongo.NewStore(client, db)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return store, func() { _ = client.Disconnect(context.Background()) }, nil
	default:
		db, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewStore(db), func() { db.Close() }, nil
	}
}

func cmdServe(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, closeStore, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	health := map[string]handler.Pinger{cfg.Storage.Driver: store}

	var locker ports.ItemLocker = lock.NewLocal(0)
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		rl := redis.NewLocker(rdb, cfg.Redis.LockTTL)
		locker = rl
		health["redis"] = rl
	}

	e := api.NewRouter(api.Dependencies{
		Clothes:      service.NewClothesService(store, logger.Component("clothes")),
		Users:        service.NewUserService(store, logger.Component("users")),
		Reservations: service.NewReservationService(store, locker, logger.Component("reservations")),
		Verifier: auth.NewVerifier(auth.Config{
			Secret:   cfg.Auth.Secret,
			Issuer:   cfg.Auth.Issuer,
			Audience: cfg.Auth.Audience,
		}),
		Health:  health,
		Excited: cfg.Excited,
		Logger:  logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage.Driver).Bool("redis_locks", cfg.Redis.Addr != "").Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func cmdBootstrap(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("bootstrap", flag.ContinueOnError)
	auth0ID := fs.String("auth0-id", "", "identity provider subject of the user")
	email := fs.String("email", "", "e-mail address of the user")
	address := fs.String("address", "", "postal address of the user")
	role := fs.String("role", string(domain.RoleManager), "role: user, staff or manager")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r, err := domain.ParseRole(*role)
	if err != nil {
		return err
	}

	store, closeStore, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	u, err := service.Bootstrap(ctx, store, ports.CreateUserInput{
		Auth0ID: *auth0ID,
		Email:   *email,
		Address: *address,
		Role:    r,
	})
	if err != nil {
		return err
	}

	fmt.Printf("User created: id=%d auth0_id=%s role=%s\n", u.ID, u.Auth0ID, u.Role)
	return nil
}

func cmdToken(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	sub := fs.String("sub", "", "token subject (auth0_id)")
	scopes := fs.String("scopes", "", "comma-separated scopes (default: every scope)")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *sub == "" {
		return errors.New("-sub is required")
	}

	granted := domain.Scopes()
	if *scopes != "" {
		granted = granted[:0]
		for _, s := range strings.Split(*scopes, ",") {
			granted = append(granted, domain.Scope(strings.TrimSpace(s)))
		}
	}
	slices.Sort(granted)

	token, err := auth.NewIssuer(auth.Config{
		Secret:   cfg.Auth.Secret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
	}, *ttl).Issue(*sub, granted)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
