package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental-booking/cmd"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/usecase"
	"rental-booking/internal/wire"
	"rental-booking/pkg/database"
	"rental-booking/pkg/mq"
	"rental-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// eventPublisher is what main needs from either publisher implementation.
type eventPublisher interface {
	usecase.EventPublisher
	Close() error
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using production logger.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	loc, err := config.Booking.Location()
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", config.Booking.Timezone, err)
	}
	clock := utils.NewSystemClock(loc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("timezone", loc.String()),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db.ConnString(), logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	repos := repository.NewRepository(db, logger)

	publisher := newPublisher(config.Broker, logger)
	defer publisher.Close()

	service := usecase.NewService(repos, publisher, clock, logger)

	// rental-booking reconcile [YYYY-MM-DD] runs one pass and exits.
	if len(args) > 0 && args[0] == "reconcile" {
		asOf := utils.Today(clock)
		if len(args) > 1 {
			if asOf, err = utils.ParseDate(args[1]); err != nil {
				return err
			}
		}
		return cmd.ReconcileOnce(ctx, service.Reconcile, asOf, logger)
	}

	app := wire.Wiring(repos, service, clock, config, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return cmd.APIServer(gctx, app.Router, config.App.Port, logger)
	})
	g.Go(func() error {
		return cmd.RunReconciler(gctx, service.Reconcile, clock, config.Booking.ReconcileInterval, logger)
	})

	return g.Wait()
}

// newPublisher connects to the broker when one is configured. Events are
// best effort, so a broker outage at startup only disables them.
func newPublisher(cfg utils.BrokerConfig, logger *zap.Logger) eventPublisher {
	if cfg.URL == "" {
		logger.Info("AMQP_URL not set, booking events disabled")
		return mq.NopPublisher{}
	}

	var (
		publisher *mq.Publisher
		err       error
	)
	for attempt := 1; attempt <= 3; attempt++ {
		publisher, err = mq.NewPublisher(cfg.URL, cfg.Exchange)
		if err == nil {
			logger.Info("Connected to message broker", zap.String("exchange", cfg.Exchange))
			return publisher
		}
		logger.Warn("Failed to connect to message broker",
			zap.Error(err), zap.Int("attempt", attempt))
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	logger.Error("Message broker unavailable, booking events disabled", zap.Error(err))
	return mq.NopPublisher{}
}
