package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmynk/mealledger/internal/config"
	"github.com/mmynk/mealledger/internal/events"
	"github.com/mmynk/mealledger/internal/ledger"
	"github.com/mmynk/mealledger/internal/storage/sqlite"
	"github.com/mmynk/mealledger/pkg/logging"
)

// app holds what every subcommand shares: the flag-bound viper instance and
// the locations of the config and env files.
type app struct {
	v       *viper.Viper
	cfgFile string
	envFile string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "mealledger",
		Short: "Tracks shared office meal costs and monthly member billing",
		Long: `mealledger records who ate lunch and dinner each day, splits each day's
cost across the participants, keeps member balances against their deposits
and closes out monthly billing.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&a.envFile, "env-file", "", "env file to load (default is ./.env)")
	flags.String("db-path", "", "SQLite database path")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	a.v.BindPFlag("db_path", flags.Lookup("db-path"))
	a.v.BindPFlag("log_level", flags.Lookup("log-level"))

	rootCmd.AddCommand(
		a.newServeCmd(),
		a.newProcessMonthCmd(),
		a.newReopenMonthCmd(),
		a.newMemberCmd(),
		a.newTokenCmd(),
		a.newMigrateCmd(),
	)
	return rootCmd
}

// loadConfig resolves the configuration and installs the logger.
func (a *app) loadConfig() (*config.Config, error) {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	}
	cfg, err := config.Load(a.v, a.envFile)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

// newPublisher connects to AMQP when a URL is configured.
func newPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		return events.NoopPublisher{}, nil
	}
	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, fmt.Errorf("connect to AMQP: %w", err)
	}
	return p, nil
}

// backend is an opened store plus the ledger on top of it.
type backend struct {
	store     *sqlite.SQLiteStore
	publisher events.Publisher
	ledger    *ledger.Ledger
}

func openBackend(cfg *config.Config) (*backend, error) {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	publisher, err := newPublisher(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	led := ledger.New(store,
		ledger.WithPublisher(publisher),
		ledger.WithBillingWorkers(cfg.BillingWorkers),
	)
	return &backend{store: store, publisher: publisher, ledger: led}, nil
}

func (b *backend) Close() error {
	pubErr := b.publisher.Close()
	if err := b.store.Close(); err != nil {
		return err
	}
	return pubErr
}
