/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/joho/godotenv"
	"github.com/p1data/p1db/internal/iodb"
	"github.com/p1data/p1db/internal/iofs"
	"github.com/p1data/p1db/internal/iologger"
	"github.com/p1data/p1db/internal/iostore"
	p1db "github.com/p1data/p1db/pkg"
	"github.com/p1data/p1db/pkg/config"
	"github.com/p1data/p1db/pkg/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the base command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", p1db.Version, p1db.Build),
		Use:     "p1db",
		Short:   "P1db keeps Singapore P1 registration statistics",
		Long: `P1db imports Primary One registration statistics of Singapore
schools, reconciles them into one record per school and serves them through
a REST API.

Features:
  - Schema Management: create and migrate PostgreSQL tables
  - Data Population: merge scraped, curated and registry sources
  - School Matching: resolve free-form school names
  - REST API: school data, nearby search and registration strategies

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (P1DB_*), also read from ./.env
  3. Config file (~/.config/p1db/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.host -> P1DB_DATABASE_HOST).

  Examples:
    P1DB_DATABASE_HOST               PostgreSQL host
    P1DB_STORE_DRIVER                postgres or sqlite
    P1DB_SERVICES_STRATEGY_API_KEY   key of the strategy service
    P1DB_LOG_LEVEL                   debug, info, warn or error`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "p1db version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// -V instead of -v, as in other gn projects
	rootCmd.Flags().BoolP("version", "V", false, "version for p1db")

	rootCmd.AddCommand(
		getCreateCmd(),
		getMigrateCmd(),
		getPopulateCmd(),
		getServeCmd(),
		getMatchCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Hardcoded defaults until the user's settings are known.
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = iofs.EnsureSourcesFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// .env is optional, variables already in the environment win
	if err = godotenv.Load(); err == nil {
		slog.Info("Loaded environment from .env")
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	if err = iologger.Init(config.LogDir(homeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"store", cfg.Store.Driver,
	)
	return nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once.
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}
	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Env variables are bound one by one, so the allowed set stays visible.
	// They match the fields of config.ToOptions().
	v.SetEnvPrefix("P1DB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host", "P1DB_DATABASE_HOST")
	v.BindEnv("database.port", "P1DB_DATABASE_PORT")
	v.BindEnv("database.user", "P1DB_DATABASE_USER")
	v.BindEnv("database.password", "P1DB_DATABASE_PASSWORD")
	v.BindEnv("database.database", "P1DB_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "P1DB_DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "P1DB_DATABASE_BATCH_SIZE")

	// Store configuration
	v.BindEnv("store.driver", "P1DB_STORE_DRIVER")
	v.BindEnv("store.sqlite_path", "P1DB_STORE_SQLITE_PATH")

	// Server configuration
	v.BindEnv("server.port", "P1DB_SERVER_PORT")
	v.BindEnv("server.mode", "P1DB_SERVER_MODE")
	v.BindEnv("server.with_pprof", "P1DB_SERVER_WITH_PPROF")

	// External services
	v.BindEnv("services.geocode_url", "P1DB_SERVICES_GEOCODE_URL")
	v.BindEnv("services.registry_url", "P1DB_SERVICES_REGISTRY_URL")
	v.BindEnv("services.registry_resource_id", "P1DB_SERVICES_REGISTRY_RESOURCE_ID")
	v.BindEnv("services.strategy_url", "P1DB_SERVICES_STRATEGY_URL")
	v.BindEnv("services.strategy_model", "P1DB_SERVICES_STRATEGY_MODEL")
	v.BindEnv("services.strategy_api_key", "P1DB_SERVICES_STRATEGY_API_KEY")
	v.BindEnv("services.timeout", "P1DB_SERVICES_TIMEOUT")
	v.BindEnv("services.cache_ttl", "P1DB_SERVICES_CACHE_TTL")

	// Log configuration
	v.BindEnv("log.level", "P1DB_LOG_LEVEL")
	v.BindEnv("log.format", "P1DB_LOG_FORMAT")
	v.BindEnv("log.destination", "P1DB_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "P1DB_JOBS_NUMBER")

	v.AutomaticEnv()
}

// openStore opens the configured record store. A PostgreSQL store must
// already have its schema.
func openStore(ctx context.Context) (store.Store, error) {
	if cfg.Store.Driver == "sqlite" {
		return iostore.Open(ctx, cfg)
	}

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		op.Close()
		return nil, err
	}
	if !hasTables {
		op.Close()
		return nil, iodb.EmptyDatabaseError(cfg.Database.Host, cfg.Database.Database)
	}
	return iostore.NewPostgres(op, cfg.Database.BatchSize), nil
}
