// Package cli implements the stowage-cli subcommands: add, search,
// retrieve, waste, logs. Each subcommand opens its own connection to
// the shared store (Redis when configured, otherwise an ephemeral
// in-memory store good for a single invocation) and exits with the
// code the core's error taxonomy maps to.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"github.com/cargostow/stowage/internal/repo"
	"github.com/cargostow/stowage/internal/repo/memstore"
	"github.com/cargostow/stowage/internal/repo/redisstore"
	"github.com/cargostow/stowage/internal/service"
	"github.com/cargostow/stowage/pkg/fmtt"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	exitOK          = 0
	exitNotFound    = 1
	exitValidation  = 2
	exitConflict    = 3
	exitUnavailable = 4
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "stowage-cli",
	Short: "Command-line client for the cargo stowage engine",
}

// Execute runs the CLI, exiting the process with the mapped exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitValidation)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./stowage.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "dump the full error chain on failure")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(retrieveCmd)
	rootCmd.AddCommand(wasteCmd)
	rootCmd.AddCommand(logsCmd)
}

// bootstrap wires a logger, store, and Engine for one command
// invocation.
func bootstrap() (*service.Engine, *zap.Logger, error) {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	if !verbose {
		logConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	log := zap.Must(logConfig.Build())
	log = log.Named("cli")

	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return nil, log, err
	}

	var store repo.Store
	if cfg.RedisAddr != "" {
		store = redisstore.New(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), log.Named("redis"))
	} else {
		store = memstore.New()
	}

	engine, err := service.New(context.Background(), log.Named("engine"), store, time.Now().UTC())
	if err != nil {
		return nil, log, err
	}
	return engine, log, nil
}

// exitFor maps a core error to the exit code §6 assigns it, then
// terminates the process.
func exitFor(err error) {
	if err == nil {
		os.Exit(exitOK)
	}
	if verbose {
		fmtt.PrintErrChainDebug(err)
	} else {
		fmt.Fprintln(os.Stderr, err)
	}

	switch {
	case errors.Is(err, cargo.ErrNotFound):
		os.Exit(exitNotFound)
	case errors.Is(err, cargo.ErrValidation), errors.Is(err, cargo.ErrInvalidArgs):
		os.Exit(exitValidation)
	case errors.Is(err, cargo.ErrDuplicate), errors.Is(err, cargo.ErrConflict):
		os.Exit(exitConflict)
	case errors.Is(err, cargo.ErrUnavailable):
		os.Exit(exitUnavailable)
	default:
		os.Exit(exitValidation)
	}
}
