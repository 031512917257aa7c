package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/vbauerster/mpb/v8"
	"pollex.nl/bookshelf/config"
	"pollex.nl/bookshelf/library"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout, stderr io.Writer) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	return bookshelf(ctx, cfg, stdout, stderr)
}

// bookshelf seeds the store described by cfg and prints the reports.
func bookshelf(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	logger := cfg.Logger(stderr)
	ctx = logger.WithContext(ctx)

	store, err := library.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("closing store")
		}
	}()

	seeder := library.NewSeeder(store, library.NewGenerator(cfg.Seed))
	if cfg.Progress {
		seeder.Progress = mpb.NewWithContext(ctx, mpb.WithOutput(stderr))
	}

	err = seeder.Seed(ctx, cfg.Authors, cfg.Books)
	if seeder.Progress != nil {
		seeder.Progress.Wait()
	}
	if err != nil {
		return fmt.Errorf("seeding: %w", err)
	}
	fmt.Fprintln(stdout, "Database populated successfully.")

	if err := library.NewReporter(store, stdout).Run(ctx); err != nil {
		return fmt.Errorf("reporting: %w", err)
	}
	return nil
}
