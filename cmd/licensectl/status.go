package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldnote/fieldnote/internal/cache"
	"github.com/fieldnote/fieldnote/internal/config"
	"github.com/fieldnote/fieldnote/internal/instance"
	"github.com/fieldnote/fieldnote/internal/license"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the resolved enterprise license state",
	Long: `Resolve the enterprise license state exactly as the application would:
from the status cache when fresh, via the licensing server on a miss, and
through grace/default fallback when the server is unreachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := buildService()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		state := svc.GetEnterpriseLicense(ctx)
		return printJSON(state)
	},
}

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Show the effective feature set",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := buildService()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		return printJSON(svc.GetLicenseFeatures(ctx))
	},
}

// buildService wires a full engine the same way the application does.
func buildService() (*license.Service, *cache.RedisStore, error) {
	cfg := config.Load()

	store, err := cache.NewRedisStore(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect cache store: %w", err)
	}

	identity := instance.Load(cfg.DataDir)
	client := license.NewClient(cfg, identity, nil)
	return license.NewService(cfg, store, client, identity), store, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
