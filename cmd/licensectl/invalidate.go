package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldnote/fieldnote/internal/cache"
	"github.com/fieldnote/fieldnote/internal/config"
	"github.com/fieldnote/fieldnote/internal/instance"
	"github.com/fieldnote/fieldnote/internal/license"
)

var invalidateAll bool

var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Invalidate cached license entries for this instance",
	Long: `Delete the status cache entry so the next entitlement check revalidates
against the licensing server. With --all, the previous-result record and any
stale fetch lock are removed as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		store, err := cache.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect cache store: %w", err)
		}
		defer store.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		identity := instance.Load(cfg.DataDir)

		keys := []string{license.StatusKey(identity.ID)}
		if invalidateAll {
			keys = append(keys,
				license.PreviousResultKey(identity.ID),
				license.FetchLockKey(identity.ID),
			)
		}

		for _, key := range keys {
			if err := store.Del(ctx, key); err != nil {
				return fmt.Errorf("invalidate %s: %w", key, err)
			}
			fmt.Printf("invalidated %s\n", key)
		}
		return nil
	},
}

func init() {
	invalidateCmd.Flags().BoolVar(&invalidateAll, "all", false,
		"also remove the previous-result record and fetch lock")
}
