package main

import (
	"fmt"

	"github.com/anonto42/yatube/pkg/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the page cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.CacheBackend != config.CacheRedis {
			fmt.Println("The memory cache lives inside the server process; restart it to clear.")
			return nil
		}
		store, closeStore, err := openPageCache(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()
		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Page cache cleared.")
		return nil
	},
}
