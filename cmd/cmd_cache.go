// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/tvervier/geobel/utils"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Accès au cache persistant des résolutions",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compte les entrées du cache par source",
	RunE: func(_ *cobra.Command, _ []string) error {
		store, db, err := openCache()
		if err != nil {
			return err
		}

		if store == nil {
			return fmt.Errorf("aucun cache configuré: utilisez --cache-db")
		}
		defer db.Close()

		stats, err := store.Stats()
		if err != nil {
			return err
		}

		sources := make([]string, 0, len(stats))
		for source := range stats {
			sources = append(sources, source)
		}

		sort.Strings(sources)

		var total int64

		for _, source := range sources {
			fmt.Printf("%-40s %8s\n", source, utils.FormatInt(int64(stats[source])))
			total += int64(stats[source])
		}

		fmt.Printf("%-40s %8s\n", "Total", utils.FormatInt(total))

		return nil
	},
}

var cacheClearFailuresCmd = &cobra.Command{
	Use:   "clear-failures",
	Short: "Supprime les échecs du cache pour permettre une nouvelle tentative",
	RunE: func(_ *cobra.Command, _ []string) error {
		store, db, err := openCache()
		if err != nil {
			return err
		}

		if store == nil {
			return fmt.Errorf("aucun cache configuré: utilisez --cache-db")
		}
		defer db.Close()

		cleared, err := store.ClearFailures()
		if err != nil {
			return err
		}

		fmt.Printf("%s entrées supprimées\n", utils.FormatInt(cleared))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearFailuresCmd)
}
