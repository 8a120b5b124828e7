// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/tvervier/geobel/batch"
	"github.com/tvervier/geobel/web"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Démarre le serveur HTTP de géocodage",
	RunE: func(_ *cobra.Command, _ []string) error {
		resolver, store, closeFn, err := buildResolver()
		if err != nil {
			return err
		}
		defer closeFn()

		server := web.NewServer(resolver, store, &batch.Options{
			AddressColumn: "Adresse",
		})

		log.Printf("Serveur à l'écoute sur http://%s", serveListen)

		return server.Run(serveListen)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(
		&serveListen,
		"listen",
		"localhost:8080",
		"Adresse d'écoute du serveur",
	)
}
