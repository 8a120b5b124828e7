// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/tvervier/geobel/resolve"
)

// Flags shared by every command that talks to the providers.
var (
	apiKey            string
	cachePath         string
	centroidTolerance float64
	traceHTTP         bool
	traceHTTPBody     bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(
		&apiKey,
		"api-key",
		"",
		"Clé API LocationIQ (défaut: variable d'environnement LOCATIONIQ_API_KEY)",
	)
	rootCmd.PersistentFlags().StringVar(
		&cachePath,
		"cache-db",
		"",
		"Fichier DuckDB pour le cache persistant des résolutions",
	)
	rootCmd.PersistentFlags().Float64Var(
		&centroidTolerance,
		"centroid-tolerance",
		resolve.DefaultCentroidTolerance,
		"Demi-largeur en degrés de la boîte de rejet autour du centroïde belge",
	)
	rootCmd.PersistentFlags().BoolVar(
		&traceHTTP,
		"trace-http",
		false,
		"Display HTTP requests-responses",
	)
	rootCmd.PersistentFlags().BoolVar(
		&traceHTTPBody,
		"trace-http-body",
		false,
		"Display HTTP requests-responses bodies",
	)
}

// openCache opens the persistent cache named by --cache-db and makes sure
// its schema exists. Returns nils when no cache is configured.
func openCache() (resolve.CacheRepository, *sql.DB, error) {
	if cachePath == "" {
		return nil, nil, nil
	}

	db, err := sql.Open("duckdb", cachePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening cache database: %w", err)
	}

	store := resolve.NewCacheRepository(db)
	if err := store.CreateSchema(); err != nil {
		db.Close()

		return nil, nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return store, db, nil
}

// buildResolver wires the provider clients, the validator and the optional
// persistent cache. The returned close function releases the cache database.
func buildResolver() (*resolve.Resolver, resolve.CacheRepository, func(), error) {
	key := apiKey
	if key == "" {
		key = os.Getenv("LOCATIONIQ_API_KEY")
	}

	if key == "" {
		log.Print("LOCATIONIQ_API_KEY absente: LocationIQ répondra 401, seul Nominatim sera utile")
	}

	client := resolve.NewHTTPClient(&resolve.ClientOptions{
		UserAgent:           fmt.Sprintf("geobel/%s (+https://github.com/tvervier/geobel)", Version),
		EnableHTTPTrace:     traceHTTP,
		EnableHTTPBodyTrace: traceHTTPBody,
	})

	validator := resolve.NewValidator()
	validator.Tolerance = centroidTolerance

	store, db, err := openCache()
	if err != nil {
		return nil, nil, nil, err
	}

	closeFn := func() {}
	if db != nil {
		closeFn = func() { db.Close() }
	}

	resolver := resolve.NewResolver(
		resolve.NewLocationIQClient(key, client),
		resolve.NewNominatimClient(client),
		validator,
		store,
	)

	return resolver, store, closeFn, nil
}
