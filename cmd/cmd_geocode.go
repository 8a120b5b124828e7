// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tvervier/geobel/batch"
	"github.com/tvervier/geobel/utils"
)

var geocodeOptions = &batch.Options{}

var (
	geocodeInput  string
	geocodeOutput string
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Géocode les adresses d'un fichier Excel",
	Long: `
Lit un fichier Excel, résout chaque adresse de la colonne indiquée et écrit
une copie du fichier avec les colonnes Latitude et Longitude ajoutées. Les
adresses irrésolubles sont retentées via le nom d'entreprise quand une
colonne entreprise est fournie.
`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		resolver, _, closeFn, err := buildResolver()
		if err != nil {
			return err
		}
		defer closeFn()

		wb, err := batch.OpenWorkbook(geocodeInput)
		if err != nil {
			return fmt.Errorf("reading %s: %w", geocodeInput, err)
		}

		processor := batch.NewProcessor(resolver, geocodeOptions)

		result, err := processor.Process(cmd.Context(), wb)
		if err != nil {
			return err
		}

		output := geocodeOutput
		if output == "" {
			dir, base := filepath.Split(geocodeInput)
			output = filepath.Join(dir, "geocode_"+base)
		}

		if err := result.File.SaveAs(output); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}

		log.Printf("Fichier écrit: %s", output)

		reportFailures(result)
		reportClusters(result)

		return nil
	},
}

func reportFailures(result *batch.Result) {
	failures := batch.DedupFailures(result.Failures)
	if len(failures) == 0 {
		return
	}

	log.Printf("%s adresses sans résolution:", utils.FormatInt(int64(len(failures))))

	for _, f := range failures {
		if f.Company != "" {
			log.Printf("  ligne %d: %s (entreprise: %s)", f.Row, f.Address, f.Company)
		} else {
			log.Printf("  ligne %d: %s", f.Row, f.Address)
		}
	}
}

func reportClusters(result *batch.Result) {
	clusters, err := batch.SuspectClusters(result.Outcomes)
	if err != nil {
		log.Printf("computing clusters: %v", err)

		return
	}

	for _, c := range clusters {
		log.Printf("Groupe suspect (%d adresses à moins de %.0f m, cellule %s):",
			len(c.Addresses), c.SpreadMeters, c.Cell)

		for _, addr := range c.Addresses {
			log.Printf("  %s", addr)
		}
	}
}

func init() {
	rootCmd.AddCommand(geocodeCmd)

	geocodeCmd.Flags().StringVarP(
		&geocodeInput,
		"input",
		"i",
		"",
		"Fichier Excel à traiter",
	)
	_ = geocodeCmd.MarkFlagRequired("input")
	geocodeCmd.Flags().StringVarP(
		&geocodeOutput,
		"output",
		"o",
		"",
		"Fichier Excel à produire (défaut: geocode_<input>)",
	)
	geocodeCmd.Flags().StringVar(
		&geocodeOptions.AddressColumn,
		"colonne-adresse",
		"Adresse",
		"Entête de la colonne contenant l'adresse",
	)
	geocodeCmd.Flags().StringVar(
		&geocodeOptions.CompanyColumn,
		"colonne-entreprise",
		"",
		"Entête de la colonne contenant le nom d'entreprise (repli)",
	)
	geocodeCmd.Flags().Float64Var(
		&geocodeOptions.RatePerSecond,
		"rate",
		1,
		"Requêtes par seconde vers les fournisseurs (0 pour désactiver)",
	)
	geocodeCmd.Flags().BoolVar(
		&geocodeOptions.KeepSource,
		"keep-source",
		false,
		"Conserve la colonne 'Source géocodage' dans le fichier produit",
	)
}
