// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resolveCompany string

var resolveCmd = &cobra.Command{
	Use:   "resolve <adresse>",
	Short: "Résout une seule adresse et affiche le résultat en JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		resolver, _, closeFn, err := buildResolver()
		if err != nil {
			return err
		}
		defer closeFn()

		record := resolver.ResolveRecord(strings.Join(args, " "), resolveCompany)

		out, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return err
		}

		fmt.Println(string(out))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(
		&resolveCompany,
		"entreprise",
		"",
		"Nom d'entreprise à utiliser en repli si l'adresse échoue",
	)
}
