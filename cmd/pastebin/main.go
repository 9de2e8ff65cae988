// Package main is the pastebin admin CLI.
//
// Snippets reference languages and display styles by name, and those
// reference catalogs have to exist before the first snippet is created.
// This tool fills them from the highlighting library's own lexer and style
// catalogs, so everything the API accepts is something the highlight
// endpoint can actually render.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/pastebin/internal/config"
	"github.com/sakif/pastebin/internal/highlight"
	"github.com/sakif/pastebin/internal/repository/sqlite"
)

var rootCmd = &cobra.Command{
	Use:           "pastebin",
	Short:         "Pastebin admin CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed both the language and style catalogs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *sqlite.DB) error {
			languages, err := db.SeedLanguages(cmd.Context(), highlight.Languages())
			if err != nil {
				return err
			}
			styles, err := db.SeedStyles(cmd.Context(), highlight.Styles())
			if err != nil {
				return err
			}
			fmt.Printf("%d languages and %d styles inserted\n", languages, styles)
			return nil
		})
	},
}

var seedLanguagesCmd = &cobra.Command{
	Use:   "seed-languages",
	Short: "Seed the language catalog from the highlighting library",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *sqlite.DB) error {
			n, err := db.SeedLanguages(cmd.Context(), highlight.Languages())
			if err != nil {
				return err
			}
			fmt.Printf("%d languages inserted\n", n)
			return nil
		})
	},
}

var seedStylesCmd = &cobra.Command{
	Use:   "seed-styles",
	Short: "Seed the style catalog from the highlighting library",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *sqlite.DB) error {
			n, err := db.SeedStyles(cmd.Context(), highlight.Styles())
			if err != nil {
				return err
			}
			fmt.Printf("%d styles inserted\n", n)
			return nil
		})
	},
}

// withDB opens the configured database, runs fn, and closes it again.
// Seeding is idempotent, so rerunning any command is safe.
func withDB(fn func(*sqlite.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db)
}

func main() {
	rootCmd.AddCommand(seedCmd, seedLanguagesCmd, seedStylesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pastebin: %v\n", err)
		os.Exit(1)
	}
}
