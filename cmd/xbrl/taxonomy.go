package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aethiopicuschan/xbrl-go/pkg/xbrl"
	"github.com/aethiopicuschan/xbrl-go/pkg/xbrlcache"
)

var taxonomyCacheDir string

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy <entrypoint.xsd> [morePoints...]",
	Short: "Resolve a Discoverable Taxonomy Set from one or more entry-point schemas",
	Long: `Resolve the full transitive closure of schemas and linkbases reachable
from the given entry point(s), and print a summary: schema count, concept
count, and any warnings (broken locators, ambiguous overrides) encountered
along the way.

Entry points may be local file paths or http(s) URLs; remote documents
are fetched through a disk-backed, politeness-delayed cache rooted at
--cache-dir so re-running the same command never refetches anything.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := xbrlcache.NewDiskCache(taxonomyCacheDir)
		if err != nil {
			return fmt.Errorf("create cache: %w", err)
		}

		dts, err := xbrl.ResolveDTS(context.Background(), cache, args...)
		if err != nil {
			return fmt.Errorf("resolve DTS: %w", err)
		}

		fmt.Printf("schemas  : %d\n", len(dts.SchemaURLs()))
		fmt.Printf("concepts : %d\n", len(dts.Taxonomy().Concepts()))

		warnings := dts.Warnings()
		fmt.Printf("warnings : %d\n", len(warnings))
		for _, w := range warnings {
			fmt.Println("  " + w.String())
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
	taxonomyCmd.Flags().StringVar(&taxonomyCacheDir, "cache-dir", ".xbrl-cache", "directory used to cache fetched schemas/linkbases")
}
