package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags.
var version = "0.1.0"

var configPath string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tbatlas",
	Short: "WHO tuberculosis burden analytics service",
	Long: `tbatlas serves the WHO tuberculosis burden dataset as JSON view models:
global overview, country comparison, trends, regional analysis, country
profiles, ad-hoc exploration, similarity rankings and an animated map, all
computed from a CSV loaded once and memoized.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional .env for local development; absence is not an error.
		_ = godotenv.Load()
	},
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tbatlas version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tbatlas " + version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to configuration file (default tbatlas.yml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
