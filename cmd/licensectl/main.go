// licensectl is the operational companion to Fieldnote's entitlement
// verification engine: it shows the resolved license state and invalidates
// cache entries out of band.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldnote/fieldnote/internal/logging"
)

// Version information (set at build time with -ldflags)
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "licensectl",
	Short:   "Fieldnote enterprise license operations",
	Long:    `licensectl inspects and manages the cached enterprise license state of a Fieldnote instance.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.Config{
			Level:     os.Getenv("LOG_LEVEL"),
			Format:    "console",
			Component: "licensectl",
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(invalidateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
