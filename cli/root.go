// cli/root.go
package cli

import (
	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "airtraffic",
	Short: "Monthly airline traffic statistics from the BTS TranStats portal",
	Long: `airtraffic retrieves monthly passenger, flight, revenue passenger-mile and
available seat-mile counts for an airline at an airport from the BTS TranStats
"Data Elements" form, and writes them as CSV or JSON indexed by month.

Example:
  airtraffic extract DL ATL
  airtraffic extract DL KATL --international --metrics Flights,RPM --format json
  airtraffic batch DL-ATL AA-DFW --concurrency 2
  airtraffic serve`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or ./config/config.yaml)")
}
