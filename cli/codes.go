// cli/codes.go
package cli

import (
	"os"
	"strings"

	"github.com/gewnthar/airtraffic/config"
	"github.com/gewnthar/airtraffic/export"
	"github.com/gewnthar/airtraffic/models"
	"github.com/gewnthar/airtraffic/utils"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// codesCmd represents the codes command
var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List the airline and airport codes the portal accepts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}

		t := export.NewTable(os.Stdout)
		t.SetTitle("Airlines")
		t.AppendHeader(table.Row{"Code", "Name"})
		for _, code := range cfg.Codes.AirlineCodes() {
			name, _ := cfg.Codes.AirlineName(code)
			t.AppendRow(table.Row{code, utils.DisplayName(name)})
		}
		t.Render()

		a := export.NewTable(os.Stdout)
		a.SetTitle("Airports")
		a.AppendHeader(table.Row{"Codes"})
		a.AppendRow(table.Row{strings.Join(cfg.Codes.Airports, " ")})
		a.Render()

		m := export.NewTable(os.Stdout)
		m.SetTitle("Additional metrics")
		for _, metric := range models.AdditionalMetrics {
			m.AppendRow(table.Row{metric})
		}
		m.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(codesCmd)
}
