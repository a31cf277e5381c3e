package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rsc-sentinel/internal/output"
	"github.com/rsc-sentinel/internal/page"
	"github.com/rsc-sentinel/pkg/models"
	"github.com/rsc-sentinel/pkg/utils"
)

var passiveContentType string

var passiveCmd = &cobra.Command{
	Use:   "passive [file]",
	Short: "Score saved page markup without touching the network",
	Long: `Score a saved HTML or Flight response for static React Server Components
markers. Reads stdin when the file is "-".

Examples:
  rsc-sentinel passive page.html
  curl -s https://app.example.com | rsc-sentinel passive - -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runPassive,
}

func init() {
	rootCmd.AddCommand(passiveCmd)

	passiveCmd.Flags().StringVar(&passiveContentType, "content-type", "text/html", "declared Content-Type of the saved page")
}

func runPassive(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open markup: %w", err)
		}
		defer f.Close()
		in = f
	}

	markup, err := utils.ReadLimited(in, cfg.Scanning.MaxBodySize)
	if err != nil {
		return fmt.Errorf("failed to read markup: %w", err)
	}

	p := page.FromMarkup(args[0], markup, passiveContentType, nil)
	finding, err := p.GetPassiveFinding(cmd.Context())
	if err != nil {
		return err
	}

	state := "NoSignal"
	if finding.IsVulnerableSignal {
		state = "Signal"
	}

	return output.Render(cmd.OutOrStdout(), cfg.Output.Format, cfg.Output.Color, []models.Assessment{{
		Target:  args[0],
		State:   state,
		Passive: &finding,
	}})
}
