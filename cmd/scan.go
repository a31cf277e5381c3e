package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rsc-sentinel/internal/escalation"
	"github.com/rsc-sentinel/internal/output"
	"github.com/rsc-sentinel/internal/page"
	"github.com/rsc-sentinel/internal/probe"
	"github.com/rsc-sentinel/pkg/models"
	"github.com/rsc-sentinel/pkg/utils"
)

var targetsFile string

var scanCmd = &cobra.Command{
	Use:   "scan [target...]",
	Short: "Run a detection cycle against one or more targets",
	Long: `Run the passive scan and the active fingerprint probe against each target.
Targets are processed one at a time.

Examples:
  rsc-sentinel scan app.example.com
  rsc-sentinel scan https://app.example.com/dashboard -o json
  rsc-sentinel scan --targets hosts.txt --proxy socks5://127.0.0.1:9050`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&targetsFile, "targets", "t", "", "file with one target per line")
}

func runScan(cmd *cobra.Command, args []string) error {
	targets, err := collectTargets(args, targetsFile)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("no targets given")
	}

	client, err := utils.NewHTTPClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to build HTTP client: %w", err)
	}

	prober := probe.New(client, log, cfg.Scanning.UserAgent, cfg.Scanning.MaxBodySize)
	loader := page.NewLoader(cfg, log, client.Transport, prober)
	controller := escalation.NewController(log, cfg.Relay.CallTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	assessments := make([]models.Assessment, 0, len(targets))
	for _, raw := range targets {
		if ctx.Err() != nil {
			break
		}

		target, err := utils.NormalizeTarget(raw)
		if err != nil {
			log.Warn("Skipping target", "target", raw, "error", err)
			continue
		}

		log.Info("Starting detection cycle", "target", target)

		p, err := loader.Load(ctx, target)
		if err != nil {
			log.Warn("Page load failed", "target", target, "error", err)
			assessments = append(assessments, models.Assessment{
				Target: target,
				State:  escalation.ConnectionError.String(),
				Error:  err.Error(),
			})
			continue
		}

		assessments = append(assessments, controller.Run(ctx, target, p))
	}

	return output.Render(cmd.OutOrStdout(), cfg.Output.Format, cfg.Output.Color, assessments)
}

func collectTargets(args []string, file string) ([]string, error) {
	targets := append([]string{}, args...)
	if file == "" {
		return targets, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open targets file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	return targets, nil
}
