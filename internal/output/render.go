// Package output renders assessments for the terminal or for machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/rsc-sentinel/pkg/models"
)

// Render writes assessments in format: table, json or yaml
func Render(w io.Writer, format string, colored bool, assessments []models.Assessment) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(assessments)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(assessments)
	case "table", "":
		renderTable(w, colored, assessments)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderTable(w io.Writer, colored bool, assessments []models.Assessment) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Target", "State", "Passive", "Evidence", "WAF"})
	table.SetAutoWrapText(false)
	table.SetRowLine(true)

	for _, a := range assessments {
		passiveScore := "-"
		if a.Passive != nil {
			passiveScore = strconv.Itoa(a.Passive.Score)
		}

		var evidence []string
		if a.Passive != nil {
			evidence = append(evidence, a.Passive.Details...)
		}
		wafName := "-"
		if a.Probe != nil {
			evidence = append(evidence, a.Probe.Details...)
			if a.Probe.WAF != "" {
				wafName = a.Probe.WAF
			}
		}
		if a.Error != "" {
			evidence = append(evidence, "error: "+a.Error)
		}

		table.Append([]string{
			a.Target,
			stateLabel(a.State, colored),
			passiveScore,
			strings.Join(evidence, "\n"),
			wafName,
		})
	}

	table.Render()
}

func stateLabel(state string, colored bool) string {
	if !colored {
		return state
	}
	switch state {
	case "Vulnerable":
		return color.New(color.FgRed, color.Bold).Sprint(state)
	case "Safe":
		return color.New(color.FgGreen).Sprint(state)
	case "ConnectionError":
		return color.New(color.FgYellow).Sprint(state)
	default:
		return state
	}
}
