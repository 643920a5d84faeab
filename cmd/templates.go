package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/stepflow/internal/workflow/templates"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Show the step templates the simulated assistant draws from",
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	pool := templates.Load(cfg.TemplatesFile)
	out := cmd.OutOrStdout()

	source := pool.Source.String()
	if pool.Path != "" {
		source += " (" + pool.Path + ")"
	}
	_, _ = fmt.Fprintf(out, "Source: %s\n\n", source)

	_, _ = fmt.Fprintln(out, "Templates:")
	for i, t := range pool.Templates {
		_, _ = fmt.Fprintf(out, "  %d. %s\n", i+1, t.Title)
	}
	_, _ = fmt.Fprintf(out, "\nTools:  %s\n", strings.Join(pool.Tools, ", "))
	_, _ = fmt.Fprintf(out, "Agents: %s\n", strings.Join(pool.Agents, ", "))
	_, _ = fmt.Fprintf(out, "\nExamples:\n")
	for _, ex := range pool.Examples {
		_, _ = fmt.Fprintf(out, "  - %s\n", ex)
	}
	return nil
}
