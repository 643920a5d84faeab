package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/stepflow/internal/ui/styles"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List built-in theme presets",
	RunE:  runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, _ []string) error {
	active := cfg.Theme.Preset
	if active == "" {
		active = styles.DefaultPreset.Name
	}
	out := cmd.OutOrStdout()
	for _, name := range styles.PresetNames() {
		marker := " "
		if name == active {
			marker = "*"
		}
		p := styles.Presets[name]
		_, _ = fmt.Fprintf(out, "%s %-18s %s\n", marker, name, p.Description)
	}
	return nil
}
