package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/stepflow/internal/archive"
	"github.com/zjrosen/stepflow/internal/log"
	"github.com/zjrosen/stepflow/internal/store"
	"github.com/zjrosen/stepflow/internal/workflow"
	"github.com/zjrosen/stepflow/internal/workflow/templates"
)

// Output formats for generate.
const (
	formatYAML     = "yaml"
	formatMarkdown = "md"
)

var (
	generateFormat  string
	generateOut     string
	generateApprove bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Draft a workflow without the interactive UI",
	Long: `Draft a workflow for the prompt and print it as YAML or markdown.
With --approve the draft is also recorded in the approvals archive.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	flags := generateCmd.Flags()
	flags.StringVarP(&generateFormat, "format", "f", formatYAML, "output format: yaml or md")
	flags.StringVarP(&generateOut, "out", "o", "", "write to this file instead of stdout")
	flags.BoolVar(&generateApprove, "approve", false, "record the draft in the approvals archive")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateFormat != formatYAML && generateFormat != formatMarkdown {
		return fmt.Errorf("unknown format %q (use %s or %s)", generateFormat, formatYAML, formatMarkdown)
	}
	prompt := strings.TrimSpace(strings.Join(args, " "))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	tp, shutdown, err := setupTracing(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	pool := templates.Load(cfg.TemplatesFile)
	st := store.New(newGenerator(cfg, pool, tp.TracerProvider))
	if err := st.GenerateWorkflow(ctx, prompt); err != nil {
		return fmt.Errorf("generating workflow: %w", err)
	}
	steps := st.Steps()

	thresholds := workflow.Thresholds{Review: cfg.UI.ReviewThreshold, Caution: cfg.UI.CautionThreshold}
	summary := workflow.Summarize(prompt, steps, thresholds, cfg.UI.MinutesPerStep)

	write := func(out io.Writer) error {
		if generateFormat == formatMarkdown {
			_, err := io.WriteString(out, summary.Markdown(steps))
			return err
		}
		doc := workflow.Document{Prompt: prompt, Steps: steps}
		return doc.EncodeYAML(out)
	}
	if generateOut == "" {
		err = write(cmd.OutOrStdout())
	} else {
		err = writeFile(generateOut, write)
	}
	if err != nil {
		return err
	}

	if !generateApprove {
		return nil
	}
	db, err := openArchive(cfg)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer func() { _ = db.Close() }()

	approval := archive.NewApproval(summary, steps, time.Now())
	if err := db.ApprovalRepository().Save(ctx, approval); err != nil {
		return fmt.Errorf("archiving approval: %w", err)
	}
	log.Info(log.CatDB, "Approval archived", "id", approval.ID, "steps", approval.StepCount())
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "approved %s\n", approval.ID)
	return nil
}

// writeFile creates path and fills it with write. Close errors are
// returned.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
