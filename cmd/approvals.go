package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/stepflow/internal/archive"
	"github.com/zjrosen/stepflow/internal/ui/shared/table"
	"github.com/zjrosen/stepflow/internal/workflow"
)

const approvalsTableWidth = 100

var (
	approvalsLimit int
	approvalsSince time.Duration
)

var approvalsCmd = &cobra.Command{
	Use:   "approvals",
	Short: "List approved workflows",
	RunE:  runApprovals,
}

var approvalsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an approved workflow as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runApprovalsShow,
}

var approvalColumns = []table.ColumnConfig{
	{Key: "id", Header: "ID", Width: 8},
	{Key: "approved", Header: "Approved", Width: 16},
	{Key: "steps", Header: "Steps", Width: 5, AlignRight: true},
	{Key: "time", Header: "Est.", Width: 7, AlignRight: true},
	{Key: "review", Header: "Review", Width: 6, AlignRight: true},
	{Key: "prompt", Header: "Prompt", MinWidth: 20},
}

func init() {
	approvalsCmd.Flags().IntVarP(&approvalsLimit, "limit", "n", 20, "maximum number of approvals to list (0 = all)")
	approvalsCmd.Flags().DurationVar(&approvalsSince, "since", 0, "only list approvals newer than this (e.g. 72h)")
	approvalsCmd.AddCommand(approvalsShowCmd)
	rootCmd.AddCommand(approvalsCmd)
}

func runApprovals(cmd *cobra.Command, _ []string) error {
	db, err := openArchive(cfg)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer func() { _ = db.Close() }()

	filter := archive.ListFilter{Limit: approvalsLimit}
	if approvalsSince > 0 {
		filter.Since = time.Now().Add(-approvalsSince)
	}
	approvals, err := db.ApprovalRepository().List(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("listing approvals: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(approvals) == 0 {
		_, _ = fmt.Fprintln(out, "No approved workflows yet.")
		return nil
	}

	rows := make([]table.Row, len(approvals))
	for i, a := range approvals {
		rows[i] = table.Row{
			"id":       a.ShortID(),
			"approved": a.ApprovedAt.Local().Format("2006-01-02 15:04"),
			"steps":    strconv.Itoa(a.StepCount()),
			"time":     workflow.FormatDuration(a.EstimatedMinutes),
			"review":   strconv.Itoa(a.LowConfidence),
			"prompt":   a.Prompt,
		}
	}
	_, _ = fmt.Fprintln(out, table.New(approvalColumns).SetRows(rows).SetWidth(approvalsTableWidth).View())
	return nil
}

func runApprovalsShow(cmd *cobra.Command, args []string) error {
	db, err := openArchive(cfg)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer func() { _ = db.Close() }()

	approval, err := findApproval(cmd, db.ApprovalRepository(), args[0])
	if err != nil {
		return err
	}
	return approval.Document().EncodeYAML(cmd.OutOrStdout())
}

// findApproval resolves a full id or a unique short-id prefix.
func findApproval(cmd *cobra.Command, repo archive.Repository, id string) (*archive.Approval, error) {
	ctx := cmd.Context()
	if a, err := repo.FindByID(ctx, id); err == nil {
		return a, nil
	}
	all, err := repo.List(ctx, archive.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing approvals: %w", err)
	}
	var match *archive.Approval
	for _, a := range all {
		if len(id) >= 4 && strings.HasPrefix(a.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("approval id %q is ambiguous", id)
			}
			match = a
		}
	}
	if match == nil {
		return nil, &archive.NotFoundError{ID: id}
	}
	return match, nil
}
