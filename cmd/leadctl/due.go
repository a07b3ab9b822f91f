package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unclebandit/leadreach-backend/internal/model"
	"github.com/unclebandit/leadreach-backend/internal/repository"
	"github.com/unclebandit/leadreach-backend/internal/service"
)

var dueLimit int

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List pending scheduled batches whose time has passed",
	Long:  "Shows what the batch worker would pick up next. Nothing is sent or modified.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		conn, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		svc := &service.ScheduleService{ScheduleRepo: &repository.ScheduledMessageRepository{DB: conn}}
		due, err := svc.Due(ctx, dueLimit)
		if err != nil {
			return err
		}

		if len(due) == 0 {
			zap.L().Info("no scheduled batches are due")
			return nil
		}

		formatDue(os.Stdout, due)
		return nil
	},
}

func init() {
	dueCmd.Flags().IntVar(&dueLimit, "limit", 50, "maximum batches to list")
	rootCmd.AddCommand(dueCmd)
}

// formatDue writes a tabular view of scheduled batches to out.
func formatDue(out io.Writer, msgs []model.ScheduledMessage) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tINSTANCE\tSCHEDULED (UTC)\tSEGMENTS\tLEADS")
	_, _ = fmt.Fprintln(w, "--\t----\t--------\t---------------\t--------\t-----")

	for _, m := range msgs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			m.ID,
			m.Name,
			m.InstanceID,
			m.ScheduledAt.UTC().Format("2006-01-02 15:04"),
			strings.Join(m.SelectedTypes, ","),
			m.TotalLeads,
		)
	}
	_ = w.Flush()
}
