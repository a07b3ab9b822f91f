package main

import (
	"bytes"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unclebandit/leadreach-backend/internal/model"
	"github.com/unclebandit/leadreach-backend/internal/repository"
	"github.com/unclebandit/leadreach-backend/internal/service"
)

var exportFlags struct {
	user     string
	campaign string
	out      string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's leads as CSV",
	Long:  "Writes the leads of one campaign (or every campaign of the user) as CSV to stdout or --out.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		conn, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		svc := &service.CampaignService{
			CampaignRepo: &repository.CampaignRepository{DB: conn},
			LeadRepo:     &repository.LeadRepository{DB: conn},
		}
		leads, err := svc.ListLeads(ctx, exportFlags.user, exportFlags.campaign)
		if err != nil {
			return err
		}

		if err := writeExport(exportFlags.out, os.Stdout, leads); err != nil {
			return err
		}
		zap.L().Info("leads exported", zap.Int("count", len(leads)), zap.String("out", exportFlags.out))
		return nil
	},
}

// writeExport renders leads to path, or to stdout when path is empty. The CSV
// is rendered first so a failed export never leaves a file behind.
func writeExport(path string, stdout io.Writer, leads []model.Lead) error {
	var buf bytes.Buffer
	if err := service.ExportLeadsCSV(&buf, leads); err != nil {
		return err
	}

	if path == "" {
		_, err := stdout.Write(buf.Bytes())
		return eris.Wrap(err, "export: write stdout")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return eris.Wrap(err, "export: write output file")
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.user, "user", "", "owner user id (required)")
	exportCmd.Flags().StringVar(&exportFlags.campaign, "campaign", "", "campaign id; empty exports every campaign")
	exportCmd.Flags().StringVarP(&exportFlags.out, "out", "o", "", "output file (default stdout)")
	_ = exportCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(exportCmd)
}
