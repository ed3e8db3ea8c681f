package cmd

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/skycloud/core/stats"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print model configuration, version and a summary of the loaded series",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	report := struct {
		Model  any           `json:"model"`
		Start  string        `json:"start"`
		Offset int64         `json:"epoch_offset"`
		Series stats.Summary `json:"series"`
	}{
		Model:  svc.Model.Status(),
		Start:  svc.Resolver.Start().Format(time.RFC3339),
		Offset: svc.Resolver.Offset(),
		Series: stats.Summarize(svc.Resolver.Series()),
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
