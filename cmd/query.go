package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	queryDelta int64
	queryTime  string
	queryMapN  int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print the cloud coverage at an elapsed time",
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().Int64VarP(&queryDelta, "delta", "d", 0, "elapsed seconds since the simulation start")
	queryCmd.Flags().StringVarP(&queryTime, "time", "t", "", "absolute RFC3339 time, overrides --delta")
	queryCmd.Flags().IntVarP(&queryMapN, "n", "n", 0, "also print a cloud map over n positions")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	var value float64
	if queryTime != "" {
		t, perr := time.Parse(time.RFC3339, queryTime)
		if perr != nil {
			return fmt.Errorf("parse --time: %w", perr)
		}
		value, err = svc.Resolver.ResolveAt(t)
	} else {
		value, err = svc.Resolver.Resolve(queryDelta)
	}
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if queryMapN <= 0 {
		_, err = fmt.Fprintln(out, value)
		return err
	}
	enc := json.NewEncoder(out)
	return enc.Encode(svc.Model.Compute(value, make([]float64, queryMapN)))
}
