package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/failpredict/pkg/export"
)

var linesCmd = &cobra.Command{
	Use:   "lines",
	Short: "List the production lines found in the station table",
	Args:  cobra.NoArgs,
	RunE:  runLines,
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict failures of a line for the latest date",
	Args:  cobra.NoArgs,
	RunE:  runPredict,
}

var (
	predictLine string
	predictOut  string
)

func init() {
	predictCmd.Flags().StringVarP(&predictLine, "line", "l", "", "production line prefix")
	predictCmd.Flags().StringVarP(&predictOut, "out", "o", "", "output file (.csv, .xlsx or .json); CSV on stdout when empty")
	_ = predictCmd.MarkFlagRequired("line")
	rootCmd.AddCommand(linesCmd, predictCmd)
}

func runLines(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}
	defer closeService(svc)

	names, err := svc.Pipeline.Lines(cmd.Context())
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(cmd.OutOrStdout(), n)
	}
	return nil
}

func runPredict(cmd *cobra.Command, args []string) error {
	format := export.FormatCSV
	if predictOut != "" {
		f, err := export.FormatFromPath(predictOut)
		if err != nil {
			return err
		}
		format = f
	}

	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}
	defer closeService(svc)

	res, err := svc.Pipeline.Precomputed(cmd.Context(), predictLine)
	if err != nil {
		return err
	}
	if res.Empty {
		fmt.Fprintf(cmd.ErrOrStderr(), "no stations for line %q\n", predictLine)
		return nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d of %d stations predicted to fail\n",
		res.Date.Format("2006-01-02"), res.Summary.Failures, res.Summary.Stations)

	if predictOut == "" {
		return export.Write(cmd.OutOrStdout(), format, res.Rows)
	}
	f, err := os.Create(predictOut)
	if err != nil {
		return err
	}
	if err := export.Write(f, format, res.Rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
