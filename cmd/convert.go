package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kilianp07/failpredict/core/upload"
	"github.com/kilianp07/failpredict/infra/tabular"
	"github.com/kilianp07/failpredict/pkg/export"
)

var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Convert a DispatchHistory export into a station table",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var (
	convertPredict   bool
	convertDelimiter string
)

func init() {
	convertCmd.Flags().BoolVar(&convertPredict, "predict", false, "run the model on the converted stations")
	convertCmd.Flags().StringVar(&convertDelimiter, "delimiter", ",", "field delimiter of FILE")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	path := args[0]
	if convertPredict {
		return convertAndPredict(cmd, path)
	}
	delim := []rune(convertDelimiter)
	if len(delim) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", convertDelimiter)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	t, err := tabular.ReadTable(f, tabular.Options{Delimiter: delim[0]})
	if err != nil {
		return fmt.Errorf("%w: %v", upload.ErrMalformedFile, err)
	}
	recs, err := upload.Convert(filepath.Base(path), t)
	if err != nil {
		return err
	}
	return tabular.WriteStations(cmd.OutOrStdout(), recs)
}

// convertAndPredict runs the upload pipeline with the configured model and
// dataset delimiter.
func convertAndPredict(cmd *cobra.Command, path string) error {
	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}
	defer closeService(svc)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	res, err := svc.Pipeline.Upload(cmd.Context(), filepath.Base(path), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d of %d stations predicted to fail\n",
		res.Date.Format("2006-01-02"), res.Summary.Failures, res.Summary.Stations)
	return export.WriteCSV(cmd.OutOrStdout(), res.Rows)
}
