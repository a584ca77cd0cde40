package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract skills and requirements from a job description document",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runExtract(args[0])
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(path string) {
	ctx := context.Background()
	lg, config := setup()

	res, err := extractDocument(ctx, newExtractor(config), path)
	if err != nil {
		lg.Fatal("extracting document text", zap.Error(err), zap.String("file", path))
	}
	lg.Info("document text extracted",
		zap.String("file", path),
		zap.Float64("confidence", res.Confidence),
		zap.Duration("took", res.ProcessingTime),
	)

	extraction, err := newInterpreter(config, requireGenerator(ctx, config, lg), lg).ExtractFromDocument(ctx, res.Text)
	if err != nil {
		lg.Fatal("analyzing document", zap.Error(err))
	}

	if err := render(os.Stdout, viper.GetString("output"), extraction); err != nil {
		lg.Fatal("rendering extraction", zap.Error(err))
	}
}
