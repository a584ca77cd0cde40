package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var interpretCmd = &cobra.Command{
	Use:   "interpret",
	Short: "Turn a free-text role description into structured requirements",
	Run: func(cmd *cobra.Command, _ []string) {
		runInterpret(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interpretCmd)

	interpretCmd.Flags().StringP("text", "t", "", "role description as free text")
	interpretCmd.Flags().String("text-file", "", "file with the role description")
	interpretCmd.Flags().String("document", "", "job description document (text, pdf or image)")
}

func runInterpret(cmd *cobra.Command) {
	ctx := context.Background()
	lg, config := setup()

	input := requirementInput{
		Text:     mustString(cmd, "text"),
		TextFile: mustString(cmd, "text-file"),
		Document: mustString(cmd, "document"),
	}
	text, err := input.resolve(ctx, newExtractor(config), lg)
	if err != nil {
		lg.Fatal("reading the role description", zap.Error(err))
	}

	spec, err := newInterpreter(config, requireGenerator(ctx, config, lg), lg).InterpretRequirements(ctx, text)
	if err != nil {
		lg.Fatal("interpreting requirements", zap.Error(err))
	}

	if err := render(os.Stdout, viper.GetString("output"), spec); err != nil {
		lg.Fatal("rendering requirements", zap.Error(err))
	}
}
