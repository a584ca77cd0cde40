package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talent-scout/internal/logger"
	"github.com/spigell/talent-scout/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile <handle>",
	Short: "Build and print the profile of one candidate",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runProfile(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().Bool("summary", false, "ask the reasoning model for a short narrative summary")
}

type profileView struct {
	profile.CandidateProfile `yaml:",inline"`
	Summary                  string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

func runProfile(cmd *cobra.Command, handle string) {
	lg, config := setup()
	lg = lg.With(logger.HandleField(handle))

	ctx, cancel := timeout(2 * time.Minute)
	defer cancel()

	gh, err := newGitHub(config, lg)
	if err != nil {
		lg.Fatal("loading github token", zap.Error(err))
	}

	p, err := newAggregator(config, gh, lg).Build(ctx, handle)
	if err != nil {
		lg.Fatal("building the profile", zap.Error(err))
	}

	format := viper.GetString("output")
	if withSummary, _ := cmd.Flags().GetBool("summary"); withSummary {
		summary := profile.Summarize(ctx, requireGenerator(ctx, config, lg), p, lg)
		if format == "" || format == OutputTable {
			if err := render(os.Stdout, OutputTable, p); err != nil {
				lg.Fatal("rendering the profile", zap.Error(err))
			}
			fmt.Fprintf(os.Stdout, "\n%s\n", summary)
			return
		}
		if err := render(os.Stdout, format, profileView{CandidateProfile: *p, Summary: summary}); err != nil {
			lg.Fatal("rendering the profile", zap.Error(err))
		}
		return
	}

	if err := render(os.Stdout, format, p); err != nil {
		lg.Fatal("rendering the profile", zap.Error(err))
	}
}
