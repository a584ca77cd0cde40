package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talent-scout/internal/filtering"
	"github.com/spigell/talent-scout/internal/search"
)

const (
	PromptDone                = "Done"
	PromptBack                = "back"
	PromptReportByLanguage    = "Report candidates by language"
	PromptShowCandidate       = "Show a candidate profile"
	PromptCandidatesToFile    = "Dump candidates to file"
	PromptAppendToExcludeFile = "Append all candidates to exclude file"
)

var errExit = errors.New("exit requested")

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Interpret a role description, then aggregate, filter and rank candidates for it",
	Run: func(cmd *cobra.Command, _ []string) {
		runSearch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("text", "t", "", "role description as free text")
	searchCmd.Flags().String("text-file", "", "file with the role description")
	searchCmd.Flags().String("document", "", "job description document (text, pdf or image)")
	searchCmd.Flags().StringSlice("handles", nil, "candidate handles to evaluate")
	searchCmd.Flags().StringP("query", "q", "", "GitHub user search query to discover candidates")
	searchCmd.Flags().Int("limit", 10, "how many candidates to discover with --query")
	searchCmd.Flags().StringSlice("skip-filter", nil, "filters to disable by name")
	searchCmd.Flags().BoolP("yes", "y", false, "do not show the interactive menu after the results")
	searchCmd.Flags().StringP("exclude-file", "e", "", "file with candidates to exclude. Default is unset.")

	viper.BindPFlag("filters.exclude-file", searchCmd.Flags().Lookup("exclude-file"))
}

func runSearch(cmd *cobra.Command) {
	ctx := context.Background()
	lg, config := setup()

	lg.Info("starting the talent-scout search", zap.String("version", version))

	input := requirementInput{
		Text:     mustString(cmd, "text"),
		TextFile: mustString(cmd, "text-file"),
		Document: mustString(cmd, "document"),
	}
	text, err := input.resolve(ctx, newExtractor(config), lg)
	if err != nil {
		lg.Fatal("reading the role description", zap.Error(err))
	}

	gh, err := newGitHub(config, lg)
	if err != nil {
		lg.Fatal("loading github token", zap.Error(err))
	}

	gen := requireGenerator(ctx, config, lg)

	scorer, err := newScorer(config, gen, lg)
	if err != nil {
		lg.Fatal("building the scorer", zap.Error(err))
	}

	handles, _ := cmd.Flags().GetStringSlice("handles")
	skip, _ := cmd.Flags().GetStringSlice("skip-filter")
	limit, _ := cmd.Flags().GetInt("limit")

	svc := search.New(search.Deps{
		Interpreter: newInterpreter(config, gen, lg),
		Profiles:    newAggregator(config, gh, lg),
		Scorer:      scorer,
		Discovery:   gh,
	}, search.Config{
		Concurrency:     config.Search.Concurrency,
		Filters:         filterConfig(config),
		DisabledFilters: skip,
	}, lg)

	res, err := svc.Run(ctx, search.Request{
		Text:          text,
		Handles:       handles,
		Query:         mustString(cmd, "query"),
		DiscoverLimit: limit,
	})
	if err != nil {
		lg.Fatal("search failed", zap.Error(err))
	}

	if err := render(os.Stdout, viper.GetString("output"), viewOfSearch(res)); err != nil {
		lg.Fatal("rendering results", zap.Error(err))
	}

	if res.Candidates.Len() == 0 {
		lg.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return
	}

	for {
		menu := promptui.Select{
			Label: "What next?",
			Items: menuItems(config),
		}

		_, action, err := menu.Run()
		if err != nil {
			lg.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, lg, config, res.Candidates); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			lg.Fatal("exiting", zap.Error(err))
		}
	}
}

func menuItems(config *Config) []string {
	items := []string{PromptDone, PromptReportByLanguage, PromptShowCandidate, PromptCandidatesToFile}
	if config.Filters.ExcludeFile != "" {
		items = append(items, PromptAppendToExcludeFile)
	}
	return items
}

func handleAction(action string, lg *zap.Logger, config *Config, candidates *filtering.Candidates) error {
	switch action {
	case PromptDone:
		lg.Info("exiting", zap.String("reason", "done"))
		return errExit
	case PromptReportByLanguage:
		return render(os.Stdout, OutputYAML, candidates.ReportByLanguage())
	case PromptShowCandidate:
		return showCandidate(candidates)
	case PromptCandidatesToFile:
		filename, err := candidates.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump candidates to file: %w", err)
		}
		lg.Info("dumping candidates to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		if err := filtering.AppendToFile(config.Filters.ExcludeFile, "excluded from the interactive menu", candidates); err != nil {
			return err
		}
		lg.Info("appended to exclude file",
			zap.String("filename", config.Filters.ExcludeFile),
			zap.Int("count", candidates.Len()),
		)
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showCandidate(candidates *filtering.Candidates) error {
	for {
		items := make([]string, 0, candidates.Len()+1)
		for _, p := range candidates.Items {
			items = append(items, fmt.Sprintf("%s %s / %s", p.Handle(), strings.Join(p.PrimaryLanguages, ","), p.Identity.HTMLURL))
		}

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
		}

		_, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		handle := strings.Split(selected, " ")[0]
		p := candidates.FindByHandle(handle)
		if p == nil {
			return fmt.Errorf("there is no such candidate %s", handle)
		}
		if err := render(os.Stdout, OutputTable, p); err != nil {
			return err
		}
	}
}

func mustString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// timeout bounds commands that make a single remote round-trip.
func timeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
