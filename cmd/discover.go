package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <query>",
	Short: "Search GitHub users, most repositories first",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runDiscover(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().Int("page", 1, "result page")
	discoverCmd.Flags().Int("per-page", 10, "results per page (max 100)")
}

func runDiscover(cmd *cobra.Command, query string) {
	lg, config := setup()

	page, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")

	ctx, cancel := timeout(time.Minute)
	defer cancel()

	gh, err := newGitHub(config, lg)
	if err != nil {
		lg.Fatal("loading github token", zap.Error(err))
	}

	users, err := gh.SearchUsers(ctx, query, page, perPage)
	if err != nil {
		lg.Fatal("searching users", zap.Error(err), zap.String("query", query))
	}
	lg.Info("users found", zap.Int("count", len(users)))

	if err := render(os.Stdout, viper.GetString("output"), users); err != nil {
		lg.Fatal("rendering users", zap.Error(err))
	}
}
