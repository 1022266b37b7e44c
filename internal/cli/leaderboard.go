package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"mathquest/internal/app"
	"mathquest/internal/report"
)

// NewLeaderboardCmd prints the leaderboard from the configured storage, or exports it.
func NewLeaderboardCmd(configPath *string) *cobra.Command {
	var xlsxPath string
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the leaderboard or export it as a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			b, err := openBackends(ctx, cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			opts, err := storeOptions(cfg)
			if err != nil {
				return err
			}
			opts.ReadOnly = true
			progress, err := app.NewProgressStore(ctx, b.storage, opts)
			if err != nil {
				return err
			}
			lb := progress.Leaderboard()

			if xlsxPath == "" {
				return report.WriteTable(cmd.OutOrStdout(), lb)
			}
			f, err := os.Create(xlsxPath)
			if err != nil {
				return err
			}
			if err := report.WriteXLSX(f, lb); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d entries to %s\n", len(lb.Entries), xlsxPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the leaderboard to this .xlsx file instead of printing it")
	return cmd
}
