package cmd

import (
	"fmt"

	"skillpractice/backend/legacy"
	"skillpractice/backend/store"

	"github.com/spf13/cobra"
)

var importLegacyCmd = &cobra.Command{
	Use:   "import-legacy",
	Short: "Import users.json and progress.json from the file-backed version",
	RunE: func(cmd *cobra.Command, args []string) error {
		usersPath, _ := cmd.Flags().GetString("users")
		progressPath, _ := cmd.Flags().GetString("progress")

		rt, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		im := legacy.NewImporter(store.NewUserStore(rt.db, rt.log), store.NewProgressStore(rt.db, rt.log), rt.log)
		report, err := im.Import(cmd.Context(), usersPath, progressPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Users:    %d migrated, %d skipped, %d failed\n",
			report.Users.Migrated, report.Users.Skipped, report.Users.Failed)
		fmt.Fprintf(out, "Progress: %d migrated, %d skipped, %d failed\n",
			report.Progress.Migrated, report.Progress.Skipped, report.Progress.Failed)
		return nil
	},
}

func init() {
	importLegacyCmd.Flags().String("users", "data/users.json", "Legacy users file")
	importLegacyCmd.Flags().String("progress", "data/progress.json", "Legacy progress file")
}
