package cmd

import (
	"fmt"

	"github.com/slush-dev/minisdk/apps/demo/internal/config"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Show the stored push token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(sessionDir)
		if err != nil {
			return err
		}
		store, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		token, ok := store.Token()
		out := cmd.OutOrStdout()
		if useYAML {
			status := map[string]any{
				"store":       cfg.Store,
				"session_dir": cfg.SessionDir,
			}
			if ok {
				status["push_token"] = token
			}
			yamlOut(out, status)
			return nil
		}

		fmt.Fprintf(out, "Store:       %s\n", cfg.Store)
		if !ok {
			fmt.Fprintln(out, "Push token:  (none)")
			return nil
		}
		fmt.Fprintf(out, "Push token:  %s\n", token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
