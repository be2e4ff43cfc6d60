package cmd

import (
	"fmt"

	"github.com/slush-dev/minisdk"
	"github.com/slush-dev/minisdk/apps/demo/internal/demoui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the interactive demo screen",
	Long: `Open a single-screen terminal UI with a test button. Pressing it tracks
a button_clicked event. Terminal focus changes are reported as app
foreground and background transitions. The SDK log is printed on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rec := &minisdk.RecordingLogger{}
		s, err := openSession(rec)
		if err != nil {
			return err
		}

		notifier := minisdk.NewLifecycleNotifier()
		if err := s.startLifecycle(cmd.Context(), notifier); err != nil {
			return err
		}
		notifier.Post(minisdk.Foregrounded)

		uiErr := demoui.Run(cmd.Context(), s.sdk, notifier, rec)
		closeErr := s.Close(cmd.Context())

		out := cmd.OutOrStdout()
		for _, msg := range rec.Messages() {
			fmt.Fprintf(out, "[SDK] %s\n", msg)
		}
		if uiErr != nil {
			return uiErr
		}
		return closeErr
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
