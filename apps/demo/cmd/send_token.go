package cmd

import (
	"github.com/google/uuid"
	"github.com/slush-dev/minisdk"
	"github.com/slush-dev/minisdk/push"
	"github.com/spf13/cobra"
)

var sendTokenCmd = &cobra.Command{
	Use:   "send-token [token]",
	Short: "Store and report a push token (a random fcm-<uuid> token if omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := "fcm-" + uuid.NewString()
		if len(args) == 1 {
			token = args[0]
		}

		s, err := openSession(minisdk.NewStdoutLogger(cmd.OutOrStdout()))
		if err != nil {
			return err
		}
		bridge := push.NewBridge(s.sdk)
		waitErr := bridge.HandleToken(token).Wait(cmd.Context())
		if err := s.Close(cmd.Context()); err != nil {
			return err
		}
		return waitErr
	},
}

func init() {
	rootCmd.AddCommand(sendTokenCmd)
}
