package cmd

import (
	"fmt"
	"strings"

	"github.com/slush-dev/minisdk"
	"github.com/slush-dev/minisdk/push"
	"github.com/spf13/cobra"
)

var pushOpened bool

var simulatePushCmd = &cobra.Command{
	Use:   "simulate-push [key=value ...]",
	Short: "Feed a push notification through the SDK",
	Long: `Build a push data message from key=value pairs and report it as received.
With --opened the notification is also reported as opened.`,
	Example: `  minisdk-demo simulate-push message_id=m1 title=Hello --opened`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appData := make([]push.KeyValue, 0, len(args))
		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok || key == "" {
				return fmt.Errorf("invalid data entry %q: want key=value", arg)
			}
			appData = append(appData, push.KeyValue{Key: key, Value: value})
		}
		n, err := push.ParseDataMessage(nil, appData)
		if err != nil {
			return err
		}

		s, err := openSession(minisdk.NewStdoutLogger(cmd.OutOrStdout()))
		if err != nil {
			return err
		}
		bridge := push.NewBridge(s.sdk)
		ops := []*minisdk.Op{bridge.Presented(n)}
		if pushOpened {
			ops = append(ops, bridge.Opened(n))
		}
		waitErr := minisdk.WaitAll(cmd.Context(), ops...)
		if err := s.Close(cmd.Context()); err != nil {
			return err
		}
		if waitErr != nil {
			return waitErr
		}

		if useYAML {
			yamlOut(cmd.OutOrStdout(), map[string]any{"id": n.ID, "opened": pushOpened})
		}
		return nil
	},
}

func init() {
	simulatePushCmd.Flags().BoolVar(&pushOpened, "opened", false, "Also report the notification as opened")
	rootCmd.AddCommand(simulatePushCmd)
}
