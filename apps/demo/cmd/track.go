package cmd

import (
	"github.com/slush-dev/minisdk"
	"github.com/spf13/cobra"
)

var trackPayload []string

var trackCmd = &cobra.Command{
	Use:   "track <name>",
	Short: "Track a named event",
	Example: `  minisdk-demo track button_clicked --payload screen=Main
  minisdk-demo track purchase --payload amount=9.99 --payload 'items=["a","b"]'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := parsePayload(trackPayload)
		if err != nil {
			return err
		}

		s, err := openSession(minisdk.NewStdoutLogger(cmd.OutOrStdout()))
		if err != nil {
			return err
		}
		op := s.sdk.TrackEvent(args[0], payload)
		waitErr := op.Wait(cmd.Context())
		if err := s.Close(cmd.Context()); err != nil {
			return err
		}
		return waitErr
	},
}

func init() {
	trackCmd.Flags().StringArrayVar(&trackPayload, "payload", nil, "Payload entry as key=value (repeatable; JSON values are embedded)")
	rootCmd.AddCommand(trackCmd)
}
