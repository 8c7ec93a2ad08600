package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/log"
	"github.com/example/ibozctl/internal/provider"
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Fetch a batch of messages through the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := loadClient()
		if err != nil {
			return err
		}
		resp, err := client.FetchMessages(cmd.Context())
		if err != nil {
			return fmt.Errorf("unable to fetch messages: %w", err)
		}
		log.Printf("Fetched %d messages", len(resp.Messages))
		return writeMessages(cmd.OutOrStdout(), resp)
	},
}

func init() {
	rootCmd.AddCommand(messagesCmd)
}

func writeMessages(out io.Writer, resp *api.MessagesResponse) error {
	if len(resp.Messages) == 0 {
		fmt.Fprintln(out, "No messages.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "received\tfrom\tsubject\tlabels")
	fmt.Fprintln(w, "--------\t----\t-------\t------")
	for _, msg := range resp.Messages {
		subject := msg.Subject
		if msg.Importance == "high" {
			subject = "! " + subject
		}
		received := msg.ReceivedAt
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			provider.FormatTimestamp(&received),
			msg.Sender,
			subject,
			strings.Join(msg.Labels, ","),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nSynced %s\n", provider.FormatTimestamp(resp.SyncedAt))
	return nil
}
