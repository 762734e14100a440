package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sikshasathi/sathi/internal/history"
	"github.com/sikshasathi/sathi/internal/sathi"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse conversations saved on the server",
	Long: `Browse conversations previously saved on the server.

Saved conversations are read-only; entries with a malformed or empty
stored history are skipped.`,
}

// historyListCmd represents the history list command
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := newClient()
		if err != nil {
			return err
		}

		browser := history.NewBrowser(bundle.Client)
		sessions, err := browser.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing saved chats: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No chat history available.")
			fmt.Println("\nSave a conversation with:")
			fmt.Println("  sathi chat --save \"your message\"")
			return nil
		}

		// Print table header
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tTITLE\tCREATED\tTURNS")
		fmt.Fprintln(w, "-\t-----\t-------\t-----")

		for i, sess := range sessions {
			title := sess.ChatTitle
			if title == "" {
				title = "-"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n",
				i+1,
				title,
				sess.CreatedDate.Format("2006-01-02 15:04"),
				len(sess.Data.ChatHistory),
			)
		}
		w.Flush()

		fmt.Println("\nUse 'sathi history show <#>' to view a conversation.")
		return nil
	},
}

// historyShowCmd represents the history show command
var historyShowCmd = &cobra.Command{
	Use:   "show <#>",
	Short: "Show one saved conversation",
	Long: `Show one saved conversation in full.

The argument is the row number from 'sathi history list'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil || index < 1 {
			return fmt.Errorf("invalid conversation number: %s", args[0])
		}

		bundle, err := newClient()
		if err != nil {
			return err
		}

		browser := history.NewBrowser(bundle.Client)
		sessions, err := browser.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing saved chats: %w", err)
		}
		if index > len(sessions) {
			return fmt.Errorf("conversation %d not found (%d available)", index, len(sessions))
		}

		sess := sessions[index-1]
		fmt.Printf("Title: %s\n", sess.ChatTitle)
		fmt.Printf("Created: %s\n", sess.CreatedDate.Format("2006-01-02 15:04:05"))
		fmt.Printf("Turns: %d\n\n", len(sess.Data.ChatHistory))

		for _, msg := range browser.Detail(sess) {
			label := "You"
			if msg.Sender == sathi.SenderAI {
				label = "Sathi"
			}
			fmt.Printf("%s> %s\n\n", label, msg.Text)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
}
