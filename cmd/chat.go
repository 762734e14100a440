/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sikshasathi/sathi/internal/api"
	"github.com/sikshasathi/sathi/internal/chat"
)

var (
	interactive bool
	newChat     bool
	saveAfter   bool
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Send a message to the AI assistant",
	Long: `Send a message to the Siksha Sathi AI assistant and print the reply.

The conversation continues across invocations: the transcript is kept in
the state directory and sent with every message so the assistant has
context. Use --new to start a fresh conversation, --save to store the
transcript on the server after the reply, and -i for interactive mode.

If no message is provided as an argument, it reads from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := newClient()
		if err != nil {
			return err
		}

		transcriptPath, err := chat.TranscriptPath()
		if err != nil {
			return err
		}

		controller := chat.NewController(bundle.Client)
		if newChat {
			if err := chat.RemoveTranscript(transcriptPath); err != nil {
				return err
			}
		} else {
			transcript, err := chat.LoadTranscript(transcriptPath)
			if err != nil {
				return fmt.Errorf("loading transcript: %w", err)
			}
			controller.Restore(transcript.Messages, transcript.TurnHistory)
		}

		if interactive {
			return runInteractiveChat(cmd, controller, transcriptPath)
		}

		// Get message from arguments or stdin
		var message string
		if len(args) > 0 {
			message = strings.Join(args, " ")
		} else {
			input, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			message = strings.TrimSpace(string(input))
		}

		reply, err := controller.Send(cmd.Context(), message)
		if err != nil {
			var validationErr *api.ValidationError
			if errors.As(err, &validationErr) {
				return fmt.Errorf("nothing to send: %s", validationErr.Reason)
			}
			slog.Debug("send failed", "error", err)
			// The controller recorded a synthetic error message; persist
			// the transcript so the failure is visible in later output too.
			if saveErr := chat.SaveTranscript(transcriptPath, controller); saveErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save transcript: %v\n", saveErr)
			}
			return fmt.Errorf("%s", reply)
		}

		if err := chat.SaveTranscript(transcriptPath, controller); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save transcript: %v\n", err)
		}

		fmt.Println(reply)

		if saveAfter {
			if err := controller.Save(cmd.Context()); err != nil {
				return fmt.Errorf("saving chat on server: %w", err)
			}
			fmt.Fprintln(os.Stderr, "\nChat history saved on the server.")
		}
		return nil
	},
}

// runInteractiveChat starts an interactive conversation loop.
func runInteractiveChat(cmd *cobra.Command, controller *chat.Controller, transcriptPath string) error {
	fmt.Fprintln(os.Stderr, "\n=== Siksha Sathi AI ===")
	if n := len(controller.Messages()); n > 0 {
		fmt.Fprintf(os.Stderr, "Continuing conversation (%d messages)\n", n)
	}
	fmt.Fprintln(os.Stderr, "Type '/help' for commands, '/exit' or 'Ctrl+D' to quit")
	fmt.Fprintln(os.Stderr, "=======================")
	fmt.Fprintln(os.Stderr, "")

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprint(os.Stderr, "You> ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("input error: %w", err)
			}
			fmt.Fprintln(os.Stderr, "\nGoodbye!")
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if handleChatCommand(cmd, input, controller, transcriptPath) {
				continue
			}
			break
		}

		// Spinner while the request is in flight
		done := make(chan bool)
		go showSpinner(done)

		reply, err := controller.Send(cmd.Context(), input)

		done <- true
		close(done)

		if err != nil {
			// The classified notice is already in the transcript; show it
			// in place of a reply and keep the loop interactive.
			slog.Debug("send failed", "error", err)
			fmt.Fprintf(os.Stderr, "%s\n\n", reply)
			continue
		}

		if err := chat.SaveTranscript(transcriptPath, controller); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save transcript: %v\n", err)
		}

		fmt.Printf("\nSathi> %s\n\n", reply)
	}

	return nil
}

// showSpinner displays a spinner animation while waiting for response
func showSpinner(done chan bool) {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	i := 0
	for {
		select {
		case <-done:
			// Clear the spinner line
			fmt.Fprint(os.Stderr, "\r\033[K")
			return
		default:
			fmt.Fprintf(os.Stderr, "\r%s Waiting for response...", spinners[i])
			i = (i + 1) % len(spinners)
			time.Sleep(80 * time.Millisecond)
		}
	}
}

// handleChatCommand processes slash commands in interactive mode.
// Returns true to continue the loop, false to exit.
func handleChatCommand(cmd *cobra.Command, command string, controller *chat.Controller, transcriptPath string) bool {
	command = strings.ToLower(strings.TrimSpace(command))

	switch command {
	case "/help", "/h":
		fmt.Fprintln(os.Stderr, "\nAvailable commands:")
		fmt.Fprintln(os.Stderr, "  /help, /h     - Show this help message")
		fmt.Fprintln(os.Stderr, "  /save, /s     - Save the conversation on the server")
		fmt.Fprintln(os.Stderr, "  /clear, /c    - Clear the conversation and start over")
		fmt.Fprintln(os.Stderr, "  /info, /i     - Show conversation information")
		fmt.Fprintln(os.Stderr, "  /exit, /quit  - Exit interactive mode")
		fmt.Fprintln(os.Stderr, "  Ctrl+D        - Exit interactive mode")
		fmt.Fprintln(os.Stderr, "")
		return true

	case "/save", "/s":
		if err := controller.Save(cmd.Context()); err != nil {
			if errors.Is(err, chat.ErrNothingToSave) {
				fmt.Fprintln(os.Stderr, "No chat history to save.")
			} else {
				fmt.Fprintln(os.Stderr, api.UserMessage(err))
			}
			return true
		}
		fmt.Fprintln(os.Stderr, "Chat history saved successfully!")
		return true

	case "/clear", "/c":
		controller.Clear()
		if err := chat.RemoveTranscript(transcriptPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		fmt.Fprintln(os.Stderr, "Conversation cleared.")
		return true

	case "/info", "/i":
		fmt.Fprintln(os.Stderr, "\nConversation Information:")
		fmt.Fprintf(os.Stderr, "  Messages: %d\n", len(controller.Messages()))
		fmt.Fprintf(os.Stderr, "  Turns:    %d\n", len(controller.TurnHistory()))
		fmt.Fprintln(os.Stderr, "")
		return true

	case "/exit", "/quit", "/q":
		fmt.Fprintln(os.Stderr, "Goodbye!")
		return false

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s (type '/help' for available commands)\n", command)
		return true
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "start an interactive conversation")
	chatCmd.Flags().BoolVarP(&newChat, "new", "n", false, "start a fresh conversation")
	chatCmd.Flags().BoolVar(&saveAfter, "save", false, "save the conversation on the server after the reply")
}
