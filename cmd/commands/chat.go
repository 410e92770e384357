package commands

import (
	"bufio"
	"fmt"
	"strings"

	"cureconnect/internal/chatbot"

	"github.com/spf13/cobra"
)

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the medical assistant in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			conversation := chatbot.NewConversation(nil)

			fmt.Fprintf(out, "bot> %s\n", conversation.Messages()[0].Text)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "you> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}

				line := scanner.Text()
				switch strings.ToLower(strings.TrimSpace(line)) {
				case "exit", "quit":
					return nil
				}

				if reply, ok := conversation.Send(line); ok {
					fmt.Fprintf(out, "bot> %s\n", reply.Text)
				}
			}
		},
	}
}
