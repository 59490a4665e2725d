package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eulens/eulens/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question against the indexed documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the transcript as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	question := joinArgs(args)
	transcript := []domain.ChatMessage{domain.NewUserMessage(question)}

	answer, err := chatService.Answer(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("question failed: %w", describe(err))
	}
	transcript = append(transcript, domain.NewAssistantMessage(answer))

	if askJSON {
		data, err := json.MarshalIndent(transcript, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal transcript: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Response)
	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, s := range answer.Sources {
			cmd.Printf("  %s (%s) %s\n", s.Name, formatRelevance(s.Relevance), s.URL)
		}
	}
	return nil
}

// formatRelevance renders a score as a whole percentage, e.g. "85% match"
func formatRelevance(score float64) string {
	return fmt.Sprintf("%.0f%% match", score*100)
}
