package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ProfileSummary is the lightweight view of a profile the icebreaker
// generator sees. Nothing else leaves the service.
type ProfileSummary struct {
	Name     string
	Passions []string
	Bio      string
}

const icebreakerSystemPrompt = `You are a fun, witty, and helpful dating assistant for an app called AméTogo.
Your goal is to help a user start a great conversation with their new match.

Based on their shared passions, or interesting points in their bios, generate three distinct, creative, and personalized icebreaker messages. The tone should be friendly, slightly playful, and encourage a response. Make them short and engaging. Don't use emojis.

Respond with a JSON object: {"icebreakers": [string, string, string]} with exactly three entries.`

// Icebreakers generates conversation starters for a fresh match. The
// contract is exactly three suggestions; anything else from the model is an
// error, not a partial result.
func (s *Service) Icebreakers(ctx context.Context, me, them ProfileSummary) ([]string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Current user: %s\n  Passions: %s\n  Bio: %s\n\n",
		me.Name, strings.Join(me.Passions, ", "), me.Bio)
	fmt.Fprintf(&b, "Matched user: %s\n  Passions: %s\n  Bio: %s\n",
		them.Name, strings.Join(them.Passions, ", "), them.Bio)

	content, err := s.completeJSON(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: icebreakerSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: b.String()},
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Icebreakers []string `json:"icebreakers"`
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("unparseable icebreaker response: %w", err)
	}
	if len(out.Icebreakers) != 3 {
		return nil, fmt.Errorf("expected exactly 3 icebreakers, got %d", len(out.Icebreakers))
	}
	return out.Icebreakers, nil
}
