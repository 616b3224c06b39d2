package ai

import (
	"context"
	"encoding/json"
	"log"

	"github.com/sashabaranov/go-openai"
)

type ModerationResult struct {
	IsSafe bool   `json:"isSafe"`
	Reason string `json:"reason,omitempty"`
}

const moderationPrompt = `You are an AI content moderator specializing in identifying inappropriate profile pictures for a dating app.

You are provided with a photo of a user profile, and you need to determine if it is safe for display.

Consider the following criteria:
- No sexually explicit content or nudity
- No violent content
- No hateful symbols

If the image violates any of these criteria, set isSafe to false and explain why in reason. Otherwise, set isSafe to true.

Respond with a JSON object: {"isSafe": bool, "reason": string}.`

// ModeratePhoto classifies a profile photo given as a data URI. Any failure
// of the service, transport or parsing maps to isSafe=false with a generic
// reason: an unverifiable photo is rejected, never accepted unchecked.
func (s *Service) ModeratePhoto(ctx context.Context, photoDataURI string) ModerationResult {
	content, err := s.completeJSON(ctx, []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: moderationPrompt},
				{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: photoDataURI},
				},
			},
		},
	})
	if err != nil {
		log.Printf("Photo moderation call failed: %v", err)
		return ModerationResult{IsSafe: false, Reason: "Error processing image."}
	}

	var result ModerationResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		log.Printf("Photo moderation returned unparseable verdict: %v", err)
		return ModerationResult{IsSafe: false, Reason: "Error processing image."}
	}
	return result
}

type ReportInput struct {
	ProfileID       string
	ReporterID      string
	ContentType     string // photo or bio
	ReportedContent string // data URI for photos, plain text for bios
	Reason          string
}

type ReportVerdict struct {
	Inappropriate bool   `json:"isContentInappropriate"`
	Reasoning     string `json:"llmReasoning"`
}

const reportSystemPrompt = `You are a content moderator for a dating app called AméTogo. You review reported content and determine whether it violates the platform guidelines:

- Photos must not be sexually explicit, suggestive, or exploit, abuse or endanger children.
- Bios must not contain hate speech, harassment, or promote violence.

Respond with a JSON object: {"isContentInappropriate": bool, "llmReasoning": string}.`

// ReviewReport asks the model to judge reported content. When the review
// itself fails, the returned verdict flags the content for human review
// (inappropriate until proven otherwise) and the error is passed back so
// the caller can offer a retry.
func (s *Service) ReviewReport(ctx context.Context, in ReportInput) (ReportVerdict, error) {
	userMsg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	reportText := "User " + in.ReporterID + " reported content from profile " + in.ProfileID +
		". Content type: " + in.ContentType + ". Reason for the report: " + in.Reason + "."
	if in.ContentType == "photo" {
		userMsg.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: reportText},
			{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: in.ReportedContent},
			},
		}
	} else {
		userMsg.Content = reportText + "\n\nReported bio:\n" + in.ReportedContent
	}

	content, err := s.completeJSON(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: reportSystemPrompt},
		userMsg,
	})
	if err != nil {
		log.Printf("Report review call failed: %v", err)
		return ReportVerdict{Inappropriate: true, Reasoning: "Review unavailable, flagged for human review."}, err
	}

	var verdict ReportVerdict
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		log.Printf("Report review returned unparseable verdict: %v", err)
		return ReportVerdict{Inappropriate: true, Reasoning: "Review unavailable, flagged for human review."}, err
	}
	return verdict, nil
}
