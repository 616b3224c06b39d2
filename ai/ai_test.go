package ai_test

import (
	"context"
	"errors"
	"testing"

	"ametogo/ai"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCompleter replays a canned response or error and records the request.
type stubCompleter struct {
	content string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (s *stubCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.content}},
		},
	}, nil
}

func TestModeratePhotoSafeVerdict(t *testing.T) {
	stub := &stubCompleter{content: `{"isSafe": true}`}
	svc := ai.NewWithClient(stub, "test-model")

	result := svc.ModeratePhoto(context.Background(), "data:image/jpeg;base64,AAAA")
	assert.True(t, result.IsSafe)
	assert.Equal(t, "test-model", stub.lastReq.Model)
}

func TestModeratePhotoUnsafeVerdictWithReason(t *testing.T) {
	stub := &stubCompleter{content: `{"isSafe": false, "reason": "Nudity detected."}`}
	svc := ai.NewWithClient(stub, "test-model")

	result := svc.ModeratePhoto(context.Background(), "data:image/jpeg;base64,AAAA")
	assert.False(t, result.IsSafe)
	assert.Equal(t, "Nudity detected.", result.Reason)
}

func TestModeratePhotoFailsClosedOnServiceError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("upstream down")}
	svc := ai.NewWithClient(stub, "test-model")

	result := svc.ModeratePhoto(context.Background(), "data:image/jpeg;base64,AAAA")
	assert.False(t, result.IsSafe)
	assert.NotEmpty(t, result.Reason)
}

func TestModeratePhotoFailsClosedOnGarbageResponse(t *testing.T) {
	stub := &stubCompleter{content: "I cannot help with that."}
	svc := ai.NewWithClient(stub, "test-model")

	result := svc.ModeratePhoto(context.Background(), "data:image/jpeg;base64,AAAA")
	assert.False(t, result.IsSafe)
}

func TestModeratePhotoSendsImageAsPart(t *testing.T) {
	stub := &stubCompleter{content: `{"isSafe": true}`}
	svc := ai.NewWithClient(stub, "test-model")

	uri := "data:image/png;base64,BBBB"
	svc.ModeratePhoto(context.Background(), uri)

	require.Len(t, stub.lastReq.Messages, 1)
	parts := stub.lastReq.Messages[0].MultiContent
	require.Len(t, parts, 2)
	require.NotNil(t, parts[1].ImageURL)
	assert.Equal(t, uri, parts[1].ImageURL.URL)
}

func TestReviewReportVerdict(t *testing.T) {
	stub := &stubCompleter{content: `{"isContentInappropriate": true, "llmReasoning": "Hate speech in bio."}`}
	svc := ai.NewWithClient(stub, "test-model")

	verdict, err := svc.ReviewReport(context.Background(), ai.ReportInput{
		ProfileID:       "abc",
		ReporterID:      "def",
		ContentType:     "bio",
		ReportedContent: "some bio text",
		Reason:          "offensive",
	})
	require.NoError(t, err)
	assert.True(t, verdict.Inappropriate)
	assert.Equal(t, "Hate speech in bio.", verdict.Reasoning)
}

func TestReviewReportFailsClosedOnError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("timeout")}
	svc := ai.NewWithClient(stub, "test-model")

	verdict, err := svc.ReviewReport(context.Background(), ai.ReportInput{
		ContentType:     "bio",
		ReportedContent: "text",
	})
	assert.Error(t, err)
	assert.True(t, verdict.Inappropriate, "a failed review must flag, not clear")
}

func TestIcebreakersExactlyThree(t *testing.T) {
	stub := &stubCompleter{content: `{"icebreakers": ["a", "b", "c"]}`}
	svc := ai.NewWithClient(stub, "test-model")

	out, err := svc.Icebreakers(context.Background(),
		ai.ProfileSummary{Name: "Afi", Passions: []string{"Musique"}},
		ai.ProfileSummary{Name: "Koffi", Passions: []string{"Musique", "Cuisine"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, out)
}

func TestIcebreakersRejectsWrongCount(t *testing.T) {
	stub := &stubCompleter{content: `{"icebreakers": ["a", "b"]}`}
	svc := ai.NewWithClient(stub, "test-model")

	out, err := svc.Icebreakers(context.Background(), ai.ProfileSummary{}, ai.ProfileSummary{})
	assert.Error(t, err)
	assert.Nil(t, out)
}

func TestIcebreakersPropagatesServiceError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("rate limited")}
	svc := ai.NewWithClient(stub, "test-model")

	out, err := svc.Icebreakers(context.Background(), ai.ProfileSummary{}, ai.ProfileSummary{})
	assert.Error(t, err)
	assert.Nil(t, out)
}
