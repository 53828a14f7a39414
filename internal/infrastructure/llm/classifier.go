package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"HealthNewsRelay/internal/ports"
)

const classifierSystemPrompt = "Si klasifikátor správ. Odpovedaj presne jedným slovom " +
	"ÁNO alebo NIE na prvom riadku a krátkym zdôvodnením na druhom riadku."

// Affirmative tokens accepted on the first response line.
var affirmativeTokens = []string{"áno", "ano", "yes"}

// RelevanceClassifier implements ports.Classifier over the OpenAI client.
type RelevanceClassifier struct {
	apiKey string
	model  string
	client openai.Client
}

var _ ports.Classifier = (*RelevanceClassifier)(nil)

// NewClassifier builds the classifier.
func NewClassifier(apiKey, model string) *RelevanceClassifier {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &RelevanceClassifier{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Configured reports whether an API key is present.
func (c *RelevanceClassifier) Configured() bool { return c.apiKey != "" }

// Classify asks whether the text covers health or science news. The verdict
// comes from the first line of the response; the rest is the reason.
func (c *RelevanceClassifier) Classify(ctx context.Context, title, body string) (bool, string, error) {
	prompt := fmt.Sprintf(
		"Je nasledujúci text správou o zdraví, medicíne alebo vede?\n\nNázov: %s\n\nText: %s",
		title, body)

	response, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(classifierSystemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(100),
	})
	if err != nil {
		return false, "", fmt.Errorf("classifier request failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return false, "", fmt.Errorf("no response from classifier")
	}

	verdict, reason := ParseVerdict(response.Choices[0].Message.Content)
	return verdict, reason, nil
}

// ParseVerdict splits a model response into the yes/no verdict and the free
// text reason. Detection is lenient: the affirmative token just has to appear
// in the first line.
func ParseVerdict(content string) (bool, string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false, ""
	}

	firstLine := trimmed
	reason := ""
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		firstLine = trimmed[:idx]
		reason = strings.TrimSpace(trimmed[idx+1:])
	}
	if reason == "" {
		reason = firstLine
	}

	lower := strings.ToLower(firstLine)
	for _, token := range affirmativeTokens {
		if strings.Contains(lower, token) {
			return true, reason
		}
	}
	return false, reason
}
