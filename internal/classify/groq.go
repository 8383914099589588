package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/helphub-ai/support-intake/internal/config"
	"github.com/helphub-ai/support-intake/internal/domain"
)

const analyzePromptTemplate = `Analyze this customer service issue and provide structured JSON:
Issue: %s
{"summary": "...", "category": "...", "priority": "...", "sentiment": "...", "suggested_resolution": "...", "auto_resolvable": true/false}`

const rootCausePromptTemplate = `Based on the following list of customer support ticket summaries, what is the likely single root cause or common theme?
Provide a concise, one-paragraph analysis written for a business manager. Focus on the core problem.

Summaries:
- %s`

// GroqClassifier calls the Groq chat-completions API.
type GroqClassifier struct {
	cfg    config.ClassifierConfig
	client *http.Client
	logger *zap.Logger
}

// NewGroqClassifier constructs the classifier client.
func NewGroqClassifier(cfg config.ClassifierConfig, logger *zap.Logger) *GroqClassifier {
	return &GroqClassifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Analyze classifies raw issue text. Any failure degrades to the
// deterministic fallback classification; this boundary never errors.
func (g *GroqClassifier) Analyze(ctx context.Context, text string) domain.Classification {
	content, err := g.complete(ctx, fmt.Sprintf(analyzePromptTemplate, text), 0.3)
	if err != nil {
		g.logger.Warn("classification failed, using fallback", zap.Error(err))
		return Fallback(text)
	}

	// Models wrap the JSON in prose; slice between the outermost braces.
	start, end := strings.Index(content, "{"), strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		g.logger.Warn("classification response had no JSON body")
		return Fallback(text)
	}

	var result domain.Classification
	if err := json.Unmarshal([]byte(content[start:end+1]), &result); err != nil {
		g.logger.Warn("classification response unparsable", zap.Error(err))
		return Fallback(text)
	}
	return result
}

// RootCause asks for a one-paragraph common-theme analysis over summaries.
func (g *GroqClassifier) RootCause(ctx context.Context, summaries []string) (string, error) {
	prompt := fmt.Sprintf(rootCausePromptTemplate, strings.Join(summaries, "\n- "))
	return g.complete(ctx, prompt, 0.5)
}

func (g *GroqClassifier) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	if g.cfg.APIKey == "" {
		return "", errors.New("classifier API key not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model:       g.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(g.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("classifier returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
