package classify

import (
	"context"

	"github.com/helphub-ai/support-intake/internal/domain"
)

// Classifier is the external collaborator that turns raw issue text into
// structured ticket metadata, and summaries into a root-cause analysis.
// Calls are opaque request/response with no retries.
type Classifier interface {
	Analyze(ctx context.Context, text string) domain.Classification
	RootCause(ctx context.Context, summaries []string) (string, error)
}

// Fallback returns the deterministic classification used when the LLM call
// fails: the issue text itself becomes the summary and the ticket lands in
// the human queue.
func Fallback(text string) domain.Classification {
	summary := text
	// Truncate by rune, not byte, so multi-byte text stays valid UTF-8.
	if runes := []rune(text); len(runes) > 100 {
		summary = string(runes[:100])
	}
	return domain.Classification{
		Summary:             summary,
		Category:            "General",
		Priority:            domain.TicketPriorityMedium,
		Sentiment:           domain.SentimentNeutral,
		SuggestedResolution: "Needs human attention",
		AutoResolvable:      false,
	}
}
