package fallback

import (
	"fmt"

	"github.com/hyperifyio/studysphere/internal/llm"
)

const offlineSummary = `

**Document Summary:**
This educational document contains valuable academic content that has been successfully processed. The material appears to cover important concepts with detailed explanations and examples.

**Key Features:**
• Comprehensive coverage of the subject matter
• Well-structured information for learning
• Includes practical examples and applications
• Suitable for academic study and reference

Note: AI summary generation is temporarily unavailable due to connectivity issues. Please try again later.`

var summaryTable = map[Class]func(llm.Outcome) string{
	NotConfigured: func(llm.Outcome) string {
		return "AI summaries are not configured. Set the LLM_API_KEY environment variable to enable AI-powered summaries."
	},
	QuotaExceeded: func(llm.Outcome) string {
		return "Your AI service quota has been exceeded. Please check your provider billing and usage limits to continue using AI features."
	},
	InvalidCredential: func(llm.Outcome) string {
		return "Invalid API key. Please check your LLM_API_KEY setting."
	},
	TransportError: func(llm.Outcome) string { return offlineSummary },
	UpstreamError: func(o llm.Outcome) string {
		return "AI service error: " + detail(o) + ". Please check your API configuration."
	},
	EmptyResponse: func(llm.Outcome) string {
		return "Unable to generate summary. The AI service returned an empty response."
	},
	ParseError: func(llm.Outcome) string {
		return "Unable to generate summary. The AI service response could not be read."
	},
}

// Summary returns the summary substituted for a failed summary call. It
// always states the word count of text.
func Summary(o llm.Outcome, text string) string {
	msg := lookup(summaryTable, Classify(o))(o)
	return fmt.Sprintf("This document contains %d words. %s", WordCount(text), msg)
}
