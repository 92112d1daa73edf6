package fallback

import "github.com/hyperifyio/studysphere/internal/llm"

var chatTable = map[Class]func(llm.Outcome) string{
	NotConfigured: func(llm.Outcome) string {
		return "⚠️ The AI service is not configured. Set the LLM_API_KEY environment variable to enable AI responses."
	},
	QuotaExceeded: func(llm.Outcome) string {
		return "⚠️ The AI service is rate limited or the document is too large for processing right now. I've received your question but need a smaller context to provide a good answer. Try again shortly, or ask about a specific section or topic from your document."
	},
	InvalidCredential: func(llm.Outcome) string {
		return "⚠️ The AI service rejected the configured API key. Please check your LLM_API_KEY setting."
	},
	TransportError: func(llm.Outcome) string {
		return "I encountered an error while reaching the AI service. Please check your connection and API configuration and try again."
	},
	UpstreamError: func(o llm.Outcome) string {
		return "I encountered an error while processing your request: " + detail(o) + ". Please try again with a shorter question or document."
	},
	EmptyResponse: func(llm.Outcome) string {
		return "I apologize, but I couldn't generate a response. Please try again."
	},
}

// Chat returns the assistant reply substituted for a failed chat call.
func Chat(o llm.Outcome) string {
	return lookup(chatTable, Classify(o))(o)
}
