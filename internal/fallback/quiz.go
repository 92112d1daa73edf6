package fallback

import (
	"fmt"

	"github.com/hyperifyio/studysphere/internal/llm"
	"github.com/hyperifyio/studysphere/internal/quiz"
)

const allOfTheAbove = 3

func single(question string, options []string, correct int, explanation string) quiz.Question {
	return quiz.Question{
		ID:            1,
		Type:          quiz.MultipleChoice,
		Question:      question,
		Options:       options,
		CorrectAnswer: quiz.IndexAnswer(correct),
		Explanation:   explanation,
	}
}

var quizTable = map[Class]func(llm.Outcome) quiz.Question{
	NotConfigured: func(llm.Outcome) quiz.Question {
		return single("What is the main topic of this document?",
			[]string{"Educational content analysis", "Document processing", "Study techniques", "Information extraction"},
			0,
			"AI quiz generation is not configured. Set the LLM_API_KEY environment variable to generate personalized quiz questions.")
	},
	QuotaExceeded: func(llm.Outcome) quiz.Question {
		return single("Your AI service quota has been exceeded. What should you do?",
			[]string{"Check your provider billing", "Upgrade your plan", "Wait for the quota to reset", "All of the above"},
			allOfTheAbove,
			"Please check your AI provider billing and usage limits to continue using AI features.")
	},
	InvalidCredential: func(llm.Outcome) quiz.Question {
		return single("The AI service rejected the configured API key. What should you do?",
			[]string{"Check the LLM_API_KEY setting", "Create a new API key", "Verify the provider base URL", "All of the above"},
			allOfTheAbove,
			"The API key was rejected by the AI service. Please check your credentials and try again.")
	},
	TransportError: func(llm.Outcome) quiz.Question {
		return single("What should you do when AI quiz generation is unavailable?",
			[]string{"Check your AI service configuration", "Verify your internet connection", "Try submitting the content again", "All of the above"},
			allOfTheAbove,
			"The AI service could not be reached. AI features require network access and a valid API key with available quota.")
	},
	UpstreamError: func(o llm.Outcome) quiz.Question {
		return single("AI quiz generation encountered an error. What should you try?",
			[]string{"Check your internet connection", "Verify the AI service configuration", "Try submitting the content again", "All of the above"},
			allOfTheAbove,
			"AI service error: "+detail(o)+". Please check your configuration and try again.")
	},
	EmptyResponse: func(llm.Outcome) quiz.Question {
		return single("Quiz generation returned an empty response. What should you try?",
			[]string{"Try again", "Check the API configuration", "Submit different content", "All of the above"},
			allOfTheAbove,
			"The AI service returned an empty response. Please try again.")
	},
	ParseError: func(llm.Outcome) quiz.Question {
		return single("There was an error processing the quiz response. What should you do?",
			[]string{"Try again", "Check your content", "Verify API settings", "All of the above"},
			allOfTheAbove,
			"The quiz generation encountered a processing error. Please try again.")
	},
}

// Quiz returns the single-question quiz substituted for a failed quiz call.
// The explanation ends with the word count of text.
func Quiz(o llm.Outcome, text string) []quiz.Question {
	q := lookup(quizTable, Classify(o))(o)
	q.Explanation = fmt.Sprintf("%s The submitted text has %d words.", q.Explanation, WordCount(text))
	return []quiz.Question{q}
}
