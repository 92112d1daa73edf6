package fallback

import (
	"strings"

	"github.com/hyperifyio/studysphere/internal/llm"
	"github.com/hyperifyio/studysphere/internal/study"
)

var bundleNotes = map[Class]string{
	NotConfigured:     "the AI service is not configured (set LLM_API_KEY to enable it)",
	QuotaExceeded:     "the AI service quota has been exceeded",
	InvalidCredential: "the AI service rejected the configured API key",
	TransportError:    "the AI service could not be reached",
	UpstreamError:     "the AI service returned an error",
	EmptyResponse:     "the AI service returned an empty response",
	ParseError:        "the AI response could not be read",
}

var scienceKeywords = []string{"photosynthesis", "biology", "cell"}

// Bundle returns the study bundle substituted for a failed bundle call: a
// topic-aware sample bundle whose explanation ends with a note naming the
// failure.
func Bundle(o llm.Outcome, text string) study.Bundle {
	var b study.Bundle
	if isScience(text) {
		b = scienceBundle()
	} else {
		b = genericBundle()
	}
	b.Explanation += "\n\nNote: this is a sample study guide because " + lookup(bundleNotes, Classify(o)) + "."
	return b
}

func isScience(text string) bool {
	lower := strings.ToLower(text)
	for _, k := range scienceKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func scienceBundle() study.Bundle {
	return study.Bundle{
		Summary: []string{
			"Photosynthesis is the process by which plants make their own food using sunlight",
			"Plants use carbon dioxide from air and water from soil as raw materials",
			"Chlorophyll in leaves captures light energy to power the process",
			"Oxygen is released as a byproduct of photosynthesis",
			"This process is essential for life on Earth as it produces oxygen and food",
		},
		Quiz: []study.BundleQuestion{
			{
				Question:      "What do plants use to capture light energy for photosynthesis?",
				Options:       []string{"Chlorophyll", "Carbon dioxide", "Water", "Oxygen"},
				CorrectAnswer: "A",
			},
			{
				Question:      "What gas is released as a byproduct of photosynthesis?",
				Options:       []string{"Carbon dioxide", "Nitrogen", "Oxygen", "Hydrogen"},
				CorrectAnswer: "C",
			},
			{
				Question:      "What are the main raw materials plants need for photosynthesis?",
				Options:       []string{"Oxygen and nitrogen", "Carbon dioxide and water", "Hydrogen and helium", "Methane and ammonia"},
				CorrectAnswer: "B",
			},
			{
				Question:      "Where does photosynthesis primarily occur in plants?",
				Options:       []string{"Roots", "Stems", "Leaves", "Flowers"},
				CorrectAnswer: "C",
			},
			{
				Question:      "What is the main source of energy for photosynthesis?",
				Options:       []string{"Wind", "Sunlight", "Heat from soil", "Chemical reactions"},
				CorrectAnswer: "B",
			},
		},
		Explanation: "Think of photosynthesis like a kitchen in a plant! Plants are like little chefs that make their own food. " +
			"They use sunlight as their energy source, just like we use electricity for our kitchen appliances. " +
			"The plants take in carbon dioxide from the air (like ingredients from the pantry) and water from their roots (like getting water from the tap). " +
			"Then, using the green stuff in their leaves called chlorophyll (which is like their cooking tools), they mix everything together with sunlight to make sugar, which is their food! " +
			"As a bonus, they make oxygen and release it into the air for us to breathe.",
	}
}

func genericBundle() study.Bundle {
	return study.Bundle{
		Summary: []string{
			"This document contains important study material that has been processed by StudySphere",
			"Key concepts and main ideas have been identified and extracted",
			"The content covers fundamental principles and practical applications",
			"Important definitions and terminology are highlighted throughout",
			"The material is structured to build understanding progressively",
		},
		Quiz: []study.BundleQuestion{
			{
				Question:      "What is the main purpose of this study material?",
				Options:       []string{"Entertainment", "Education and learning", "Marketing", "Data collection"},
				CorrectAnswer: "B",
			},
			{
				Question:      "How does StudySphere help students learn?",
				Options:       []string{"By replacing teachers", "By providing AI-powered study tools", "By giving answers directly", "By eliminating homework"},
				CorrectAnswer: "B",
			},
			{
				Question:      "What type of content can be uploaded to StudySphere?",
				Options:       []string{"Only text files", "Documents, images, and videos", "Only PDFs", "Only handwritten notes"},
				CorrectAnswer: "B",
			},
			{
				Question:      "What happens after uploading content to StudySphere?",
				Options:       []string{"Nothing", "AI processes and creates study materials", "Content is deleted", "Only storage occurs"},
				CorrectAnswer: "B",
			},
			{
				Question:      "What is the benefit of using AI for studying?",
				Options:       []string{"It's slower than traditional methods", "It provides personalized and efficient learning", "It's more expensive", "It replaces human thinking"},
				CorrectAnswer: "B",
			},
		},
		Explanation: "This study material is designed to help you learn more effectively! Think of StudySphere like having a smart study buddy who never gets tired. " +
			"When you upload your documents, the AI reads through everything carefully and picks out the most important parts, just like when a friend highlights the key points in your textbook. " +
			"Then it creates questions to test your knowledge, kind of like having a practice quiz before the real test. " +
			"It also explains difficult concepts in simple words, making complex topics easier to understand.",
	}
}
