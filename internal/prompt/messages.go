package prompt

import "strings"

const (
	// SummarySystem is the system message of the summary task.
	SummarySystem = "You are an AI study assistant. Provide concise, educational summaries of academic content."
	// QuizSystem is the system message of the quiz task.
	QuizSystem = "You are an AI study assistant that creates educational quiz questions. Always respond with valid JSON only."

	chatPreamble = "You are StudySphere, an AI study assistant. Help users understand their study materials by answering questions based on the provided document context. Be helpful, educational, and encouraging."
)

func chatSystem(docContext string) string {
	var sb strings.Builder
	sb.WriteString(chatPreamble)
	sb.WriteString("\n\nDocument Context:\n")
	sb.WriteString(docContext)
	return sb.String()
}

func summaryUser(text string) string {
	return "Please provide a comprehensive summary of the following text in 3-4 paragraphs, focusing on key concepts and main ideas:\n\n" + text
}

func quizUser(text string) string {
	var sb strings.Builder
	sb.WriteString("You are an AI study assistant. Create 5 multiple-choice questions based on the following text.\n\n")
	sb.WriteString("**Instructions:**\n")
	sb.WriteString("- Output only valid JSON.\n")
	sb.WriteString("- The \"answer\" must repeat the text of the correct option exactly.\n")
	sb.WriteString("- Format:\n")
	sb.WriteString(`{
  "quiz": [
    {
      "question": "Question text",
      "options": ["Option1", "Option2", "Option3", "Option4"],
      "answer": "Option2"
    }
  ]
}`)
	sb.WriteString("\n\nText: ")
	sb.WriteString(text)
	return sb.String()
}

func bundleUser(text string) string {
	var sb strings.Builder
	sb.WriteString(`You are an AI Study Assistant that helps students learn faster by:
- Summarizing study material clearly and concisely
- Creating engaging quiz questions
- Explaining complex ideas in simpler terms

Given the following input text, perform these tasks in order:

1. SUMMARIZATION
Produce a clear summary in bullet points.
Focus on main ideas, key facts, and important concepts.
Keep it concise but complete, 5-10 bullet points maximum.

2. QUIZ CREATION
Create 5 multiple-choice questions based on the text.
Each question must:
- Be clear and unambiguous
- Have 1 correct answer and 3 plausible distractors

3. SIMPLIFIED EXPLANATION
Rewrite the content in simpler language, as if explaining to a 10-year-old.
Use short sentences and everyday words.
Include examples or analogies if helpful.

CONSTRAINTS:
- Do not invent information not present in the text
- Keep answers factually correct
- Maintain a neutral, academic tone

INPUT TEXT:
`)
	sb.WriteString(text)
	sb.WriteString(`

Please respond with a JSON object in this exact format:
{
  "summary": ["bullet point 1", "bullet point 2"],
  "quiz": [
    {
      "question": "Question text here?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": "A"
    }
  ],
  "explanation": "Simple explanation text here..."
}`)
	return sb.String()
}
