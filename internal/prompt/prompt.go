// Package prompt turns a task, an assembled document context and the user's
// input into a chat completion request.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Task names one generation job.
type Task string

const (
	TaskChat    Task = "chat"
	TaskSummary Task = "summary"
	TaskQuiz    Task = "quiz"
	TaskBundle  Task = "bundle"
)

// ErrUnknownTask is returned for tasks outside the table.
var ErrUnknownTask = errors.New("unknown task")

// Params are the per-task generation settings. MaxTokens 0 leaves the
// output length to the model default.
type Params struct {
	MaxTokens   int
	Temperature float32
}

var params = map[Task]Params{
	TaskChat:    {MaxTokens: 1000, Temperature: 0.7},
	TaskSummary: {MaxTokens: 500, Temperature: 0.7},
	TaskQuiz:    {MaxTokens: 1000, Temperature: 0.7},
	TaskBundle:  {MaxTokens: 0, Temperature: 0.3},
}

// Tasks lists the recognized tasks in a stable order.
func Tasks() []Task { return []Task{TaskChat, TaskSummary, TaskQuiz, TaskBundle} }

// ParseTask accepts a task name case-insensitively.
func ParseTask(s string) (Task, error) {
	t := Task(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := params[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTask, s)
	}
	return t, nil
}

// ParamsFor returns the generation settings of a task.
func ParamsFor(t Task) (Params, error) {
	p, ok := params[t]
	if !ok {
		return Params{}, fmt.Errorf("%w: %q", ErrUnknownTask, t)
	}
	return p, nil
}

// Build composes the request for task. docContext is only used by TaskChat.
func Build(task Task, model string, docContext string, input string) (openai.ChatCompletionRequest, error) {
	p, err := ParamsFor(task)
	if err != nil {
		return openai.ChatCompletionRequest{}, err
	}
	var messages []openai.ChatCompletionMessage
	switch task {
	case TaskChat:
		messages = []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: chatSystem(docContext)},
			{Role: openai.ChatMessageRoleUser, Content: input},
		}
	case TaskSummary:
		messages = []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SummarySystem},
			{Role: openai.ChatMessageRoleUser, Content: summaryUser(input)},
		}
	case TaskQuiz:
		messages = []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: QuizSystem},
			{Role: openai.ChatMessageRoleUser, Content: quizUser(input)},
		}
	case TaskBundle:
		messages = []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: bundleUser(input)},
		}
	}
	return openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
	}, nil
}

// FramingChars is the length of the fixed chat prompt text around the
// document context, used to size the context budget.
func FramingChars(question string) int {
	return len(chatSystem("")) + len(question)
}
