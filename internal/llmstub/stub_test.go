package llmstub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hyperifyio/studysphere/internal/llm"
	"github.com/hyperifyio/studysphere/internal/normalize"
	"github.com/hyperifyio/studysphere/internal/prompt"
)

func TestStub_AnswersEveryTask(t *testing.T) {
	srv := httptest.NewServer(NewHandler("stub-model", "secret"))
	defer srv.Close()
	iv := &llm.Invoker{Client: llm.NewOpenAIProvider("secret", srv.URL+"/v1", srv.Client()), APIKey: "secret"}

	want := map[prompt.Task]string{
		prompt.TaskChat:    ChatReply,
		prompt.TaskSummary: SummaryReply,
		prompt.TaskQuiz:    QuizReply,
		prompt.TaskBundle:  BundleReply,
	}
	for _, task := range prompt.Tasks() {
		req, err := prompt.Build(task, "stub-model", "some context", "Plants and light.")
		if err != nil {
			t.Fatalf("build %s: %v", task, err)
		}
		out := iv.Invoke(context.Background(), req)
		if !out.OK() {
			t.Fatalf("%s: want success, got %+v", task, out)
		}
		if out.Text != want[task] {
			t.Fatalf("%s: text = %q", task, out.Text)
		}
	}
}

func TestStub_RepliesNormalize(t *testing.T) {
	qs, err := normalize.Quiz(QuizReply)
	if err != nil || len(qs) != 2 {
		t.Fatalf("quiz reply: %v (%d questions)", err, len(qs))
	}
	b, err := normalize.Bundle(BundleReply)
	if err != nil || !b.Complete() {
		t.Fatalf("bundle reply: %v", err)
	}
}

func TestStub_RejectsWrongKeyAndUnknownPrompt(t *testing.T) {
	srv := httptest.NewServer(NewHandler("stub-model", "secret"))
	defer srv.Close()

	bad := &llm.Invoker{Client: llm.NewOpenAIProvider("wrong", srv.URL+"/v1", srv.Client()), APIKey: "wrong"}
	req, _ := prompt.Build(prompt.TaskSummary, "stub-model", "", "text")
	if out := bad.Invoke(context.Background(), req); out.Category != llm.Unauthorized {
		t.Fatalf("want Unauthorized, got %+v", out)
	}

	good := &llm.Invoker{Client: llm.NewOpenAIProvider("secret", srv.URL+"/v1", srv.Client()), APIKey: "secret"}
	req.Messages[0].Content = "You are something else."
	if out := good.Invoke(context.Background(), req); out.OK() {
		t.Fatalf("unknown prompt should fail")
	}

	resp, err := http.Get(srv.URL + "/v1/models")
	if err != nil {
		t.Fatalf("get models: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("models without key: status %d", resp.StatusCode)
	}
}
