// ABOUTME: Tests for the translation client's retry and error discrimination
// ABOUTME: Uses a fake completer; no network calls

package translate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/junwei/hometalk/internal/errs"
	"github.com/junwei/hometalk/internal/llm"
	"github.com/junwei/hometalk/internal/logger"
)

type fakeCompleter struct {
	responses []llm.Completion
	errs      []error
	calls     int
	requests  []llm.CompletionRequest
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	i := f.calls
	f.calls++
	f.requests = append(f.requests, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.responses) {
		return nil, errors.New("fakeCompleter: no response configured")
	}
	resp := f.responses[i]
	return &resp, nil
}

func newTestClient(f *fakeCompleter) *Client {
	return NewClient(f, 2, time.Millisecond, logger.NewNop())
}

func TestTranslate_Success(t *testing.T) {
	fake := &fakeCompleter{responses: []llm.Completion{
		{ID: "cmpl_1", Text: "我错过了航班", FinishReason: "stop"},
	}}
	client := newTestClient(fake)

	got, err := client.Translate(context.Background(), "I missed my flight", "en", "zh", "translate naturally")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got.Text != "我错过了航班" {
		t.Errorf("Text = %q", got.Text)
	}
	if got.RequestID != "cmpl_1" {
		t.Errorf("RequestID = %q, want cmpl_1", got.RequestID)
	}
	if fake.calls != 1 {
		t.Errorf("made %d calls, want 1", fake.calls)
	}
}

func TestTranslate_BudgetScalesWithInput(t *testing.T) {
	fake := &fakeCompleter{responses: []llm.Completion{{Text: "好", FinishReason: "stop"}}}
	client := newTestClient(fake)

	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := client.Translate(context.Background(), string(long), "en", "zh", "p"); err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if fake.requests[0].MaxTokens != TokenBudget(2000) {
		t.Errorf("MaxTokens = %d, want %d", fake.requests[0].MaxTokens, TokenBudget(2000))
	}
}

func TestTranslate_CutOffGrowsBudgetThenSucceeds(t *testing.T) {
	fake := &fakeCompleter{responses: []llm.Completion{
		{Text: "", FinishReason: "length"},
		{ID: "cmpl_2", Text: "ok", FinishReason: "stop"},
	}}
	client := newTestClient(fake)

	got, err := client.Translate(context.Background(), "hello there", "en", "zh", "p")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got.Text != "ok" {
		t.Errorf("Text = %q", got.Text)
	}
	if fake.requests[1].MaxTokens <= fake.requests[0].MaxTokens {
		t.Errorf("budget did not grow: %d then %d",
			fake.requests[0].MaxTokens, fake.requests[1].MaxTokens)
	}
}

func TestTranslate_CutOffExhaustedIsDistinctError(t *testing.T) {
	fake := &fakeCompleter{responses: []llm.Completion{
		{Text: "", FinishReason: "length"},
		{Text: "", FinishReason: "length"},
		{Text: "", FinishReason: "length"},
	}}
	client := newTestClient(fake)

	_, err := client.Translate(context.Background(), "hello", "en", "zh", "p")
	if !errors.Is(err, errs.ErrTranslationCutOff) {
		t.Fatalf("error = %v, want ErrTranslationCutOff", err)
	}
	if errors.Is(err, errs.ErrTranslationEmpty) {
		t.Error("cut-off must not be reported as a generic empty translation")
	}
}

func TestTranslate_EmptyContentSurfacedAfterRetries(t *testing.T) {
	fake := &fakeCompleter{responses: []llm.Completion{
		{Text: "   ", FinishReason: "stop"},
		{Text: "", FinishReason: "stop"},
		{Text: "", FinishReason: "stop"},
	}}
	client := newTestClient(fake)

	_, err := client.Translate(context.Background(), "hello", "en", "zh", "p")
	if !errors.Is(err, errs.ErrTranslationEmpty) {
		t.Fatalf("error = %v, want ErrTranslationEmpty", err)
	}
	if fake.calls != 3 {
		t.Errorf("made %d calls, want 3 (initial + 2 retries)", fake.calls)
	}
}

func TestTranslate_TransientErrorThenSuccess(t *testing.T) {
	fake := &fakeCompleter{
		errs:      []error{errors.New("502 bad gateway")},
		responses: []llm.Completion{{}, {Text: "你好", FinishReason: "stop"}},
	}
	client := newTestClient(fake)

	got, err := client.Translate(context.Background(), "hi", "en", "zh", "p")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got.Text != "你好" {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestTranslate_EmptyInputRejected(t *testing.T) {
	client := newTestClient(&fakeCompleter{})
	if _, err := client.Translate(context.Background(), "   ", "en", "zh", "p"); err == nil {
		t.Error("Translate() of whitespace expected error")
	}
}
