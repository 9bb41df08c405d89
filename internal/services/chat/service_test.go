package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/prospecto/internal/common"
	"github.com/ternarybob/prospecto/internal/models"
	"github.com/ternarybob/prospecto/internal/services/llm"
)

// stubProvider returns responses in order, one per call.
type stubProvider struct {
	responses []string
	errs      []error
	requests  []llm.ContentRequest
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) GenerateContent(ctx context.Context, req llm.ContentRequest) (*llm.ContentResponse, error) {
	i := len(p.requests)
	p.requests = append(p.requests, req)
	if i < len(p.errs) && p.errs[i] != nil {
		return nil, p.errs[i]
	}
	if i < len(p.responses) {
		return &llm.ContentResponse{Text: p.responses[i], Model: req.Model}, nil
	}
	return nil, errors.New("no response configured")
}

type stubSource struct{ provider llm.Provider }

func (s stubSource) ForModel(ctx context.Context, model string) (llm.Provider, error) {
	return s.provider, nil
}

type channelListener struct{ ch chan *models.ChatMessage }

func (l *channelListener) OnRefinement(msg *models.ChatMessage) { l.ch <- msg }

func newTestService(provider *stubProvider) *Service {
	return newServiceWith(common.NewDefaultConfig(), stubSource{provider: provider}, llm.NewExecutor(nil, common.GetLogger()), common.GetLogger())
}

func waitForRefinement(t *testing.T, ch chan *models.ChatMessage) *models.ChatMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for refinement")
		return nil
	}
}

func TestAsk_TwoPhase(t *testing.T) {
	provider := &stubProvider{responses: []string{
		"Quick take: futures are pointing higher.",
		"Detailed: S&P futures are up 0.4% after the CPI print came in below expectations.",
	}}
	svc := newTestService(provider)
	listener := &channelListener{ch: make(chan *models.ChatMessage, 1)}
	svc.AddListener(listener)

	msg, err := svc.Ask(context.Background(), "How are futures looking?", nil)
	require.NoError(t, err)
	assert.Equal(t, models.ChatPhaseQuick, msg.Phase)
	assert.Contains(t, msg.Answer, "Quick take")
	assert.Equal(t, uint64(1), msg.Seq)

	refined := waitForRefinement(t, listener.ch)
	assert.Equal(t, msg.ID, refined.ID)
	assert.Equal(t, models.ChatPhaseDetailed, refined.Phase)
	assert.Equal(t, uint64(2), refined.Seq)
	assert.Contains(t, refined.Answer, "CPI")

	// The detailed answer replaced the quick one in place.
	got, ok := svc.Get(msg.ID)
	require.True(t, ok)
	assert.Equal(t, models.ChatPhaseDetailed, got.Phase)

	// Quick phase uses the fast model without search; detailed uses the
	// full model with search grounding.
	require.Len(t, provider.requests, 2)
	config := common.NewDefaultConfig()
	assert.Equal(t, config.Gemini.FastModel, provider.requests[0].Model)
	assert.False(t, provider.requests[0].EnableSearch)
	assert.Equal(t, config.Gemini.Model, provider.requests[1].Model)
	assert.True(t, provider.requests[1].EnableSearch)
}

func TestAsk_RefinementFailureKeepsQuickAnswer(t *testing.T) {
	provider := &stubProvider{
		responses: []string{"Quick answer.", ""},
		errs:      []error{nil, errors.New("googleapi: Error 400: invalid argument")},
	}
	svc := newTestService(provider)

	msg, err := svc.Ask(context.Background(), "What moved gold today?", nil)
	require.NoError(t, err)

	svc.Close()

	got, ok := svc.Get(msg.ID)
	require.True(t, ok)
	assert.Equal(t, models.ChatPhaseQuick, got.Phase)
	assert.Equal(t, "Quick answer.", got.Answer)
}

func TestApplyUpdate_StaleSequenceDiscarded(t *testing.T) {
	svc := newTestService(&stubProvider{})

	svc.slots["abc"] = &slot{
		msg: models.ChatMessage{ID: "abc", Answer: "newer", Seq: 3},
		seq: 3,
	}

	applied := svc.applyUpdate(models.ChatMessage{ID: "abc", Answer: "older", Seq: 2})
	assert.False(t, applied)

	got, ok := svc.Get("abc")
	require.True(t, ok)
	assert.Equal(t, "newer", got.Answer)

	applied = svc.applyUpdate(models.ChatMessage{ID: "abc", Answer: "newest", Seq: 4})
	assert.True(t, applied)
	got, _ = svc.Get("abc")
	assert.Equal(t, "newest", got.Answer)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	svc := newTestService(&stubProvider{})

	_, err := svc.Ask(context.Background(), "  ", nil)

	desc, ok := models.AsErrorDescriptor(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid Request", desc.Title)
}

func TestBuildChatPrompt_History(t *testing.T) {
	history := []models.ChatMessage{
		{Question: "What is the VIX at?", Answer: "Around 14."},
	}

	prompt := buildChatPrompt("And last week?", history)
	assert.Contains(t, prompt, "Q: What is the VIX at?")
	assert.Contains(t, prompt, "A: Around 14.")
	assert.Contains(t, prompt, "Question: And last week?")
}
