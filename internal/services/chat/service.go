// Package chat answers free-form market questions in two phases: a
// low-latency quick answer returned synchronously, then a search-grounded
// detailed answer that replaces it in place.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prospecto/internal/common"
	"github.com/ternarybob/prospecto/internal/interfaces"
	"github.com/ternarybob/prospecto/internal/models"
	"github.com/ternarybob/prospecto/internal/services/llm"
)

const chatSystemPrompt = `You are a market assistant for an experienced retail trader.
Answer directly and concisely in plain text. Cite concrete figures where you can and say when you are unsure.
Never give personalized financial advice.`

// historyLimit caps how many prior exchanges travel in the prompt.
const historyLimit = 10

type providerSource interface {
	ForModel(ctx context.Context, model string) (llm.Provider, error)
}

// slot holds one answer and the sequence number of the write that produced
// it. Writes with a lower sequence than the stored one are discarded, so a
// slow refinement can never clobber a newer answer.
type slot struct {
	msg models.ChatMessage
	seq uint64
}

// Service implements interfaces.ChatService.
type Service struct {
	config    *common.Config
	logger    arbor.ILogger
	providers providerSource
	executor  *llm.Executor

	mu        sync.RWMutex
	slots     map[string]*slot
	listeners []interfaces.RefinementListener

	// refining tracks background refinements for Close
	refining sync.WaitGroup
}

func NewService(config *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		config:    config,
		logger:    logger,
		providers: llm.NewProviderFactory(config, logger),
		executor:  llm.NewExecutor(nil, logger),
		slots:     make(map[string]*slot),
	}
}

// newServiceWith injects collaborators directly; used by tests.
func newServiceWith(config *common.Config, providers providerSource, executor *llm.Executor, logger arbor.ILogger) *Service {
	return &Service{
		config:    config,
		logger:    logger,
		providers: providers,
		executor:  executor,
		slots:     make(map[string]*slot),
	}
}

// AddListener registers a listener for in-place answer replacements.
func (s *Service) AddListener(l interfaces.RefinementListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Ask answers a question with the fast model and returns immediately, then
// refines the answer with the full model in the background. The returned
// message carries the quick answer; Get (or a refinement listener) observes
// the replacement.
func (s *Service) Ask(ctx context.Context, question string, history []models.ChatMessage) (*models.ChatMessage, error) {
	if strings.TrimSpace(question) == "" {
		return nil, models.NewErrorDescriptor("Invalid Request", "A question is required.", false)
	}

	prompt := buildChatPrompt(question, history)

	quickText, err := s.invoke(ctx, llm.ContentRequest{
		Prompt:      prompt,
		System:      chatSystemPrompt,
		Model:       s.config.Gemini.FastModel,
		Temperature: float64(s.config.Gemini.Temperature),
	})
	if err != nil {
		return nil, llm.Normalize(err)
	}

	id := uuid.New().String()
	msg := models.ChatMessage{
		ID:        id,
		Question:  question,
		Answer:    quickText,
		Phase:     models.ChatPhaseQuick,
		Seq:       1,
		Model:     s.config.Gemini.FastModel,
		UpdatedAt: time.Now(),
	}

	s.mu.Lock()
	s.slots[id] = &slot{msg: msg, seq: msg.Seq}
	s.mu.Unlock()

	s.refining.Add(1)
	go s.refine(id, prompt, question, msg.Seq+1)

	return &msg, nil
}

// refine runs the detailed phase. Failures leave the quick answer in place.
func (s *Service) refine(id, prompt, question string, seq uint64) {
	defer s.refining.Done()

	timeout, err := time.ParseDuration(s.config.Gemini.Timeout)
	if err != nil {
		timeout = 3 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	text, err := s.invoke(ctx, llm.ContentRequest{
		Prompt:       prompt,
		System:       chatSystemPrompt,
		Model:        s.config.Gemini.Model,
		Temperature:  float64(s.config.Gemini.Temperature),
		EnableSearch: s.config.Gemini.EnableSearch,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("Chat refinement failed, keeping quick answer")
		return
	}

	msg := models.ChatMessage{
		ID:        id,
		Question:  question,
		Answer:    text,
		Phase:     models.ChatPhaseDetailed,
		Seq:       seq,
		Model:     s.config.Gemini.Model,
		UpdatedAt: time.Now(),
	}

	if !s.applyUpdate(msg) {
		return
	}

	s.mu.RLock()
	listeners := make([]interfaces.RefinementListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		l.OnRefinement(&msg)
	}
}

// applyUpdate writes msg into its slot unless a higher-sequence answer is
// already there. Reports whether the write was applied.
func (s *Service) applyUpdate(msg models.ChatMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.slots[msg.ID]
	if !ok {
		return false
	}
	if msg.Seq <= current.seq {
		s.logger.Debug().
			Str("id", msg.ID).
			Int64("seq", int64(msg.Seq)).
			Int64("current", int64(current.seq)).
			Msg("Discarding stale chat update")
		return false
	}

	current.msg = msg
	current.seq = msg.Seq
	return true
}

func (s *Service) Get(id string) (*models.ChatMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sl, ok := s.slots[id]
	if !ok {
		return nil, false
	}
	msg := sl.msg
	return &msg, true
}

// Close waits for in-flight refinements to finish.
func (s *Service) Close() {
	s.refining.Wait()
}

func (s *Service) invoke(ctx context.Context, req llm.ContentRequest) (string, error) {
	provider, err := s.providers.ForModel(ctx, req.Model)
	if err != nil {
		return "", err
	}

	var text string
	err = s.executor.Execute(ctx, func(ctx context.Context) error {
		resp, genErr := provider.GenerateContent(ctx, req)
		if genErr != nil {
			return genErr
		}
		text = resp.Text
		return nil
	})
	return text, err
}

func buildChatPrompt(question string, history []models.ChatMessage) string {
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", m.Question, m.Answer)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Question: %s", question)
	return b.String()
}
