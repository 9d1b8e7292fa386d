// -----------------------------------------------------------------------
// Claude Answer Service - Grounded answer generation via the Anthropic API
// -----------------------------------------------------------------------

package answers

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
	"golang.org/x/time/rate"
)

// ClaudeService implements the AnswerService interface using the Anthropic API
type ClaudeService struct {
	config  *common.ClaudeConfig
	client  anthropic.Client
	logger  arbor.ILogger
	limiter *rate.Limiter
	timeout time.Duration
}

// Compile-time interface assertion
var _ interfaces.AnswerService = (*ClaudeService)(nil)

// NewClaudeService creates the answer generation service.
func NewClaudeService(config *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeService, error) {
	if config.APIKey == "" {
		return nil, common.NewError(common.KindConfiguration,
			"Anthropic API key is required (set ANTHROPIC_API_KEY or claude.api_key in config)")
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, common.Errorf(common.KindConfiguration, "invalid claude timeout %q: %v", config.Timeout, err)
	}

	interval, err := time.ParseDuration(config.RateLimit)
	if err != nil {
		return nil, common.Errorf(common.KindConfiguration, "invalid claude rate limit %q: %v", config.RateLimit, err)
	}

	client := anthropic.NewClient(
		option.WithAPIKey(config.APIKey),
	)

	logger.Debug().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Dur("rate_interval", interval).
		Int("max_tokens", config.MaxTokens).
		Msg("Claude answer service initialized")

	return &ClaudeService{
		config:  config,
		client:  client,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		timeout: timeout,
	}, nil
}

// Generate produces an answer grounded in the retrieved chunks. Upstream
// failures degrade to an answer string describing the problem rather than an
// error, so callers can still return the retrieved references.
func (s *ClaudeService) Generate(ctx context.Context, question string, chunks []models.RetrievalResult) (string, error) {
	if question == "" {
		return "", common.NewError(common.KindInvalidInput, "question is required")
	}
	if len(chunks) == 0 {
		return NoResultsAnswer, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", common.WrapError(common.KindUpstream, "rate limit wait interrupted", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: int64(s.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildUserPrompt(question, chunks))),
		},
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
	}
	if s.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(s.config.Temperature))
	}

	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("chunks", len(chunks)).
			Msg("Claude answer generation failed")
		return "Unable to generate an answer: the language model request failed. Please try again.", nil
	}

	var answer strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			answer.WriteString(block.Text)
		}
	}
	if answer.Len() == 0 {
		s.logger.Warn().Msg("Claude returned no text content")
		return "Unable to generate an answer: the language model returned an empty response.", nil
	}

	s.logger.Debug().
		Int("chunks", len(chunks)).
		Int("answer_length", answer.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("Answer generated")

	return answer.String(), nil
}
