// -----------------------------------------------------------------------
// Query Service - Retrieval-augmented question answering
// -----------------------------------------------------------------------

package query

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
	"github.com/ternarybob/lectio/internal/services/answers"
)

// TopKSettingKey is the runtime setting that overrides the configured
// default result count.
const TopKSettingKey = "top_k"

// Service implements the QueryService interface
type Service struct {
	retriever interfaces.Retriever
	generator interfaces.AnswerService
	metadata  interfaces.DocumentStorage
	settings  interfaces.KeyValueStorage
	config    *common.RetrievalConfig
	validate  *validator.Validate
	logger    arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.QueryService = (*Service)(nil)

// NewService creates a new query service
func NewService(
	retriever interfaces.Retriever,
	generator interfaces.AnswerService,
	metadata interfaces.DocumentStorage,
	settings interfaces.KeyValueStorage,
	config *common.RetrievalConfig,
	logger arbor.ILogger,
) *Service {
	return &Service{
		retriever: retriever,
		generator: generator,
		metadata:  metadata,
		settings:  settings,
		config:    config,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Query retrieves the nearest chunks for the question and generates a
// grounded answer with references. When nothing relevant is stored the
// canned no-results answer is returned and the generator is never invoked.
func (s *Service) Query(ctx context.Context, req *interfaces.QueryRequest) (*models.Answer, error) {
	if req == nil || strings.TrimSpace(req.Question) == "" {
		return nil, common.NewError(common.KindInvalidInput, "question is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, common.WrapError(common.KindInvalidInput, "invalid query request", err)
	}
	if s.config.MaxTopK > 0 && req.TopK > s.config.MaxTopK {
		return nil, common.Errorf(common.KindInvalidInput, "top_k must be at most %d", s.config.MaxTopK)
	}

	topK := s.resolveTopK(ctx, req.TopK)

	chunks, err := s.retriever.Retrieve(ctx, req.Question, topK, req.DocumentIDs)
	if err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		s.logger.Debug().Msg("No chunks retrieved, returning canned answer")
		return &models.Answer{
			Text:       answers.NoResultsAnswer,
			References: []models.Reference{},
		}, nil
	}

	text, err := s.generator.Generate(ctx, req.Question, chunks)
	if err != nil {
		return nil, err
	}

	return &models.Answer{
		Text:       text,
		References: s.buildReferences(chunks),
	}, nil
}

// resolveTopK picks the result count: explicit request value, then the
// stored runtime setting, then the configured default, clamped to bounds.
func (s *Service) resolveTopK(ctx context.Context, requested int) int {
	topK := requested
	if topK <= 0 {
		if value, err := s.settings.Get(ctx, TopKSettingKey); err == nil {
			if parsed, err := strconv.Atoi(value); err == nil {
				topK = parsed
			}
		}
	}
	if topK <= 0 {
		topK = s.config.TopK
	}
	if topK < 1 {
		topK = 1
	}
	if s.config.MaxTopK > 0 && topK > s.config.MaxTopK {
		topK = s.config.MaxTopK
	}
	return topK
}

// buildReferences maps retrieved chunks to citation entries, resolving
// filenames from document metadata. Chunk order is preserved.
func (s *Service) buildReferences(chunks []models.RetrievalResult) []models.Reference {
	filenames := make(map[string]string)
	references := make([]models.Reference, 0, len(chunks))
	for _, chunk := range chunks {
		filename, ok := filenames[chunk.DocumentID]
		if !ok {
			if doc, err := s.metadata.GetDocument(chunk.DocumentID); err == nil {
				filename = doc.Filename
			}
			filenames[chunk.DocumentID] = filename
		}
		references = append(references, models.Reference{
			DocumentID: chunk.DocumentID,
			Filename:   filename,
			PageNumber: chunk.PageNumber,
			Content:    chunk.Text,
		})
	}
	return references
}
