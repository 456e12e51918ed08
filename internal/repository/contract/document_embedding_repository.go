package contract

import (
	"context"

	"doc-checker-be/internal/entity"
	"doc-checker-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredDocumentEmbedding pairs an embedding with its cosine similarity to a
// query vector.
type ScoredDocumentEmbedding struct {
	Embedding  *entity.DocumentEmbedding
	Similarity float64
}

type DocumentEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.DocumentEmbedding) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns the nearest chunks belonging to OTHER
	// documents of the same user, above the similarity threshold.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, excludeDocumentId uuid.UUID, threshold float64) ([]*ScoredDocumentEmbedding, error)
}
