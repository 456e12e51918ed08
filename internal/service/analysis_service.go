package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"doc-checker-be/internal/cache"
	"doc-checker-be/internal/dto"
	"doc-checker-be/internal/entity"
	"doc-checker-be/internal/pkg/mailer"
	"doc-checker-be/internal/repository/memory"
	"doc-checker-be/internal/repository/specification"
	"doc-checker-be/internal/repository/unitofwork"
	"doc-checker-be/pkg/analyzer"
	"doc-checker-be/pkg/embedding"
	"doc-checker-be/pkg/events"
	pktNats "doc-checker-be/pkg/nats"
	"doc-checker-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const (
	// Chunking tuned for embedding context limits
	analysisChunkSize    = 1500
	analysisChunkOverlap = 200

	// Candidate retrieval knobs
	candidateChunkLimit    = 5
	candidateSimThreshold  = 0.75
	candidateDocumentLimit = 5
)

type IAnalysisService interface {
	Consume(ctx context.Context) error
}

type analysisService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	docAnalyzer       analyzer.Analyzer
	guard             *memory.AnalysisGuard
	eventPublisher    *pktNats.Publisher
	emailService      mailer.IEmailService
	stateCache        *cache.StateCache
}

func NewAnalysisService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	docAnalyzer analyzer.Analyzer,
	guard *memory.AnalysisGuard,
	eventPublisher *pktNats.Publisher,
	emailService mailer.IEmailService,
	stateCache *cache.StateCache,
) IAnalysisService {
	return &analysisService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		docAnalyzer:       docAnalyzer,
		guard:             guard,
		eventPublisher:    eventPublisher,
		emailService:      emailService,
		stateCache:        stateCache,
	}
}

func (as *analysisService) Consume(ctx context.Context) error {
	messages, err := as.pubSub.Subscribe(ctx, as.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			as.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (as *analysisService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.AnalyzeDocumentMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal analysis message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	// Drop duplicate jobs while a run for this document is in flight
	if !as.guard.TryAcquire(payload.DocumentId) {
		log.Printf("[INFO] Analysis already running for document %s, skipping", payload.DocumentId)
		msg.Ack()
		return
	}
	defer as.guard.Release(payload.DocumentId)

	log.Printf("[INFO] Analyzing document %s (reanalysis=%v)", payload.DocumentId, payload.Reanalysis)

	uow := as.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to get document %s: %v", payload.DocumentId, err)
		msg.Nack() // Retriable: DB hiccup
		return
	}
	if doc == nil {
		log.Printf("[WARN] Document not found: %s (deleted mid-flight?)", payload.DocumentId)
		msg.Ack()
		return
	}

	content := fmt.Sprintf("Document Name: %s\nDocument Type: %s\n\n%s", doc.Name, doc.Type, doc.Content)

	// 1. Split and embed
	chunks := utils.SplitText(content, analysisChunkSize, analysisChunkOverlap)
	log.Printf("[INFO] Document %s split into %d chunks", doc.Id, len(chunks))

	if payload.Reanalysis {
		if err := uow.DocumentEmbeddingRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
			log.Printf("[ERROR] Failed to clear stale embeddings for %s: %v", doc.Id, err)
			msg.Nack()
			return
		}
	}

	newEmbeddings := make([]*entity.DocumentEmbedding, 0, len(chunks))
	vectors := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := as.embeddingProvider.Generate(ctx, chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Embedding failed for chunk %d of %s: %v", i, doc.Id, err)
			as.markFailed(ctx, uow, doc, payload.UserId)
			msg.Ack() // Terminal: the user re-submits or triggers re-analysis
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.DocumentEmbedding{
			Id:             uuid.New(),
			Chunk:          chunk,
			ChunkIndex:     i,
			EmbeddingValue: res.Embedding.Values,
			DocumentId:     doc.Id,
			CreatedAt:      time.Now(),
		})
		vectors = append(vectors, res.Embedding.Values)
	}

	if err := uow.DocumentEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
		log.Printf("[ERROR] Failed to store embeddings for %s: %v", doc.Id, err)
		msg.Nack()
		return
	}

	// 2. Gather candidate documents via vector similarity
	candidates, err := as.findCandidates(ctx, uow, doc, vectors)
	if err != nil {
		log.Printf("[ERROR] Candidate lookup failed for %s: %v", doc.Id, err)
		msg.Nack()
		return
	}
	log.Printf("[INFO] Document %s paired with %d candidate(s)", doc.Id, len(candidates))

	// 3. Run the analyzer
	result, err := as.docAnalyzer.Analyze(ctx, analyzerDocument(doc), candidates)
	if err != nil {
		log.Printf("[ERROR] Analysis failed for %s: %v", doc.Id, err)
		as.markFailed(ctx, uow, doc, payload.UserId)
		msg.Ack()
		return
	}

	// 4. Persist outcome atomically
	doc.Status = entity.DocumentStatusAnalyzed
	doc.AiSummary = &result.Summary
	doc.Confidence = &result.Confidence
	if payload.Reanalysis {
		doc.Version++
	}

	newConflicts := make([]*entity.Conflict, 0, len(result.Conflicts))
	for _, c := range result.Conflicts {
		ids := append([]uuid.UUID{doc.Id}, c.DocumentIds...)
		newConflicts = append(newConflicts, &entity.Conflict{
			Id:             uuid.New(),
			Type:           entity.ConflictType(c.Type),
			Severity:       entity.ConflictSeverity(c.Severity),
			Description:    c.Description,
			Recommendation: c.Recommendation,
			DocumentIds:    ids,
			Status:         entity.ConflictStatusUnresolved,
			UserId:         payload.UserId,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to open transaction for %s: %v", doc.Id, err)
		msg.Nack()
		return
	}
	commitOk := false
	defer func() {
		if !commitOk {
			uow.Rollback()
		}
	}()

	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		log.Printf("[ERROR] Failed to update document %s: %v", doc.Id, err)
		msg.Nack()
		return
	}
	if len(newConflicts) > 0 {
		if err := uow.ConflictRepository().CreateBulk(ctx, newConflicts); err != nil {
			log.Printf("[ERROR] Failed to store conflicts for %s: %v", doc.Id, err)
			msg.Nack()
			return
		}
	}
	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit analysis of %s: %v", doc.Id, err)
		msg.Nack()
		return
	}
	commitOk = true

	as.publishOutcome(ctx, doc, newConflicts, payload.UserId)
	as.stateCache.Invalidate(ctx, payload.UserId)

	log.Printf("[INFO] Document %s analyzed: confidence %.2f, %d conflict(s)", doc.Id, result.Confidence, len(newConflicts))
	msg.Ack()
}

// findCandidates retrieves the user's other documents whose chunks sit
// closest to the new document's chunks in embedding space.
func (as *analysisService) findCandidates(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.Document, vectors [][]float32) ([]analyzer.Document, error) {
	seen := make(map[uuid.UUID]bool)
	var candidateIds []uuid.UUID

	for _, vec := range vectors {
		scored, err := uow.DocumentEmbeddingRepository().SearchSimilarWithScore(
			ctx, vec, candidateChunkLimit, doc.UserId, doc.Id, candidateSimThreshold,
		)
		if err != nil {
			return nil, err
		}
		for _, s := range scored {
			if !seen[s.Embedding.DocumentId] {
				seen[s.Embedding.DocumentId] = true
				candidateIds = append(candidateIds, s.Embedding.DocumentId)
			}
		}
	}

	if len(candidateIds) > candidateDocumentLimit {
		candidateIds = candidateIds[:candidateDocumentLimit]
	}
	if len(candidateIds) == 0 {
		return nil, nil
	}

	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByIDs{IDs: candidateIds},
		specification.UserOwnedBy{UserID: doc.UserId},
	)
	if err != nil {
		return nil, err
	}

	candidates := make([]analyzer.Document, 0, len(docs))
	for _, d := range docs {
		candidates = append(candidates, analyzerDocument(d))
	}
	return candidates, nil
}

// markFailed moves the document to error state. Prior summary, confidence
// and version survive a failed re-analysis (last known good).
func (as *analysisService) markFailed(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.Document, userId uuid.UUID) {
	doc.Status = entity.DocumentStatusError
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		log.Printf("[ERROR] Failed to mark document %s as errored: %v", doc.Id, err)
		return
	}

	if as.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeAnalysisFailed,
			Data: map[string]interface{}{
				"document_id": doc.Id,
				"name":        doc.Name,
				"user_id":     userId,
			},
			OccurredAt: time.Now(),
		}
		if err := as.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish ANALYSIS_FAILED event: %v", err)
		}
	}

	as.notifyOwner(ctx, uow, userId, func(email string) error {
		return as.emailService.SendAnalysisFailed(email, doc.Name)
	})

	as.stateCache.Invalidate(ctx, userId)
}

func (as *analysisService) publishOutcome(ctx context.Context, doc *entity.Document, conflicts []*entity.Conflict, userId uuid.UUID) {
	if as.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeDocumentAnalyzed,
			Data: map[string]interface{}{
				"document_id": doc.Id,
				"name":        doc.Name,
				"user_id":     userId,
				"version":     doc.Version,
				"conflicts":   len(conflicts),
			},
			OccurredAt: time.Now(),
		}
		if err := as.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_ANALYZED event: %v", err)
		}

		for _, c := range conflicts {
			evt := events.BaseEvent{
				Type: events.TypeConflictDetected,
				Data: map[string]interface{}{
					"conflict_id": c.Id,
					"severity":    c.Severity,
					"type":        c.Type,
					"user_id":     userId,
				},
				OccurredAt: time.Now(),
			}
			if err := as.eventPublisher.Publish(ctx, evt); err != nil {
				log.Printf("[WARN] Failed to publish CONFLICT_DETECTED event: %v", err)
			}
		}
	}

	highCount := 0
	for _, c := range conflicts {
		if c.Severity == entity.ConflictSeverityHigh {
			highCount++
		}
	}
	if highCount > 0 {
		uow := as.uowFactory.NewUnitOfWork(ctx)
		as.notifyOwner(ctx, uow, userId, func(email string) error {
			return as.emailService.SendConflictAlert(email, doc.Name, highCount)
		})
	}
}

func (as *analysisService) notifyOwner(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, send func(email string) error) {
	if as.emailService == nil {
		return
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil {
		return
	}
	go func(email string) {
		if err := send(email); err != nil {
			log.Printf("[WARN] Failed to send notification email: %v", err)
		}
	}(user.Email)
}

func analyzerDocument(d *entity.Document) analyzer.Document {
	return analyzer.Document{
		Id:      d.Id,
		Name:    d.Name,
		Type:    string(d.Type),
		Content: d.Content,
	}
}
