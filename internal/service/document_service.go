package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"doc-checker-be/internal/cache"
	"doc-checker-be/internal/dto"
	"doc-checker-be/internal/entity"
	"doc-checker-be/internal/pkg/logger"
	"doc-checker-be/internal/repository/specification"
	"doc-checker-be/internal/repository/unitofwork"
	"doc-checker-be/pkg/events"
	pktNats "doc-checker-be/pkg/nats"

	"github.com/google/uuid"
)

var (
	ErrDocumentNotFound    = errors.New("document not found")
	ErrInvalidDocumentType = errors.New("invalid document type")
	ErrAnalysisInProgress  = errors.New("analysis already in progress")
)

type IDocumentService interface {
	SubmitUpload(ctx context.Context, userId uuid.UUID, req *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error)
	FetchState(ctx context.Context, userId uuid.UUID) (*dto.StateResponse, error)
	Reanalyze(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error
	Delete(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	stateCache       *cache.StateCache
	logger           logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	stateCache *cache.StateCache,
	sysLogger logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		stateCache:       stateCache,
		logger:           sysLogger,
	}
}

// SubmitUpload stores the document in processing state and queues it for
// analysis. The response carries the provisional document so the client
// can show it immediately; the analysis outcome lands via FetchState.
func (s *documentService) SubmitUpload(ctx context.Context, userId uuid.UUID, req *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error) {
	if !entity.ValidDocumentType(req.Type) {
		return nil, ErrInvalidDocumentType
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc := &entity.Document{
		Id:         uuid.New(),
		Name:       req.Name,
		Type:       entity.DocumentType(req.Type),
		Status:     entity.DocumentStatusProcessing,
		Content:    req.Content,
		Version:    1,
		UserId:     userId,
		UploadDate: time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		return nil, err
	}

	msgPayload := dto.AnalyzeDocumentMessage{
		DocumentId: doc.Id,
		UserId:     userId,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeDocumentUploaded,
			Data: map[string]interface{}{
				"document_id": doc.Id,
				"name":        doc.Name,
				"user_id":     userId,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish DOCUMENT_UPLOADED event: %v\n", err)
		}
	}

	s.stateCache.Invalidate(ctx, userId)

	s.logger.Info("document_service", "document submitted", map[string]interface{}{
		"document_id": doc.Id,
		"type":        doc.Type,
	})

	return &dto.UploadDocumentResponse{Document: newDocumentDTO(doc, 0)}, nil
}

// FetchState returns the full snapshot both projections reconcile against.
// Never a delta: concurrent refreshes on the client are harmless only if
// every response is complete.
func (s *documentService) FetchState(ctx context.Context, userId uuid.UUID) (*dto.StateResponse, error) {
	if cached, ok := s.stateCache.Get(ctx, userId); ok {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "upload_date"},
	)
	if err != nil {
		return nil, err
	}

	conflicts, err := uow.ConflictRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	// Denormalized per-document conflict count for display
	refCounts := make(map[uuid.UUID]int)
	for _, c := range conflicts {
		for _, id := range c.DocumentIds {
			refCounts[id]++
		}
	}

	state := &dto.StateResponse{
		Documents: make([]dto.DocumentDTO, 0, len(docs)),
		Conflicts: make([]dto.ConflictDTO, 0, len(conflicts)),
	}
	for _, d := range docs {
		state.Documents = append(state.Documents, newDocumentDTO(d, refCounts[d.Id]))
	}
	for _, c := range conflicts {
		state.Conflicts = append(state.Conflicts, newConflictDTO(c))
	}

	s.stateCache.Set(ctx, userId, state)

	return state, nil
}

// Reanalyze cycles an existing document back to processing and queues it
// again. Prior summary, confidence and version stay in place until the new
// run finishes.
func (s *documentService) Reanalyze(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}
	if doc.Status == entity.DocumentStatusProcessing {
		return ErrAnalysisInProgress
	}

	doc.Status = entity.DocumentStatusProcessing
	doc.ModifiedBy = &userId
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return err
	}

	msgPayload := dto.AnalyzeDocumentMessage{
		DocumentId: doc.Id,
		UserId:     userId,
		Reanalysis: true,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return err
	}

	s.stateCache.Invalidate(ctx, userId)
	return nil
}

// Delete soft-deletes the document and its embeddings. Conflicts that
// reference it are kept for the audit trail; clients exclude them from
// counters once the document is gone from the snapshot.
func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().Delete(ctx, doc.Id); err != nil {
		return err
	}
	if err := uow.DocumentEmbeddingRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.stateCache.Invalidate(ctx, userId)

	s.logger.Info("document_service", "document deleted", map[string]interface{}{
		"document_id": doc.Id,
	})
	return nil
}

func newDocumentDTO(d *entity.Document, conflictCount int) dto.DocumentDTO {
	return dto.DocumentDTO{
		Id:           d.Id,
		Name:         d.Name,
		Type:         string(d.Type),
		Status:       string(d.Status),
		Version:      d.Version,
		Conflicts:    conflictCount,
		AiSummary:    d.AiSummary,
		Confidence:   d.Confidence,
		TeamId:       d.TeamId,
		ModifiedBy:   d.ModifiedBy,
		UploadDate:   d.UploadDate,
		LastModified: d.LastModified,
	}
}

func newConflictDTO(c *entity.Conflict) dto.ConflictDTO {
	return dto.ConflictDTO{
		Id:             c.Id,
		Type:           string(c.Type),
		Severity:       string(c.Severity),
		Description:    c.Description,
		Recommendation: c.Recommendation,
		Documents:      c.DocumentIds,
		Status:         string(c.Status),
		CreatedAt:      c.CreatedAt,
		ResolvedAt:     c.ResolvedAt,
	}
}
