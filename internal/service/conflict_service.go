package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doc-checker-be/internal/cache"
	"doc-checker-be/internal/dto"
	"doc-checker-be/internal/entity"
	"doc-checker-be/internal/repository/specification"
	"doc-checker-be/internal/repository/unitofwork"
	"doc-checker-be/pkg/events"
	pktNats "doc-checker-be/pkg/nats"

	"github.com/google/uuid"
)

var ErrConflictNotFound = errors.New("conflict not found")

type IConflictService interface {
	Resolve(ctx context.Context, userId uuid.UUID, conflictId uuid.UUID) (*dto.ResolveConflictResponse, error)
	Reopen(ctx context.Context, userId uuid.UUID, conflictId uuid.UUID) (*dto.ResolveConflictResponse, error)
}

type conflictService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	stateCache     *cache.StateCache
}

func NewConflictService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	stateCache *cache.StateCache,
) IConflictService {
	return &conflictService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		stateCache:     stateCache,
	}
}

func (s *conflictService) Resolve(ctx context.Context, userId uuid.UUID, conflictId uuid.UUID) (*dto.ResolveConflictResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conflict, err := uow.ConflictRepository().FindOne(ctx,
		specification.ByID{ID: conflictId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conflict == nil {
		return nil, ErrConflictNotFound
	}

	if conflict.Status == entity.ConflictStatusResolved {
		return &dto.ResolveConflictResponse{Id: conflict.Id, Status: string(conflict.Status)}, nil
	}

	now := time.Now()
	conflict.Status = entity.ConflictStatusResolved
	conflict.ResolvedAt = &now
	conflict.ResolvedBy = &userId

	if err := uow.ConflictRepository().Update(ctx, conflict); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeConflictResolved,
			Data: map[string]interface{}{
				"conflict_id": conflict.Id,
				"user_id":     userId,
				"severity":    conflict.Severity,
			},
			OccurredAt: now,
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish CONFLICT_RESOLVED event: %v\n", err)
		}
	}

	s.stateCache.Invalidate(ctx, userId)

	return &dto.ResolveConflictResponse{Id: conflict.Id, Status: string(conflict.Status)}, nil
}

func (s *conflictService) Reopen(ctx context.Context, userId uuid.UUID, conflictId uuid.UUID) (*dto.ResolveConflictResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conflict, err := uow.ConflictRepository().FindOne(ctx,
		specification.ByID{ID: conflictId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conflict == nil {
		return nil, ErrConflictNotFound
	}

	conflict.Status = entity.ConflictStatusUnresolved
	conflict.ResolvedAt = nil
	conflict.ResolvedBy = nil

	if err := uow.ConflictRepository().Update(ctx, conflict); err != nil {
		return nil, err
	}

	s.stateCache.Invalidate(ctx, userId)

	return &dto.ResolveConflictResponse{Id: conflict.Id, Status: string(conflict.Status)}, nil
}
