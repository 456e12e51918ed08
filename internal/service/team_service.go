package service

import (
	"context"
	"errors"
	"time"

	"doc-checker-be/internal/dto"
	"doc-checker-be/internal/entity"
	"doc-checker-be/internal/repository/specification"
	"doc-checker-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var ErrNoTeam = errors.New("user does not belong to a team")

type ITeamService interface {
	ListMembers(ctx context.Context, userId uuid.UUID) ([]dto.TeamMemberDTO, error)
	AddMember(ctx context.Context, userId uuid.UUID, req *dto.AddTeamMemberRequest) (*dto.AddTeamMemberResponse, error)
	RemoveMember(ctx context.Context, userId uuid.UUID, memberId uuid.UUID) error
}

type teamService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewTeamService(uowFactory unitofwork.RepositoryFactory) ITeamService {
	return &teamService{uowFactory: uowFactory}
}

func (s *teamService) teamOf(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (uuid.UUID, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return uuid.Nil, err
	}
	if user == nil || user.TeamId == nil {
		return uuid.Nil, ErrNoTeam
	}
	return *user.TeamId, nil
}

func (s *teamService) ListMembers(ctx context.Context, userId uuid.UUID) ([]dto.TeamMemberDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	teamId, err := s.teamOf(ctx, uow, userId)
	if err != nil {
		if errors.Is(err, ErrNoTeam) {
			return []dto.TeamMemberDTO{}, nil
		}
		return nil, err
	}

	members, err := uow.TeamRepository().FindMembers(ctx,
		specification.ByTeamID{TeamID: teamId},
		specification.OrderBy{Field: "joined_at"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.TeamMemberDTO, 0, len(members))
	for _, m := range members {
		res = append(res, dto.TeamMemberDTO{
			Id:       m.Id,
			Name:     m.Name,
			Email:    m.Email,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		})
	}
	return res, nil
}

func (s *teamService) AddMember(ctx context.Context, userId uuid.UUID, req *dto.AddTeamMemberRequest) (*dto.AddTeamMemberResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	teamId, err := s.teamOf(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	member := &entity.TeamMember{
		Id:       uuid.New(),
		TeamId:   teamId,
		Name:     req.Name,
		Email:    req.Email,
		Role:     entity.TeamRole(req.Role),
		JoinedAt: time.Now(),
	}

	if err := uow.TeamRepository().AddMember(ctx, member); err != nil {
		return nil, err
	}

	return &dto.AddTeamMemberResponse{Id: member.Id}, nil
}

func (s *teamService) RemoveMember(ctx context.Context, userId uuid.UUID, memberId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	teamId, err := s.teamOf(ctx, uow, userId)
	if err != nil {
		return err
	}

	members, err := uow.TeamRepository().FindMembers(ctx,
		specification.ByID{ID: memberId},
		specification.ByTeamID{TeamID: teamId},
	)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return errors.New("team member not found")
	}

	return uow.TeamRepository().RemoveMember(ctx, memberId)
}
