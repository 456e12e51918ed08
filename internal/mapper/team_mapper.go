package mapper

import (
	"doc-checker-be/internal/entity"
	"doc-checker-be/internal/model"
)

type TeamMemberMapper struct{}

func NewTeamMemberMapper() *TeamMemberMapper {
	return &TeamMemberMapper{}
}

func (m *TeamMemberMapper) ToEntity(t *model.TeamMember) *entity.TeamMember {
	if t == nil {
		return nil
	}
	return &entity.TeamMember{
		Id:       t.Id,
		TeamId:   t.TeamId,
		Name:     t.Name,
		Email:    t.Email,
		Role:     entity.TeamRole(t.Role),
		JoinedAt: t.JoinedAt,
	}
}

func (m *TeamMemberMapper) ToModel(t *entity.TeamMember) *model.TeamMember {
	if t == nil {
		return nil
	}
	return &model.TeamMember{
		Id:       t.Id,
		TeamId:   t.TeamId,
		Name:     t.Name,
		Email:    t.Email,
		Role:     string(t.Role),
		JoinedAt: t.JoinedAt,
	}
}

func (m *TeamMemberMapper) ToEntities(members []*model.TeamMember) []*entity.TeamMember {
	entities := make([]*entity.TeamMember, len(members))
	for i, t := range members {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
