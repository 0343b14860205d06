package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"trama/internal/domain"
	"trama/internal/repository"
)

type memberService struct {
	members repository.MemberRepo
}

func NewMemberService(members repository.MemberRepo) MemberService {
	return &memberService{members: members}
}

func (s *memberService) Upsert(ctx context.Context, m *domain.Member) error {
	if m.MembershipID == "" {
		m.MembershipID = uuid.New().String()
	}
	if strings.TrimSpace(m.Name) == "" && strings.TrimSpace(m.Email) == "" {
		return fmt.Errorf("member needs a name or an email")
	}
	return s.members.Upsert(ctx, m)
}

func (s *memberService) List(ctx context.Context) ([]domain.Member, error) {
	return s.members.List(ctx)
}

func (s *memberService) Delete(ctx context.Context, membershipID string) error {
	return s.members.Delete(ctx, membershipID)
}

type commentService struct {
	comments repository.CommentRepo
}

func NewCommentService(comments repository.CommentRepo) CommentService {
	return &commentService{comments: comments}
}

func (s *commentService) Post(ctx context.Context, projectID, author, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("comment body is required")
	}
	c := &domain.Comment{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		AuthorName: author,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *commentService) ListByProject(ctx context.Context, projectID string, limit int) ([]domain.Comment, error) {
	return s.comments.ListByProject(ctx, projectID, limit)
}
