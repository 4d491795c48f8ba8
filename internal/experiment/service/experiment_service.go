package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/tangimds/EMS/internal/errors"
	"github.com/tangimds/EMS/internal/experiment/domain"
	"github.com/tangimds/EMS/internal/experiment/dto"
)

// ExperimentService is the access-policy boundary: every operation takes
// the requesting identity's id and scopes the underlying query to it, so a
// record owned by someone else is indistinguishable from one that does not
// exist.
type ExperimentService struct {
	repo domain.ExperimentRepository
}

func NewExperimentService(repo domain.ExperimentRepository) *ExperimentService {
	return &ExperimentService{repo: repo}
}

func (s *ExperimentService) List(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Experiment, error) {
	return s.repo.ListByOwner(ctx, ownerID, filter)
}

func (s *ExperimentService) Get(ctx context.Context, ownerID, id string) (*domain.Experiment, error) {
	experiment, err := s.repo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if experiment == nil {
		return nil, apperrors.ErrNotFound
	}
	return experiment, nil
}

func (s *ExperimentService) Create(ctx context.Context, ownerID string, input dto.CreateExperimentInput) (*domain.Experiment, error) {
	title := strings.TrimSpace(input.Title)
	if len(title) < 3 {
		return nil, apperrors.NewValidation("title", "Title must be at least 3 characters long")
	}

	status := domain.StatusPlanning
	if input.Status != "" {
		status = domain.Status(input.Status)
		if !status.Valid() {
			return nil, apperrors.NewValidation("status", "Invalid status")
		}
	}

	now := time.Now()

	startDate := now
	if input.StartDate != nil {
		startDate = *input.StartDate
	}

	experiment := &domain.Experiment{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		Title:         title,
		Description:   strings.TrimSpace(input.Description),
		ResearchFocus: strings.TrimSpace(input.ResearchFocus),
		Status:        status,
		CollectedData: strings.TrimSpace(input.CollectedData),
		StartDate:     startDate,
		EndDate:       input.EndDate,
		Attachments:   newAttachments(input.Attachments, now),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, experiment); err != nil {
		return nil, err
	}

	return experiment, nil
}

// Update applies a partial update. Only fields present in the input are
// validated and written; owner and id are not part of the input type at
// all, so they cannot be overwritten.
func (s *ExperimentService) Update(ctx context.Context, ownerID, id string, input dto.UpdateExperimentInput) (*domain.Experiment, error) {
	experiment, err := s.repo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if experiment == nil {
		return nil, apperrors.ErrNotFound
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if len(title) < 3 {
			return nil, apperrors.NewValidation("title", "Title must be at least 3 characters long")
		}
		experiment.Title = title
	}

	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if len(description) < 10 {
			return nil, apperrors.NewValidation("description", "Description must be at least 10 characters long")
		}
		experiment.Description = description
	}

	if input.ResearchFocus != nil {
		focus := strings.TrimSpace(*input.ResearchFocus)
		if focus == "" {
			return nil, apperrors.NewValidation("research_focus", "Research focus is required")
		}
		experiment.ResearchFocus = focus
	}

	if input.Status != nil {
		status := domain.Status(*input.Status)
		if !status.Valid() {
			return nil, apperrors.NewValidation("status", "Invalid status")
		}
		experiment.Status = status
	}

	if input.CollectedData != nil {
		experiment.CollectedData = strings.TrimSpace(*input.CollectedData)
	}

	if input.StartDate != nil {
		experiment.StartDate = *input.StartDate
	}

	if input.EndDate != nil {
		experiment.EndDate = input.EndDate
	}

	if input.Attachments != nil {
		// Whole-array replacement; concurrent attachment edits race and the
		// last write wins.
		experiment.Attachments = newAttachments(*input.Attachments, time.Now())
	}

	experiment.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, experiment); err != nil {
		return nil, err
	}

	return experiment, nil
}

func (s *ExperimentService) Delete(ctx context.Context, ownerID, id string) error {
	deleted, err := s.repo.DeleteByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.ErrNotFound
	}
	return nil
}

func newAttachments(inputs []dto.AttachmentInput, at time.Time) []domain.Attachment {
	if inputs == nil {
		return nil
	}
	attachments := make([]domain.Attachment, 0, len(inputs))
	for _, in := range inputs {
		createdAt := at
		if in.CreatedAt != nil {
			createdAt = *in.CreatedAt
		}
		attachments = append(attachments, domain.Attachment{
			Name:      in.Name,
			URL:       in.URL,
			CreatedAt: createdAt,
		})
	}
	return attachments
}
