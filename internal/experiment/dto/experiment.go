package dto

import (
	"time"

	"github.com/tangimds/EMS/internal/experiment/domain"
)

type AttachmentInput struct {
	Name      string     `json:"name"`
	URL       string     `json:"url"`
	CreatedAt *time.Time `json:"created_at"`
}

type CreateExperimentInput struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	ResearchFocus string            `json:"research_focus"`
	Status        string            `json:"status"`
	CollectedData string            `json:"collected_data"`
	StartDate     *time.Time        `json:"start_date"`
	EndDate       *time.Time        `json:"end_date"`
	Attachments   []AttachmentInput `json:"attachments"`
}

// UpdateExperimentInput is the explicit allow-list of mutable fields. A
// payload trying to set owner or id simply has nowhere to land: unknown
// keys are dropped during decoding, before the policy layer runs. Nil
// pointers mean "leave untouched".
type UpdateExperimentInput struct {
	Title         *string            `json:"title"`
	Description   *string            `json:"description"`
	ResearchFocus *string            `json:"research_focus"`
	Status        *string            `json:"status"`
	CollectedData *string            `json:"collected_data"`
	StartDate     *time.Time         `json:"start_date"`
	EndDate       *time.Time         `json:"end_date"`
	Attachments   *[]AttachmentInput `json:"attachments"`
}

type ExperimentOutput struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	ResearchFocus string              `json:"research_focus"`
	Status        string              `json:"status"`
	CollectedData string              `json:"collected_data"`
	StartDate     time.Time           `json:"start_date"`
	EndDate       *time.Time          `json:"end_date,omitempty"`
	Attachments   []domain.Attachment `json:"attachments"`
	Owner         string              `json:"owner"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func NewExperimentOutput(e *domain.Experiment) ExperimentOutput {
	attachments := e.Attachments
	if attachments == nil {
		attachments = []domain.Attachment{}
	}
	return ExperimentOutput{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		ResearchFocus: e.ResearchFocus,
		Status:        string(e.Status),
		CollectedData: e.CollectedData,
		StartDate:     e.StartDate,
		EndDate:       e.EndDate,
		Attachments:   attachments,
		Owner:         e.OwnerID,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func NewExperimentOutputs(list []domain.Experiment) []ExperimentOutput {
	out := make([]ExperimentOutput, 0, len(list))
	for i := range list {
		out = append(out, NewExperimentOutput(&list[i]))
	}
	return out
}
