package domain

import "context"

// ListFilter narrows an owner-scoped listing. Status "all" (or empty) means
// no status restriction; Search is a case-insensitive substring match over
// title, description and research focus.
type ListFilter struct {
	Status string
	Search string
}

type ExperimentRepository interface {
	// ListByOwner returns the owner's experiments, newest-created first.
	ListByOwner(ctx context.Context, ownerID string, filter ListFilter) ([]Experiment, error)
	// GetByIDAndOwner returns (nil, nil) when the experiment is absent or
	// owned by someone else; callers must not be able to tell the two apart.
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*Experiment, error)
	Create(ctx context.Context, e *Experiment) error
	Update(ctx context.Context, e *Experiment) error
	// DeleteByIDAndOwner hard-deletes and reports whether a row was removed.
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (bool, error)
}
