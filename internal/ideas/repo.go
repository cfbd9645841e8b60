package ideas

import (
	"context"
	"sort"
	"strings"
	"sync"

	"idea-analyzer/internal/scoring"
)

// Filter narrows List. Zero values match everything.
type Filter struct {
	OwnerID string
	Band    scoring.Band
	Query   string
	Limit   int
	Offset  int
}

func (f Filter) matches(idea SubmittedIdea) bool {
	if f.OwnerID != "" && idea.OwnerID != f.OwnerID {
		return false
	}
	if f.Band != "" && idea.Band != f.Band {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(idea.Title), q) && !strings.Contains(strings.ToLower(idea.Description), q) {
			return false
		}
	}
	return true
}

// Repo persists submitted ideas.
type Repo interface {
	Create(ctx context.Context, idea SubmittedIdea) error
	Get(ctx context.Context, id string) (SubmittedIdea, error)
	List(ctx context.Context, filter Filter) ([]SubmittedIdea, error)
	AddAnnotation(ctx context.Context, id string, note Annotation) (SubmittedIdea, error)
}

// MemoryRepo stores ideas in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]SubmittedIdea
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]SubmittedIdea)}
}

// Create stores the idea.
func (r *MemoryRepo) Create(ctx context.Context, idea SubmittedIdea) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[idea.ID] = cloneIdea(idea)
	return nil
}

// Get returns an idea by ID.
func (r *MemoryRepo) Get(ctx context.Context, id string) (SubmittedIdea, error) {
	if err := ctx.Err(); err != nil {
		return SubmittedIdea{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	idea, ok := r.byID[id]
	if !ok {
		return SubmittedIdea{}, ErrNotFound
	}
	return cloneIdea(idea), nil
}

// List returns matching ideas, newest first, with limit/offset.
func (r *MemoryRepo) List(ctx context.Context, filter Filter) ([]SubmittedIdea, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]SubmittedIdea, 0, len(r.byID))
	for _, idea := range r.byID {
		if filter.matches(idea) {
			out = append(out, cloneIdea(idea))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return []SubmittedIdea{}, nil
	}
	end := len(out)
	if filter.Limit > 0 && offset+filter.Limit < end {
		end = offset + filter.Limit
	}
	return out[offset:end], nil
}

// AddAnnotation appends a note and returns the updated idea.
func (r *MemoryRepo) AddAnnotation(ctx context.Context, id string, note Annotation) (SubmittedIdea, error) {
	if err := ctx.Err(); err != nil {
		return SubmittedIdea{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idea, ok := r.byID[id]
	if !ok {
		return SubmittedIdea{}, ErrNotFound
	}
	idea = cloneIdea(idea)
	idea.Annotations = append(idea.Annotations, note)
	r.byID[id] = idea
	return cloneIdea(idea), nil
}

// cloneIdea copies the annotation slice so callers cannot mutate stored state.
func cloneIdea(idea SubmittedIdea) SubmittedIdea {
	notes := make([]Annotation, len(idea.Annotations))
	copy(notes, idea.Annotations)
	idea.Annotations = notes
	return idea
}
