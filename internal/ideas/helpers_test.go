package ideas

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"idea-analyzer/internal/analyzer"
	"idea-analyzer/internal/auth"
	"idea-analyzer/internal/inflight"
	"idea-analyzer/internal/runs"
)

const scoredPayload = `{
  "success": true,
  "analysis": {
    "businessCanvas": {
      "valueProposition": {"details": "Fresh meals delivered to offices"},
      "channels": {"details": "Not specified"}
    },
    "trafficLightScore": "green",
    "localImpactMapping": "Hires local cooks.",
    "aiScoring": {
      "overallScore": 78,
      "rubrics": {
        "innovation": {"score": 20, "maxScore": 25, "feedback": "Fresh angle"},
        "feasibility": {"score": 18, "maxScore": 25, "feedback": "Doable"}
      },
      "strengths": ["Clear customer"],
      "weaknesses": ["Low margins"],
      "improvements": ["Pilot with two offices"],
      "detailedFeedback": "Solid start."
    }
  }
}`

var (
	founder = auth.User{ID: "user-1", Role: auth.RoleEntrepreneur}
	other   = auth.User{ID: "user-2", Role: auth.RoleEntrepreneur}
	mentor  = auth.User{ID: "user-m", Role: auth.RoleMentor}
	admin   = auth.User{ID: "user-a", Role: auth.RoleAdmin}
)

type fakeRenderer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRenderer) Render(idea SubmittedIdea) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.3 " + idea.ID), nil
}

func (f *fakeRenderer) Filename(idea SubmittedIdea) string {
	return idea.Title + ".pdf"
}

func (f *fakeRenderer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fixture struct {
	svc      *Service
	repo     *MemoryRepo
	runs     *runs.MemoryRepo
	stub     *analyzer.Stub
	renderer *fakeRenderer
	store    *memStore
}

func newFixture() *fixture {
	f := &fixture{
		repo:     NewMemoryRepo(),
		runs:     runs.NewMemoryRepo(),
		stub:     &analyzer.Stub{Payload: analyzer.RawResponse(scoredPayload)},
		renderer: &fakeRenderer{},
		store:    newMemStore(),
	}
	f.svc = &Service{
		Repo:     f.repo,
		Analyzer: f.stub,
		Guard:    inflight.NewMemoryGuard(),
		Runs:     f.runs,
		Renderer: f.renderer,
		Store:    f.store,
		Reports:  NewReportCache(time.Minute),
		Now:      func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) },
	}
	return f
}

// memStore is an in-memory object.Store.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return int64(len(data)), nil
}

func (m *memStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, errors.New("missing")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
