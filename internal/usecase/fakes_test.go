package usecase

import (
	"context"
	"errors"
	"io"
	"sync"

	"telehealth-directory/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeDirectory struct {
	mu      sync.Mutex
	doctors []entity.Doctor
	err     error
	gate    chan struct{}
	calls   int
}

func (f *fakeDirectory) FetchAll(ctx context.Context) ([]entity.Doctor, error) {
	f.mu.Lock()
	f.calls++
	doctors, err, gate := f.doctors, f.err, f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return append([]entity.Doctor(nil), doctors...), nil
}

func (f *fakeDirectory) set(doctors []entity.Doctor, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doctors, f.err = doctors, err
}

func (f *fakeDirectory) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type classification struct {
	specialty string
	found     bool
	err       error
}

type fakeClassifier struct {
	mu      sync.Mutex
	results map[string]classification
	gates   map[string]chan struct{}
	started chan string
}

func newFakeClassifier() *fakeClassifier {
	return &fakeClassifier{
		results: make(map[string]classification),
		gates:   make(map[string]chan struct{}),
	}
}

func (f *fakeClassifier) Classify(ctx context.Context, symptoms string) (string, bool, error) {
	f.mu.Lock()
	r := f.results[symptoms]
	gate := f.gates[symptoms]
	started := f.started
	f.mu.Unlock()

	if started != nil {
		started <- symptoms
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", false, ctx.Err()
		}
	}
	return r.specialty, r.found, r.err
}

func (f *fakeClassifier) on(symptoms string, c classification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[symptoms] = c
}

func (f *fakeClassifier) hold(symptoms string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[symptoms] = gate
	return gate
}

type auditEntry struct {
	actor    string
	action   string
	metadata entity.JSON
}

type recordingAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
	err     error
}

func (s *recordingAuditService) Record(ctx context.Context, actor string, action string, metadata entity.JSON) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, auditEntry{actor: actor, action: action, metadata: metadata})
	return s.err
}

func (s *recordingAuditService) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.action)
	}
	return out
}

type fakeIdentityProvider struct {
	identities map[string]*entity.Identity
	err        error
}

func (p *fakeIdentityProvider) Verify(ctx context.Context, credential string) (*entity.Identity, error) {
	if p.err != nil {
		return nil, p.err
	}
	identity, ok := p.identities[credential]
	if !ok {
		return nil, errors.New("credential rejected")
	}
	return identity, nil
}
