package usecase

import (
	"context"
	"strings"
	"sync"

	"telehealth-directory/internal/domain/entity"
	"telehealth-directory/internal/domain/gateway"
	"telehealth-directory/internal/domain/repository"
	"telehealth-directory/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// SearchOutcome describes how one Submit call finished.
type SearchOutcome struct {
	Query       string
	Specialty   string
	ResultCount int
	NoMatch     bool
	Cleared     bool
	Superseded  bool
}

// DirectorySearchCoordinator owns the doctor list and search state of one
// directory screen. The last submitted search wins: a newer Submit or Clear
// cancels the one in flight and its result is dropped.
type DirectorySearchCoordinator struct {
	directory  repository.DoctorDirectoryRepository
	classifier gateway.SymptomClassifier
	log        *logrus.Logger
	metrics    *metrics.Metrics

	mu           sync.Mutex
	state        entity.SearchState
	baseline     []entity.Doctor
	searchSeq    uint64
	loadSeq      uint64
	cancelSearch context.CancelFunc
	cancelLoad   context.CancelFunc
}

func NewDirectorySearchCoordinator(
	directory repository.DoctorDirectoryRepository,
	classifier gateway.SymptomClassifier,
	log *logrus.Logger,
	m *metrics.Metrics,
) *DirectorySearchCoordinator {
	return &DirectorySearchCoordinator{
		directory:  directory,
		classifier: classifier,
		log:        log,
		metrics:    m,
		state:      entity.SearchState{Results: []entity.Doctor{}},
		baseline:   []entity.Doctor{},
	}
}

// LoadDirectory replaces the baseline with the approved directory. Failures
// leave an empty baseline.
func (c *DirectorySearchCoordinator) LoadDirectory(ctx context.Context) entity.DirectoryView {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	if c.cancelLoad != nil {
		c.cancelLoad()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancelLoad = cancel
	c.mu.Unlock()
	defer cancel()

	doctors, err := c.fetchApproved(ctx)
	if err != nil {
		c.log.Warnf("Failed to load doctor directory: %+v", err)
		doctors = []entity.Doctor{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.loadSeq {
		return c.viewLocked()
	}
	c.baseline = doctors
	c.cancelLoad = nil
	c.metrics.ObserveBaseline(len(doctors))
	return c.viewLocked()
}

// Submit runs a symptom search. A blank query is the same as Clear.
func (c *DirectorySearchCoordinator) Submit(ctx context.Context, query string) (entity.DirectoryView, SearchOutcome) {
	if strings.TrimSpace(query) == "" {
		return c.Clear(), SearchOutcome{Cleared: true}
	}

	c.mu.Lock()
	c.searchSeq++
	seq := c.searchSeq
	if c.cancelSearch != nil {
		c.cancelSearch()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancelSearch = cancel
	c.mu.Unlock()
	defer cancel()

	outcome := SearchOutcome{Query: query}
	results := c.search(ctx, query, &outcome)
	outcome.ResultCount = len(results)
	outcome.NoMatch = len(results) == 0

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.searchSeq {
		outcome.Superseded = true
		c.metrics.ObserveSearch(metrics.OutcomeSuperseded)
		return c.viewLocked(), outcome
	}

	c.state = entity.SearchState{
		Query:        query,
		Active:       true,
		Results:      results,
		NoMatchFound: len(results) == 0,
	}
	c.cancelSearch = nil
	if outcome.NoMatch {
		c.metrics.ObserveSearch(metrics.OutcomeNoMatch)
	} else {
		c.metrics.ObserveSearch(metrics.OutcomeMatched)
	}
	return c.viewLocked(), outcome
}

// Clear drops the current search and any search still in flight.
func (c *DirectorySearchCoordinator) Clear() entity.DirectoryView {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.searchSeq++
	if c.cancelSearch != nil {
		c.cancelSearch()
		c.cancelSearch = nil
	}
	c.state = entity.SearchState{Results: []entity.Doctor{}}
	c.metrics.ObserveSearch(metrics.OutcomeCleared)
	return c.viewLocked()
}

// View returns the current view state.
func (c *DirectorySearchCoordinator) View() entity.DirectoryView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// State returns a copy of the search state.
func (c *DirectorySearchCoordinator) State() entity.SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	st.Results = append([]entity.Doctor{}, c.state.Results...)
	return st
}

// Close cancels in-flight work. Results that arrive later are dropped.
func (c *DirectorySearchCoordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.searchSeq++
	c.loadSeq++
	if c.cancelSearch != nil {
		c.cancelSearch()
		c.cancelSearch = nil
	}
	if c.cancelLoad != nil {
		c.cancelLoad()
		c.cancelLoad = nil
	}
}

func (c *DirectorySearchCoordinator) search(ctx context.Context, query string, outcome *SearchOutcome) []entity.Doctor {
	specialty, found, err := c.classifier.Classify(ctx, query)
	if err != nil {
		c.log.Warnf("Failed to classify symptoms: %+v", err)
		return []entity.Doctor{}
	}
	if !found {
		return []entity.Doctor{}
	}
	outcome.Specialty = specialty

	doctors, err := c.fetchApproved(ctx)
	if err != nil {
		c.log.Warnf("Failed to fetch doctor directory for search: %+v", err)
		return []entity.Doctor{}
	}

	results := make([]entity.Doctor, 0)
	for _, d := range doctors {
		if d.MatchesSpecialty(specialty) {
			results = append(results, d)
		}
	}
	return results
}

func (c *DirectorySearchCoordinator) fetchApproved(ctx context.Context) ([]entity.Doctor, error) {
	doctors, err := c.directory.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return entity.ApprovedOnly(doctors), nil
}

func (c *DirectorySearchCoordinator) viewLocked() entity.DirectoryView {
	view := c.state.Project(c.baseline)
	view.Doctors = append([]entity.Doctor{}, view.Doctors...)
	return view
}
