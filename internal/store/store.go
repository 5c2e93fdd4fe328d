package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ppiankov/lacuna/internal/model"
)

const (
	papersFile   = "papers.json"
	claimsFile   = "claims.json"
	analysisFile = "analysis.json"
)

// Store is the JSON file-backed persistence layer for papers, claims
// and analysis results. It is constructed once via Open, loaded eagerly,
// and passed by reference to the pipelines. Every mutation is persisted
// before returning. The analysis core treats store contents as read-only
// snapshots; serialization of writes happens here.
type Store struct {
	mu  sync.RWMutex
	dir string

	papers   map[string]model.Paper
	claims   map[string]model.Claim
	analyses map[string]model.AnalysisResult
}

// Open loads (or initializes) a store rooted at dir
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	s := &Store{
		dir:      dir,
		papers:   make(map[string]model.Paper),
		claims:   make(map[string]model.Claim),
		analyses: make(map[string]model.AnalysisResult),
	}

	var papers []model.Paper
	if err := s.loadFile(papersFile, &papers); err != nil {
		return nil, err
	}
	for _, p := range papers {
		s.papers[p.ID] = p
	}

	var claims []model.Claim
	if err := s.loadFile(claimsFile, &claims); err != nil {
		return nil, err
	}
	for _, c := range claims {
		s.claims[c.ID] = c
	}

	var analyses []model.AnalysisResult
	if err := s.loadFile(analysisFile, &analyses); err != nil {
		return nil, err
	}
	for _, a := range analyses {
		s.analyses[a.ID] = a
	}

	return s, nil
}

// AddPaper inserts or replaces a paper
func (s *Store) AddPaper(paper model.Paper) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.papers[paper.ID] = paper
	return s.persistPapers()
}

// UpdatePaper applies mutate to the stored paper and persists it,
// returning the updated copy
func (s *Store) UpdatePaper(id string, mutate func(*model.Paper)) (model.Paper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paper, ok := s.papers[id]
	if !ok {
		return model.Paper{}, fmt.Errorf("paper not found: %s", id)
	}

	mutate(&paper)
	s.papers[id] = paper

	if err := s.persistPapers(); err != nil {
		return model.Paper{}, err
	}
	return paper, nil
}

// GetPaper returns a paper by ID
func (s *Store) GetPaper(id string) (model.Paper, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paper, ok := s.papers[id]
	return paper, ok
}

// GetAllPapers returns all papers ordered by upload time
func (s *Store) GetAllPapers() []model.Paper {
	s.mu.RLock()
	defer s.mu.RUnlock()

	papers := make([]model.Paper, 0, len(s.papers))
	for _, p := range s.papers {
		papers = append(papers, p)
	}
	sort.Slice(papers, func(i, j int) bool {
		return papers[i].UploadedAt < papers[j].UploadedAt
	})
	return papers
}

// DeletePaper removes a paper and all claims belonging to it
func (s *Store) DeletePaper(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.papers[id]; !ok {
		return false, nil
	}
	delete(s.papers, id)

	for claimID, claim := range s.claims {
		if claim.PaperID == id {
			delete(s.claims, claimID)
		}
	}

	if err := s.persistPapers(); err != nil {
		return true, err
	}
	return true, s.persistClaims()
}

// AddClaim inserts or replaces a claim
func (s *Store) AddClaim(claim model.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.claims[claim.ID] = claim
	return s.persistClaims()
}

// AddClaims inserts a batch of claims with a single persist
func (s *Store) AddClaims(claims []model.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range claims {
		s.claims[c.ID] = c
	}
	return s.persistClaims()
}

// GetClaim returns a claim by ID
func (s *Store) GetClaim(id string) (model.Claim, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	claim, ok := s.claims[id]
	return claim, ok
}

// GetClaimsByPaper returns all claims belonging to a paper
func (s *Store) GetClaimsByPaper(paperID string) []model.Claim {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var claims []model.Claim
	for _, c := range s.claims {
		if c.PaperID == paperID {
			claims = append(claims, c)
		}
	}
	sort.Slice(claims, func(i, j int) bool {
		return claims[i].ID < claims[j].ID
	})
	return claims
}

// SaveAnalysis inserts or replaces an analysis result
func (s *Store) SaveAnalysis(analysis model.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analyses[analysis.ID] = analysis
	return s.persistAnalyses()
}

// GetAnalysis returns an analysis result by ID
func (s *Store) GetAnalysis(id string) (model.AnalysisResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	analysis, ok := s.analyses[id]
	return analysis, ok
}

// GetLatestAnalysis returns the analysis with the greatest CreatedAt.
// Timestamps are RFC 3339, so lexicographic order is chronological.
func (s *Store) GetLatestAnalysis() (model.AnalysisResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest model.AnalysisResult
	found := false
	for _, a := range s.analyses {
		if !found || strings.Compare(a.CreatedAt, latest.CreatedAt) > 0 {
			latest = a
			found = true
		}
	}
	return latest, found
}

func (s *Store) loadFile(name string, out interface{}) error {
	path := filepath.Join(s.dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) persistFile(name string, in interface{}) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *Store) persistPapers() error {
	papers := make([]model.Paper, 0, len(s.papers))
	for _, p := range s.papers {
		papers = append(papers, p)
	}
	sort.Slice(papers, func(i, j int) bool { return papers[i].ID < papers[j].ID })
	return s.persistFile(papersFile, papers)
}

func (s *Store) persistClaims() error {
	claims := make([]model.Claim, 0, len(s.claims))
	for _, c := range s.claims {
		claims = append(claims, c)
	}
	sort.Slice(claims, func(i, j int) bool { return claims[i].ID < claims[j].ID })
	return s.persistFile(claimsFile, claims)
}

func (s *Store) persistAnalyses() error {
	analyses := make([]model.AnalysisResult, 0, len(s.analyses))
	for _, a := range s.analyses {
		analyses = append(analyses, a)
	}
	sort.Slice(analyses, func(i, j int) bool { return analyses[i].ID < analyses[j].ID })
	return s.persistFile(analysisFile, analyses)
}
