package analysis

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/lacuna/internal/llm"
	"github.com/ppiankov/lacuna/internal/model"
	"github.com/ppiankov/lacuna/internal/store"
	"github.com/ppiankov/lacuna/internal/util"
)

// Analyzer orchestrates a full analysis run over every ready paper:
// theme clustering, then relationship mapping and contradiction
// detection in parallel, then gap finding. The run's AnalysisResult is
// persisted after each completed stage so partial output survives a
// failure.
type Analyzer struct {
	store          *store.Store
	themes         *ThemeClusterer
	relationships  *RelationshipMapper
	contradictions *ContradictionDetector
	gaps           *GapFinder
	questions      *QuestionGenerator
}

// NewAnalyzer creates an analyzer backed by the given store and
// extractor
func NewAnalyzer(st *store.Store, ex *llm.Extractor, cfg *model.Config) *Analyzer {
	return &Analyzer{
		store:          st,
		themes:         NewThemeClusterer(ex),
		relationships:  NewRelationshipMapper(ex),
		contradictions: NewContradictionDetector(ex, cfg.Analysis.PairBatchSize),
		gaps:           NewGapFinder(ex, cfg.Analysis.SparseDensityThreshold),
		questions:      NewQuestionGenerator(ex),
	}
}

func (a *Analyzer) readyClaims() ([]model.Claim, []string) {
	var claims []model.Claim
	var paperIDs []string

	for _, paper := range a.store.GetAllPapers() {
		if paper.Status != model.StatusReady {
			continue
		}
		paperIDs = append(paperIDs, paper.ID)
		claims = append(claims, a.store.GetClaimsByPaper(paper.ID)...)
	}

	return claims, paperIDs
}

// withThemeLinks returns copies of the claims annotated with the IDs of
// the themes that reference them. Stored claims are left untouched; the
// links only feed downstream candidate pairing within this run.
func withThemeLinks(claims []model.Claim, themes []model.Theme) []model.Claim {
	claimThemes := map[string][]string{}
	for _, t := range themes {
		for _, claimID := range t.ClaimIDs {
			claimThemes[claimID] = append(claimThemes[claimID], t.ID)
		}
	}

	linked := make([]model.Claim, len(claims))
	for i, c := range claims {
		linked[i] = c
		if ids := claimThemes[c.ID]; ids != nil {
			linked[i].ThemeIDs = ids
		}
	}
	return linked
}

// Run executes the analysis pipeline over all ready papers and returns
// the persisted result. A failed stage marks the analysis errored,
// keeping whatever earlier stages produced.
func (a *Analyzer) Run(ctx context.Context) (*model.AnalysisResult, error) {
	claims, paperIDs := a.readyClaims()
	if len(claims) == 0 {
		return nil, fmt.Errorf("no claims to analyze: ingest papers first")
	}

	analysis := model.AnalysisResult{
		ID:             util.NewID("analysis"),
		PaperIDs:       paperIDs,
		Themes:         []model.Theme{},
		Relationships:  []model.Relationship{},
		Contradictions: []model.Contradiction{},
		Gaps:           []model.Gap{},
		Questions:      []model.ResearchQuestion{},
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		Status:         model.AnalysisRunning,
	}
	if err := a.store.SaveAnalysis(analysis); err != nil {
		return nil, err
	}

	fail := func(err error) (*model.AnalysisResult, error) {
		analysis.Status = model.AnalysisError
		if serr := a.store.SaveAnalysis(analysis); serr != nil {
			return nil, fmt.Errorf("%w (save analysis: %v)", err, serr)
		}
		return nil, err
	}

	// Stage 1: theme clustering
	themes, err := a.themes.Cluster(ctx, claims)
	if err != nil {
		return fail(err)
	}
	analysis.Themes = themes
	if err := a.store.SaveAnalysis(analysis); err != nil {
		return fail(err)
	}

	linked := withThemeLinks(claims, themes)

	// Stage 2: relationships and contradictions, independently
	var relationships []model.Relationship
	var contradictions []model.Contradiction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rels, err := a.relationships.Map(gctx, themes)
		if err != nil {
			return err
		}
		relationships = rels
		return nil
	})
	g.Go(func() error {
		contras, err := a.contradictions.Detect(gctx, linked)
		contradictions = contras
		return err
	})
	if err := g.Wait(); err != nil {
		analysis.Relationships = relationships
		analysis.Contradictions = contradictions
		return fail(err)
	}

	analysis.Relationships = relationships
	analysis.Contradictions = contradictions
	if err := a.store.SaveAnalysis(analysis); err != nil {
		return fail(err)
	}

	// Stage 3: gap finding
	gaps, err := a.gaps.Find(ctx, themes, relationships, contradictions)
	if err != nil {
		return fail(err)
	}
	analysis.Gaps = gaps
	analysis.Status = model.AnalysisComplete
	if err := a.store.SaveAnalysis(analysis); err != nil {
		return fail(err)
	}

	return &analysis, nil
}

// GenerateQuestions generates research questions for the latest
// completed analysis and persists them onto it
func (a *Analyzer) GenerateQuestions(ctx context.Context) ([]model.ResearchQuestion, error) {
	analysis, ok := a.store.GetLatestAnalysis()
	if !ok {
		return nil, fmt.Errorf("no analysis found: run an analysis first")
	}
	if analysis.Status != model.AnalysisComplete {
		return nil, fmt.Errorf("latest analysis is %s: run a fresh analysis first", analysis.Status)
	}
	if len(analysis.Gaps) == 0 {
		return nil, nil
	}

	questions, err := a.questions.Generate(ctx, analysis.Gaps, analysis.Themes)
	if err != nil {
		return nil, err
	}

	analysis.Questions = questions
	if err := a.store.SaveAnalysis(analysis); err != nil {
		return nil, err
	}

	return questions, nil
}
