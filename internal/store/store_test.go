package store

import (
	"testing"

	"github.com/ppiankov/lacuna/internal/model"
)

func paper(id, uploadedAt string) model.Paper {
	return model.Paper{
		ID:         id,
		Filename:   id + ".pdf",
		Title:      "Paper " + id,
		UploadedAt: uploadedAt,
		Status:     model.StatusReady,
	}
}

func TestStore_PaperRoundTrip(t *testing.T) {
	dir := t.TempDir()

	st, err := Open(dir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if err := st.AddPaper(paper("paper_1", "2026-01-01T00:00:00Z")); err != nil {
		t.Fatalf("add paper: %v", err)
	}

	// Reopen and verify persistence
	st2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}

	got, ok := st2.GetPaper("paper_1")
	if !ok {
		t.Fatal("Expected paper to survive reopen")
	}
	if got.Title != "Paper paper_1" {
		t.Errorf("Expected title to round-trip, got %q", got.Title)
	}
}

func TestStore_UpdatePaperReturnsCopy(t *testing.T) {
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if err := st.AddPaper(paper("paper_1", "2026-01-01T00:00:00Z")); err != nil {
		t.Fatalf("add paper: %v", err)
	}

	updated, err := st.UpdatePaper("paper_1", func(p *model.Paper) {
		p.Status = model.StatusError
	})
	if err != nil {
		t.Fatalf("update paper: %v", err)
	}
	if updated.Status != model.StatusError {
		t.Errorf("Expected updated status in returned copy, got %q", updated.Status)
	}

	stored, _ := st.GetPaper("paper_1")
	if stored.Status != model.StatusError {
		t.Errorf("Expected updated status in store, got %q", stored.Status)
	}
}

func TestStore_UpdateMissingPaper(t *testing.T) {
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if _, err := st.UpdatePaper("paper_missing", func(p *model.Paper) {}); err == nil {
		t.Fatal("Expected error for unknown paper")
	}
}

func TestStore_GetAllPapersOrdered(t *testing.T) {
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	_ = st.AddPaper(paper("paper_b", "2026-02-01T00:00:00Z"))
	_ = st.AddPaper(paper("paper_a", "2026-01-01T00:00:00Z"))
	_ = st.AddPaper(paper("paper_c", "2026-03-01T00:00:00Z"))

	papers := st.GetAllPapers()
	if len(papers) != 3 {
		t.Fatalf("Expected 3 papers, got %d", len(papers))
	}

	want := []string{"paper_a", "paper_b", "paper_c"}
	for i, id := range want {
		if papers[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, papers[i].ID)
		}
	}
}

func TestStore_DeletePaperCascadesClaims(t *testing.T) {
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	_ = st.AddPaper(paper("paper_1", "2026-01-01T00:00:00Z"))
	_ = st.AddPaper(paper("paper_2", "2026-01-02T00:00:00Z"))
	_ = st.AddClaims([]model.Claim{
		{ID: "claim_1", PaperID: "paper_1", Type: model.ClaimFinding, Statement: "a", Confidence: model.ConfidenceHigh},
		{ID: "claim_2", PaperID: "paper_1", Type: model.ClaimFinding, Statement: "b", Confidence: model.ConfidenceHigh},
		{ID: "claim_3", PaperID: "paper_2", Type: model.ClaimFinding, Statement: "c", Confidence: model.ConfidenceHigh},
	})

	deleted, err := st.DeletePaper("paper_1")
	if err != nil {
		t.Fatalf("delete paper: %v", err)
	}
	if !deleted {
		t.Fatal("Expected deletion to report true")
	}

	if _, ok := st.GetClaim("claim_1"); ok {
		t.Error("Expected claim_1 to be cascaded away")
	}
	if _, ok := st.GetClaim("claim_3"); !ok {
		t.Error("Expected claim_3 of the other paper to survive")
	}

	deleted, err = st.DeletePaper("paper_1")
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Error("Expected second delete to report false")
	}
}

func TestStore_GetClaimsByPaperSorted(t *testing.T) {
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	_ = st.AddClaims([]model.Claim{
		{ID: "claim_c", PaperID: "paper_1"},
		{ID: "claim_a", PaperID: "paper_1"},
		{ID: "claim_b", PaperID: "paper_2"},
	})

	claims := st.GetClaimsByPaper("paper_1")
	if len(claims) != 2 {
		t.Fatalf("Expected 2 claims, got %d", len(claims))
	}
	if claims[0].ID != "claim_a" || claims[1].ID != "claim_c" {
		t.Errorf("Expected claims sorted by ID, got %s then %s", claims[0].ID, claims[1].ID)
	}
}

func TestStore_LatestAnalysis(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(dir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if _, ok := st.GetLatestAnalysis(); ok {
		t.Fatal("Expected no analysis in fresh store")
	}

	_ = st.SaveAnalysis(model.AnalysisResult{ID: "analysis_1", CreatedAt: "2026-01-01T00:00:00Z", Status: model.AnalysisComplete})
	_ = st.SaveAnalysis(model.AnalysisResult{ID: "analysis_2", CreatedAt: "2026-03-01T00:00:00Z", Status: model.AnalysisComplete})
	_ = st.SaveAnalysis(model.AnalysisResult{ID: "analysis_3", CreatedAt: "2026-02-01T00:00:00Z", Status: model.AnalysisComplete})

	latest, ok := st.GetLatestAnalysis()
	if !ok {
		t.Fatal("Expected a latest analysis")
	}
	if latest.ID != "analysis_2" {
		t.Errorf("Expected analysis_2 as latest, got %s", latest.ID)
	}

	// Survives reopen
	st2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	latest, ok = st2.GetLatestAnalysis()
	if !ok || latest.ID != "analysis_2" {
		t.Errorf("Expected latest analysis after reopen, got %v %v", latest.ID, ok)
	}
}
