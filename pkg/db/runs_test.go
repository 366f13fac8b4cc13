package db

import (
	"errors"
	"reflect"
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestInsertRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	batchID := NewBatchID()
	runID, err := db.InsertRun(batchID, "reports/acme-10k.html", "mime", "abc123", "2024-FY")
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if runID == "" {
		t.Fatal("InsertRun() returned empty run ID")
	}

	run, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}

	if run.BatchID != batchID {
		t.Errorf("run.BatchID = %q, want %q", run.BatchID, batchID)
	}
	if run.Source != "reports/acme-10k.html" {
		t.Errorf("run.Source = %q, want %q", run.Source, "reports/acme-10k.html")
	}
	if run.Status != StatusRunning {
		t.Errorf("run.Status = %q, want %q", run.Status, StatusRunning)
	}
	if run.FinishedAt != nil {
		t.Errorf("run.FinishedAt = %v, want nil", run.FinishedAt)
	}
	if run.CreatedAt.IsZero() {
		t.Error("run.CreatedAt is zero")
	}
}

func TestFinishRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	batchID := NewBatchID()

	t.Run("succeeded", func(t *testing.T) {
		runID, err := db.InsertRun(batchID, "a.pdf", "pdf", "h1", "2024-FY")
		if err != nil {
			t.Fatalf("InsertRun() error = %v", err)
		}

		if err := db.FinishRun(runID, "EN", "Acme 10-K", nil); err != nil {
			t.Fatalf("FinishRun() error = %v", err)
		}

		run, err := db.GetRun(runID)
		if err != nil {
			t.Fatalf("GetRun() error = %v", err)
		}
		if run.Status != StatusSucceeded {
			t.Errorf("run.Status = %q, want %q", run.Status, StatusSucceeded)
		}
		if run.Language != "EN" {
			t.Errorf("run.Language = %q, want EN", run.Language)
		}
		if run.Title != "Acme 10-K" {
			t.Errorf("run.Title = %q, want %q", run.Title, "Acme 10-K")
		}
		if run.FinishedAt == nil {
			t.Error("run.FinishedAt = nil, want timestamp")
		}
	})

	t.Run("failed", func(t *testing.T) {
		runID, err := db.InsertRun(batchID, "b.pdf", "pdf", "h2", "2024-FY")
		if err != nil {
			t.Fatalf("InsertRun() error = %v", err)
		}

		if err := db.FinishRun(runID, "", "", errors.New("extraction failed: bad xref")); err != nil {
			t.Fatalf("FinishRun() error = %v", err)
		}

		run, err := db.GetRun(runID)
		if err != nil {
			t.Fatalf("GetRun() error = %v", err)
		}
		if run.Status != StatusFailed {
			t.Errorf("run.Status = %q, want %q", run.Status, StatusFailed)
		}
		if run.ErrorMessage != "extraction failed: bad xref" {
			t.Errorf("run.ErrorMessage = %q", run.ErrorMessage)
		}
	})

	t.Run("unknown run", func(t *testing.T) {
		err := db.FinishRun("missing", "EN", "", nil)
		if !errors.Is(err, ErrRunNotFound) {
			t.Errorf("FinishRun() error = %v, want ErrRunNotFound", err)
		}
	})
}

func TestRunChunks(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.InsertRun(NewBatchID(), "a.html", "html", "h1", "2024-FY")
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	chunks := []RunChunk{
		{
			RunID:            runID,
			Statement:        "balance",
			FirstUniqueHits:  31,
			SecondUniqueHits: 25,
			ThirdUniqueHits:  16,
			FourthUniqueHits: 8,
			FifthUniqueHits:  8,
			Indicators:       []string{"total assets", "retained earnings"},
			ChunkStart:       0,
			ChunkRunes:       3512,
			Units:            1_000_000,
		},
		{
			RunID:     runID,
			Statement: "income",
		},
	}

	for _, c := range chunks {
		if err := db.InsertChunk(c); err != nil {
			t.Fatalf("InsertChunk(%s) error = %v", c.Statement, err)
		}
	}

	got, err := db.GetRunChunks(runID)
	if err != nil {
		t.Fatalf("GetRunChunks() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetRunChunks() returned %d chunks, want 2", len(got))
	}

	if !reflect.DeepEqual(got[0], chunks[0]) {
		t.Errorf("chunk[0] = %+v, want %+v", got[0], chunks[0])
	}
	if got[1].Indicators == nil || len(got[1].Indicators) != 0 {
		t.Errorf("chunk[1].Indicators = %#v, want empty slice", got[1].Indicators)
	}

	// Re-inserting the same statement replaces it
	updated := chunks[1]
	updated.FirstUniqueHits = 22
	if err := db.InsertChunk(updated); err != nil {
		t.Fatalf("InsertChunk() upsert error = %v", err)
	}

	got, err = db.GetRunChunks(runID)
	if err != nil {
		t.Fatalf("GetRunChunks() error = %v", err)
	}
	if len(got) != 2 || got[1].FirstUniqueHits != 22 {
		t.Errorf("after upsert got %+v", got)
	}
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	batchID := NewBatchID()
	var ids []string
	for _, src := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		id, err := db.InsertRun(batchID, src, "pdf", "h-"+src, "2024-FY")
		if err != nil {
			t.Fatalf("InsertRun() error = %v", err)
		}
		ids = append(ids, id)
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRuns(2) returned %d runs, want 2", len(runs))
	}
	if runs[0].RunID != ids[2] {
		t.Errorf("ListRuns()[0] = %s, want newest %s", runs[0].RunID, ids[2])
	}

	latest, err := db.GetLatestRun()
	if err != nil {
		t.Fatalf("GetLatestRun() error = %v", err)
	}
	if latest.RunID != ids[2] {
		t.Errorf("GetLatestRun() = %s, want %s", latest.RunID, ids[2])
	}

	batch, err := db.GetBatchRuns(batchID)
	if err != nil {
		t.Fatalf("GetBatchRuns() error = %v", err)
	}
	if len(batch) != 3 || batch[0].RunID != ids[0] {
		t.Errorf("GetBatchRuns() = %+v", batch)
	}
}

func TestGetRunNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetRun("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun() error = %v, want ErrRunNotFound", err)
	}
	if _, err := db.GetLatestRun(); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetLatestRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestDeleteRunCascades(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.InsertRun(NewBatchID(), "a.txt", "text", "h1", "2024-FY")
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if err := db.InsertChunk(RunChunk{RunID: runID, Statement: "balance"}); err != nil {
		t.Fatalf("InsertChunk() error = %v", err)
	}

	if _, err := db.Exec("DELETE FROM runs WHERE run_id = ?", runID); err != nil {
		t.Fatalf("delete run: %v", err)
	}

	chunks, err := db.GetRunChunks(runID)
	if err != nil {
		t.Fatalf("GetRunChunks() error = %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("GetRunChunks() after delete = %d chunks, want 0", len(chunks))
	}
}
