package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/MaTTalv001/ICH-RAG/internal/corpus"
	"github.com/MaTTalv001/ICH-RAG/internal/storage"
	storage_mocks "github.com/MaTTalv001/ICH-RAG/internal/storage/mocks"
	"github.com/MaTTalv001/ICH-RAG/internal/vectorstore"
	vectorstore_mocks "github.com/MaTTalv001/ICH-RAG/internal/vectorstore/mocks"
)

// fakeEmbedder returns a fixed-size vector per input text, or an error for
// texts containing the failure marker.
type fakeEmbedder struct {
	failOn string
	calls  int
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if f.failOn != "" && strings.Contains(text, f.failOn) {
			return nil, errors.New("embedding service rejected input")
		}
		vectors[i] = []float32{float32(len(text)), 0, 0, 0}
	}
	return vectors, nil
}

// writeDoc writes a metadata/body pair into dir.
func writeDoc(t *testing.T, dir, name, title, body string) {
	t.Helper()
	meta := fmt.Sprintf(`{"title": %q, "code": %q, "category": "Quality", "source_file": "%s.txt"}`, title, name, name)
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(meta), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".txt"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestPipeline(t *testing.T, ctrl *gomock.Controller, embedder Embedder, strict bool) (*Pipeline, *vectorstore_mocks.MockVectorStore, *storage_mocks.MockManifestStore, *storage_mocks.MockRunStore) {
	t.Helper()
	chunker, err := NewWindowChunker(60, 10)
	if err != nil {
		t.Fatalf("NewWindowChunker() error = %v", err)
	}
	mockStore := vectorstore_mocks.NewMockVectorStore(ctrl)
	mockManifests := storage_mocks.NewMockManifestStore(ctrl)
	mockRuns := storage_mocks.NewMockRunStore(ctrl)

	pipeline := NewPipeline(chunker, embedder, mockStore, mockManifests, mockRuns, Options{
		Collection:     "test-collection",
		EmbeddingModel: "test-model",
		VectorSize:     4,
		Strict:         strict,
	})
	return pipeline, mockStore, mockManifests, mockRuns
}

func TestPipeline_Ingest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	// 100 chars chunks into two windows, 50 chars into one.
	writeDoc(t, dir, "q1a", "Stability Testing", strings.Repeat("abcdefghij", 10))
	writeDoc(t, dir, "q2b", "Validation of Analytical Procedures", strings.Repeat("x", 50))
	// Orphan metadata record with no body file: a pairing skip.
	if err := os.WriteFile(filepath.Join(dir, "zz_orphan.json"), []byte(`{"title": "Orphan"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	embedder := &fakeEmbedder{}
	pipeline, mockStore, mockManifests, mockRuns := newTestPipeline(t, ctrl, embedder, false)

	var upserted []vectorstore.Point
	mockStore.EXPECT().
		Upsert(gomock.Any(), "test-collection", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, points []vectorstore.Point) error {
			upserted = append(upserted, points...)
			return nil
		}).
		Times(2)
	mockManifests.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)
	mockRuns.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	report, err := pipeline.Ingest(context.Background(), dir)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if report.DocsProcessed != 2 {
		t.Errorf("DocsProcessed = %d, want 2", report.DocsProcessed)
	}
	if report.ChunksIndexed != 3 {
		t.Errorf("ChunksIndexed = %d, want 3", report.ChunksIndexed)
	}
	if report.PairingSkips != 1 {
		t.Errorf("PairingSkips = %d, want 1", report.PairingSkips)
	}
	if report.DocFailures != 0 {
		t.Errorf("DocFailures = %d, want 0", report.DocFailures)
	}
	if len(upserted) != 3 {
		t.Fatalf("upserted %d points, want 3", len(upserted))
	}
	for i, point := range upserted {
		if point.ID == "" {
			t.Errorf("point %d has empty ID", i)
		}
		if len(point.Vec) != 4 {
			t.Errorf("point %d vector size = %d, want 4", i, len(point.Vec))
		}
		if _, ok := point.Meta["text"].(string); !ok {
			t.Errorf("point %d payload missing text", i)
		}
		if _, ok := point.Meta["chunk_index"].(int); !ok {
			t.Errorf("point %d payload missing chunk_index", i)
		}
	}
	if title, _ := upserted[0].Meta["title"].(string); title != "Stability Testing" {
		t.Errorf("first point title = %q", title)
	}
}

func TestPipeline_Ingest_WritesManifest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	writeDoc(t, dir, "q1a", "Stability Testing", "short body")

	embedder := &fakeEmbedder{}
	pipeline, mockStore, mockManifests, mockRuns := newTestPipeline(t, ctrl, embedder, false)

	mockStore.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	mockManifests.EXPECT().
		Put(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *storage.IndexManifest) error {
			if m.EmbeddingModel != "test-model" {
				t.Errorf("manifest model = %q, want test-model", m.EmbeddingModel)
			}
			if m.VectorSize != 4 {
				t.Errorf("manifest vector size = %d, want 4", m.VectorSize)
			}
			if m.MaxChunkChars != 60 || m.ChunkOverlap != 10 {
				t.Errorf("manifest chunk params = (%d, %d), want (60, 10)", m.MaxChunkChars, m.ChunkOverlap)
			}
			if m.IndexVersion != IndexVersion("test-model", 4, 60, 10) {
				t.Errorf("manifest index version = %q", m.IndexVersion)
			}
			return nil
		})
	mockRuns.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	if _, err := pipeline.Ingest(context.Background(), dir); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
}

func TestPipeline_Ingest_MissingDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	embedder := &fakeEmbedder{}
	pipeline, _, _, _ := newTestPipeline(t, ctrl, embedder, false)

	_, err := pipeline.Ingest(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, corpus.ErrCorpusNotFound) {
		t.Errorf("Ingest() error = %v, want ErrCorpusNotFound", err)
	}
}

func TestPipeline_Ingest_LenientCountsFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	writeDoc(t, dir, "a_bad", "Broken", "POISON body that cannot embed")
	writeDoc(t, dir, "b_good", "Healthy", "normal body")

	embedder := &fakeEmbedder{failOn: "POISON"}
	pipeline, mockStore, mockManifests, mockRuns := newTestPipeline(t, ctrl, embedder, false)

	// Only the healthy document reaches the vector store.
	mockStore.EXPECT().Upsert(gomock.Any(), "test-collection", gomock.Any()).Return(nil)
	mockManifests.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)
	mockRuns.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	report, err := pipeline.Ingest(context.Background(), dir)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if report.DocFailures != 1 {
		t.Errorf("DocFailures = %d, want 1", report.DocFailures)
	}
	if report.DocsProcessed != 1 {
		t.Errorf("DocsProcessed = %d, want 1", report.DocsProcessed)
	}
}

func TestPipeline_Ingest_AllFailuresLeavesManifest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	writeDoc(t, dir, "a_bad", "Broken", "POISON body that cannot embed")
	writeDoc(t, dir, "b_bad", "Also Broken", "another POISON body")

	embedder := &fakeEmbedder{failOn: "POISON"}
	pipeline, _, _, mockRuns := newTestPipeline(t, ctrl, embedder, false)

	// Nothing was indexed, so the manifest must not claim an index exists.
	// No Put expectation on the manifest store: a write would fail the test.
	mockRuns.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	report, err := pipeline.Ingest(context.Background(), dir)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if report.DocFailures != 2 {
		t.Errorf("DocFailures = %d, want 2", report.DocFailures)
	}
	if report.ChunksIndexed != 0 {
		t.Errorf("ChunksIndexed = %d, want 0", report.ChunksIndexed)
	}
}

func TestPipeline_Ingest_StrictAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	// Sorted order puts the failing document first, so nothing is indexed.
	writeDoc(t, dir, "a_bad", "Broken", "POISON body that cannot embed")
	writeDoc(t, dir, "b_good", "Healthy", "normal body")

	embedder := &fakeEmbedder{failOn: "POISON"}
	pipeline, _, _, mockRuns := newTestPipeline(t, ctrl, embedder, true)

	// The aborted run still lands in the history.
	var recorded *storage.IngestRun
	mockRuns.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run *storage.IngestRun) error {
			recorded = run
			return nil
		})

	_, err := pipeline.Ingest(context.Background(), dir)
	if err == nil {
		t.Fatal("Ingest() expected error in strict mode, got nil")
	}
	if !strings.Contains(err.Error(), "strict") {
		t.Errorf("Ingest() error = %v, want strict abort", err)
	}
	if recorded == nil {
		t.Fatal("aborted run was not recorded")
	}
	if recorded.DocFailures != 1 || recorded.ChunksIndexed != 0 || !recorded.Strict {
		t.Errorf("recorded run = %+v", recorded)
	}
}

func TestPipeline_Ingest_CancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	writeDoc(t, dir, "q1a", "Stability Testing", "short body")

	embedder := &fakeEmbedder{}
	pipeline, _, _, mockRuns := newTestPipeline(t, ctrl, embedder, false)

	// The interrupted run is still recorded.
	mockRuns.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Ingest(ctx, dir)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Ingest() error = %v, want context.Canceled", err)
	}
}

func TestPipeline_Reset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	embedder := &fakeEmbedder{}
	pipeline, mockStore, _, _ := newTestPipeline(t, ctrl, embedder, false)

	gomock.InOrder(
		mockStore.EXPECT().CollectionExists(gomock.Any(), "test-collection").Return(true, nil),
		mockStore.EXPECT().DropCollection(gomock.Any(), "test-collection").Return(nil),
		mockStore.EXPECT().EnsureCollection(gomock.Any(), "test-collection", 4).Return(nil),
	)

	if err := pipeline.Reset(context.Background()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
}

func TestPipeline_Reset_MissingCollection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	embedder := &fakeEmbedder{}
	pipeline, mockStore, _, _ := newTestPipeline(t, ctrl, embedder, false)

	gomock.InOrder(
		mockStore.EXPECT().CollectionExists(gomock.Any(), "test-collection").Return(false, nil),
		mockStore.EXPECT().EnsureCollection(gomock.Any(), "test-collection", 4).Return(nil),
	)

	if err := pipeline.Reset(context.Background()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
}
