package search

import (
	"context"
	"log/slog"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestIndex(t *testing.T) *MessageIndex {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewMessageIndex(writer, slog.Default())
}

func TestMessageIndex_Search_ProjectIsolation(t *testing.T) {
	req := require.New(t)
	idx := openTestIndex(t)
	ctx := context.Background()

	inProject := Indexable{ID: uuid.New(), ProjectID: "proj-1", SenderName: "Alice", Content: "the invoice is overdue"}
	req.NoError(idx.Index(inProject))
	req.NoError(idx.Index(Indexable{ID: uuid.New(), ProjectID: "proj-2", SenderName: "Bob", Content: "another invoice here"}))

	hits, err := idx.Search(ctx, "proj-1", "invoice", 10)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal(inProject.ID, hits[0].MessageID)
	req.Equal("Alice", hits[0].SenderName)
	req.Equal("the invoice is overdue", hits[0].Content)
}

func TestMessageIndex_Remove(t *testing.T) {
	req := require.New(t)
	idx := openTestIndex(t)
	ctx := context.Background()

	m := Indexable{ID: uuid.New(), ProjectID: "proj-1", SenderName: "Alice", Content: "temporary note"}
	req.NoError(idx.Index(m))
	req.NoError(idx.Remove(m.ID))

	hits, err := idx.Search(ctx, "proj-1", "temporary", 10)
	req.NoError(err)
	req.Empty(hits)
}

func TestMessageIndex_RemoveMany(t *testing.T) {
	req := require.New(t)
	idx := openTestIndex(t)
	ctx := context.Background()

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	for _, id := range ids {
		req.NoError(idx.Index(Indexable{ID: id, ProjectID: "proj-1", SenderName: "Alice", Content: "bulk cleanup target"}))
	}
	req.NoError(idx.RemoveMany(ids))

	hits, err := idx.Search(ctx, "proj-1", "cleanup", 10)
	req.NoError(err)
	req.Empty(hits)
}

func TestMessageIndex_Reindex_On_Edit(t *testing.T) {
	req := require.New(t)
	idx := openTestIndex(t)
	ctx := context.Background()

	m := Indexable{ID: uuid.New(), ProjectID: "proj-1", SenderName: "Alice", Content: "draft wording"}
	req.NoError(idx.Index(m))

	m.Content = "final wording"
	req.NoError(idx.Index(m))

	hits, err := idx.Search(ctx, "proj-1", "draft", 10)
	req.NoError(err)
	req.Empty(hits)

	hits, err = idx.Search(ctx, "proj-1", "final", 10)
	req.NoError(err)
	req.Len(hits, 1)
}
