// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/flomo-export/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	cfg := types.IndexConfig{
		DBPath:     filepath.Join(t.TempDir(), "index", "flomo.db"),
		MaxResults: 20,
	}
	store, err := NewStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

var sampleMemos = []types.Memo{
	{CreatedAt: "2021-03-29 18:07:06", Content: "test\n\nhello world", Tags: []string{"#idea"}},
	{CreatedAt: "2021-04-01 09:00:00", Content: "screenshot of the garden", Files: []string{"img/1.png"}},
	{CreatedAt: "2021-04-02 10:00:00", Content: "reading notes on gardens", Tags: []string{"#idea", "#reading"}},
	{CreatedAt: "2021-05-01 00:00:00", Tags: []string{"#work"}},
}

func ingest(t *testing.T, s *Store, memos []types.Memo) StoreSummary {
	t.Helper()
	summary, err := s.Replace(context.Background(), memos, io.Discard)
	require.NoError(t, err)
	return summary
}

func createdAts(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.CreatedAt
	}
	return out
}

// --- tests ---

func TestMemoIDStable(t *testing.T) {
	a := MemoID(sampleMemos[0])
	assert.Equal(t, a, MemoID(sampleMemos[0]))
	assert.NotEqual(t, a, MemoID(sampleMemos[1]))
	assert.Len(t, a, 36)
}

func TestReplace(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	summary := ingest(t, s, sampleMemos)
	assert.Equal(t, StoreSummary{Indexed: 4}, summary)

	// A second run replaces rather than appends.
	summary = ingest(t, s, sampleMemos[:2])
	assert.Equal(t, StoreSummary{Indexed: 2, Removed: 4}, summary)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestReplaceDuplicateMemo(t *testing.T) {
	s := testStore(t)
	summary := ingest(t, s, []types.Memo{sampleMemos[0], sampleMemos[0]})
	assert.Equal(t, 1, summary.Indexed)
}

func TestReplaceKeepsMemosSharingTimestamp(t *testing.T) {
	s := testStore(t)
	memos := []types.Memo{
		{CreatedAt: "2021-03-29 18:07:06", Tags: []string{"#work"}},
		{CreatedAt: "2021-03-29 18:07:06", Tags: []string{"#home"}},
		{CreatedAt: "2021-03-29 18:07:06", Content: "done", Tags: []string{"#work"}},
		{CreatedAt: "2021-03-29 18:07:06", Content: "done", Tags: []string{"#home"}, Files: []string{"img/1.png"}},
	}

	summary := ingest(t, s, memos)
	assert.Equal(t, 4, summary.Indexed)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	results, err := s.Retrieve(context.Background(), QueryOptions{Tags: []string{"home"}})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, memos[1], results[0].Memo)
	assert.Equal(t, memos[3], results[1].Memo)
}

func TestMemoIDCoversTagsAndFiles(t *testing.T) {
	base := types.Memo{CreatedAt: "2021-03-29 18:07:06", Content: "done"}
	withTag := base
	withTag.Tags = []string{"#work"}
	withFile := base
	withFile.Files = []string{"img/1.png"}

	ids := map[string]bool{MemoID(base): true, MemoID(withTag): true, MemoID(withFile): true}
	assert.Len(t, ids, 3)
}

func TestReplaceWritesSummary(t *testing.T) {
	s := testStore(t)
	var log bytes.Buffer
	_, err := s.Replace(context.Background(), sampleMemos, &log)
	require.NoError(t, err)
	assert.Contains(t, log.String(), "indexed: 4")
}

func TestRetrieve(t *testing.T) {
	s := testStore(t)
	ingest(t, s, sampleMemos)

	tests := []struct {
		name string
		opts QueryOptions
		want []string
	}{
		{
			name: "all memos oldest first",
			opts: QueryOptions{},
			want: []string{"2021-03-29 18:07:06", "2021-04-01 09:00:00", "2021-04-02 10:00:00", "2021-05-01 00:00:00"},
		},
		{
			name: "full text",
			opts: QueryOptions{Query: "garden"},
			want: []string{"2021-04-01 09:00:00"},
		},
		{
			name: "full text prefix",
			opts: QueryOptions{Query: "garden*"},
			want: []string{"2021-04-01 09:00:00", "2021-04-02 10:00:00"},
		},
		{
			name: "tag with hash",
			opts: QueryOptions{Tags: []string{"#idea"}},
			want: []string{"2021-03-29 18:07:06", "2021-04-02 10:00:00"},
		},
		{
			name: "tag without hash",
			opts: QueryOptions{Tags: []string{"work"}},
			want: []string{"2021-05-01 00:00:00"},
		},
		{
			name: "tags are ANDed",
			opts: QueryOptions{Tags: []string{"idea", "reading"}},
			want: []string{"2021-04-02 10:00:00"},
		},
		{
			name: "date range with bare dates",
			opts: QueryOptions{From: "2021-04-01", To: "2021-04-02"},
			want: []string{"2021-04-01 09:00:00", "2021-04-02 10:00:00"},
		},
		{
			name: "text and tag",
			opts: QueryOptions{Query: "gardens", Tags: []string{"reading"}},
			want: []string{"2021-04-02 10:00:00"},
		},
		{
			name: "limit",
			opts: QueryOptions{MaxResults: 1},
			want: []string{"2021-03-29 18:07:06"},
		},
		{
			name: "no match",
			opts: QueryOptions{Tags: []string{"missing"}},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := s.Retrieve(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, createdAts(results))
		})
	}
}

func TestRetrieveRoundTripsMemo(t *testing.T) {
	s := testStore(t)
	ingest(t, s, sampleMemos)

	results, err := s.Retrieve(context.Background(), QueryOptions{Query: "screenshot"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, MemoID(sampleMemos[1]), results[0].ID)
	assert.Equal(t, sampleMemos[1], results[0].Memo)
}

func TestRetrieveCorruptRow(t *testing.T) {
	tests := []struct {
		name   string
		tags   string
		files  string
		errMsg string
	}{
		{name: "tags", tags: "not json", files: "[]", errMsg: "decoding tags"},
		{name: "files", tags: "[]", files: "{", errMsg: "decoding files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testStore(t)
			_, err := s.db.Exec(
				`INSERT INTO memos (id, created_at, content, tags, files) VALUES (?, ?, ?, ?, ?)`,
				"corrupt", "2021-01-01 00:00:00", "x", tt.tags, tt.files)
			require.NoError(t, err)

			_, err = s.Retrieve(context.Background(), QueryOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	assert.True(t, QueryOptions{MaxResults: 5}.IsEmpty())
	assert.False(t, QueryOptions{Tags: []string{"x"}}.IsEmpty())
	assert.False(t, QueryOptions{From: "2021-01-01"}.IsEmpty())
}

func TestRetrieveInvalidDate(t *testing.T) {
	s := testStore(t)

	_, err := s.Retrieve(context.Background(), QueryOptions{From: "29/03/2021"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from")

	_, err = s.Retrieve(context.Background(), QueryOptions{To: "2021-03-29 18:07:06"})
	require.NoError(t, err)
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ingest(t, s, sampleMemos)
	ctx := context.Background()

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, s.Export(ctx, FormatYAML, &buf))

		var got []Result
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, len(sampleMemos))
		assert.Equal(t, sampleMemos[2], got[2].Memo)
		assert.Equal(t, MemoID(sampleMemos[2]), got[2].ID)
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, s.Export(ctx, FormatJSON, &buf))

		var got []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, len(sampleMemos))
		assert.Equal(t, "2021-03-29 18:07:06", got[0]["created_at"])
		assert.Equal(t, MemoID(sampleMemos[0]), got[0]["id"])
	})

	t.Run("unsupported", func(t *testing.T) {
		err := s.Export(ctx, Format("csv"), io.Discard)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})
}

func TestExportEmpty(t *testing.T) {
	s := testStore(t)
	var buf bytes.Buffer
	require.NoError(t, s.Export(context.Background(), FormatJSON, &buf))
	assert.Equal(t, "[]\n", buf.String())
}
