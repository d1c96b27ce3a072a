// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/flomo-export/pkg/types"
)

// QueryOptions holds parameters for index queries.
type QueryOptions struct {
	// Query is an FTS4 full-text search expression over memo content.
	Query string

	// Tags filters by one or more tags with AND semantics. A leading '#' is optional.
	Tags []string

	// From and To bound created_at inclusively. Either may be a date
	// ("2021-03-29") or a full timestamp.
	From string
	To   string

	// MaxResults limits result count. Zero uses the store default; negative means no limit.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && len(q.Tags) == 0 && q.From == "" && q.To == ""
}

const dateLayout = "2006-01-02"

// Validate checks that From and To are empty, a date, or a timestamp in
// types.TimeLayout.
func (q QueryOptions) Validate() error {
	for _, bound := range []struct{ name, value string }{{"from", q.From}, {"to", q.To}} {
		if bound.value == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, bound.value); err == nil {
			continue
		}
		if _, err := time.Parse(types.TimeLayout, bound.value); err != nil {
			return fmt.Errorf("invalid %s %q: use YYYY-MM-DD or YYYY-MM-DD HH:MM:SS", bound.name, bound.value)
		}
	}
	return nil
}

// Result is an indexed memo with its ID.
type Result struct {
	ID         string `json:"id" yaml:"id"`
	types.Memo `yaml:",inline"`
}

// Retrieve returns indexed memos matching opts, oldest first.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	maxResults := opts.MaxResults
	if maxResults == 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)

	if opts.Query != "" {
		qb.WriteString(
			`SELECT m.id, m.created_at, m.content, m.tags, m.files
			FROM memos_fts
			JOIN memos m ON m.rowid = memos_fts.docid
			WHERE memos_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT m.id, m.created_at, m.content, m.tags, m.files
			FROM memos m
			WHERE 1=1`)
	}

	for _, tag := range opts.Tags {
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(m.tags) WHERE value = ?)`)
		args = append(args, tag)
	}

	if opts.From != "" {
		qb.WriteString(` AND m.created_at >= ?`)
		args = append(args, opts.From)
	}
	if opts.To != "" {
		// A bare date covers the whole day.
		to := opts.To
		if len(to) == len(dateLayout) {
			to += " 23:59:59"
		}
		qb.WriteString(` AND m.created_at <= ?`)
		args = append(args, to)
	}

	qb.WriteString(` ORDER BY m.created_at, m.rowid`)
	if maxResults > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, maxResults)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r         Result
			tagsJSON  sql.NullString
			filesJSON sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Content, &tagsJSON, &filesJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if tagsJSON.Valid {
			if err := json.Unmarshal([]byte(tagsJSON.String), &r.Tags); err != nil {
				return nil, fmt.Errorf("decoding tags of memo %s: %w", r.ID, err)
			}
		}
		if filesJSON.Valid {
			if err := json.Unmarshal([]byte(filesJSON.String), &r.Files); err != nil {
				return nil, fmt.Errorf("decoding files of memo %s: %w", r.ID, err)
			}
		}
		if len(r.Tags) == 0 {
			r.Tags = nil
		}
		if len(r.Files) == 0 {
			r.Files = nil
		}
		results = append(results, r)
	}

	return results, rows.Err()
}
