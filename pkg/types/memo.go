// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TimeLayout is the layout of Memo.CreatedAt as written by the flomo export.
// Values in this layout sort lexically in chronological order.
const TimeLayout = "2006-01-02 15:04:05"

// Memo is one timestamped note extracted from a flomo HTML export.
type Memo struct {
	// CreatedAt is the memo timestamp in TimeLayout form (e.g. "2021-03-29 18:07:06").
	// It is the sort key for the exported document.
	CreatedAt string `json:"created_at" yaml:"created_at"`

	// Content is the normalized body text. Paragraphs are separated by a blank line;
	// text runs within one paragraph are separated by a single newline.
	Content string `json:"content" yaml:"content"`

	// Files lists attachment references (image src values) in document order.
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`

	// Tags holds the hashtags extracted from Content, each starting with '#',
	// without duplicates, in first-seen order.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Less reports whether m was created before other.
func (m Memo) Less(other Memo) bool {
	return m.CreatedAt < other.CreatedAt
}
