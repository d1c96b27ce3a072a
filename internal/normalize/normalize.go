// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns the content node of a flomo memo into plain
// Markdown body text and a set of hashtags.
//
// Each child of the content node becomes one paragraph. The text runs found
// below a child are joined by newlines, so list markup degrades to one line
// per item. Hashtags are cut out of every run and collected separately.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tagPattern matches a hashtag: '#', a run of non-space characters, then
// trailing whitespace or the end of the run. The trailing whitespace is part
// of the match so removing it does not leave a double space behind. Because
// the end of the run also terminates a tag, a run that is only a tag ("#work")
// is consumed whole.
var tagPattern = regexp.MustCompile(`#[^\s\p{Z}]+(?:[\s\p{Z}]+|$)`)

// skipText lists elements whose text is never memo content.
var skipText = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
}

// CleanContent converts the children of content into body text and tags.
// Paragraphs that are empty once tags are removed are dropped; the remaining
// ones are joined by a blank line. A nil content node yields an empty body.
func CleanContent(content *html.Node) (string, []string) {
	if content == nil {
		return "", nil
	}

	var (
		tags       tagSet
		paragraphs []string
	)
	for c := content.FirstChild; c != nil; c = c.NextSibling {
		runs := TextRuns(c)
		if len(runs) == 0 {
			continue
		}

		lines := make([]string, 0, len(runs))
		for _, run := range runs {
			found, rest := ExtractTags(run)
			tags.add(found...)
			lines = append(lines, rest)
		}

		paragraph := strings.Join(lines, "\n")
		if strings.TrimSpace(paragraph) != "" {
			paragraphs = append(paragraphs, paragraph)
		}
	}

	return strings.Join(paragraphs, "\n\n"), tags.list()
}

// TextRuns returns the trimmed text of every text node at or below n, in
// document order. Whitespace-only runs are skipped, as is the text of
// script, style, and template elements. Element structure is otherwise
// ignored.
func TextRuns(n *html.Node) []string {
	var runs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if text := strings.TrimSpace(n.Data); text != "" {
				runs = append(runs, text)
			}
			return
		case html.ElementNode:
			if skipText[n.DataAtom] {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return runs
}

// ExtractTags removes every hashtag from text and returns the tags found
// (trimmed, deduplicated, in order) together with the trimmed remainder.
//
// "hello #idea world" yields ["#idea"] and "hello world". A run that is
// nothing but a tag, such as "#work", yields ["#work"] and "".
func ExtractTags(text string) ([]string, string) {
	if text == "" {
		return nil, ""
	}

	var tags tagSet
	for _, m := range tagPattern.FindAllString(text, -1) {
		tags.add(strings.TrimSpace(m))
	}
	rest := strings.TrimSpace(tagPattern.ReplaceAllString(text, ""))
	return tags.list(), rest
}

// tagSet is an insertion-ordered set of tags.
type tagSet struct {
	seen  map[string]struct{}
	order []string
}

func (s *tagSet) add(tags ...string) {
	for _, t := range tags {
		if t == "" {
			continue
		}
		if s.seen == nil {
			s.seen = make(map[string]struct{})
		}
		if _, ok := s.seen[t]; ok {
			continue
		}
		s.seen[t] = struct{}{}
		s.order = append(s.order, t)
	}
}

func (s *tagSet) list() []string {
	return s.order
}
