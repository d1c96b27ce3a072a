// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive reads a flomo HTML export and extracts its memos.
//
// A flomo export page holds its memos in a <div class="memos"> container:
//
//	<div class="memo">
//	    <div class="time">2021-03-29 18:07:06</div>
//	    <div class="content">
//	        <p>test</p><p></p><p>hello #idea world</p>
//	    </div>
//	    <div class="files"><img src="file/2021-03-29/1.png"></div>
//	</div>
package archive

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/flomo-export/internal/normalize"
	"github.com/pdiddy/flomo-export/pkg/types"
)

const (
	classMemo    = "memo"
	classTime    = "time"
	classContent = "content"
)

// ErrMalformedMemo is returned when a memo lacks a field every flomo memo has.
var ErrMalformedMemo = errors.New("malformed memo")

// emphasisPatterns match the two bold spellings flomo emits. The parser
// keeps only text, so emphasis is rewritten to Markdown before parsing.
var emphasisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`<b>(.+?)</b>`),
	regexp.MustCompile(`<strong>(.+?)</strong>`),
}

// RewriteEmphasis replaces <b>x</b> and <strong>x</strong> in raw HTML with **x**.
// The enclosed text must sit on one line.
func RewriteEmphasis(raw string) string {
	for _, re := range emphasisPatterns {
		raw = re.ReplaceAllString(raw, "**${1}**")
	}
	return raw
}

// ParseFile reads the HTML page at path and returns its memos in document order.
func ParseFile(path string) ([]types.Memo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	memos, err := ParseHTML(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return memos, nil
}

// ParseHTML extracts memos from the raw text of one export page. Every
// element carrying the "memo" class becomes one Memo. A memo without a time
// or content section, or with an image lacking src, fails the whole page
// with ErrMalformedMemo.
func ParseHTML(raw string) ([]types.Memo, error) {
	doc, err := html.Parse(strings.NewReader(RewriteEmphasis(raw)))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var memos []types.Memo
	for i, n := range findAll(doc, isDivWithClass(classMemo)) {
		memo, err := parseMemo(n)
		if err != nil {
			return nil, fmt.Errorf("memo %d: %w", i+1, err)
		}
		memos = append(memos, memo)
	}
	return memos, nil
}

func parseMemo(n *html.Node) (types.Memo, error) {
	timeNode := findFirst(n, isDivWithClass(classTime))
	if timeNode == nil {
		return types.Memo{}, fmt.Errorf("%w: no time section", ErrMalformedMemo)
	}
	createdAt := strings.TrimSpace(textContent(timeNode))
	if createdAt == "" {
		return types.Memo{}, fmt.Errorf("%w: empty time section", ErrMalformedMemo)
	}

	contentNode := findFirst(n, isDivWithClass(classContent))
	if contentNode == nil {
		return types.Memo{}, fmt.Errorf("%w: no content section (created %s)", ErrMalformedMemo, createdAt)
	}

	memo := types.Memo{CreatedAt: createdAt}
	memo.Content, memo.Tags = normalize.CleanContent(contentNode)

	for _, img := range findAll(n, isElement(atom.Img)) {
		src, ok := attr(img, "src")
		if !ok {
			return types.Memo{}, fmt.Errorf("%w: image without src (created %s)", ErrMalformedMemo, createdAt)
		}
		memo.Files = append(memo.Files, src)
	}

	return memo, nil
}
