package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// SummaryLength is the rune length of summaries derived from article content.
const SummaryLength = 200

var (
	// 記事本文: 管理者が書く HTML は UGC ポリシーで許可
	articlePolicy = bluemonday.UGCPolicy()
	// コメント: タグはすべて除去
	commentPolicy = bluemonday.StrictPolicy()
)

// SanitizeArticle removes scripts, event handlers and other unsafe markup from article HTML.
func SanitizeArticle(html string) string {
	return articlePolicy.Sanitize(html)
}

// SanitizeComment strips every tag from a reader comment; entities stay escaped.
func SanitizeComment(s string) string {
	return strings.TrimSpace(commentPolicy.Sanitize(s))
}

// PlainText returns the visible text of an HTML fragment with whitespace collapsed.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Summary derives a summary from article HTML: the first SummaryLength runes of its text.
func Summary(html string) string {
	return Truncate(PlainText(html), SummaryLength, "...")
}
