// Package titles splits the text of a bibliography record into its title and
// author.
//
// Catalogue entries print the title first, closed by punctuation, followed by
// the author in capitals: a surname with initials, a pseudonym, initials with
// an expansion in parentheses, or the phrase "Имя авт. не установлено". The
// title is matched greedily, so the last author-like group after a sentence
// end wins.
package titles

import (
	"regexp"
	"strings"

	"github.com/jackzampolin/bibsplit/internal/record"
)

// Field keys set by Split.
const (
	KeyTitle  = "title"
	KeyAuthor = "author"
)

// NoParse is the title of a record whose text has no recognizable author.
const NoParse = "NOPARSE"

// sp matches any whitespace, including no-break and thin spaces.
const sp = `[\s\p{Z}]`

const authorKey = `(?:` +
	// В. Л. Т. (РАСШИФРОВКА)
	`(?:\p{Lu}\.` + sp + `*){2,4}` + sp + `+\(\p{Lu}+[^)]+\)` +
	// SURNAME, PSEUDONYM, M*** or БАЗ...В, optional [!], initials, expansion
	`|\p{Lu}+(?:’?(?:\p{Lu}+|` + sp + `+|-){0,9}|\*{0,5}\p{Lu}{0,3}|\.\.\.\p{Lu}{0,3})` + sp + `*` +
	`(?:\[!\]` + sp + `*)?` +
	`(?:[\p{Lu}\p{Ll},.\s\p{Z}]+)?` +
	`(?:(?:\(\p{Lu}+[^)]+\)` + sp + `*){0,2}|(?:\[\p{Lu}+[^\]]*\])?)` +
	`|Имя` + sp + `+авт(?:\.|ора)` + sp + `+не` + sp + `+установлено` +
	`|)` +
	`(?:[,.]|` + sp + `*$)`

var titleAuthorRe = regexp.MustCompile(
	`^(?P<title>.*[.?!\]»])` + sp + `+(?P<author>` + authorKey + `)(?P<tail>.*)$`)

var (
	titleIdx  = titleAuthorRe.SubexpIndex("title")
	authorIdx = titleAuthorRe.SubexpIndex("author")
	tailIdx   = titleAuthorRe.SubexpIndex("tail")
)

// Match splits text into title, author and whatever follows the author.
// The tail is returned without surrounding whitespace.
func Match(text string) (title, author, tail string, ok bool) {
	m := titleAuthorRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", text, false
	}
	return m[titleIdx], m[authorIdx], strings.TrimSpace(m[tailIdx]), true
}

// Split sets the title and author fields of rec and leaves the rest of the
// text in its tail. When no author is found the title is NoParse, the author
// is empty and the tail is untouched. It reports whether the text matched.
func Split(rec *record.Record) bool {
	title, author, tail, ok := Match(rec.Tail)
	if !ok {
		rec.Set(KeyTitle, NoParse)
		rec.Set(KeyAuthor, "")
		return false
	}
	rec.Set(KeyTitle, title)
	rec.Set(KeyAuthor, author)
	rec.Tail = tail
	return true
}
