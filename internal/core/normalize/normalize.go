// Package normalize cleans extracted résumé text before vectorization.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// blank matches what the original pipeline treated as whitespace: ASCII
// blanks including \v, the \x1c-\x1f separators, NEL and Unicode separators.
const blank = `\t\n\v\f\r \x1c-\x1f\x{85}\p{Z}`

var (
	urlPattern         = regexp.MustCompile(`http[^` + blank + `]+[` + blank + `]`)
	retweetPattern     = regexp.MustCompile(`RT|cc`)
	hashtagPattern     = regexp.MustCompile(`#[^` + blank + `]+[` + blank + `]`)
	mentionPattern     = regexp.MustCompile(`@[^` + blank + `]+`)
	punctuationPattern = regexp.MustCompile(`[!"#$%&'()*+,\-./:;<=>?@\[\\\]^_` + "`" + `{|}~]`)
	nonASCIIPattern    = regexp.MustCompile(`[^\x00-\x7f]`)
	blankRunPattern    = regexp.MustCompile(`[` + blank + `]+`)
)

var steps = []*regexp.Regexp{
	urlPattern,
	retweetPattern,
	hashtagPattern,
	mentionPattern,
	punctuationPattern,
	nonASCIIPattern,
	blankRunPattern,
}

// Clean replaces URLs, RT/cc markers, hashtags, mentions, punctuation and
// non-ASCII characters with spaces, then collapses whitespace runs. The result
// is not trimmed.
func Clean(text string) string {
	for _, re := range steps {
		text = re.ReplaceAllLiteralString(text, " ")
	}
	return text
}

// TrimBlank strips leading and trailing blanks, including the \x1c-\x1f
// separators that unicode.IsSpace does not report.
func TrimBlank(text string) string {
	return strings.TrimFunc(text, isBlank)
}

func isBlank(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
