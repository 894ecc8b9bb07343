package pipeline

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/answer"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
)

const (
	confidentContextChars = 1200
	fallbackContextChars  = 800
)

// Title names the winning provision.
func Title(meta schema.Metadata, source, lang string) string {
	section := meta.FirstSectionNo()
	if chapter := strings.TrimSpace(meta.ChapterTitle); chapter != "" {
		if section != "" {
			return fmt.Sprintf("%s - Section %s (%s)", chapter, section, source)
		}
		return fmt.Sprintf("%s (%s)", chapter, source)
	}
	if title := strings.TrimSpace(meta.Title); title != "" {
		return title
	}
	if section != "" {
		return localize(sectionWord, lang) + " " + section
	}
	return "Legal Information"
}

// Explanation frames the answer with the provision it came from. A confident
// answer is quoted inline; otherwise the section text carries the response.
func Explanation(text string, confident bool, meta schema.Metadata, sourceName string) string {
	ans := capitalize(text)
	section := meta.FirstSectionNo()
	full := meta.SectionText()

	if confident {
		sectionInfo := ""
		if section != "" {
			sectionInfo = fmt.Sprintf(" (Section %s)", section)
		}
		return fmt.Sprintf("Based on %s%s, %s\n\nFor complete context, here's the relevant legal provision:\n\n%s",
			sourceName, sectionInfo, strings.ToLower(ans), answer.TruncateRunes(full, confidentContextChars))
	}

	provision := answer.TruncateRunes(full, fallbackContextChars)
	if section != "" {
		return fmt.Sprintf("According to Section %s of %s: %s\n\nRelevant legal text:\n\n%s", section, sourceName, ans, provision)
	}
	return fmt.Sprintf("Based on the legal provisions: %s\n\nRelevant legal text:\n\n%s", ans, provision)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
