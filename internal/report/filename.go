package report

import (
	"strings"
	"unicode"
)

const filenameSuffix = "_Business_Report.pdf"

// Filename derives a download name from a title: every character that is not
// a letter or digit becomes an underscore.
func Filename(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Business_Idea" + filenameSuffix
	}
	var b strings.Builder
	for _, r := range title {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String() + filenameSuffix
}
