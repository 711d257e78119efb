package brief

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	docxFont  = "Calibri"
	docxSize  = 11
	docxColor = "000000"
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reStrong  = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[\-\*+]\s+(.+)$`)
)

// renderDocx writes a Word copy of a markdown brief.
func renderDocx(title, markdown, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addRun(doc.AddParagraph(""), title, true, 18)

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "", trimmed == "---", trimmed == "***":
			continue
		case reHeading.MatchString(trimmed):
			m := reHeading.FindStringSubmatch(trimmed)
			addRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])))
		case reBullet.MatchString(trimmed):
			m := reBullet.FindStringSubmatch(trimmed)
			addInline(doc.AddParagraph(""), "• "+m[1])
		default:
			addInline(doc.AddParagraph(""), trimmed)
		}
	}

	return doc.SaveTo(path)
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 14
	case 3:
		return 12
	}
	return docxSize
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(stripInline(text)).Font(docxFont).Size(size).Color(docxColor)
	if bold {
		run.Bold(true)
	}
}

// addInline renders **strong** spans as bold runs.
func addInline(p *docx.Paragraph, text string) {
	plain := reStrong.Split(text, -1)
	strong := reStrong.FindAllStringSubmatch(text, -1)

	for i, part := range plain {
		if part != "" {
			addRun(p, part, false, docxSize)
		}
		if i < len(strong) {
			addRun(p, strong[i][1], true, docxSize)
		}
	}
}

func stripInline(s string) string {
	return strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
}
