package document

import (
	"strconv"
	"strings"
)

// DefaultMarker is used when Parse receives an empty marker.
const DefaultMarker = "###"

// Section is one titled block of a generated document.
type Section struct {
	Title string `json:"title"`
	Body  []Line `json:"body"`
}

// Document is the structural breakdown of a generated blob.
type Document struct {
	Sections []Section `json:"sections"`
}

// Empty reports whether the document holds no sections.
func (d Document) Empty() bool {
	return len(d.Sections) == 0
}

// Section returns the first section with the given title.
func (d Document) Section(title string) (Section, bool) {
	for _, section := range d.Sections {
		if section.Title == title {
			return section, true
		}
	}
	return Section{}, false
}

// Parse splits blob on marker and classifies each section body. Text before
// the first marker forms its own section (its first line is the title).
// Sections with neither title nor body are dropped.
func Parse(blob, marker string) Document {
	marker = strings.TrimSpace(marker)
	if marker == "" {
		marker = DefaultMarker
	}

	var (
		doc     = Document{Sections: []Section{}}
		current *Section
	)

	flush := func() {
		if current == nil {
			return
		}
		if current.Title != "" || len(current.Body) > 0 {
			doc.Sections = append(doc.Sections, *current)
		}
		current = nil
	}

	normalized := strings.ReplaceAll(blob, "\r\n", "\n")
	for _, raw := range strings.Split(normalized, "\n") {
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, marker) {
			flush()
			current = &Section{
				Title: strings.TrimSpace(strings.TrimPrefix(trimmed, marker)),
				Body:  []Line{},
			}
			continue
		}
		if trimmed == "" {
			continue
		}
		if current == nil {
			// preamble before the first marker
			current = &Section{Title: trimmed, Body: []Line{}}
			continue
		}
		current.Body = append(current.Body, Classify(trimmed))
	}
	flush()

	return doc
}

// Markdown serialises the document into portable markdown: sections become
// level-two headings, alerts become block quotes.
func (d Document) Markdown() string {
	var b strings.Builder
	for idx, section := range d.Sections {
		if idx > 0 {
			b.WriteString("\n")
		}
		if section.Title != "" {
			b.WriteString("## ")
			b.WriteString(section.Title)
			b.WriteString("\n\n")
		}
		prev := Kind("")
		for _, line := range section.Body {
			if prev != "" && prev != line.Kind {
				b.WriteString("\n")
			}
			switch line.Kind {
			case KindBullet:
				b.WriteString("- ")
				b.WriteString(line.Text)
			case KindAlert:
				b.WriteString("> **!** ")
				b.WriteString(line.Text)
				b.WriteString("\n")
			case KindOrdered:
				b.WriteString(strconv.Itoa(line.Number))
				b.WriteString(". ")
				b.WriteString(line.Text)
			default:
				b.WriteString(line.Text)
				b.WriteString("\n")
			}
			b.WriteString("\n")
			prev = line.Kind
		}
	}
	return b.String()
}
