package document

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind tags a classified line.
type Kind string

const (
	KindTitle     Kind = "title"
	KindBullet    Kind = "bullet"
	KindAlert     Kind = "alert"
	KindOrdered   Kind = "ordered"
	KindParagraph Kind = "paragraph"
)

// Line is the tagged result of classifying one line of body text.
type Line struct {
	Kind   Kind   `json:"kind"`
	Text   string `json:"text"`
	Number int    `json:"number,omitempty"`
}

var orderedPrefix = regexp.MustCompile(`^(\d+)\.\s*`)

// Classify tags a body line by its prefix. Title lines are produced by the
// section splitter, never by Classify.
func Classify(raw string) Line {
	line := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(line, "-"):
		return Line{Kind: KindBullet, Text: strings.TrimSpace(strings.TrimPrefix(line, "-"))}
	case strings.HasPrefix(line, "!"):
		return Line{Kind: KindAlert, Text: strings.TrimSpace(strings.TrimPrefix(line, "!"))}
	}
	if match := orderedPrefix.FindStringSubmatch(line); match != nil {
		n, _ := strconv.Atoi(match[1])
		return Line{Kind: KindOrdered, Number: n, Text: strings.TrimSpace(line[len(match[0]):])}
	}
	return Line{Kind: KindParagraph, Text: line}
}
