package toast

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jmylchreest/notiman/internal/model"
)

// Card metrics in pixels.
const (
	paddingTop    = 12
	paddingBottom = 12
	titleGap      = 4
	bodyGap       = 4
	codePadding   = 8
	codeGap       = 4
	codeMaxHeight = 28
	// textInset is the horizontal space taken by the icon column and padding.
	textInset = 64

	titleLineHeight = 17
	bodyLineHeight  = 16
	codeLineHeight  = 14
)

// Average advance of one terminal cell per font, in pixels.
const (
	titleAdvance = 7.0
	bodyAdvance  = 6.5
	codeAdvance  = 6.0
)

const ellipsis = "…"

// ContentLayout is the measured text layout of a card. It is computed once
// when an instance is created and never changes afterwards.
type ContentLayout struct {
	Width     int
	Height    int
	TextWidth int

	TitleLines []string
	BodyLines  []string
	CodeLines  []string
}

// MeasureContent wraps the request text to the card width and derives the
// card height.
func MeasureContent(req model.NotificationRequest, width int) ContentLayout {
	textWidth := width - textInset
	if textWidth < 1 {
		textWidth = 1
	}

	l := ContentLayout{Width: width, TextWidth: textWidth}
	l.TitleLines = wrapText(req.Title, cellsFor(textWidth, titleAdvance))
	if len(l.TitleLines) == 0 {
		l.TitleLines = []string{""}
	}
	l.BodyLines = wrapText(req.Body, cellsFor(textWidth, bodyAdvance))
	l.CodeLines = clipCode(req.Code, cellsFor(textWidth, codeAdvance), codeMaxHeight/codeLineHeight)

	h := paddingTop + len(l.TitleLines)*titleLineHeight + titleGap
	if len(l.BodyLines) > 0 {
		h += len(l.BodyLines)*bodyLineHeight + bodyGap
	}
	if len(l.CodeLines) > 0 {
		codeHeight := len(l.CodeLines) * codeLineHeight
		if codeHeight > codeMaxHeight {
			codeHeight = codeMaxHeight
		}
		h += codeHeight + codePadding + codeGap
	}
	l.Height = h + paddingBottom
	return l
}

func cellsFor(px int, advance float64) int {
	n := int(math.Floor(float64(px) / advance))
	if n < 1 {
		return 1
	}
	return n
}

// wrapText greedily word-wraps s into lines of at most cells terminal cells.
// Explicit newlines start a new paragraph and words wider than a line are
// hard-broken.
func wrapText(s string, cells int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var cur strings.Builder
		curWidth := 0
		flush := func() {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}

		for _, word := range words {
			w := runewidth.StringWidth(word)
			if curWidth > 0 && curWidth+1+w <= cells {
				cur.WriteByte(' ')
				cur.WriteString(word)
				curWidth += 1 + w
				continue
			}
			if curWidth > 0 {
				flush()
			}
			for w > cells {
				head := runewidth.Truncate(word, cells, "")
				if head == "" {
					// A single rune wider than the line.
					r := []rune(word)
					head = string(r[0])
				}
				lines = append(lines, head)
				word = word[len(head):]
				w = runewidth.StringWidth(word)
			}
			cur.WriteString(word)
			curWidth = w
		}
		if curWidth > 0 {
			flush()
		}
	}
	return lines
}

// clipCode hard-wraps a code snippet and keeps at most maxLines lines,
// marking the cut with an ellipsis.
func clipCode(code string, cells, maxLines int) []string {
	code = strings.TrimRight(code, "\n ")
	if strings.TrimSpace(code) == "" {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimRight(line, " \t\r")
		for runewidth.StringWidth(line) > cells {
			head := runewidth.Truncate(line, cells, "")
			if head == "" {
				head = string([]rune(line)[0])
			}
			lines = append(lines, head)
			line = line[len(head):]
		}
		lines = append(lines, line)
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := lines[maxLines-1]
		lines[maxLines-1] = runewidth.Truncate(last+ellipsis, cells, ellipsis)
	}
	return lines
}
