package numbering

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var digitRunRe = regexp.MustCompile(`\d+`)

// Assigner derives stable, sortable chapter labels from detected titles.
// An explicit number in a title always wins and resynchronizes the counter;
// unnumbered units following a numbered chapter become dotted sub-levels
// ("3.1", "3.2"). State is per run — create a fresh Assigner per document.
type Assigner struct {
	lastChapterNum  int
	subChapterCount int
}

// Next returns the label for the next structural unit given its title.
// Out-of-order explicit numbers are accepted as-is; the assigner trusts
// the document.
func (a *Assigner) Next(title string) string {
	if m := digitRunRe.FindString(title); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			a.lastChapterNum = n
			a.subChapterCount = 0
			return strconv.Itoa(n)
		}
	}
	if a.lastChapterNum == 0 {
		a.lastChapterNum = 1
		return "1"
	}
	a.subChapterCount++
	return fmt.Sprintf("%d.%d", a.lastChapterNum, a.subChapterCount)
}

// PadLabel left-pads a label with zeros until its digit count reaches width.
// Punctuation does not count toward the width: "1.1" at width 5 becomes
// "0001.1". Used to build fixed-width downstream scene identifiers.
func PadLabel(label string, width int) string {
	digits := 0
	for _, r := range label {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits >= width {
		return label
	}
	return strings.Repeat("0", width-digits) + label
}
