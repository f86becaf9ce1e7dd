package segment

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dgallion1/scenecut/internal/book"
	"github.com/dgallion1/scenecut/internal/chunker"
	"github.com/dgallion1/scenecut/internal/numbering"
	"github.com/dgallion1/scenecut/internal/textnorm"
)

// separatorRe matches a visual scene separator: a run of three or more
// characters drawn only from the conventional divider glyphs.
var separatorRe = regexp.MustCompile(`^[*\-_~•\s]{3,}$`)

// SplitScenes walks an item's elements in document order and returns the raw
// scene texts, split at explicit break elements and visual separator runs.
// Headings are never accumulated; non-prose fragments are discarded. The
// separator text itself is never emitted.
func SplitScenes(item book.Item) []string {
	var scenes []string
	var buf []string

	flush := func() {
		if len(buf) == 0 {
			return
		}
		if text := strings.TrimSpace(strings.Join(buf, " ")); text != "" {
			scenes = append(scenes, text)
		}
		buf = buf[:0]
	}

	for _, el := range item.Elements {
		switch el.Kind {
		case book.KindBreak:
			flush()
		case book.KindParagraph, book.KindDivision:
			text := textnorm.Normalize(el.Text)
			switch {
			case text == "":
				// noise
			case separatorRe.MatchString(text):
				flush()
			case textnorm.IsProse(text):
				buf = append(buf, text)
			}
		}
	}
	flush()

	return scenes
}

// Segmenter converts reader items into a chaptered, scened structure. It
// carries the numbering state and the set of item IDs already processed, so
// items must be fed strictly in reading order.
type Segmenter struct {
	assigner numbering.Assigner
	maxWords int
	seen     map[string]bool
	log      *slog.Logger
}

func New(maxWords int, log *slog.Logger) *Segmenter {
	if maxWords <= 0 {
		maxWords = chunker.DefaultMaxWords
	}
	if log == nil {
		log = slog.Default()
	}
	return &Segmenter{
		maxWords: maxWords,
		seen:     make(map[string]bool),
		log:      log,
	}
}

// Process segments one item into a chapter. Returns nil when the item is a
// duplicate spine reference or produces no valid scenes. ordinal is the
// 1-based position of the item in reading order, used for synthetic titles.
func (s *Segmenter) Process(item book.Item, ordinal int) *book.Chapter {
	if s.seen[item.ID] {
		s.log.Debug("skipping duplicate item", "item_id", item.ID)
		return nil
	}
	s.seen[item.ID] = true

	title := detectTitle(item)
	if title == "" {
		title = fmt.Sprintf("Chapter %d", ordinal)
	}
	label := s.assigner.Next(title)

	ch := &book.Chapter{Title: title, Label: label}
	for _, raw := range SplitScenes(item) {
		// A heading mistakenly captured as a paragraph must not become
		// a scene of its own.
		if strings.EqualFold(raw, title) {
			continue
		}
		for _, piece := range chunker.Chunk(raw, s.maxWords) {
			ch.Scenes = append(ch.Scenes, book.Scene{ID: len(ch.Scenes) + 1, Text: piece})
		}
	}

	if len(ch.Scenes) == 0 {
		return nil
	}
	return ch
}

// Run processes every item of a document in reading order and assembles the
// book structure. Chapters with zero valid scenes are dropped.
func (s *Segmenter) Run(doc book.Document) book.Structure {
	out := book.Structure{
		SourceFile: doc.SourceFile,
		Title:      doc.Title,
	}
	for i, item := range doc.Items {
		ch := s.Process(item, i+1)
		if ch == nil {
			continue
		}
		s.log.Debug("segmented chapter",
			"label", ch.Label, "title", ch.Title, "scenes", len(ch.Scenes))
		out.Chapters = append(out.Chapters, *ch)
	}
	return out
}

// detectTitle returns the normalized text of the item's first heading
// element, or empty when the item has none.
func detectTitle(item book.Item) string {
	for _, el := range item.Elements {
		if el.Kind == book.KindHeading {
			return textnorm.Normalize(el.Text)
		}
	}
	return ""
}
