package segment

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dgallion1/scenecut/internal/book"
)

func item(id string, elements ...book.Element) book.Item {
	return book.Item{ID: id, Elements: elements}
}

func p(text string) book.Element {
	return book.Element{Kind: book.KindParagraph, Text: text}
}

func h1(text string) book.Element {
	return book.Element{Kind: book.KindHeading, Level: 1, Text: text}
}

func br() book.Element {
	return book.Element{Kind: book.KindBreak}
}

func TestSplitScenes_SeparatorFlushes(t *testing.T) {
	scenes := SplitScenes(item("c1",
		p("He walked in."),
		p("***"),
		p("She spoke last."),
	))
	if len(scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d: %v", len(scenes), scenes)
	}
	if scenes[0] != "He walked in." {
		t.Errorf("scene 1: got %q", scenes[0])
	}
	if scenes[1] != "She spoke last." {
		t.Errorf("scene 2: got %q", scenes[1])
	}
	for i, s := range scenes {
		if strings.Contains(s, "***") {
			t.Errorf("scene %d contains separator text: %q", i, s)
		}
	}
}

func TestSplitScenes_SeparatorVariants(t *testing.T) {
	for _, sep := range []string{"***", "---", "___", "~~~", "• • •", "* * *", "- - - -"} {
		t.Run(sep, func(t *testing.T) {
			scenes := SplitScenes(item("c1", p("Before text here."), p(sep), p("After text here.")))
			if len(scenes) != 2 {
				t.Fatalf("separator %q: expected 2 scenes, got %d: %v", sep, len(scenes), scenes)
			}
		})
	}
}

func TestSplitScenes_TwoGlyphsIsNotASeparator(t *testing.T) {
	scenes := SplitScenes(item("c1", p("Before text here."), p("**"), p("After text here.")))
	// "**" is too short for the separator rule and too short for prose;
	// it is discarded as noise without flushing.
	if len(scenes) != 1 {
		t.Fatalf("expected 1 scene, got %d: %v", len(scenes), scenes)
	}
}

func TestSplitScenes_BreakElementFlushes(t *testing.T) {
	scenes := SplitScenes(item("c1",
		p("First scene text."),
		br(),
		p("Second scene text."),
	))
	if len(scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(scenes))
	}
}

func TestSplitScenes_AdjacentFragmentsJoin(t *testing.T) {
	scenes := SplitScenes(item("c1",
		p("He walked in."),
		p("He sat down."),
	))
	if len(scenes) != 1 {
		t.Fatalf("expected 1 scene, got %d", len(scenes))
	}
	want := "He walked in. He sat down."
	if scenes[0] != want {
		t.Errorf("expected %q, got %q", want, scenes[0])
	}
}

func TestSplitScenes_NoiseDiscarded(t *testing.T) {
	scenes := SplitScenes(item("c1",
		p("42"),
		p("<!DOCTYPE html"),
		p("{display:none}"),
		p("Actual narrative prose here."),
	))
	if len(scenes) != 1 {
		t.Fatalf("expected 1 scene, got %d: %v", len(scenes), scenes)
	}
	if scenes[0] != "Actual narrative prose here." {
		t.Errorf("got %q", scenes[0])
	}
}

func TestSplitScenes_HeadingsNotAccumulated(t *testing.T) {
	scenes := SplitScenes(item("c1",
		h1("Chapter 2"),
		p("He walked in."),
	))
	if len(scenes) != 1 {
		t.Fatalf("expected 1 scene, got %d", len(scenes))
	}
	if scenes[0] != "He walked in." {
		t.Errorf("got %q", scenes[0])
	}
}

func TestSplitScenes_EmptyItem(t *testing.T) {
	if scenes := SplitScenes(item("c1")); len(scenes) != 0 {
		t.Errorf("expected no scenes, got %v", scenes)
	}
}

func TestSplitScenes_TrailingSeparatorNoEmptyScene(t *testing.T) {
	scenes := SplitScenes(item("c1", p("Only scene text."), p("***")))
	if len(scenes) != 1 {
		t.Fatalf("expected 1 scene, got %d", len(scenes))
	}
}

func TestProcess_EndToEnd(t *testing.T) {
	seg := New(1500, nil)
	ch := seg.Process(item("c1",
		h1("Chapter 2"),
		p("He walked in."),
		p("***"),
		p("She spoke last."),
		br(),
	), 1)

	if ch == nil {
		t.Fatal("expected a chapter")
	}
	if ch.Label != "2" {
		t.Errorf("expected label %q, got %q", "2", ch.Label)
	}
	if ch.Title != "Chapter 2" {
		t.Errorf("expected title %q, got %q", "Chapter 2", ch.Title)
	}
	if len(ch.Scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(ch.Scenes))
	}
	want := []book.Scene{
		{ID: 1, Text: "He walked in."},
		{ID: 2, Text: "She spoke last."},
	}
	for i, w := range want {
		if ch.Scenes[i] != w {
			t.Errorf("scene %d: expected %+v, got %+v", i, w, ch.Scenes[i])
		}
	}
}

func TestProcess_SyntheticTitleWhenNoHeading(t *testing.T) {
	seg := New(1500, nil)
	ch := seg.Process(item("c1", p("Some narrative content.")), 3)
	if ch == nil {
		t.Fatal("expected a chapter")
	}
	if ch.Title != "Chapter 3" {
		t.Errorf("expected synthetic title %q, got %q", "Chapter 3", ch.Title)
	}
}

func TestProcess_SceneEqualToTitleDropped(t *testing.T) {
	seg := New(1500, nil)
	ch := seg.Process(item("c1",
		h1("Chapter 2"),
		p("chapter 2"), // heading re-captured as a paragraph
		br(),
		p("Real scene content."),
	), 1)
	if ch == nil {
		t.Fatal("expected a chapter")
	}
	if len(ch.Scenes) != 1 {
		t.Fatalf("expected 1 scene, got %d", len(ch.Scenes))
	}
	if ch.Scenes[0].Text != "Real scene content." {
		t.Errorf("got %q", ch.Scenes[0].Text)
	}
}

func TestProcess_NoScenesReturnsNil(t *testing.T) {
	seg := New(1500, nil)
	if ch := seg.Process(item("c1", h1("Chapter 1"), p("42")), 1); ch != nil {
		t.Errorf("expected nil chapter, got %+v", ch)
	}
}

func TestProcess_DuplicateItemSkipped(t *testing.T) {
	seg := New(1500, nil)
	first := seg.Process(item("c1", p("Some narrative content.")), 1)
	if first == nil {
		t.Fatal("expected first chapter")
	}
	if dup := seg.Process(item("c1", p("Some narrative content.")), 2); dup != nil {
		t.Errorf("expected duplicate item to be skipped, got %+v", dup)
	}
}

func TestProcess_ChunkingKeepsNumberingContiguous(t *testing.T) {
	// One oversized scene plus one small scene: chunking must not break
	// the contiguous 1..N scene numbering.
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("One two three four five six seven eight nine ten. ")
	}
	seg := New(100, nil)
	ch := seg.Process(item("c1",
		p(strings.TrimSpace(sb.String())),
		p("***"),
		p("A short closing scene."),
	), 1)
	if ch == nil {
		t.Fatal("expected a chapter")
	}
	if len(ch.Scenes) != 4 {
		t.Fatalf("expected 4 scenes (3 chunks + 1), got %d", len(ch.Scenes))
	}
	for i, sc := range ch.Scenes {
		if sc.ID != i+1 {
			t.Errorf("scene %d: expected ID %d, got %d", i, i+1, sc.ID)
		}
	}
}

func TestRun_AssemblesStructure(t *testing.T) {
	seg := New(1500, nil)
	doc := book.Document{
		SourceFile: "example.epub",
		Title:      "An Example",
		Items: []book.Item{
			item("c1", h1("Chapter 1"), p("First chapter prose.")),
			item("c2", p("999")), // all noise: chapter dropped
			item("c3", h1("Epilogue"), p("Closing prose here.")),
		},
	}
	out := seg.Run(doc)

	if out.SourceFile != "example.epub" || out.Title != "An Example" {
		t.Errorf("metadata not carried: %+v", out)
	}
	if len(out.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(out.Chapters))
	}
	if out.Chapters[0].Label != "1" {
		t.Errorf("expected label %q, got %q", "1", out.Chapters[0].Label)
	}
	// The dropped middle item still consumed label "2" via its synthetic
	// title, so the epilogue numbers as a sub-level under it.
	if out.Chapters[1].Label != "2.1" {
		t.Errorf("expected label %q, got %q", "2.1", out.Chapters[1].Label)
	}
}

func TestRun_SceneNumberingContiguousPerChapter(t *testing.T) {
	seg := New(50, nil)
	var long strings.Builder
	for i := 0; i < 20; i++ {
		long.WriteString(fmt.Sprintf("Sentence %d fills out the running scene nicely. ", i))
	}
	doc := book.Document{
		Items: []book.Item{
			item("c1", h1("Chapter 1"), p(long.String()), br(), p("Another scene follows here.")),
			item("c2", h1("Chapter 2"), p("Second chapter scene text.")),
		},
	}
	out := seg.Run(doc)
	for _, ch := range out.Chapters {
		for i, sc := range ch.Scenes {
			if sc.ID != i+1 {
				t.Errorf("chapter %s scene %d: expected ID %d, got %d", ch.Label, i, i+1, sc.ID)
			}
			if sc.Text == "" {
				t.Errorf("chapter %s scene %d: empty text", ch.Label, sc.ID)
			}
		}
	}
}
