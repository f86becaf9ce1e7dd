package reader

import (
	"testing"

	"github.com/dgallion1/scenecut/internal/book"
)

func TestParseItemElements_BasicChapter(t *testing.T) {
	content := []byte(`<?xml version="1.0" encoding="utf-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>ignored</title><style>p { margin: 0 }</style></head>
<body>
  <h1>Chapter 2</h1>
  <p>He walked in.</p>
  <p>***</p>
  <p>She spoke last.</p>
  <hr/>
</body>
</html>`)

	elements, err := parseItemElements(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantKinds := []book.ElementKind{
		book.KindHeading, book.KindParagraph, book.KindParagraph,
		book.KindParagraph, book.KindBreak,
	}
	if len(elements) != len(wantKinds) {
		t.Fatalf("expected %d elements, got %d: %+v", len(wantKinds), len(elements), elements)
	}
	for i, k := range wantKinds {
		if elements[i].Kind != k {
			t.Errorf("element %d: expected kind %d, got %d", i, k, elements[i].Kind)
		}
	}
	if elements[0].Text != "Chapter 2" || elements[0].Level != 1 {
		t.Errorf("heading: got %+v", elements[0])
	}
	if elements[1].Text != "He walked in." {
		t.Errorf("paragraph: got %q", elements[1].Text)
	}
}

func TestParseItemElements_HeadingLevels(t *testing.T) {
	content := []byte(`<body><h1>A</h1><h2>B</h2><h3>C</h3><h4>D</h4></body>`)
	elements, err := parseItemElements(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var levels []int
	for _, el := range elements {
		if el.Kind == book.KindHeading {
			levels = append(levels, el.Level)
		}
	}
	if len(levels) != 3 || levels[0] != 1 || levels[1] != 2 || levels[2] != 3 {
		t.Errorf("expected heading levels [1 2 3], got %v", levels)
	}
}

func TestParseItemElements_LeafDivisionOnly(t *testing.T) {
	content := []byte(`<body>
  <div><p>Nested paragraph text.</p></div>
  <div>Bare division text.</div>
</body>`)
	elements, err := parseItemElements(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elements) != 2 {
		t.Fatalf("expected 2 elements, got %d: %+v", len(elements), elements)
	}
	if elements[0].Kind != book.KindParagraph || elements[0].Text != "Nested paragraph text." {
		t.Errorf("element 0: got %+v", elements[0])
	}
	if elements[1].Kind != book.KindDivision || elements[1].Text != "Bare division text." {
		t.Errorf("element 1: got %+v", elements[1])
	}
}

func TestParseItemElements_SkipsChrome(t *testing.T) {
	content := []byte(`<body>
  <nav><p>Table of contents</p></nav>
  <header><p>Running head</p></header>
  <p>Kept prose.</p>
  <footer><p>Page 12</p></footer>
  <script>var x = 1;</script>
</body>`)
	elements, err := parseItemElements(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elements) != 1 {
		t.Fatalf("expected 1 element, got %d: %+v", len(elements), elements)
	}
	if elements[0].Text != "Kept prose." {
		t.Errorf("got %q", elements[0].Text)
	}
}

func TestParseItemElements_InlineMarkupFlattened(t *testing.T) {
	content := []byte(`<body><p>He said <em>quietly</em> that <strong>nothing</strong> was wrong.</p></body>`)
	elements, err := parseItemElements(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(elements))
	}
	want := "He said quietly that nothing was wrong."
	if elements[0].Text != want {
		t.Errorf("expected %q, got %q", want, elements[0].Text)
	}
}

func TestIsDocumentItem(t *testing.T) {
	tests := []struct {
		mediaType string
		want      bool
	}{
		{"application/xhtml+xml", true},
		{"text/html", true},
		{"image/jpeg", false},
		{"text/css", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isDocumentItem(tt.mediaType); got != tt.want {
			t.Errorf("isDocumentItem(%q) = %v, expected %v", tt.mediaType, got, tt.want)
		}
	}
}
