package book

// ElementKind is the closed set of markup element kinds a format reader emits.
type ElementKind int

const (
	KindOther ElementKind = iota
	KindParagraph
	KindDivision
	KindHeading
	KindBreak
)

// Element is one markup node of an item, flattened in document order.
type Element struct {
	Kind  ElementKind
	Level int    // Heading level 1-3; zero for other kinds.
	Text  string // Raw extracted text (empty for breaks).
}

// Item is one structural unit of the source (typically a chapter file),
// in reading order. Immutable once read.
type Item struct {
	ID       string
	Title    string // Title hint from the reader; may be empty.
	Elements []Element
}

// Document is what a format reader yields: the flat item sequence in
// reading order plus book-level metadata.
type Document struct {
	SourceFile string
	Title      string
	Items      []Item
}

// Scene is one narrative text block within a chapter. IDs start at 1 and
// are contiguous within the chapter.
type Scene struct {
	ID   int    `json:"scene_id"`
	Text string `json:"text"`
}

// Chapter groups the scenes of one structural unit under a title and a
// sortable label such as "3" or "3.1".
type Chapter struct {
	Title  string  `json:"title"`
	Label  string  `json:"chapter"`
	Scenes []Scene `json:"scenes"`
}

// Structure is the root aggregate handed to the serializer at run end.
type Structure struct {
	SourceFile string    `json:"source_file"`
	Title      string    `json:"book_title"`
	Chapters   []Chapter `json:"chapters"`
}

// SceneCount returns the total number of scenes across all chapters.
func (s Structure) SceneCount() int {
	n := 0
	for _, ch := range s.Chapters {
		n += len(ch.Scenes)
	}
	return n
}
