package chunker

import "strings"

// DefaultMaxWords bounds a scene for the downstream generation context window.
const DefaultMaxWords = 1500

// Chunk splits text into pieces of at most maxWords words each, breaking only
// at sentence boundaries. A single sentence longer than maxWords is kept
// whole rather than split mid-sentence. Concatenating the chunks reproduces
// the input's words in order. Empty or blank text yields no chunks.
func Chunk(text string, maxWords int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	if WordCount(text) <= maxWords {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentWords := 0

	for _, sent := range SplitSentences(text) {
		n := WordCount(sent)
		if currentWords+n > maxWords && currentWords > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentWords = 0
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentWords += n
	}
	if currentWords > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// SplitSentences does basic sentence splitting: a boundary falls after '.',
// '!' or '?' followed by whitespace. This is a heuristic, not grammar-aware
// detection.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && isSpace(text[i+1]) {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// WordCount counts whitespace-delimited words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
