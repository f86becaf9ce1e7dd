package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/scenecut/internal/book"
	"github.com/dgallion1/scenecut/internal/director"
)

// timeLayout matches the processed_at stamp of the script output.
const timeLayout = "2006-01-02 15:04:05"

// ScriptOutput is the serialized result of directing a book's scenes.
type ScriptOutput struct {
	BookTitle   string                 `json:"book_title"`
	ProcessedAt string                 `json:"processed_at"`
	Scenes      []director.ScriptScene `json:"scenes_script"`
}

// NewScriptOutput stamps a script output for a book.
func NewScriptOutput(bookTitle string, scenes []director.ScriptScene) ScriptOutput {
	if scenes == nil {
		scenes = []director.ScriptScene{}
	}
	return ScriptOutput{
		BookTitle:   bookTitle,
		ProcessedAt: time.Now().Format(timeLayout),
		Scenes:      scenes,
	}
}

// SaveStructure writes a segmented book structure as indented JSON.
func SaveStructure(path string, s book.Structure) error {
	return writeJSON(path, s)
}

// LoadStructure reads a previously saved structure.
func LoadStructure(path string) (book.Structure, error) {
	var s book.Structure
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read structure: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode structure: %w", err)
	}
	return s, nil
}

// SaveScript writes a script output as indented JSON.
func SaveScript(path string, out ScriptOutput) error {
	return writeJSON(path, out)
}

// LoadScript reads a previously saved script output.
func LoadScript(path string) (ScriptOutput, error) {
	var out ScriptOutput
	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("read script: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode script: %w", err)
	}
	return out, nil
}

// writeJSON writes v to path atomically via a sibling temp file.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
