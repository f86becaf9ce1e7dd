package director

import (
	"fmt"
	"strings"

	"github.com/dgallion1/scenecut/internal/numbering"
)

// ScriptScene is the structured production script for one scene.
type ScriptScene struct {
	SceneID           string       `json:"scene_id"`
	LocationVisual    string       `json:"location_visual"`
	AmbientSound      string       `json:"ambient_sound"`
	CharactersPresent []Character  `json:"characters_present"`
	Script            []ScriptLine `json:"script"`
}

// Character describes one character present in a scene.
type Character struct {
	Name          string `json:"name"`
	VisualDesc    string `json:"visual_desc"`
	CurrentAction string `json:"current_action"`
}

// ScriptLine is one sequential entry of a scene script: either narration or
// a character's dialogue.
type ScriptLine struct {
	Type      string `json:"type"`
	Character string `json:"character,omitempty"`
	Emotion   string `json:"emotion,omitempty"`
	Text      string `json:"text"`
}

const (
	LineNarration = "narration"
	LineDialogue  = "dialogue"
)

// labelWidth is the digit width of the chapter part of a scene label.
const labelWidth = 5

// Label builds the downstream scene identifier for a chapter label and a
// scene sequence number, e.g. ("2", 1) -> "cap00002_cena0000000001".
func Label(chapterLabel string, sceneID int) string {
	return fmt.Sprintf("cap%s_cena%010d", numbering.PadLabel(chapterLabel, labelWidth), sceneID)
}

// ValidateScript checks a decoded script for structural validity. Invalid
// lines are dropped; a script with no valid lines is an error.
func ValidateScript(s *ScriptScene) error {
	if s == nil {
		return fmt.Errorf("nil script")
	}

	valid := s.Script[:0]
	for _, line := range s.Script {
		line.Text = strings.TrimSpace(line.Text)
		if line.Text == "" {
			continue
		}
		switch line.Type {
		case LineNarration:
			valid = append(valid, line)
		case LineDialogue:
			if strings.TrimSpace(line.Character) == "" {
				continue
			}
			valid = append(valid, line)
		}
	}
	s.Script = valid

	if len(s.Script) == 0 {
		return fmt.Errorf("script has no usable lines")
	}
	return nil
}
