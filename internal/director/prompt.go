package director

import (
	"fmt"
	"strings"
)

// DirectorPrompt instructs the model to act as screenwriter and visual
// director and to answer with the production-script JSON only.
const DirectorPrompt = `You are an experienced AI Screenwriter and Visual Director.
Your task is to convert a literary text into a structured Production Script (JSON).

ANALYSIS INSTRUCTIONS:
1. Identify the VISUAL SETTING (exactly one, representing the whole scene).
2. Identify the AMBIENT SOUND (SFX).
3. List the CHARACTERS present, with a brief visual description and what they are doing.
4. Build the sequential SCRIPT, split between 'narration' (action/description) and 'dialogue' (speech).

RESPONSE FORMAT (JSON ONLY):
{
    "location_visual": "Detailed description of the setting for an artist to draw (e.g. dark tavern, rotting wood, candlelight)",
    "ambient_sound": "Background sounds (e.g. rain outside, clinking glasses)",
    "characters_present": [
        {
            "name": "Character Name",
            "visual_desc": "Hair, clothing, distinguishing features",
            "current_action": "What they are doing in the scene (e.g. drinking in the corner)"
        }
    ],
    "script": [
        {
            "type": "narration",
            "text": "Description of the action taking place."
        },
        {
            "type": "dialogue",
            "character": "Name of the speaker",
            "emotion": "Emotion of the line (e.g. anger, whisper, irony)",
            "text": "The character's exact words."
        }
    ]
}

IMPORTANT: Respond ONLY with the JSON. Do not include introductions.`

// BuildScenePrompt assembles the full prompt for one scene.
func BuildScenePrompt(sceneLabel, sceneText string) string {
	var sb strings.Builder
	sb.WriteString(DirectorPrompt)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("SCENE ID: %s\n", sceneLabel))
	sb.WriteString("SCENE TEXT:\n")
	sb.WriteString(sceneText)
	return sb.String()
}
