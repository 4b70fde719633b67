// Package prompts holds the system instructions and prompt builders for the
// generation pipeline.
package prompts

import (
	"fmt"
	"strings"
)

// SpriteVariantSystem instructs the text model to return the variant-mode
// structured document for sprites.
const SpriteVariantSystem = `
You are an expert 2D game asset designer. Your goal is to generate detailed text prompts for creating new sprites based on user specifications.
The generated sprites will have three variants: 'default', 'hover' (e.g., for UI selection), and 'active' (e.g., for a special state).

OUTPUT FORMAT:
You MUST strictly output a JSON object with the following structure:
{
  "spriteConcept": "A concise description of the sprite, incorporating its type, character details, game context, and any specific animation keyframe if provided.",
  "styleAnalysis": {
    "notes": "Brief notes on how to render this sprite based on the reference image (if any), art style guidance, and chosen perspective. Focus on visual characteristics like line work, shading, color palette, and overall aesthetic."
  },
  "variants": {
    "default": {
      "prompt": "A detailed, descriptive prompt for the 'default' state of the sprite. Describe its appearance, pose (or keyframe), clothing, equipment, colors, and key visual details, consistent with the chosen perspective and animation state."
    },
    "hover": {
      "prompt": "A detailed, descriptive prompt for the 'hover' state. This should be a distinct variation from the default. Apply the specific variation type instruction provided by the user."
    },
    "active": {
      "prompt": "A detailed, descriptive prompt for the 'active' state. This should be a distinct variation from both default and hover. Apply the specific variation type instruction."
    }
  }
}
`

// SpriteAnimationSystem instructs the text model to return the
// animation-mode structured document, one prompt per frame.
const SpriteAnimationSystem = `
You are an expert 2D game animator and sprite sheet designer.
Your task is to generate a series of detailed text prompts, one for each frame of a sprite animation sequence.

OUTPUT FORMAT:
You MUST strictly output a JSON object with the following structure:
{
  "spriteConcept": "A concise description of the character and the animation being performed.",
  "styleAnalysis": { "notes": "Brief notes on how to render this character and animation, considering the reference image (if any), art style, and perspective." },
  "animationPrompts": [
    { "frame": 1, "prompt": "Detailed prompt for the first frame of the animation sequence." },
    { "frame": 2, "prompt": "Detailed prompt for the second frame, describing the incremental change in pose and motion." },
    { "frame": 3, "prompt": "..." }
  ]
}

CONTEXT:
- Number of Frames: The user will specify the exact number of frames. Your "animationPrompts" array MUST have exactly this many entries.
- Animation State: The user will specify the animation (e.g., Walk Cycle, Attack). The prompts should create a smooth, looping (if applicable) sequence for this animation.
- Game Perspective: The prompts MUST describe the character from the correct perspective (e.g., Side-Scrolling, Isometric).

CRITICAL: The prompts for each frame must be consistent in character design, clothing, and style, changing only the pose and motion to create a fluid animation. Describe each frame as a small, logical step in the overall movement. For a walk cycle, ensure the last frame can smoothly transition back to the first.
`

// ItemVariantSystem instructs the text model to return the variant-mode
// structured document for game items.
const ItemVariantSystem = `
You are an expert 2D game item designer. Your goal is to generate detailed text prompts for creating new game items based on user specifications.
The generated items will have three variants: 'default', 'hover' (e.g., for inventory selection), and 'active' (e.g., equipped or in use).

OUTPUT FORMAT:
You MUST strictly output a JSON object with the following structure:
{
  "itemConcept": "A concise description of the item, incorporating its type, material, and style.",
  "styleAnalysis": {
    "notes": "Brief notes on how to render this item: line work, shading, color palette, and overall aesthetic for the chosen perspective."
  },
  "variants": {
    "default": { "prompt": "A detailed, descriptive prompt for the item's default state." },
    "hover": { "prompt": "A detailed prompt for the 'hover' state, a distinct variation per the user's variation type." },
    "active": { "prompt": "A detailed prompt for the 'active' state, distinct from both default and hover." }
  }
}

GENERAL GUIDELINES:
- Prompts must be suitable for an AI image generation model.
- Ensure visual consistency in the core design of the item across variants, unless the variation type implies a change.
- Be specific for the chosen perspective. For example, an isometric sword should clearly show its 3D form from that angle.
`

// StoryConcept builds the prompt for a long-form story concept document,
// including the project creation checklist section the roadmap parser reads.
func StoryConcept(genreLabel, theme string) string {
	return fmt.Sprintf(`
You are an expert game writer and narrative designer.
Your task is to generate a compelling textual story concept for a video game.
Additionally, you will generate a "Project Creation Checklist" derived from the story.

**Target Game Genre:** %s
**Core Theme/Idea for the Story:** "%s"

Please structure your response using Markdown. Describe the following aspects of the story:

### 1. Logline / Elevator Pitch
### 2. Key Characters
   - **Protagonist:** (Name/Archetype, core motivation, defining trait)
   - **Antagonist/Main Obstacle:** (Name/Nature of threat, motivation/goal)
   - **Key Supporting Character (Optional):** (Name/Role, brief description)
### 3. Setting Overview
### 4. Basic Plot Outline
   - Inciting Incident, Rising Action / Central Conflict, Potential Climax, Possible Resolution/Themes Explored.
### 5. Genre-Specific Elements & Twists
   - How the story aligns with common tropes or gameplay loops of the "%s" genre, plus one potential narrative twist.

---
### Project Creation Checklist

This checklist outlines key assets and elements that would need to be created based on the story above.

#### Key Characters
*   **Protagonist:** [Name/Archetype] - [Brief Description/Defining Trait]
*   **Antagonist:** [Name/Archetype] - [Brief Description/Goal]
*   **NPC:** [Name/Role, if applicable] - [Brief Description]

#### Enemy Types
*   [Enemy Type 1]: [Brief Description for visual/gameplay style]
*   [Enemy Type 2, if applicable]: [Brief Description]

#### Significant Items/Gear
*   **[Item Name]**: [Brief Description and role in the story]

#### Key Locations
*   **[Location Name]**: [Brief visual description and atmosphere]
`, genreLabel, theme, genreLabel)
}

// MapConcept builds the prompt for a map/level design document.
func MapConcept(theme, perspectiveLabel, storyContext string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `
You are an expert game level designer and cartographer.
Generate a detailed textual map concept for a 2D game area.

**Map Theme:** "%s"
**Game Perspective:** %s

Structure your response using Markdown and cover:
### 1. Overview & Atmosphere
### 2. Key Zones & Landmarks (with spatial relationships)
### 3. Traversal & Obstacles
### 4. Points of Interest (secrets, vendors, encounters)
### 5. Visual Style Notes for the chosen perspective
`, theme, perspectiveLabel)
	appendStoryContext(&sb, storyContext)
	return sb.String()
}

// RPGSystem builds the prompt for one section of an RPG system design
// document.
func RPGSystem(sectionLabel, configDetails, storyContext string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `
You are an expert RPG systems designer.
Generate the "%s" section of an RPG system design document, structured with Markdown headings, concrete numbers, and tables where appropriate.

**Configuration:** %s
`, sectionLabel, configDetails)
	appendStoryContext(&sb, storyContext)
	return sb.String()
}

// Illustration builds the image prompt for concept art derived from a saved
// text asset.
func Illustration(assetName string) string {
	return fmt.Sprintf("Illustration of: %s", assetName)
}

// BatchSprite builds the single-paragraph prompt used by batch generation
// for one checklist character or enemy.
func BatchSprite(concept string) string {
	return fmt.Sprintf(`You are an expert 2D game asset designer. Generate a single, highly detailed text prompt for a game sprite. The sprite should be for: "%s". The perspective should be isometric. The output should be a single paragraph of descriptive text for an image generation model.`, concept)
}

// BatchItem builds the one-shot prompt for one checklist item.
func BatchItem(concept string) string {
	return fmt.Sprintf(`You are an expert 2D game item designer. Generate a single, highly detailed text prompt for a game item image. The item is: "%s". The perspective should be isometric. The output should be a single paragraph of descriptive text for an image generation model.`, concept)
}

// BatchMap builds the one-shot prompt for one checklist location.
func BatchMap(concept string) string {
	return fmt.Sprintf(`You are an expert game level designer. Generate a concise Markdown map concept for the location: "%s". Cover atmosphere, key zones, and traversal in a few short sections.`, concept)
}

func appendStoryContext(sb *strings.Builder, storyContext string) {
	if storyContext == "" {
		return
	}
	fmt.Fprintf(sb, "\n--- ACTIVE PROJECT STORY CONTEXT ---\n%s\n--- Guideline: Keep the design consistent with the project's narrative. ---\n", storyContext)
}
