// Package roadmap extracts the project creation checklist from a generated
// story document, feeding batch asset generation.
package roadmap

import (
	"regexp"
	"strings"
)

// ItemType routes a checklist entry to the generator that can produce it.
type ItemType string

const (
	ItemCharacter ItemType = "character"
	ItemEnemy     ItemType = "enemy"
	ItemGear      ItemType = "item"
	ItemLocation  ItemType = "location"
)

// ChecklistItem is one asset the story calls for.
type ChecklistItem struct {
	Text     string   `json:"text"` // short display name
	Type     ItemType `json:"type"`
	FullLine string   `json:"fullLine"` // complete checklist line, used as the generation concept
}

// Checklist groups the story's asset suggestions by category.
type Checklist struct {
	Characters []ChecklistItem `json:"characters"`
	Enemies    []ChecklistItem `json:"enemies"`
	Items      []ChecklistItem `json:"items"`
	Locations  []ChecklistItem `json:"locations"`
}

// Empty reports whether no checklist entries were found.
func (c Checklist) Empty() bool {
	return len(c.Characters) == 0 && len(c.Enemies) == 0 && len(c.Items) == 0 && len(c.Locations) == 0
}

// All flattens the checklist in category order.
func (c Checklist) All() []ChecklistItem {
	out := make([]ChecklistItem, 0, len(c.Characters)+len(c.Enemies)+len(c.Items)+len(c.Locations))
	out = append(out, c.Characters...)
	out = append(out, c.Enemies...)
	out = append(out, c.Items...)
	out = append(out, c.Locations...)
	return out
}

var (
	sectionRegex  = regexp.MustCompile(`(?i)### Project Creation Checklist`)
	boldNameRegex = regexp.MustCompile(`^\*\*(.*?)\*\*:?`)
)

var categories = map[string]ItemType{
	"key characters":         ItemCharacter,
	"enemy types":            ItemEnemy,
	"significant items/gear": ItemGear,
	"key locations":          ItemLocation,
}

// ParseChecklist scans the story content for the checklist section and its
// category sub-headings. Content without a checklist yields an empty result,
// not an error; the story is still usable without one.
func ParseChecklist(content string) Checklist {
	var checklist Checklist
	loc := sectionRegex.FindStringIndex(content)
	if loc == nil {
		return checklist
	}

	var current ItemType
	inCategory := false
	for _, line := range strings.Split(content[loc[1]:], "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "####"):
			title := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "####")))
			current, inCategory = categories[title]
		case strings.HasPrefix(trimmed, "###"):
			// A new top-level section ends the checklist.
			return checklist
		case inCategory && strings.HasPrefix(trimmed, "*"):
			full := strings.TrimSpace(strings.TrimPrefix(trimmed, "*"))
			if full == "" {
				continue
			}
			item := ChecklistItem{Text: itemName(full), Type: current, FullLine: full}
			switch current {
			case ItemCharacter:
				checklist.Characters = append(checklist.Characters, item)
			case ItemEnemy:
				checklist.Enemies = append(checklist.Enemies, item)
			case ItemGear:
				checklist.Items = append(checklist.Items, item)
			case ItemLocation:
				checklist.Locations = append(checklist.Locations, item)
			}
		}
	}
	return checklist
}

// itemName pulls the bolded name off a checklist line, falling back to a
// truncated prefix of the line itself.
func itemName(line string) string {
	if match := boldNameRegex.FindStringSubmatch(line); match != nil {
		return strings.TrimSpace(match[1])
	}
	if name, _, found := strings.Cut(line, ":"); found {
		return strings.TrimSpace(name)
	}
	if runes := []rune(line); len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return line
}
