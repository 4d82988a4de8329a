package models

import (
	"fmt"
	"sort"
	"strings"
)

// TemplateColumn describes one column created from a board template
type TemplateColumn struct {
	Title       string
	AccentColor string
}

// BoardTemplate is a named column layout for new boards
type BoardTemplate struct {
	Key     string
	Name    string
	Columns []TemplateColumn
}

// DefaultTemplateKey is used when no template is requested
const DefaultTemplateKey = "went-well-didnt"

var templates = map[string]BoardTemplate{
	"went-well-didnt": {
		Key:  "went-well-didnt",
		Name: "What went well / What didn't go well",
		Columns: []TemplateColumn{
			{Title: "What went well", AccentColor: "#008000"},
			{Title: "What didn't go well", AccentColor: "#cc293d"},
		},
	},
	"start-stop-continue": {
		Key:  "start-stop-continue",
		Name: "Start / Stop / Continue",
		Columns: []TemplateColumn{
			{Title: "Start", AccentColor: "#008000"},
			{Title: "Stop", AccentColor: "#cc293d"},
			{Title: "Continue", AccentColor: "#f6af08"},
		},
	},
	"mad-sad-glad": {
		Key:  "mad-sad-glad",
		Name: "Mad / Sad / Glad",
		Columns: []TemplateColumn{
			{Title: "Mad", AccentColor: "#cc293d"},
			{Title: "Sad", AccentColor: "#0078d4"},
			{Title: "Glad", AccentColor: "#008000"},
		},
	},
	"4ls": {
		Key:  "4ls",
		Name: "Liked / Learned / Lacked / Longed for",
		Columns: []TemplateColumn{
			{Title: "Liked", AccentColor: "#008000"},
			{Title: "Learned", AccentColor: "#0078d4"},
			{Title: "Lacked", AccentColor: "#cc293d"},
			{Title: "Longed for", AccentColor: "#8063bf"},
		},
	},
}

// TemplateByKey looks up a board template
func TemplateByKey(key string) (BoardTemplate, error) {
	t, ok := templates[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return BoardTemplate{}, fmt.Errorf("unknown template '%s' (must be: %s)", key, strings.Join(TemplateKeys(), ", "))
	}
	return t, nil
}

// TemplateKeys returns all template keys in sorted order
func TemplateKeys() []string {
	keys := make([]string, 0, len(templates))
	for k := range templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
