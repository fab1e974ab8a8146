// Package prompts loads the template store and resolves one prompt set
// per pipeline role.
package prompts

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"CrossPoster/internal/domain"
)

// Style selects the placeholder marker convention of a template.
type Style int

const (
	// DoubleBrace is the canonical {{KEY}} convention used by the shipped store.
	DoubleBrace Style = iota
	// SingleBrace supports older stores written with {KEY} markers.
	SingleBrace
)

// Set is one selected prompt entry: an optional id plus its role templates.
type Set struct {
	ID        string
	templates map[string]string
}

// Template returns the template text stored under key, empty when absent.
func (s Set) Template(key string) string {
	return s.templates[key]
}

// Store is the parsed template store: role name to an array of prompt sets.
type Store struct {
	roles map[string][]map[string]any
}

// Load reads and parses the template store file.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read template store %s: %v", domain.ErrConfiguration, path, err)
	}

	var roles map[string][]map[string]any
	if err := json.Unmarshal(raw, &roles); err != nil {
		return nil, fmt.Errorf("%w: parse template store %s: %v", domain.ErrValidation, path, err)
	}

	return &Store{roles: roles}, nil
}

// Select picks one prompt set from the named role array. A supplied id is
// matched against entry ids; no match (or no id) falls back to the first
// entry, which the caller can detect by comparing Set.ID. Every required
// key must be present as a string.
func (s *Store) Select(role, id string, required ...string) (Set, error) {
	sets := s.roles[role]
	if len(sets) == 0 {
		return Set{}, fmt.Errorf("%w: template store has no %q sets", domain.ErrValidation, role)
	}

	chosen := sets[0]
	if id != "" {
		for _, candidate := range sets {
			if cid, _ := candidate["id"].(string); cid == id {
				chosen = candidate
				break
			}
		}
	}

	set := Set{templates: make(map[string]string, len(chosen))}
	set.ID, _ = chosen["id"].(string)
	for key, value := range chosen {
		if text, ok := value.(string); ok {
			set.templates[key] = text
		}
	}

	for _, key := range required {
		if set.templates[key] == "" {
			return Set{}, fmt.Errorf("%w: prompt set %q of role %q is missing key %q", domain.ErrValidation, set.ID, role, key)
		}
	}

	return set, nil
}

// Fill substitutes every occurrence of each known key into the template
// using the given marker style. Unknown markers stay untouched.
func Fill(template string, vars map[string]string, style Style) string {
	for key, value := range vars {
		marker := "{" + key + "}"
		if style == DoubleBrace {
			marker = "{{" + key + "}}"
		}
		template = strings.ReplaceAll(template, marker, value)
	}
	return template
}
