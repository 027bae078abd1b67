package rules

import (
	"strings"

	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
)

// Classifier classifies filenames by extension only; file contents are never read.
type Classifier struct {
	rules domain.RuleSet
}

// NewClassifier creates a classifier over rs.
func NewClassifier(rs domain.RuleSet) *Classifier {
	return &Classifier{rules: rs}
}

// Classify returns the first category registering the file's extension,
// or Unclassified when there is no extension or no match.
func (c *Classifier) Classify(filename string) domain.Classification {
	ext := Extension(filename)
	if ext == "" {
		return domain.Unclassified()
	}
	if name, ok := c.rules.CategoryFor(ext); ok {
		return domain.InCategory(name)
	}
	return domain.Unclassified()
}

// Extension returns the lower-cased extension of filename including the dot:
// everything after the last ".", or "" if there is none.
func Extension(filename string) string {
	base := filename
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	i := strings.LastIndexByte(base, '.')
	if i < 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i:])
}

// Ensure Classifier implements domain.Classifier.
var _ domain.Classifier = (*Classifier)(nil)
