package model

import "context"

// Classifier maps free text to category labels. It is best-effort: empty or
// unclassifiable input yields an empty set, never an error.
type Classifier interface {
	Categorize(ctx context.Context, text string) ([]string, error)
}
