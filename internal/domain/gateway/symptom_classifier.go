package gateway

import "context"

// SymptomClassifier maps a free-text symptom description to a specialty.
// found is false when the service answered without a specialty.
type SymptomClassifier interface {
	Classify(ctx context.Context, symptoms string) (specialty string, found bool, err error)
}
