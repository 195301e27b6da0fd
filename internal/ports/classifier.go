package ports

import (
	"context"

	"github.com/stoik/email-guard/internal/domain"
)

// URLClassifier defines the contract for an external single-URL phishing classifier
type URLClassifier interface {
	// Name and Source identify the model in analysis results
	Name() string
	Source() string

	// Ready verifies the classifier is installed and reachable
	Ready(ctx context.Context) error

	// Predict classifies one URL; the caller bounds the call with a deadline
	Predict(ctx context.Context, url string) (domain.ClassifierVerdict, error)
}
