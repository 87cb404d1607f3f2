package extract

import (
	"context"
	"fmt"

	"github.com/tbxark/slotagent/structured"
	"github.com/tbxark/slotagent/types"
)

// FailbackExtractor tries each extractor in order and returns the first
// success. Usage spent on failed attempts is added to the result.
type FailbackExtractor struct {
	extractors []Extractor
}

func NewFailbackExtractor(extractors ...Extractor) *FailbackExtractor {
	return &FailbackExtractor{extractors: extractors}
}

func (e *FailbackExtractor) Extract(ctx context.Context, req *Request) (*Extraction, error) {
	if len(e.extractors) == 0 {
		return nil, fmt.Errorf("no extractor configured")
	}
	var (
		lastErr error
		spent   types.Usage
	)
	for _, extractor := range e.extractors {
		extraction, err := extractor.Extract(ctx, req)
		if err == nil {
			extraction.Usage.Add(spent)
			return extraction, nil
		}
		spent.Add(structured.UsageOf(err))
		lastErr = err
	}
	return nil, fmt.Errorf("all extractors failed: %w", lastErr)
}
