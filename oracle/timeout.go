package oracle

import (
	"context"
	"time"
)

type timeoutExtractor struct {
	Extractor
	timeout time.Duration
}

// WithTimeout bounds every ExtractText call on ex. A non-positive timeout
// returns ex unchanged.
func WithTimeout(ex Extractor, timeout time.Duration) Extractor {
	if timeout <= 0 {
		return ex
	}
	return &timeoutExtractor{Extractor: ex, timeout: timeout}
}

func (t *timeoutExtractor) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Extractor.ExtractText(ctx, data, mimeType)
}
