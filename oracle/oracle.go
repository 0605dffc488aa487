// Package oracle extracts text from screenshots through pluggable vision/OCR back-ends.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cufee/botto-verify/config"
	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/gjson"
)

// ErrEmptyImage is returned when an extractor is called without image bytes.
var ErrEmptyImage = errors.New("empty image")

// Extractor turns image bytes into the text visible in them.
// Images without readable text yield an empty string, not an error.
type Extractor interface {
	ExtractText(ctx context.Context, data []byte, mimeType string) (string, error)
	Name() string
}

// New builds the extractor selected by cfg.OracleBackend.
func New(ctx context.Context, cfg *config.Config) (Extractor, error) {
	var (
		ex  Extractor
		err error
	)
	switch cfg.OracleBackend {
	case config.BackendGemini:
		ex, err = NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL)
	case config.BackendOCRSpace:
		ex = NewOCRSpace(cfg.OCRSpace.URL, cfg.OCRSpace.APIKey, cfg.OCRSpace.Language, http.DefaultClient)
	default:
		return nil, fmt.Errorf("unknown oracle backend %q", cfg.OracleBackend)
	}
	if err != nil {
		return nil, err
	}
	return WithTimeout(ex, cfg.OracleTimeout), nil
}

// textKeys are the fields checked, in order, when a reply is a JSON object.
var textKeys = []string{"text", "extracted_text", "extractedText", "content"}

// Unwrap returns the plain text carried by an oracle reply.
// A reply that is a JSON object, bare or inside a ``` fence, is reduced to the
// object's text field, or to all of its string values when no text field
// exists. Prose is returned unchanged, braces included.
func Unwrap(reply string) string {
	span, ok := jsonSpan(reply)
	if !ok {
		return reply
	}

	repaired, err := jsonrepair.JSONRepair(span)
	if err != nil || !gjson.Valid(repaired) {
		return reply
	}
	obj := gjson.Parse(repaired)
	if !obj.IsObject() {
		return reply
	}
	for _, k := range textKeys {
		if v := obj.Get(k); v.Type == gjson.String {
			return v.String()
		}
	}

	var parts []string
	collectStrings(obj, &parts)
	if len(parts) == 0 {
		return reply
	}
	return strings.Join(parts, "\n")
}

// jsonSpan finds the object of a reply that starts with '{' or carries a fenced block.
func jsonSpan(reply string) (string, bool) {
	trimmed := strings.TrimSpace(reply)
	if strings.HasPrefix(trimmed, "{") {
		return trimmed, true
	}

	open := strings.Index(trimmed, "```")
	if open < 0 {
		return "", false
	}
	body := trimmed[open+3:]
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	body = strings.TrimSpace(body)
	// language tag
	if !strings.HasPrefix(body, "{") {
		nl := strings.IndexByte(body, '\n')
		if nl < 0 {
			return "", false
		}
		body = strings.TrimSpace(body[nl+1:])
	}
	if !strings.HasPrefix(body, "{") {
		return "", false
	}
	return body, true
}

func collectStrings(v gjson.Result, out *[]string) {
	switch {
	case v.Type == gjson.String:
		*out = append(*out, v.String())
	case v.IsObject() || v.IsArray():
		v.ForEach(func(_, value gjson.Result) bool {
			collectStrings(value, out)
			return true
		})
	}
}
