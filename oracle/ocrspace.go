package oracle

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// OCRSpace extracts text through the OCR.space parse/image API.
type OCRSpace struct {
	endpoint string
	apiKey   string
	language string
	client   *http.Client
}

// NewOCRSpace creates an OCR.space extractor.
func NewOCRSpace(endpoint, apiKey, language string, client *http.Client) *OCRSpace {
	if client == nil {
		client = http.DefaultClient
	}
	if language == "" {
		language = "eng"
	}
	return &OCRSpace{endpoint: endpoint, apiKey: apiKey, language: language, client: client}
}

// Name returns the extractor name.
func (o *OCRSpace) Name() string { return "ocrspace" }

// ExtractText posts the image as a base64 data URI.
func (o *OCRSpace) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	if mimeType == "" {
		mimeType = "image/png"
	}

	form := url.Values{}
	form.Set("base64Image", "data:"+mimeType+";base64,"+base64.StdEncoding.EncodeToString(data))
	form.Set("language", o.language)
	form.Set("OCREngine", "2")
	form.Set("scale", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apikey", o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocrspace request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ocrspace read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocrspace status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("ocrspace: malformed response")
	}

	res := gjson.ParseBytes(body)
	if res.Get("IsErroredOnProcessing").Bool() {
		var msgs []string
		for _, m := range res.Get("ErrorMessage").Array() {
			msgs = append(msgs, m.String())
		}
		if len(msgs) == 0 {
			msgs = append(msgs, res.Get("ErrorMessage").String())
		}
		return "", fmt.Errorf("ocrspace: %s", strings.Join(msgs, "; "))
	}

	var texts []string
	for _, t := range res.Get("ParsedResults.#.ParsedText").Array() {
		if s := strings.TrimSpace(t.String()); s != "" {
			texts = append(texts, s)
		}
	}
	return strings.Join(texts, "\n"), nil
}
