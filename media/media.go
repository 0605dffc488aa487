// Package media downloads Discord attachments and checks that they are images.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrNotImage is returned when downloaded bytes are not an image.
	ErrNotImage = errors.New("attachment is not an image")
	// ErrTooLarge is returned when the download exceeds the configured cap.
	ErrTooLarge = errors.New("attachment is too large")
)

// Image is a downloaded attachment.
type Image struct {
	Data     []byte
	MimeType string
}

// Fetcher downloads attachment bytes over HTTP.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewFetcher returns a Fetcher bounded by timeout and maxBytes.
func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Fetch downloads url and sniffs its content type.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Image{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("download attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Image{}, fmt.Errorf("download attachment: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("read attachment: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return Image{}, ErrTooLarge
	}

	return Sniff(data)
}

// Sniff wraps data as an Image when its content is an image.
func Sniff(data []byte) (Image, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Image{}, fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}
	return Image{Data: data, MimeType: mt.String()}, nil
}

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".heic": true,
}

// IsImageAttachment decides from attachment metadata whether it looks like an image.
// The filename extension is only consulted when Discord sent no content type.
func IsImageAttachment(contentType, filename string) bool {
	if contentType != "" {
		return strings.HasPrefix(strings.ToLower(contentType), "image/")
	}
	return imageExts[strings.ToLower(filepath.Ext(filename))]
}
