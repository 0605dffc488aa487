package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func serve(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_PNG(t *testing.T) {
	data := pngBytes(t)
	srv := serve(t, http.StatusOK, data)

	img, err := NewFetcher(time.Second, 1<<20).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, data, img.Data)
}

func TestFetch_NotImage(t *testing.T) {
	srv := serve(t, http.StatusOK, []byte("%PDF-1.4 not a screenshot"))

	_, err := NewFetcher(time.Second, 1<<20).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestFetch_TooLarge(t *testing.T) {
	srv := serve(t, http.StatusOK, pngBytes(t))

	_, err := NewFetcher(time.Second, 10).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFetch_BadStatus(t *testing.T) {
	srv := serve(t, http.StatusNotFound, nil)

	_, err := NewFetcher(time.Second, 1<<20).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotImage)
}

func TestIsImageAttachment(t *testing.T) {
	cases := []struct {
		contentType string
		filename    string
		want        bool
	}{
		{"image/png", "shot.png", true},
		{"IMAGE/JPEG", "shot", true},
		{"application/pdf", "shot.png", false},
		{"", "shot.JPG", true},
		{"", "notes.txt", false},
		{"", "", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsImageAttachment(c.contentType, c.filename), "%q %q", c.contentType, c.filename)
	}
}

func TestSniff(t *testing.T) {
	img, err := Sniff(pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)

	_, err = Sniff([]byte("%PDF-1.4\n"))
	assert.ErrorIs(t, err, ErrNotImage)
}
