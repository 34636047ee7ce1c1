package service

import (
	"bytes"
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestOptimizeImage(t *testing.T) {
	data := testPNG(t, 1200, 600)

	thumb, err := OptimizeImage(data, "thumb")
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())

	medium, err := OptimizeImage(data, "unknown")
	require.NoError(t, err)
	img, err = imaging.Decode(bytes.NewReader(medium))
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())

	_, err = OptimizeImage([]byte("not an image"), "thumb")
	assert.Error(t, err)
}

func TestImageOptimizer_Optimized(t *testing.T) {
	hits := 0
	src := testPNG(t, 400, 400)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write(src)
	}))
	defer server.Close()

	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	o := NewImageOptimizer(t.TempDir(), []string{u.Hostname()}, server.Client(), zap.NewNop())
	require.NoError(t, o.EnsureCacheDir())
	ctx := context.Background()
	imageURL := server.URL + "/zinger.png"

	first, err := o.Optimized(ctx, imageURL, "thumb")
	require.NoError(t, err)
	second, err := o.Optimized(ctx, imageURL, "thumb")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, hits, "second call is served from disk")

	_, err = o.Optimized(ctx, "https://evil.example.com/x.png", "thumb")
	assert.ErrorIs(t, err, ErrImageHostNotAllowed)

	_, err = o.Optimized(ctx, "file:///etc/passwd", "thumb")
	assert.Error(t, err)
}

func TestImageOptimizer_NoAllowedHostsRefusesAll(t *testing.T) {
	o := NewImageOptimizer(t.TempDir(), nil, nil, zap.NewNop())

	_, err := o.Optimized(context.Background(), "http://169.254.169.254/latest/meta-data", "thumb")
	assert.ErrorIs(t, err, ErrImageHostNotAllowed)
}
