package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeJPG(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	return img
}

func TestCoverJPGExactDimensions(t *testing.T) {
	cases := []struct {
		name       string
		srcW, srcH int
		outW, outH int
	}{
		{"landscape to square", 800, 400, 500, 500},
		{"portrait to landscape", 600, 1200, 2000, 1333},
		{"upscale small", 100, 100, 500, 500},
		{"already exact", 500, 500, 500, 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := CoverJPG(pngFixture(t, tc.srcW, tc.srcH), tc.outW, tc.outH, 90)
			require.NoError(t, err)

			img := decodeJPG(t, out)
			assert.Equal(t, tc.outW, img.Bounds().Dx())
			assert.Equal(t, tc.outH, img.Bounds().Dy())
		})
	}
}

func TestCoverJPGRejectsBadInput(t *testing.T) {
	_, err := CoverJPG(nil, 500, 500, 90)
	assert.Error(t, err)

	_, err = CoverJPG([]byte("not an image"), 500, 500, 90)
	assert.Error(t, err)

	_, err = CoverJPG(pngFixture(t, 10, 10), 0, 500, 90)
	assert.Error(t, err)
}

func TestNormalizeToJPGShrinksWideImages(t *testing.T) {
	out, err := NormalizeToJPG(pngFixture(t, 1200, 600), 800, 85)
	require.NoError(t, err)

	img := decodeJPG(t, out)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestNormalizeToJPGKeepsSmallImages(t *testing.T) {
	out, err := NormalizeToJPG(pngFixture(t, 300, 200), 800, 85)
	require.NoError(t, err)

	img := decodeJPG(t, out)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}
