// Package imageutil normalizes user uploads before they leave the service.
// It decodes JPEG/PNG/WebP, honors the EXIF orientation tag and re-encodes
// to JPEG so the image CDN only ever sees one format.
package imageutil

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// CoverJPG scales the input so it fully covers a width x height box, crops the
// overflow from the center and encodes the result as JPEG. This is what the
// profile-photo and tour-image uploads use for their fixed display sizes.
func CoverJPG(input []byte, width, height, quality int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("target dimensions must be positive")
	}
	img, err := decodeOriented(input)
	if err != nil {
		return nil, err
	}

	img = scaleToCover(img, width, height)
	img = cropCenter(img, width, height)

	return encodeJPG(img, quality)
}

// NormalizeToJPG keeps the aspect ratio, only shrinking images wider than
// maxWidth (pass 0 to skip resizing).
func NormalizeToJPG(input []byte, maxWidth, quality int) ([]byte, error) {
	img, err := decodeOriented(input)
	if err != nil {
		return nil, err
	}
	if maxWidth > 0 {
		img = resizeMaxWidth(img, maxWidth)
	}
	return encodeJPG(img, quality)
}

func decodeOriented(input []byte) (image.Image, error) {
	if len(input) == 0 {
		return nil, errors.New("empty image")
	}
	img, err := decodeAny(bytes.NewReader(input))
	if err != nil {
		return nil, err
	}
	return applyOrientation(img, readEXIFOrientation(bytes.NewReader(input))), nil
}

func encodeJPG(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// decodeAny tries each supported decoder in turn rather than relying on
// image.Decode registration, since the stdlib does not register WebP.
func decodeAny(r *bytes.Reader) (image.Image, error) {
	if img, err := jpeg.Decode(r); err == nil {
		return img, nil
	}
	r.Seek(0, io.SeekStart)
	if img, err := png.Decode(r); err == nil {
		return img, nil
	}
	r.Seek(0, io.SeekStart)
	if img, err := webp.Decode(r); err == nil {
		return img, nil
	}
	return nil, errors.New("unsupported image format (jpeg/png/webp)")
}

func readEXIFOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	ori, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return ori
}

// EXIF orientation values:
// 1 = normal, 2 = flip horizontal, 3 = rotate 180, 4 = flip vertical,
// 5 = transpose, 6 = rotate 90 CW, 7 = transverse, 8 = rotate 90 CCW
func applyOrientation(src image.Image, ori int) image.Image {
	switch ori {
	case 2:
		return flipHorizontal(src)
	case 3:
		return rotate180(src)
	case 4:
		return flipVertical(src)
	case 5:
		return rotate90CW(flipHorizontal(src))
	case 6:
		return rotate90CW(src)
	case 7:
		return rotate90CCW(flipHorizontal(src))
	case 8:
		return rotate90CCW(src)
	default:
		return src
	}
}

func resizeMaxWidth(src image.Image, maxW int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 || w <= maxW {
		return src
	}

	scale := float64(maxW) / float64(w)
	newH := int(math.Round(float64(h) * scale))
	if newH < 1 {
		newH = 1
	}
	return scaleTo(src, maxW, newH)
}

// scaleToCover resizes so that both dimensions are at least the target size,
// preserving aspect ratio. The overflow is cropped afterwards.
func scaleToCover(src image.Image, targetW, targetH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return src
	}

	scale := math.Max(float64(targetW)/float64(w), float64(targetH)/float64(h))
	newW := int(math.Ceil(float64(w) * scale))
	newH := int(math.Ceil(float64(h) * scale))
	if newW == w && newH == h {
		return src
	}
	return scaleTo(src, newW, newH)
}

func scaleTo(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

func cropCenter(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return src
	}
	x0 := b.Min.X + (b.Dx()-w)/2
	y0 := b.Min.Y + (b.Dy()-h)/2

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), src, image.Pt(x0, y0), draw.Src)
	return dst
}

func rotate90CW(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(h-1-y, x, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func rotate90CCW(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(y, w-1-x, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func rotate180(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(w-1-x, h-1-y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func flipHorizontal(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(w-1-x, y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func flipVertical(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(x, h-1-y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
