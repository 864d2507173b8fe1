// Package tiler splits oversized menu photos into overlapping horizontal
// bands so a vision model does not downsample away the text. Chunking is a
// best-effort optimization: on any decode or encode failure the original
// image passes through as the single chunk.
package tiler

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"

	_ "image/png" // register decoder

	_ "golang.org/x/image/webp" // register decoder

	"github.com/terpmatch/terpmatch/log"
)

const (
	// DefaultMaxChunkHeight bounds each band so a single vision request
	// keeps enough pixel density per line of menu text.
	DefaultMaxChunkHeight = 3000
	// DefaultOverlap is the band overlap in pixels; entries cut at a seam
	// are recaptured whole in the next band.
	DefaultOverlap = 200
	// DefaultChunkThreshold is the height below which an image is passed
	// through unchanged, avoiding a needless lossy re-encode.
	DefaultChunkThreshold = 4000

	jpegQuality = 85
)

// Tiler decomposes tall images into overlapping bands.
type Tiler struct {
	maxChunkHeight int
	overlap        int
	chunkThreshold int
	logger         log.Logger
}

// Option configures a Tiler.
type Option func(*Tiler)

// WithMaxChunkHeight overrides the maximum band height.
func WithMaxChunkHeight(px int) Option {
	return func(t *Tiler) { t.maxChunkHeight = px }
}

// WithOverlap overrides the band overlap.
func WithOverlap(px int) Option {
	return func(t *Tiler) { t.overlap = px }
}

// WithChunkThreshold overrides the pass-through height threshold.
func WithChunkThreshold(px int) Option {
	return func(t *Tiler) { t.chunkThreshold = px }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(t *Tiler) { t.logger = l }
}

// New creates a Tiler with the default geometry.
func New(opts ...Option) *Tiler {
	t := &Tiler{
		maxChunkHeight: DefaultMaxChunkHeight,
		overlap:        DefaultOverlap,
		chunkThreshold: DefaultChunkThreshold,
		logger:         log.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Dimensions decodes only the image header and returns width and height.
// Corrupt input returns an error; callers must treat that as "cannot
// chunk, pass through unchanged".
func (t *Tiler) Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Chunk splits the image into overlapping horizontal bands. Images at or
// below the chunk threshold come back as the single original chunk with no
// re-encoding. Every two consecutive bands overlap by exactly the
// configured overlap, except possibly a shorter final band, and the bands
// together cover the full image height.
func (t *Tiler) Chunk(data []byte) [][]byte {
	_, height, err := t.Dimensions(data)
	if err != nil {
		t.logger.Warn("tiler: %v, passing image through unchanged", err)
		return [][]byte{data}
	}

	if height <= t.chunkThreshold {
		return [][]byte{data}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.logger.Warn("tiler: full decode failed: %v, passing image through unchanged", err)
		return [][]byte{data}
	}

	step := t.maxChunkHeight - t.overlap
	if step <= 0 {
		t.logger.Warn("tiler: overlap %d >= max chunk height %d, passing image through unchanged", t.overlap, t.maxChunkHeight)
		return [][]byte{data}
	}
	var chunks [][]byte
	for currentY := 0; currentY < height; currentY += step {
		bottom := currentY + t.maxChunkHeight
		if bottom > height {
			bottom = height
		}

		band, err := encodeBand(img, currentY, bottom)
		if err != nil {
			t.logger.Warn("tiler: band encode failed: %v, passing image through unchanged", err)
			return [][]byte{data}
		}
		chunks = append(chunks, band)
	}

	t.logger.Debug("tiler: split %dpx image into %d bands", height, len(chunks))
	return chunks
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func encodeBand(img image.Image, top, bottom int) ([]byte, error) {
	bounds := img.Bounds()
	rect := image.Rect(bounds.Min.X, bounds.Min.Y+top, bounds.Max.X, bounds.Min.Y+bottom)

	var band image.Image
	if si, ok := img.(subImager); ok {
		band = si.SubImage(rect)
	} else {
		dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
		draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
		band = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, band, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode band [%d,%d): %w", top, bottom, err)
	}
	return buf.Bytes(), nil
}
