package tiler

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y += 50 {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestDimensions(t *testing.T) {
	data := makeJPEG(t, 120, 300)

	tl := New()
	w, h, err := tl.Dimensions(data)
	require.NoError(t, err)
	assert.Equal(t, 120, w)
	assert.Equal(t, 300, h)
}

func TestDimensionsCorruptInput(t *testing.T) {
	tl := New()
	_, _, err := tl.Dimensions([]byte("not an image"))
	assert.Error(t, err)
}

func TestChunkShortImagePassthrough(t *testing.T) {
	data := makeJPEG(t, 100, 3500)

	tl := New()
	chunks := tl.Chunk(data)
	require.Len(t, chunks, 1)
	// pass-through must not re-encode
	assert.Equal(t, data, chunks[0])
}

func TestChunkCorruptInputPassthrough(t *testing.T) {
	data := []byte("garbage")

	tl := New()
	chunks := tl.Chunk(data)
	require.Len(t, chunks, 1)
	assert.Equal(t, data, chunks[0])
}

func TestChunkCoversFullHeightWithOverlap(t *testing.T) {
	const height = 9000
	data := makeJPEG(t, 80, height)

	tl := New()
	chunks := tl.Chunk(data)
	require.Greater(t, len(chunks), 1)

	// walk the same geometry the tiler uses and check coverage
	step := DefaultMaxChunkHeight - DefaultOverlap
	top := 0
	for i, chunk := range chunks {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(chunk))
		require.NoError(t, err, "chunk %d", i)

		wantBottom := top + DefaultMaxChunkHeight
		if wantBottom > height {
			wantBottom = height
		}
		assert.Equal(t, wantBottom-top, cfg.Height, "chunk %d height", i)
		assert.Equal(t, 80, cfg.Width, "chunk %d width", i)

		top += step
	}

	// last band must reach the image bottom
	lastTop := (len(chunks) - 1) * step
	lastBottom := lastTop + DefaultMaxChunkHeight
	if lastBottom > height {
		lastBottom = height
	}
	assert.Equal(t, height, lastBottom)
}

func TestChunkCustomGeometry(t *testing.T) {
	data := makeJPEG(t, 60, 1000)

	tl := New(WithMaxChunkHeight(400), WithOverlap(100), WithChunkThreshold(500))
	chunks := tl.Chunk(data)
	// bands: [0,400) [300,700) [600,1000) then currentY=900 -> [900,1000)
	require.Len(t, chunks, 4)

	heights := []int{400, 400, 400, 100}
	for i, chunk := range chunks {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(chunk))
		require.NoError(t, err)
		assert.Equal(t, heights[i], cfg.Height, "chunk %d", i)
	}
}
