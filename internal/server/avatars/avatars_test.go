package avatars

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenkil247/taskmanager/internal/common"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcess_ResizesTo200x200PNG(t *testing.T) {
	out, err := Process("photo.png", encodePNG(t, 640, 480))
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	bounds := decoded.Bounds()
	assert.Equal(t, 200, bounds.Dx())
	assert.Equal(t, 200, bounds.Dy())
}

func TestProcess_RejectsOversizedUpload(t *testing.T) {
	big := make([]byte, MaxUploadSize+1)
	_, err := Process("photo.png", big)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestProcess_RejectsBadExtension(t *testing.T) {
	data := encodePNG(t, 10, 10)
	for _, name := range []string{"document.pdf", "archive.zip", "noextension", "photo.png.exe"} {
		_, err := Process(name, data)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, common.ErrValidation), name)
	}
}

func TestProcess_AcceptsJpegExtensions(t *testing.T) {
	// Content is PNG but imaging sniffs the real format; only the file
	// extension is checked against the whitelist.
	data := encodePNG(t, 10, 10)
	for _, name := range []string{"a.jpg", "b.jpeg", "C.PNG"} {
		_, err := Process(name, data)
		require.NoError(t, err, name)
	}
}

func TestProcess_RejectsUndecodableData(t *testing.T) {
	_, err := Process("photo.png", []byte("not an image at all"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
}
