// Package avatars handles profile images: upload validation, resizing to the
// canonical 200x200 PNG, and storage. Storage has two interchangeable
// backends, the users table (bytea) and an S3-compatible bucket.
package avatars

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/tenkil247/taskmanager/internal/common"
)

// MaxUploadSize is the largest accepted upload in bytes.
const MaxUploadSize = 1000000

// Stored avatars are always square PNGs of this edge length.
const targetEdge = 200

// Store persists exactly one processed avatar per user.
type Store interface {
	Put(ctx context.Context, userID string, data []byte) error
	Get(ctx context.Context, userID string) ([]byte, error)
	Delete(ctx context.Context, userID string) error
}

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Process validates an uploaded file and converts it to the stored
// representation. Validation happens before any decoding or storage
// mutation: oversized uploads and disallowed extensions are rejected
// without touching the backend.
func Process(filename string, data []byte) ([]byte, error) {
	if len(data) > MaxUploadSize {
		return nil, common.NewValidationError("file too large (max %d bytes)", MaxUploadSize)
	}

	dot := strings.LastIndex(filename, ".")
	if dot < 0 {
		return nil, common.NewValidationError("please upload an image")
	}
	ext := strings.ToLower(filename[dot:])
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, common.NewValidationError("please upload an image")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, common.NewValidationError("cannot decode image")
	}

	// Cover fit: scale to fill the square, crop the overflow.
	resized := imaging.Fill(img, targetEdge, targetEdge, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding avatar: %w", err)
	}

	return buf.Bytes(), nil
}
