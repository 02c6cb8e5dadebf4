package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	_ "golang.org/x/image/webp"
)

// ValidateImage checks that data fits in maxBytes and decodes as a png, jpeg,
// gif or webp image. It returns the matching content type.
func ValidateImage(data []byte, maxBytes int64) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image", common.ErrValidation)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w: image is %d bytes, limit is %d", common.ErrValidation, len(data), maxBytes)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: unsupported image: %v", common.ErrValidation, err)
	}
	return "image/" + format, nil
}
