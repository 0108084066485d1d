package domain

import (
	"encoding/base64"
	"fmt"
)

// Supported image media types for the vision API.
const (
	MediaTypePNG  = "image/png"
	MediaTypeJPEG = "image/jpeg"
	MediaTypeGIF  = "image/gif"
	MediaTypeWebP = "image/webp"
)

// Image is an encoded image payload as handed over by the host graph.
// Data holds the full contents of an already-encoded image file (including
// headers); Canopy never re-encodes pixels, it only base64-wraps the bytes
// for the wire.
type Image struct {
	Data      []byte `json:"data"`
	MediaType string `json:"media_type"`
}

// NewImage creates an image payload from encoded bytes and a media type.
func NewImage(data []byte, mediaType string) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image data is empty")
	}
	switch mediaType {
	case MediaTypePNG, MediaTypeJPEG, MediaTypeGIF, MediaTypeWebP:
	default:
		return nil, fmt.Errorf("unsupported image media type: %q", mediaType)
	}
	return &Image{Data: data, MediaType: mediaType}, nil
}

// NewPNGImage wraps PNG bytes.
func NewPNGImage(data []byte) (*Image, error) { return NewImage(data, MediaTypePNG) }

// NewJPEGImage wraps JPEG bytes.
func NewJPEGImage(data []byte) (*Image, error) { return NewImage(data, MediaTypeJPEG) }

// Base64 returns the standard-encoded payload for wire transport.
func (i *Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// SniffMediaType guesses the media type from magic bytes.
// Returns an empty string when the format is not one we support.
func SniffMediaType(data []byte) string {
	switch {
	case len(data) >= 8 && string(data[:8]) == "\x89PNG\r\n\x1a\n":
		return MediaTypePNG
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return MediaTypeJPEG
	case len(data) >= 6 && (string(data[:6]) == "GIF87a" || string(data[:6]) == "GIF89a"):
		return MediaTypeGIF
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return MediaTypeWebP
	default:
		return ""
	}
}
