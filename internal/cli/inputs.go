package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/arvel0/canopy/pkg/domain"
)

// ParseInputs turns repeated --set key=value flags into an inputs map.
// Values stay strings; the schema layer reports type mismatches.
func ParseInputs(pairs []string) (map[string]any, error) {
	inputs := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid input %q: expected key=value", pair)
		}
		inputs[key] = value
	}
	return inputs, nil
}

// LoadImage reads an encoded image file and wraps it for the vision nodes.
// The media type is sniffed from the file contents.
func LoadImage(path string) (*domain.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	mediaType := domain.SniffMediaType(data)
	if mediaType == "" {
		return nil, fmt.Errorf("unrecognized image format: %s", path)
	}
	return domain.NewImage(data, mediaType)
}
