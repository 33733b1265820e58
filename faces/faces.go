package faces

import (
	"errors"
	"image"
)

var (
	ErrNoFace = errors.New("no face detected")
)

// Face is a single detection with its descriptor
type Face struct {
	Rectangle  image.Rectangle
	Descriptor Descriptor
}

// Extractor turns an encoded image into the descriptor of the face on it.
// A nil descriptor with a nil error means there is no face on the image.
type Extractor interface {
	Extract(img []byte) (*Descriptor, error)
}

// Largest picks the detection with the biggest area, nil if there are none
func Largest(found []Face) *Face {
	var result *Face
	maxArea := -1
	for i := range found {
		size := found[i].Rectangle.Size()
		area := size.X * size.Y
		if area > maxArea {
			maxArea = area
			result = &found[i]
		}
	}
	return result
}

// ModelIdentifier is implemented by extractors that can name the model producing their descriptors.
// Descriptors from different models are not comparable.
type ModelIdentifier interface {
	ModelID() string
}

// ModelID returns the model identity of e, empty when e does not report one
func ModelID(e Extractor) string {
	if m, ok := e.(ModelIdentifier); ok {
		return m.ModelID()
	}
	return ""
}
