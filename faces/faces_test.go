package faces

import (
	"image"
	"testing"
)

func TestLargest(t *testing.T) {
	small := Face{Rectangle: image.Rect(0, 0, 10, 10), Descriptor: Descriptor{1}}
	big := Face{Rectangle: image.Rect(50, 50, 150, 140), Descriptor: Descriptor{2}}
	medium := Face{Rectangle: image.Rect(200, 0, 240, 40), Descriptor: Descriptor{3}}
	tests := []struct {
		name  string
		found []Face
		want  *Descriptor
	}{
		{"none", nil, nil},
		{"single", []Face{small}, &small.Descriptor},
		{"biggest wins", []Face{small, big, medium}, &big.Descriptor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Largest(tt.found)
			if tt.want == nil {
				if got != nil {
					t.Errorf("Largest() = %v, want nil", got)
				}
				return
			}
			if got == nil || got.Descriptor != *tt.want {
				t.Errorf("Largest() = %v, want descriptor %v", got, tt.want[0])
			}
		})
	}
}

type namedExtractor string

func (namedExtractor) Extract([]byte) (*Descriptor, error) { return nil, nil }
func (n namedExtractor) ModelID() string                   { return string(n) }

type anonymousExtractor struct{}

func (anonymousExtractor) Extract([]byte) (*Descriptor, error) { return nil, nil }

func TestModelID(t *testing.T) {
	if got := ModelID(namedExtractor("resnet/hog")); got != "resnet/hog" {
		t.Errorf("ModelID() = %q", got)
	}
	if got := ModelID(anonymousExtractor{}); got != "" {
		t.Errorf("ModelID() = %q, want empty", got)
	}
}
