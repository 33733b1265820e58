package faces

import (
	"gonum.org/v1/gonum/floats"
)

// DescriptorSize is the length of the descriptors produced by the dlib ResNet model
const DescriptorSize = 128

// Descriptor is a face descriptor. Descriptors are only comparable when they come from the same model.
type Descriptor [DescriptorSize]float32

func (d *Descriptor) float64s() []float64 {
	result := make([]float64, DescriptorSize)
	for i, v := range d {
		result[i] = float64(v)
	}
	return result
}

// Distance returns the Euclidean distance between two descriptors
func Distance(a, b Descriptor) float64 {
	return floats.Distance(a.float64s(), b.float64s(), 2)
}

// Comparison is the outcome of comparing a candidate against the reference
type Comparison struct {
	Distance float64
	Matched  bool
}

// Compare matches candidate against reference. A nil descriptor means no face was detected
// in that image and no distance is computed.
func Compare(reference, candidate *Descriptor, threshold float64) (Comparison, error) {
	if reference == nil || candidate == nil {
		return Comparison{}, ErrNoFace
	}
	distance := Distance(*reference, *candidate)
	return Comparison{
		Distance: distance,
		Matched:  distance < threshold,
	}, nil
}
