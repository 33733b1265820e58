// Package verifier holds the reference descriptor and decides whether uploaded photos show the same person.
package verifier

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"facecheck/faces"
	"facecheck/utils"
)

var (
	ErrNotReady        = errors.New("verifier is not ready")
	ErrNoReferenceFace = fmt.Errorf("reference photo: %w", faces.ErrNoFace)
)

// ModelLoader loads the external face model
type ModelLoader func() (faces.Extractor, error)

// ReferenceSource returns the encoded reference photo
type ReferenceSource func() ([]byte, error)

// ReferenceCache stores reference descriptors keyed by the hash of the reference photo and
// the model identity. LoadReference returns nil, nil when nothing is cached.
type ReferenceCache interface {
	LoadReference(hash string) (*faces.Descriptor, error)
	SaveReference(hash string, descriptor faces.Descriptor) error
}

type closer interface {
	Close()
}

type Verifier struct {
	Name      string
	Threshold float64
	Cache     ReferenceCache // optional

	mutex     sync.RWMutex
	extractor faces.Extractor
	reference *faces.Descriptor
	status    Status
	listeners []func(Status)
}

func New(name string, threshold float64) *Verifier {
	return &Verifier{
		Name:      name,
		Threshold: threshold,
		status:    newStatus(KindLoading, MessageLoadingModels),
	}
}

// Subscribe registers fn to be called on every service status change
func (v *Verifier) Subscribe(fn func(Status)) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.listeners = append(v.listeners, fn)
}

func (v *Verifier) Status() Status {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.status
}

func (v *Verifier) Ready() bool {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.extractor != nil && v.reference != nil
}

func (v *Verifier) setStatus(status Status) {
	v.mutex.Lock()
	v.status = status
	listeners := make([]func(Status), len(v.listeners))
	copy(listeners, v.listeners)
	v.mutex.Unlock()

	for _, fn := range listeners {
		fn(status)
	}
}

// Initialize loads the model and computes the reference descriptor. The verifier only
// becomes ready when both succeed.
func (v *Verifier) Initialize(load ModelLoader, source ReferenceSource) error {
	v.mutex.Lock()
	v.reference = nil
	v.mutex.Unlock()

	v.setStatus(newStatus(KindLoading, MessageLoadingModels))
	extractor, err := load()
	if err == nil && extractor == nil {
		err = errors.New("model loader returned no extractor")
	}
	if err != nil {
		log.Printf("Model loading failed: %v", err)
		v.setStatus(newStatus(KindError, MessageInitFailed))
		return err
	}
	v.mutex.Lock()
	v.extractor = extractor
	v.mutex.Unlock()

	return v.Reload(source)
}

// Reload recomputes the reference descriptor with the already loaded model
func (v *Verifier) Reload(source ReferenceSource) error {
	v.mutex.Lock()
	v.reference = nil
	extractor := v.extractor
	v.mutex.Unlock()
	if extractor == nil {
		return ErrNotReady
	}

	v.setStatus(newStatus(KindLoading, MessageAnalyzingReference))
	descriptor, err := v.referenceDescriptor(extractor, source)
	if err != nil {
		log.Printf("Reference photo failed: %v", err)
		if errors.Is(err, faces.ErrNoFace) {
			v.setStatus(newStatus(KindError, MessageNoReferenceFace))
		} else {
			v.setStatus(newStatus(KindError, MessageReferenceFailed))
		}
		return err
	}

	v.mutex.Lock()
	v.reference = descriptor
	v.mutex.Unlock()
	v.setStatus(newStatus(KindNeutral, MessageReady))
	return nil
}

func (v *Verifier) referenceDescriptor(extractor faces.Extractor, source ReferenceSource) (*faces.Descriptor, error) {
	data, err := source()
	if err != nil {
		return nil, fmt.Errorf("read reference photo: %w", err)
	}
	hash := cacheKey(data, faces.ModelID(extractor))
	if v.Cache != nil {
		cached, err := v.Cache.LoadReference(hash)
		if err != nil {
			log.Printf("Reference cache lookup failed: %v", err)
		} else if cached != nil {
			log.Printf("Using cached reference descriptor")
			return cached, nil
		}
	}
	descriptor, err := extractor.Extract(data)
	if err != nil {
		return nil, fmt.Errorf("analyze reference photo: %w", err)
	}
	if descriptor == nil {
		return nil, ErrNoReferenceFace
	}
	if v.Cache != nil {
		if err := v.Cache.SaveReference(hash, *descriptor); err != nil {
			log.Printf("Reference cache save failed: %v", err)
		}
	}
	return descriptor, nil
}

// cacheKey ties a cached descriptor to both the photo and the model that produced it
func cacheKey(photo []byte, modelID string) string {
	return utils.Sha512Bytes([]byte(utils.Sha512Bytes(photo) + "|" + modelID))
}

// Check compares the face on img against the reference. The returned error is the cause of
// an error status (ErrNotReady, faces.ErrNoFace or an extraction failure), nil for both match and no match.
func (v *Verifier) Check(img []byte) (Status, error) {
	v.mutex.RLock()
	extractor, reference := v.extractor, v.reference
	v.mutex.RUnlock()
	if extractor == nil || reference == nil {
		return newStatus(KindError, MessageNotReady), ErrNotReady
	}

	descriptor, err := extractor.Extract(img)
	if err != nil {
		return newStatus(KindError, MessageAnalysisFailed), err
	}
	comparison, err := faces.Compare(reference, descriptor, v.Threshold)
	if err != nil {
		return newStatus(KindError, MessageNoFace), err
	}
	if comparison.Matched {
		return matchStatus(v.Name, comparison.Distance), nil
	}
	return noMatchStatus(v.Name, comparison.Distance), nil
}

// Close releases the model
func (v *Verifier) Close() {
	v.mutex.Lock()
	extractor := v.extractor
	v.extractor = nil
	v.reference = nil
	v.mutex.Unlock()
	if c, ok := extractor.(closer); ok {
		c.Close()
	}
}
