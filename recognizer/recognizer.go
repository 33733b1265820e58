// Package recognizer adapts the dlib models (through go-face) to faces.Extractor.
package recognizer

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"facecheck/faces"
	"facecheck/utils"

	"github.com/Kagami/go-face"
)

// Recognizer is safe for concurrent use, calls into dlib are serialised
type Recognizer struct {
	rec            *face.Recognizer
	useCNN         bool
	maxImageSize   int
	maxImagePixels int
	modelID        string
	mutex          sync.Mutex
}

const recognitionModel = "dlib_face_recognition_resnet_model_v1.dat"

// New loads the models from modelsDir. The directory must contain shape_predictor_5_face_landmarks.dat,
// dlib_face_recognition_resnet_model_v1.dat and (for CNN detection) mmod_human_face_detector.dat.
// Images over maxImagePixels are rejected before decoding.
func New(modelsDir string, useCNN bool, maxImageSize, maxImagePixels int) (*Recognizer, error) {
	log.Printf("Loading face models from %s (CNN: %v)", modelsDir, useCNN)
	id, err := modelID(filepath.Join(modelsDir, recognitionModel), useCNN)
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}
	rec, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}
	return &Recognizer{
		rec:            rec,
		useCNN:         useCNN,
		maxImageSize:   maxImageSize,
		maxImagePixels: maxImagePixels,
		modelID:        id,
	}, nil
}

// modelID identifies the recognition model file together with the detector
func modelID(modelFile string, useCNN bool) (string, error) {
	f, err := os.Open(modelFile)
	if err != nil {
		return "", err
	}
	defer f.Close()
	hash := sha512.New()
	if _, err = io.Copy(hash, f); err != nil {
		return "", err
	}
	detector := "hog"
	if useCNN {
		detector = "cnn"
	}
	return hex.EncodeToString(hash.Sum(nil)) + "/" + detector, nil
}

// ModelID changes whenever the recognition model file or the detector changes
func (r *Recognizer) ModelID() string {
	return r.modelID
}

func (r *Recognizer) Close() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.rec != nil {
		r.rec.Close()
		r.rec = nil
	}
}

// Detect returns all faces found on the image
func (r *Recognizer) Detect(img []byte) ([]faces.Face, error) {
	normalized, err := utils.NormalizeToJPEG(img, r.maxImageSize, r.maxImagePixels)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.rec == nil {
		return nil, fmt.Errorf("recognizer closed")
	}
	var found []face.Face
	if r.useCNN {
		found, err = r.rec.RecognizeCNN(normalized)
	} else {
		found, err = r.rec.Recognize(normalized)
	}
	if err != nil {
		return nil, err
	}
	result := make([]faces.Face, 0, len(found))
	for _, f := range found {
		result = append(result, faces.Face{
			Rectangle:  f.Rectangle,
			Descriptor: faces.Descriptor(f.Descriptor),
		})
	}
	return result, nil
}

// Extract returns the descriptor of the largest face, nil if there is none
func (r *Recognizer) Extract(img []byte) (*faces.Descriptor, error) {
	found, err := r.Detect(img)
	if err != nil {
		return nil, err
	}
	if len(found) > 1 {
		log.Printf("%d faces found, using the largest one", len(found))
	}
	largest := faces.Largest(found)
	if largest == nil {
		return nil, nil
	}
	return &largest.Descriptor, nil
}
