package cmd

import (
	"os"

	"facecheck/config"
	"facecheck/faces"
	"facecheck/recognizer"
	"facecheck/verifier"
)

func loadModels() (faces.Extractor, error) {
	rec, err := recognizer.New(config.MODELS_DIR, config.FACE_DETECT_CNN, config.MAX_IMAGE_SIZE, config.MAX_IMAGE_PIXELS)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func referenceFile(path string) verifier.ReferenceSource {
	return func() ([]byte, error) {
		return os.ReadFile(path)
	}
}
