package verifier

import "fmt"

// Kind doubles as the CSS class of the status line on the page
type Kind string

const (
	KindLoading Kind = "loading"
	KindNeutral Kind = "neutral"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

const (
	MessageLoadingModels      = "Loading face recognition models..."
	MessageAnalyzingReference = "Analyzing reference photo..."
	MessageReady              = "Ready! Upload a photo to check."
	MessageInitFailed         = "Initialization failed. Reload the page."
	MessageReferenceFailed    = "Failed to process the reference photo."
	MessageNoReferenceFace    = "No face found in the reference photo."
	MessageNotReady           = "Not ready yet. Please wait."
	MessageAnalyzing          = "Analyzing new photo..."
	MessageNoFace             = "No face detected in the uploaded photo."
	MessageAnalysisFailed     = "Failed to analyze the image."
)

type Status struct {
	Kind     Kind     `json:"kind"`
	Message  string   `json:"message"`
	Distance *float64 `json:"distance,omitempty"`
	Matched  bool     `json:"matched"`
}

func newStatus(kind Kind, message string) Status {
	return Status{Kind: kind, Message: message}
}

func matchStatus(name string, distance float64) Status {
	return Status{
		Kind:     KindSuccess,
		Message:  fmt.Sprintf("It's %s! (Distance: %.3f)", name, distance),
		Distance: &distance,
		Matched:  true,
	}
}

func noMatchStatus(name string, distance float64) Status {
	return Status{
		Kind:     KindError,
		Message:  fmt.Sprintf("It's NOT %s. (Distance: %.3f)", name, distance),
		Distance: &distance,
	}
}
