package handlers

import (
	"facecheck/verifier"
)

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined errors
	OKResponse       = Response{}
	DBError1Response = Response{"DB Error 1"}
	DBError2Response = Response{"DB Error 2"}
	NotFoundResponse = Response{"not found"}
)

var (
	// Checker must be set before the routes are served
	Checker *verifier.Verifier
	// Reference reads the reference photo
	Reference verifier.ReferenceSource
)

// Setup sets the verifier and the reference photo used by all handlers and
// forwards service status changes to the connected pages
func Setup(checker *verifier.Verifier, reference verifier.ReferenceSource) {
	Checker = checker
	Reference = reference
	checker.Subscribe(BroadcastStatus)
}
