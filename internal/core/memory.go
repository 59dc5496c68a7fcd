package core

import "context"

// Responder answers conversational turns with assembled context.
type Responder interface {
	Respond(ctx context.Context, userID, text, priorHistory string) string
}

// Classifier maps raw text to an intent. It never fails.
type Classifier interface {
	Classify(text string) Intent
}

// ExtractionQueue accepts texts for background fact extraction.
type ExtractionQueue interface {
	Enqueue(userID, text string)
}

// TurnHandler produces the reply for one user turn. Transports depend
// on it instead of the concrete agent.
type TurnHandler interface {
	Handle(ctx context.Context, userID, text string) string
}
