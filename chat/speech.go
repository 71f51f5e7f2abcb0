package chat

import (
	"context"
	"errors"
)

// SpeechInput is the optional voice-capture capability. Environments
// without a recognizer simply don't offer voice controls; that is a missing
// capability, not an error.
type SpeechInput interface {
	// Recognize blocks until one utterance is recognized or ctx ends.
	Recognize(ctx context.Context) (string, error)
	// Stop aborts an in-progress Recognize.
	Stop()
}

var ErrSpeechUnavailable = errors.New("speech recognition unavailable")

// NoSpeech is the absent implementation.
type NoSpeech struct{}

func (NoSpeech) Recognize(context.Context) (string, error) { return "", ErrSpeechUnavailable }
func (NoSpeech) Stop()                                     {}
