package speech

import "errors"

var (
	// ErrNoAudioProvided means the caller sent no audio bytes.
	ErrNoAudioProvided = errors.New("speech: no audio provided")
	// ErrTranscriptionUnavailable means the recognizer failed or returned no results.
	ErrTranscriptionUnavailable = errors.New("speech: transcription unavailable")
	// ErrUnintelligible means results came back but none held a usable transcript.
	ErrUnintelligible = errors.New("speech: audio was not intelligible")
	// ErrSynthesisUnavailable means text-to-speech failed and no artifact was stored.
	ErrSynthesisUnavailable = errors.New("speech: synthesis unavailable")
	// ErrArtifactNotFound is returned by artifact stores for unknown ids.
	ErrArtifactNotFound = errors.New("speech: artifact not found")
)
