package events

import "time"

// SpeechEventType represents speech-specific event types.
type SpeechEventType string

// Speech event type constants.
const (
	SpeechEventListening  SpeechEventType = "listening"
	SpeechEventTranscript SpeechEventType = "transcript"
	SpeechEventSpeaking   SpeechEventType = "speaking"
	SpeechEventStopped    SpeechEventType = "stopped"
	SpeechEventError      SpeechEventType = "error"
)

// SpeechEvent represents a voice input/output event.
type SpeechEvent struct {
	Type       SpeechEventType
	Language   string
	Transcript string
	Err        string
	Timestamp  time.Time
}

// NewSpeechTranscriptEvent creates a transcript event.
func NewSpeechTranscriptEvent(lang, transcript string) SpeechEvent {
	return SpeechEvent{
		Type:       SpeechEventTranscript,
		Language:   lang,
		Transcript: transcript,
		Timestamp:  time.Now(),
	}
}

// NewSpeechErrorEvent creates a speech error event.
func NewSpeechErrorEvent(msg string) SpeechEvent {
	return SpeechEvent{
		Type:      SpeechEventError,
		Err:       msg,
		Timestamp: time.Now(),
	}
}
