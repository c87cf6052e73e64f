// Package speech models voice input and output as optional platform
// capabilities. Engines may be absent; callers must check Supported()
// before use and degrade gracefully.
package speech

import "context"

// Synthesizer reads text aloud in a given BCP 47 language.
type Synthesizer interface {
	// Supported reports whether a speech engine is available.
	Supported() bool

	// Speak reads the text aloud. It blocks until playback finishes,
	// the context is cancelled, or Stop is called.
	Speak(ctx context.Context, text, lang string) error

	// Stop interrupts any in-progress speech.
	Stop()
}

// Recognizer captures voice input and returns a transcript.
type Recognizer interface {
	// Supported reports whether a recognition engine is available.
	Supported() bool

	// Listen records until the context is cancelled or Stop is called,
	// then returns the transcript for the given language.
	Listen(ctx context.Context, lang string) (string, error)

	// Stop ends an in-progress recording early.
	Stop()
}

// Unsupported is the null capability used when no engine is detected.
type Unsupported struct{}

// Supported always reports false.
func (Unsupported) Supported() bool { return false }

// Speak is a no-op.
func (Unsupported) Speak(context.Context, string, string) error { return nil }

// Listen returns an empty transcript.
func (Unsupported) Listen(context.Context, string) (string, error) { return "", nil }

// Stop is a no-op.
func (Unsupported) Stop() {}
