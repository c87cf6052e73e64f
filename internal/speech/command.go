package speech

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// CommandSynthesizer speaks through an external TTS command detected on
// the PATH ("say" on macOS, espeak-ng/espeak elsewhere).
type CommandSynthesizer struct {
	mu   sync.Mutex
	bin  string
	cmd  *exec.Cmd
	stop context.CancelFunc
}

// NewSynthesizer detects an available TTS engine. When none is found the
// returned synthesizer reports unsupported.
func NewSynthesizer() *CommandSynthesizer {
	s := &CommandSynthesizer{}
	for _, candidate := range []string{"say", "espeak-ng", "espeak"} {
		if path, err := exec.LookPath(candidate); err == nil {
			s.bin = path
			break
		}
	}
	return s
}

// Supported reports whether a TTS engine was found.
func (s *CommandSynthesizer) Supported() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bin != ""
}

// Speak reads the text aloud, blocking until playback completes.
func (s *CommandSynthesizer) Speak(ctx context.Context, text, lang string) error {
	s.mu.Lock()
	if s.bin == "" {
		s.mu.Unlock()
		return fmt.Errorf("speech synthesis not available")
	}
	if s.cmd != nil {
		s.mu.Unlock()
		s.Stop()
		s.mu.Lock()
	}

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, s.bin, s.args(text, lang)...)
	s.cmd = cmd
	s.stop = cancel
	s.mu.Unlock()

	err := cmd.Run()

	s.mu.Lock()
	s.cmd = nil
	s.stop = nil
	s.mu.Unlock()

	if runCtx.Err() != nil {
		return nil // interrupted, not a failure
	}
	return err
}

// args builds the engine-specific invocation. espeak takes a bare
// language code via -v; say takes a voice name and works best left to
// pick its own voice for the language.
func (s *CommandSynthesizer) args(text, lang string) []string {
	if strings.HasSuffix(s.bin, "say") {
		return []string{text}
	}
	voice := strings.SplitN(NormalizeCode(lang), "-", 2)[0]
	return []string{"-v", voice, text}
}

// Stop interrupts any in-progress speech.
func (s *CommandSynthesizer) Stop() {
	s.mu.Lock()
	stop := s.stop
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// CommandRecognizer captures voice input through a user-configured
// transcriber command. The command is expected to record from the
// default microphone until interrupted and print the transcript to
// stdout; the language code is appended as its final argument.
type CommandRecognizer struct {
	mu   sync.Mutex
	argv []string
	stop context.CancelFunc
}

// NewRecognizer builds a recognizer from a configured command line.
// An empty command yields an unsupported recognizer.
func NewRecognizer(command string) *CommandRecognizer {
	r := &CommandRecognizer{}
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return r
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return r
	}
	r.argv = argv
	return r
}

// Supported reports whether a transcriber command is configured and
// present on the PATH.
func (r *CommandRecognizer) Supported() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.argv) > 0
}

// Listen runs the transcriber and returns its stdout as the transcript.
func (r *CommandRecognizer) Listen(ctx context.Context, lang string) (string, error) {
	r.mu.Lock()
	if len(r.argv) == 0 {
		r.mu.Unlock()
		return "", fmt.Errorf("speech recognition not available")
	}
	runCtx, cancel := context.WithCancel(ctx)
	args := append(append([]string{}, r.argv[1:]...), NormalizeCode(lang))
	cmd := exec.CommandContext(runCtx, r.argv[0], args...)
	// Interrupt rather than kill so the transcriber can flush its
	// transcript before exiting.
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	var out bytes.Buffer
	cmd.Stdout = &out
	r.stop = cancel
	r.mu.Unlock()

	err := cmd.Run()

	r.mu.Lock()
	r.stop = nil
	r.mu.Unlock()

	transcript := strings.TrimSpace(out.String())
	if err != nil && runCtx.Err() == nil {
		return "", fmt.Errorf("transcriber: %w", err)
	}
	return transcript, nil
}

// Stop ends an in-progress recording; the transcriber is expected to
// flush its transcript on interrupt.
func (r *CommandRecognizer) Stop() {
	r.mu.Lock()
	stop := r.stop
	r.mu.Unlock()
	if stop != nil {
		stop()
	}
}
