package voiceloop

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/voice-receptionist/internal/speech"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

type Listener interface {
	Listen(ctx context.Context) ([]byte, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type Replier interface {
	Reply(ctx context.Context, sessionID, message string) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*speech.Artifact, error)
}

type Speaker interface {
	Play(ctx context.Context, path string) error
}

// Loop runs listen, transcribe, reply and speak in sequence until its
// context is cancelled. It holds a single session for the local user.
type Loop struct {
	listener    Listener
	transcriber Transcriber
	replier     Replier
	synthesizer Synthesizer
	speaker     Speaker
	sessionID   string
	logger      *logging.Logger
	errorPause  time.Duration
}

func New(listener Listener, transcriber Transcriber, replier Replier, synthesizer Synthesizer, speaker Speaker, logger *logging.Logger) *Loop {
	if logger == nil {
		logger = logging.Default()
	}
	sessionID := uuid.NewString()
	return &Loop{
		listener:    listener,
		transcriber: transcriber,
		replier:     replier,
		synthesizer: synthesizer,
		speaker:     speaker,
		sessionID:   sessionID,
		logger:      logger.With("session_id", sessionID),
		errorPause:  time.Second,
	}
}

// Run only returns once ctx is done. Failed iterations are logged.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("voice loop started")
	for {
		if err := ctx.Err(); err != nil {
			l.logger.Info("voice loop stopped")
			return nil
		}
		if err := l.Step(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			switch {
			case errors.Is(err, ErrListenTimeout):
				l.logger.Debug("no speech detected")
			case errors.Is(err, speech.ErrUnintelligible):
				l.logger.Info("could not understand audio")
			default:
				l.logger.Warn("voice loop iteration failed", "error", err)
				l.pause(ctx)
			}
		}
	}
}

// pause keeps a persistently failing collaborator from spinning the loop.
func (l *Loop) pause(ctx context.Context) {
	if l.errorPause <= 0 {
		return
	}
	t := time.NewTimer(l.errorPause)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Step performs one full listen-to-speak iteration.
func (l *Loop) Step(ctx context.Context) error {
	audio, err := l.listener.Listen(ctx)
	if err != nil {
		return err
	}
	text, err := l.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return err
	}
	l.logger.Info("heard", "text", logging.ScrubPII(text))

	reply, err := l.replier.Reply(ctx, l.sessionID, text)
	if err != nil {
		return err
	}
	l.logger.Info("replying", "text", logging.ScrubPII(reply))

	artifact, err := l.synthesizer.Synthesize(ctx, reply)
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(artifact.Location); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			l.logger.Warn("failed to remove played audio", "path", artifact.Location, "error", rmErr)
		}
	}()
	if err := l.speaker.Play(ctx, artifact.Location); err != nil {
		return fmt.Errorf("voiceloop: playback: %w", err)
	}
	return nil
}
