package voiceloop

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/voice-receptionist/internal/speech"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

type fakeListener struct {
	results []error
	calls   int
	cancel  context.CancelFunc
	stopAt  int
}

func (f *fakeListener) Listen(context.Context) ([]byte, error) {
	f.calls++
	if f.calls >= f.stopAt && f.cancel != nil {
		f.cancel()
	}
	if len(f.results) >= f.calls {
		if err := f.results[f.calls-1]; err != nil {
			return nil, err
		}
	}
	return []byte{1, 2}, nil
}

type fakeTranscriber struct{ err error }

func (f fakeTranscriber) Transcribe(context.Context, []byte) (string, error) {
	return "what time do you open", f.err
}

type fakeReplier struct {
	sessions []string
	err      error
}

func (f *fakeReplier) Reply(_ context.Context, sessionID, _ string) (string, error) {
	f.sessions = append(f.sessions, sessionID)
	return "Nine o'clock.", f.err
}

type fileSynth struct {
	dir string
	err error
}

func (f fileSynth) Synthesize(context.Context, string) (*speech.Artifact, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := filepath.Join(f.dir, "reply.mp3")
	if err := os.WriteFile(p, []byte("mp3"), 0o644); err != nil {
		return nil, err
	}
	return &speech.Artifact{ID: "reply", Location: p}, nil
}

type recordingSpeaker struct {
	played []string
	err    error
}

func (r *recordingSpeaker) Play(_ context.Context, path string) error {
	r.played = append(r.played, path)
	return r.err
}

func newTestLoop(l Listener, tr Transcriber, rp Replier, sy Synthesizer, sp Speaker) *Loop {
	loop := New(l, tr, rp, sy, sp, logging.New("error"))
	loop.errorPause = 0
	return loop
}

func TestStepSpeaksReplyAndRemovesAudio(t *testing.T) {
	dir := t.TempDir()
	speaker := &recordingSpeaker{}
	replier := &fakeReplier{}
	loop := newTestLoop(&fakeListener{}, fakeTranscriber{}, replier, fileSynth{dir: dir}, speaker)

	require.NoError(t, loop.Step(context.Background()))

	require.Len(t, speaker.played, 1)
	assert.NoFileExists(t, speaker.played[0])
	assert.Equal(t, []string{loop.sessionID}, replier.sessions)
}

func TestStepStopsAtFirstFailure(t *testing.T) {
	speaker := &recordingSpeaker{}
	replier := &fakeReplier{}
	loop := newTestLoop(&fakeListener{}, fakeTranscriber{err: speech.ErrUnintelligible}, replier, fileSynth{dir: t.TempDir()}, speaker)

	err := loop.Step(context.Background())
	assert.ErrorIs(t, err, speech.ErrUnintelligible)
	assert.Empty(t, replier.sessions)
	assert.Empty(t, speaker.played)
}

func TestStepPlaybackFailureStillRemovesAudio(t *testing.T) {
	speaker := &recordingSpeaker{err: errors.New("no device")}
	loop := newTestLoop(&fakeListener{}, fakeTranscriber{}, &fakeReplier{}, fileSynth{dir: t.TempDir()}, speaker)

	err := loop.Step(context.Background())
	require.Error(t, err)
	require.Len(t, speaker.played, 1)
	assert.NoFileExists(t, speaker.played[0])
}

func TestRunContinuesAfterFailuresUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := &fakeListener{
		results: []error{ErrListenTimeout, errors.New("device busy"), nil, nil},
		cancel:  cancel,
		stopAt:  4,
	}
	replier := &fakeReplier{}
	loop := newTestLoop(listener, fakeTranscriber{}, replier, fileSynth{dir: t.TempDir()}, &recordingSpeaker{})

	require.NoError(t, loop.Run(ctx))
	assert.Equal(t, 4, listener.calls)
	assert.Len(t, replier.sessions, 2)
	for _, id := range replier.sessions {
		assert.Equal(t, loop.sessionID, id)
	}
}

type exitedListener struct{ calls int }

func (e *exitedListener) Listen(context.Context) ([]byte, error) {
	e.calls++
	return nil, fmt.Errorf("%w: arecord: exit status 1", ErrCaptureEnded)
}

func TestRunPausesWhenRecorderExits(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	listener := &exitedListener{}
	replier := &fakeReplier{}
	loop := newTestLoop(listener, fakeTranscriber{}, replier, fileSynth{dir: t.TempDir()}, &recordingSpeaker{})
	loop.errorPause = 100 * time.Millisecond

	require.NoError(t, loop.Run(ctx))
	assert.GreaterOrEqual(t, listener.calls, 1)
	assert.LessOrEqual(t, listener.calls, 4)
	assert.Empty(t, replier.sessions)
}
