package voiceloop

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrListenTimeout means nobody started speaking within the listen window.
var ErrListenTimeout = errors.New("voiceloop: no speech before listen timeout")

// ErrCaptureEnded means the capture stream closed before the listen window
// elapsed, usually because the recorder exited.
var ErrCaptureEnded = errors.New("voiceloop: capture stream ended early")

const (
	bytesPerSample  = 2
	frameDuration   = 30 * time.Millisecond
	preRoll         = 300 * time.Millisecond
	trailingSilence = 800 * time.Millisecond
)

// CaptureConfig controls phrase detection on the raw PCM stream.
type CaptureConfig struct {
	// Command produces raw signed 16-bit little-endian mono PCM on stdout.
	// A bare "arecord" gets the matching format flags.
	Command         string
	SampleRateHz    int
	ListenTimeout   time.Duration
	PhraseLimit     time.Duration
	EnergyThreshold float64
}

func (c CaptureConfig) withDefaults() CaptureConfig {
	if strings.TrimSpace(c.Command) == "" {
		c.Command = "arecord"
	}
	if c.SampleRateHz <= 0 {
		c.SampleRateHz = 16000
	}
	if c.ListenTimeout <= 0 {
		c.ListenTimeout = 5 * time.Second
	}
	if c.PhraseLimit <= 0 {
		c.PhraseLimit = 10 * time.Second
	}
	if c.EnergyThreshold <= 0 {
		c.EnergyThreshold = 500
	}
	return c
}

// MicListener records one phrase per Listen call from an external capture process.
type MicListener struct {
	cfg CaptureConfig
}

func NewMicListener(cfg CaptureConfig) *MicListener {
	return &MicListener{cfg: cfg.withDefaults()}
}

// Listen starts the capture process, waits for speech and returns the phrase
// as LINEAR16 PCM. The process is stopped as soon as the phrase ends.
func (m *MicListener) Listen(ctx context.Context) ([]byte, error) {
	name, args := m.command()
	captureCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(captureCtx, name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("voiceloop: capture pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("voiceloop: start %s: %w", name, err)
	}

	audio, err := capturePhrase(stdout, m.cfg)
	if errors.Is(err, ErrCaptureEnded) {
		// stdout is closed, so the recorder is exiting on its own.
		waitErr := cmd.Wait()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if waitErr != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCaptureEnded, name, waitErr)
		}
		return nil, fmt.Errorf("%w: %s exited", ErrCaptureEnded, name)
	}
	cancel()
	_ = cmd.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return audio, err
}

func (m *MicListener) command() (string, []string) {
	fields := strings.Fields(m.cfg.Command)
	if len(fields) == 1 && fields[0] == "arecord" {
		return "arecord", []string{"-q", "-f", "S16_LE", "-r", strconv.Itoa(m.cfg.SampleRateHz), "-c", "1", "-t", "raw"}
	}
	return fields[0], fields[1:]
}

// capturePhrase reads PCM frames from r and cuts one phrase out of the stream.
// Time is measured in samples read, not wall clock.
func capturePhrase(r io.Reader, cfg CaptureConfig) ([]byte, error) {
	cfg = cfg.withDefaults()

	frameBytes := samplesFor(cfg.SampleRateHz, frameDuration) * bytesPerSample
	listenFrames := framesFor(cfg.ListenTimeout)
	phraseFrames := framesFor(cfg.PhraseLimit)
	silenceFrames := framesFor(trailingSilence)
	preRollFrames := framesFor(preRoll)

	var pending [][]byte
	var phrase []byte
	speaking := false
	heard, quiet, waited := 0, 0, 0
	frame := make([]byte, frameBytes)
	for {
		if _, err := io.ReadFull(r, frame); err != nil {
			if speaking && len(phrase) > 0 {
				return phrase, nil
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, ErrCaptureEnded
			}
			return nil, fmt.Errorf("voiceloop: read capture: %w", err)
		}
		loud := frameEnergy(frame) >= cfg.EnergyThreshold

		if !speaking {
			waited++
			pending = append(pending, append([]byte(nil), frame...))
			if len(pending) > preRollFrames {
				pending = pending[1:]
			}
			if !loud {
				if waited >= listenFrames {
					return nil, ErrListenTimeout
				}
				continue
			}
			speaking = true
			for _, p := range pending {
				phrase = append(phrase, p...)
			}
			heard = 1
			continue
		}

		phrase = append(phrase, frame...)
		heard++
		if loud {
			quiet = 0
		} else {
			quiet++
		}
		if quiet >= silenceFrames || heard >= phraseFrames {
			return phrase, nil
		}
	}
}

func framesFor(d time.Duration) int {
	n := int(d / frameDuration)
	if n < 1 {
		return 1
	}
	return n
}

func samplesFor(rate int, d time.Duration) int {
	return int(int64(rate) * int64(d) / int64(time.Second))
}

// frameEnergy is the RMS amplitude of little-endian int16 samples.
func frameEnergy(frame []byte) float64 {
	n := len(frame) / bytesPerSample
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		s := float64(int16(binary.LittleEndian.Uint16(frame[i*2:])))
		sum += s * s
	}
	return math.Sqrt(sum / float64(n))
}
