package voiceloop

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandPlayer plays a file through an external player such as mpg123.
type CommandPlayer struct {
	name string
	args []string
}

// NewCommandPlayer splits command on whitespace; the file path is appended last.
func NewCommandPlayer(command string) *CommandPlayer {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = []string{"mpg123", "-q"}
	}
	if len(fields) == 1 && fields[0] == "mpg123" {
		fields = append(fields, "-q")
	}
	return &CommandPlayer{name: fields[0], args: fields[1:]}
}

func (p *CommandPlayer) Play(ctx context.Context, path string) error {
	args := append(append([]string(nil), p.args...), path)
	out, err := exec.CommandContext(ctx, p.name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("voiceloop: %s failed: %w: %s", p.name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
