package voiceloop

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommandPlayerDefaults(t *testing.T) {
	p := NewCommandPlayer("")
	assert.Equal(t, "mpg123", p.name)
	assert.Equal(t, []string{"-q"}, p.args)

	p = NewCommandPlayer("ffplay -nodisp -autoexit")
	assert.Equal(t, "ffplay", p.name)
	assert.Equal(t, []string{"-nodisp", "-autoexit"}, p.args)
}

func TestCommandPlayerRunsCommand(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	path := filepath.Join(t.TempDir(), "reply.mp3")
	require.NoError(t, os.WriteFile(path, []byte("mp3"), 0o644))

	require.NoError(t, NewCommandPlayer("cat").Play(context.Background(), path))
	assert.Error(t, NewCommandPlayer("cat").Play(context.Background(), path+".missing"))
}
