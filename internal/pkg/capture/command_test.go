package capture

import (
	"context"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"pawsay/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireCommand(t *testing.T, name string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("capture commands are stopped with SIGINT")
	}
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

func (r *ReaderRecorder) buffered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Len()
}

func TestCommandRecorderStopsStreamingCommand(t *testing.T) {
	requireCommand(t, "cat")
	rec := NewCommandRecorder(config.CaptureConfig{
		Command:  "cat",
		Args:     []string{"/dev/zero"},
		MIMEType: "audio/wav",
	}, nil)

	for i := 0; i < 50; i++ {
		require.NoError(t, rec.Start(context.Background()))
		time.Sleep(2 * time.Millisecond)

		clip, err := rec.Stop()
		require.NoError(t, err, "stop #%d", i)
		assert.Equal(t, "audio/wav", clip.MIMEType)
	}
}

func TestCommandRecorderKeepsOutputWrittenBeforeStop(t *testing.T) {
	requireCommand(t, "sh")
	rec := NewCommandRecorder(config.CaptureConfig{
		Command:  "sh",
		Args:     []string{"-c", "printf purr; exec sleep 30"},
		MIMEType: "audio/webm",
	}, nil)

	require.NoError(t, rec.Start(context.Background()))
	require.Eventually(t, func() bool { return rec.buffered() == 4 }, 5*time.Second, 10*time.Millisecond)

	clip, err := rec.Stop()
	require.NoError(t, err)
	assert.Equal(t, "purr", string(clip.Data))
}

func TestCommandRecorderDiscard(t *testing.T) {
	requireCommand(t, "cat")
	rec := NewCommandRecorder(config.CaptureConfig{Command: "cat", Args: []string{"/dev/zero"}}, nil)

	require.NoError(t, rec.Start(context.Background()))
	assert.NoError(t, rec.Discard())
	assert.ErrorIs(t, rec.Discard(), ErrNotStarted)
}

func TestCommandRecorderUnknownCommand(t *testing.T) {
	rec := NewCommandRecorder(config.CaptureConfig{Command: "pawsay-no-such-recorder"}, nil)
	assert.ErrorIs(t, rec.Start(context.Background()), ErrPermission)
}
