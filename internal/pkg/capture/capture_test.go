package capture

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderRecorderCollectsStream(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := NewReaderRecorder(func(context.Context) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("meow-bytes")), nil
	}, "audio/webm", clock)

	require.NoError(t, rec.Start(context.Background()))
	assert.ErrorIs(t, rec.Start(context.Background()), ErrStarted)
	clock.Advance(3 * time.Second)

	clip, err := rec.Stop()
	require.NoError(t, err)
	assert.Equal(t, []byte("meow-bytes"), clip.Data)
	assert.Equal(t, "audio/webm", clip.MIMEType)
	assert.Equal(t, 3*time.Second, clip.Duration)
}

func TestReaderRecorderPipeIsClosedOnStop(t *testing.T) {
	pr, pw := io.Pipe()
	rec := NewReaderRecorder(func(context.Context) (io.ReadCloser, error) {
		return pr, nil
	}, "audio/wav", nil)

	require.NoError(t, rec.Start(context.Background()))
	_, err := pw.Write([]byte("woof"))
	require.NoError(t, err)

	clip, err := rec.Stop()
	require.NoError(t, err)
	assert.Equal(t, "woof", string(clip.Data))
	_ = pw.Close()
}

func TestStartFailureIsPermissionError(t *testing.T) {
	rec := NewReaderRecorder(func(context.Context) (io.ReadCloser, error) {
		return nil, errors.New("device busy")
	}, "audio/webm", nil)

	err := rec.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermission)

	var capErr *CaptureError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, "start", capErr.Op)
}

func TestStopWithoutStart(t *testing.T) {
	rec := NewReaderRecorder(nil, "audio/webm", nil)
	_, err := rec.Stop()
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.ErrorIs(t, rec.Discard(), ErrNotStarted)
}
