package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var (
	// ErrPermission 无法打开录音设备（权限被拒或设备不存在）
	ErrPermission = errors.New("microphone access denied")
	ErrNotStarted = errors.New("recorder not started")
	ErrStarted    = errors.New("recorder already started")
)

// CaptureError 录音启动失败
type CaptureError struct {
	Op  string
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture %s: %v", e.Op, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// Is 所有启动失败都按权限类错误处理
func (e *CaptureError) Is(target error) bool {
	return target == ErrPermission
}

// Clip 一段录好的音频
type Clip struct {
	Data     []byte
	MIMEType string
	Duration time.Duration
}

// Empty 没有采集到任何数据
func (c Clip) Empty() bool {
	return len(c.Data) == 0
}

// Recorder 音频采集接口
type Recorder interface {
	Start(ctx context.Context) error
	Stop() (Clip, error)
	// Discard 结束采集并丢弃数据
	Discard() error
}

// interrupter 需要先通知结束、读完剩余数据再关闭的流
type interrupter interface {
	Interrupt()
}

// Opener 打开一个音频流
type Opener func(ctx context.Context) (io.ReadCloser, error)

// ReaderRecorder 从任意音频流采集，文件、stdin 与命令输出都走这里
type ReaderRecorder struct {
	open     Opener
	mimeType string
	clock    clockwork.Clock

	mu      sync.Mutex
	src     io.ReadCloser
	buf     bytes.Buffer
	started time.Time
	done    chan struct{}
	readErr error
}

func NewReaderRecorder(open Opener, mimeType string, clock clockwork.Clock) *ReaderRecorder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ReaderRecorder{open: open, mimeType: mimeType, clock: clock}
}

func (r *ReaderRecorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.src != nil {
		return ErrStarted
	}

	src, err := r.open(ctx)
	if err != nil {
		return &CaptureError{Op: "start", Err: err}
	}
	r.src = src
	r.buf.Reset()
	r.readErr = nil
	r.started = r.clock.Now()
	r.done = make(chan struct{})
	go r.pump(src, r.done)
	return nil
}

// pump 按块读取音频数据直到流结束或被关闭
func (r *ReaderRecorder) pump(src io.Reader, done chan struct{}) {
	defer close(done)
	chunk := make([]byte, 32*1024)
	for {
		n, err := src.Read(chunk)
		if n > 0 {
			r.mu.Lock()
			r.buf.Write(chunk[:n])
			r.mu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) && !errors.Is(err, os.ErrClosed) && !errors.Is(err, context.Canceled) {
				r.mu.Lock()
				r.readErr = err
				r.mu.Unlock()
			}
			return
		}
	}
}

func (r *ReaderRecorder) finish() (Clip, error) {
	r.mu.Lock()
	src, done := r.src, r.done
	if src == nil {
		r.mu.Unlock()
		return Clip{}, ErrNotStarted
	}
	duration := r.clock.Since(r.started)
	r.mu.Unlock()

	var closeErr error
	if in, ok := src.(interrupter); ok {
		// 通知数据源结束，读到 EOF 后再关闭
		in.Interrupt()
		<-done
		closeErr = src.Close()
	} else {
		closeErr = src.Close()
		<-done
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.src = nil
	data := bytes.Clone(r.buf.Bytes())
	r.buf.Reset()
	if r.readErr != nil {
		return Clip{}, fmt.Errorf("read audio: %w", r.readErr)
	}
	if closeErr != nil {
		return Clip{}, fmt.Errorf("close audio: %w", closeErr)
	}
	return Clip{Data: data, MIMEType: r.mimeType, Duration: duration}, nil
}

func (r *ReaderRecorder) Stop() (Clip, error) {
	return r.finish()
}

func (r *ReaderRecorder) Discard() error {
	_, err := r.finish()
	return err
}
