package capture

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"pawsay/internal/pkg/config"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// killGrace 发出中断后等待进程自行退出的时间，超时强制结束
const killGrace = 2 * time.Second

// NewCommandRecorder 通过外部命令 (ffmpeg / arecord) 采集麦克风
// 命令需把编码后的音频持续写到 stdout，停止时先收到 SIGINT
func NewCommandRecorder(cfg config.CaptureConfig, clock clockwork.Clock) *ReaderRecorder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	open := func(ctx context.Context) (io.ReadCloser, error) {
		if cfg.Command == "" {
			return nil, errors.New("capture command not configured")
		}
		cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, err
		}
		if err := cmd.Start(); err != nil {
			return nil, err
		}
		return &commandStream{cmd: cmd, stdout: stdout, clock: clock}, nil
	}
	return NewReaderRecorder(open, cfg.MIMEType, clock)
}

type commandStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	clock  clockwork.Clock

	mu   sync.Mutex
	kill clockwork.Timer
}

func (s *commandStream) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

// Interrupt 让进程自己收尾 (ffmpeg 会补全容器尾部)，stdout 随进程退出而关闭
func (s *commandStream) Interrupt() {
	if s.cmd.Process == nil {
		return
	}
	if err := s.cmd.Process.Signal(os.Interrupt); err != nil {
		_ = s.cmd.Process.Kill()
		return
	}
	s.mu.Lock()
	s.kill = s.clock.AfterFunc(killGrace, func() {
		_ = s.cmd.Process.Kill()
	})
	s.mu.Unlock()
}

// Close 等待进程退出，必须在 stdout 读完之后调用；信号导致的退出码不算错误
func (s *commandStream) Close() error {
	if s.cmd.Process == nil {
		return nil
	}
	err := s.cmd.Wait()
	s.mu.Lock()
	if s.kill != nil {
		s.kill.Stop()
	}
	s.mu.Unlock()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}
