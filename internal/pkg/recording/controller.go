package recording

import (
	"context"
	"errors"
	"pawsay/internal/domain/translation/model"
	"pawsay/internal/pkg/capture"
	"pawsay/internal/pkg/config"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

var (
	// ErrBusy 正在录音或等待翻译结果
	ErrBusy = errors.New("recording in progress")
	// ErrTooShort 按住时间不足最短时长
	ErrTooShort     = errors.New("recording too short")
	ErrNotRecording = errors.New("not recording")
	ErrClosed       = errors.New("controller closed")
)

// TooShortNotice 录音过短时展示的提示
const TooShortNotice = "Too short! Hold for at least 2 seconds."

// State 手势状态
type State int

const (
	Idle State = iota
	// Starting 正在打开录音设备
	Starting
	Pressed
	Released
	TimedOut
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	case TimedOut:
		return "timed_out"
	default:
		return "idle"
	}
}

// OutcomeKind 一次手势的结果
type OutcomeKind int

const (
	TooShort OutcomeKind = iota + 1
	Judged
	NoSound
	Failed
)

// Progress 录音进度
type Progress struct {
	Elapsed   time.Duration
	Remaining time.Duration
	Fraction  float64
}

// Outcome 手势结束后的结果
type Outcome struct {
	Kind     OutcomeKind
	Judgment *model.Judgment
	Err      error
}

// Judge 提交录音并等待翻译结果
type Judge func(ctx context.Context, clip capture.Clip) (*model.Judgment, error)

// Listener 接收控制器事件，回调不在锁内执行
type Listener interface {
	OnState(State)
	OnProgress(Progress)
	OnOutcome(Outcome)
	// OnNotice 提示出现时 text 非空，消失时为空
	OnNotice(text string)
}

// Config 录音时间窗口
type Config struct {
	Min            time.Duration
	Max            time.Duration
	Tick           time.Duration
	NoticeDuration time.Duration
}

// ConfigFrom 由全局配置生成
func ConfigFrom(cfg config.RecordingConfig) Config {
	return Config{
		Min:            cfg.MinDuration,
		Max:            cfg.MaxDuration,
		Tick:           cfg.Tick,
		NoticeDuration: cfg.NoticeDuration,
	}
}

func (c Config) withDefaults() Config {
	if c.Min <= 0 {
		c.Min = 2 * time.Second
	}
	if c.Max <= c.Min {
		c.Max = 8 * time.Second
	}
	if c.Tick <= 0 {
		c.Tick = 50 * time.Millisecond
	}
	if c.NoticeDuration <= 0 {
		c.NoticeDuration = 2 * time.Second
	}
	return c
}

// Controller 按住录音 / 松开提交 的手势状态机
type Controller struct {
	cfg      Config
	recorder capture.Recorder
	judge    Judge
	listener Listener
	clock    clockwork.Clock
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	state    State
	closed   bool
	started  time.Time
	stopTick chan struct{}
	notice   clockwork.Timer
}

func NewController(cfg Config, recorder capture.Recorder, judge Judge, listener Listener, clock clockwork.Clock, log *zap.Logger) *Controller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		cfg:      cfg.withDefaults(),
		recorder: recorder,
		judge:    judge,
		listener: listener,
		clock:    clock,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// State 当前状态
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Press 开始录音，仅在 Idle 时有效
func (c *Controller) Press(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != Idle {
		c.mu.Unlock()
		return ErrBusy
	}
	// 打开设备可能较慢，期间不持有锁
	c.state = Starting
	c.mu.Unlock()

	startErr := c.recorder.Start(ctx)

	c.mu.Lock()
	if startErr != nil {
		c.state = Idle
		c.mu.Unlock()
		c.log.Warn("capture start failed", zap.Error(startErr))
		return startErr
	}
	if c.closed {
		c.state = Idle
		c.mu.Unlock()
		if err := c.recorder.Discard(); err != nil {
			c.log.Warn("discard capture failed", zap.Error(err))
		}
		return ErrClosed
	}
	c.state = Pressed
	c.started = c.clock.Now()
	stop := make(chan struct{})
	c.stopTick = stop
	c.wg.Add(1)
	go c.tick(c.started, stop)
	c.mu.Unlock()

	c.listener.OnState(Pressed)
	c.listener.OnProgress(c.progress(0))
	return nil
}

func (c *Controller) tick(started time.Time, stop <-chan struct{}) {
	defer c.wg.Done()
	ticker := c.clock.NewTicker(c.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-c.ctx.Done():
			return
		case <-ticker.Chan():
			elapsed := c.clock.Since(started)
			c.listener.OnProgress(c.progress(elapsed))
			if elapsed >= c.cfg.Max {
				c.timeout()
				return
			}
		}
	}
}

func (c *Controller) progress(elapsed time.Duration) Progress {
	if elapsed > c.cfg.Max {
		elapsed = c.cfg.Max
	}
	return Progress{
		Elapsed:   elapsed,
		Remaining: c.cfg.Max - elapsed,
		Fraction:  float64(elapsed) / float64(c.cfg.Max),
	}
}

// timeout 录满最长时长，由控制器自己结束录音
func (c *Controller) timeout() {
	c.mu.Lock()
	if c.state != Pressed {
		c.mu.Unlock()
		return
	}
	c.state = TimedOut
	c.stopTick = nil
	c.wg.Add(1)
	c.mu.Unlock()

	c.listener.OnState(TimedOut)
	go c.submit(c.cfg.Max)
}

// Release 松开按钮；不足最短时长时丢弃录音并返回 ErrTooShort
func (c *Controller) Release() error {
	c.mu.Lock()
	if c.state != Pressed {
		c.mu.Unlock()
		return ErrNotRecording
	}
	close(c.stopTick)
	c.stopTick = nil
	elapsed := c.clock.Since(c.started)

	if elapsed < c.cfg.Min {
		c.state = Idle
		if err := c.recorder.Discard(); err != nil {
			c.log.Warn("discard capture failed", zap.Error(err))
		}
		c.showNotice()
		c.mu.Unlock()

		c.listener.OnOutcome(Outcome{Kind: TooShort, Err: ErrTooShort})
		c.listener.OnNotice(TooShortNotice)
		c.listener.OnState(Idle)
		return ErrTooShort
	}

	c.state = Released
	c.wg.Add(1)
	c.mu.Unlock()

	c.listener.OnState(Released)
	go c.submit(elapsed)
	return nil
}

// showNotice 需持有锁
func (c *Controller) showNotice() {
	if c.notice != nil {
		c.notice.Stop()
	}
	c.notice = c.clock.AfterFunc(c.cfg.NoticeDuration, func() {
		c.listener.OnNotice("")
	})
}

func (c *Controller) submit(elapsed time.Duration) {
	defer c.wg.Done()

	outcome := c.judgeClip(elapsed)

	c.mu.Lock()
	c.state = Idle
	c.mu.Unlock()

	c.listener.OnOutcome(outcome)
	c.listener.OnState(Idle)
}

func (c *Controller) judgeClip(elapsed time.Duration) Outcome {
	clip, err := c.recorder.Stop()
	if err != nil {
		c.log.Error("stop capture failed", zap.Error(err))
		return Outcome{Kind: Failed, Err: err}
	}
	clip.Duration = elapsed

	judgment, err := c.judge(c.ctx, clip)
	if err != nil {
		c.log.Error("translation failed", zap.Error(err))
		return Outcome{Kind: Failed, Err: err}
	}
	if !judgment.SoundDetected {
		return Outcome{Kind: NoSound, Judgment: judgment}
	}
	return Outcome{Kind: Judged, Judgment: judgment}
}

// Close 停止后台任务并等待其退出
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.state == Pressed {
		close(c.stopTick)
		c.stopTick = nil
		c.state = Idle
		if err := c.recorder.Discard(); err != nil {
			c.log.Warn("discard capture failed", zap.Error(err))
		}
	}
	if c.notice != nil {
		c.notice.Stop()
	}
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}
