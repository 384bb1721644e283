package worker

import (
	"context"
	"fmt"
	"pawsay/internal/pkg/config"
	"pawsay/pkg/metrics"
	"sync"
	"time"

	"go.uber.org/zap"
)

// 通知渠道
const (
	ChannelAccount = "account" // 账号推送
	ChannelAdmin   = "admin"   // 管理员告警
)

// Task 异步通知任务
type Task struct {
	Channel string
	Target  string
	Title   string
	Body    string
	Retry   int // 重试次数
}

// Sender 某个渠道的实际投递方式
type Sender interface {
	Send(ctx context.Context, task Task) error
}

// SenderFunc 函数适配器
type SenderFunc func(ctx context.Context, task Task) error

func (f SenderFunc) Send(ctx context.Context, task Task) error { return f(ctx, task) }

type WorkerPool struct {
	TaskQueue  chan Task
	RetryQueue chan Task // 重试队列
	WorkerNum  int
	MaxRetry   int // 最大重试次数
	RetryDelay time.Duration

	senders map[string]Sender
	log     *zap.Logger
	metrics *metrics.Collector

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorkerPool(senders map[string]Sender, cfg config.WorkerConfig, log *zap.Logger, collector *metrics.Collector) *WorkerPool {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.BufferSize <= 1 {
		cfg.BufferSize = 64
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &WorkerPool{
		TaskQueue:  make(chan Task, cfg.BufferSize),
		RetryQueue: make(chan Task, cfg.BufferSize/2),
		WorkerNum:  cfg.Workers,
		MaxRetry:   cfg.MaxRetry,
		RetryDelay: time.Second,
		senders:    senders,
		log:        log,
		metrics:    collector,
	}
}

func (p *WorkerPool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.WorkerNum; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	// 启动重试处理协程
	p.wg.Add(1)
	go p.retryWorker(ctx)
	p.log.Info("worker pool started", zap.Int("workers", p.WorkerNum))
}

// Stop 停止所有协程并等待退出，队列中未处理的任务被丢弃
func (p *WorkerPool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-p.TaskQueue:
			p.handle(ctx, id, task)
		}
	}
}

func (p *WorkerPool) handle(ctx context.Context, id int, task Task) {
	err := p.processTask(ctx, task)
	p.metrics.Notification(task.Channel, err == nil)
	if err == nil {
		return
	}
	p.log.Warn("notification failed",
		zap.Int("worker", id), zap.String("channel", task.Channel),
		zap.Int("attempt", task.Retry), zap.Error(err))

	// 如果未达到最大重试次数，加入重试队列
	if task.Retry < p.MaxRetry {
		task.Retry++
		select {
		case p.RetryQueue <- task:
		default:
			p.logFailedTask(task, fmt.Errorf("retry queue full: %w", err))
		}
		return
	}
	p.logFailedTask(task, err)
}

func (p *WorkerPool) retryWorker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-p.RetryQueue:
			// 延迟重试，避免立即重试
			timer := time.NewTimer(time.Duration(task.Retry) * p.RetryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			select {
			case p.TaskQueue <- task:
			default:
				p.logFailedTask(task, fmt.Errorf("main queue full"))
			}
		}
	}
}

func (p *WorkerPool) processTask(ctx context.Context, task Task) error {
	sender, ok := p.senders[task.Channel]
	if !ok {
		return fmt.Errorf("no sender for channel %q", task.Channel)
	}
	return sender.Send(ctx, task)
}

func (p *WorkerPool) logFailedTask(task Task, err error) {
	p.log.Error("notification dropped",
		zap.String("channel", task.Channel), zap.String("target", task.Target),
		zap.String("title", task.Title), zap.Error(err))
}

// AddTask 非阻塞入队，队列满时丢弃并返回 false
func (p *WorkerPool) AddTask(task Task) bool {
	select {
	case p.TaskQueue <- task:
		return true
	default:
		p.logFailedTask(task, fmt.Errorf("queue full"))
		return false
	}
}
