// Package notify 把账号通知与管理员告警交给 worker 池异步投递
package notify

import (
	"context"
	"fmt"
	"pawsay/internal/pkg/push"
	"pawsay/internal/pkg/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier 业务侧使用的通知接口，投递失败不影响业务结果
type Notifier interface {
	NotifyAccount(accountID, title, body string)
	AlertAdmins(title, body string)
}

// Dispatcher 基于 WorkerPool 的实现
type Dispatcher struct {
	pool *worker.WorkerPool
}

func NewDispatcher(pool *worker.WorkerPool) *Dispatcher {
	return &Dispatcher{pool: pool}
}

func (d *Dispatcher) NotifyAccount(accountID, title, body string) {
	d.pool.AddTask(worker.Task{Channel: worker.ChannelAccount, Target: accountID, Title: title, Body: body})
}

func (d *Dispatcher) AlertAdmins(title, body string) {
	d.pool.AddTask(worker.Task{Channel: worker.ChannelAdmin, Title: title, Body: body})
}

// Nop 丢弃所有通知
type Nop struct{}

func (Nop) NotifyAccount(string, string, string) {}
func (Nop) AlertAdmins(string, string)           {}

// PushSender 通过阿里云推送下发账号通知
type PushSender struct {
	push push.PushService
}

func NewPushSender(p push.PushService) *PushSender {
	return &PushSender{push: p}
}

func (s *PushSender) Send(_ context.Context, task worker.Task) error {
	return s.push.PushToAccount(task.Target, task.Title, task.Body, map[string]string{"channel": task.Channel})
}

// BotSender 是 TelegramSender 依赖的 bot 能力
type BotSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender 把管理员告警发到固定的 Telegram 群
type TelegramSender struct {
	bot    BotSender
	chatID int64
}

func NewTelegramSender(bot BotSender, chatID int64) *TelegramSender {
	return &TelegramSender{bot: bot, chatID: chatID}
}

func (s *TelegramSender) Send(_ context.Context, task worker.Task) error {
	msg := tgbotapi.NewMessage(s.chatID, fmt.Sprintf("%s\n\n%s", task.Title, task.Body))
	_, err := s.bot.Send(msg)
	return err
}

// LogSender 未配置外部渠道时只写日志
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, task worker.Task) error {
	s.log.Info("notification",
		zap.String("channel", task.Channel),
		zap.String("target", task.Target),
		zap.String("title", task.Title),
		zap.String("body", task.Body))
	return nil
}
