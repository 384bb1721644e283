package notify

import (
	"pawsay/internal/pkg/config"
	"pawsay/internal/pkg/push"
	"pawsay/internal/pkg/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Senders 按配置组装各渠道的 Sender，缺配置的渠道退化为日志
func Senders(cfg config.Config, log *zap.Logger) map[string]worker.Sender {
	fallback := NewLogSender(log)
	senders := map[string]worker.Sender{
		worker.ChannelAccount: fallback,
		worker.ChannelAdmin:   fallback,
	}

	if p, err := push.NewAliyunPushService(cfg.Push); err == nil {
		senders[worker.ChannelAccount] = NewPushSender(p)
	} else {
		log.Info("aliyun push disabled", zap.Error(err))
	}

	if cfg.Telegram.BotToken != "" && cfg.Telegram.AdminChatID != 0 {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
		if err != nil {
			log.Warn("telegram bot unavailable", zap.Error(err))
		} else {
			senders[worker.ChannelAdmin] = NewTelegramSender(bot, cfg.Telegram.AdminChatID)
		}
	}
	return senders
}
