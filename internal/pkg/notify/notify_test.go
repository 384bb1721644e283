package notify

import (
	"context"
	"pawsay/internal/pkg/config"
	"pawsay/internal/pkg/worker"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockBot struct {
	mock.Mock
}

func (m *MockBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return tgbotapi.Message{}, args.Error(0)
}

type MockPush struct {
	mock.Mock
}

func (m *MockPush) PushToAccount(accountID string, title, body string, ext map[string]string) error {
	args := m.Called(accountID, title, body, ext)
	return args.Error(0)
}

func TestTelegramSender(t *testing.T) {
	bot := new(MockBot)
	bot.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.ChatID == 42 && msg.Text == "Post hidden\n\npost p1 has 4 reports"
	})).Return(nil)

	sender := NewTelegramSender(bot, 42)
	err := sender.Send(context.Background(), worker.Task{Channel: worker.ChannelAdmin, Title: "Post hidden", Body: "post p1 has 4 reports"})

	require.NoError(t, err)
	bot.AssertExpectations(t)
}

func TestPushSender(t *testing.T) {
	p := new(MockPush)
	p.On("PushToAccount", "acc-1", "Warning", "Please follow the rules", map[string]string{"channel": worker.ChannelAccount}).Return(nil)

	sender := NewPushSender(p)
	err := sender.Send(context.Background(), worker.Task{Channel: worker.ChannelAccount, Target: "acc-1", Title: "Warning", Body: "Please follow the rules"})

	require.NoError(t, err)
	p.AssertExpectations(t)
}

func TestSendersFallBackToLog(t *testing.T) {
	senders := Senders(config.Config{}, zap.NewNop())

	_, ok := senders[worker.ChannelAccount].(*LogSender)
	assert.True(t, ok)
	_, ok = senders[worker.ChannelAdmin].(*LogSender)
	assert.True(t, ok)
}

func TestDispatcherEnqueues(t *testing.T) {
	pool := worker.NewWorkerPool(nil, config.WorkerConfig{Workers: 1, BufferSize: 4}, nil, nil)
	d := NewDispatcher(pool)

	d.NotifyAccount("acc-1", "t", "b")
	d.AlertAdmins("t", "b")

	require.Len(t, pool.TaskQueue, 2)
	first := <-pool.TaskQueue
	second := <-pool.TaskQueue
	assert.Equal(t, worker.ChannelAccount, first.Channel)
	assert.Equal(t, "acc-1", first.Target)
	assert.Equal(t, worker.ChannelAdmin, second.Channel)
}
