package push

import (
	"encoding/json"
	"fmt"
	"pawsay/internal/pkg/config"

	"github.com/aliyun/alibaba-cloud-sdk-go/sdk/requests"
	"github.com/aliyun/alibaba-cloud-sdk-go/services/push"
)

// PushService 账号维度的推送
type PushService interface {
	PushToAccount(accountID string, title, body string, extParameters map[string]string) error
}

type AliyunPushService struct {
	client *push.Client
	appKey int64
}

// ErrNotConfigured 推送配置缺失
var ErrNotConfigured = fmt.Errorf("push config is missing")

func NewAliyunPushService(cfg config.PushConfig) (*AliyunPushService, error) {
	if cfg.AccessKeyID == "" || cfg.AppKey == 0 {
		return nil, ErrNotConfigured
	}

	client, err := push.NewClientWithAccessKey(
		cfg.RegionID,
		cfg.AccessKeyID,
		cfg.AccessKeySecret,
	)
	if err != nil {
		return nil, err
	}

	return &AliyunPushService{
		client: client,
		appKey: cfg.AppKey,
	}, nil
}

func (s *AliyunPushService) PushToAccount(accountID string, title, body string, extParameters map[string]string) error {
	request := push.CreatePushRequest()
	request.AppKey = requests.NewInteger(int(s.appKey))
	request.Target = "ACCOUNT"
	request.TargetValue = accountID
	request.Title = title
	request.Body = body
	request.DeviceType = "ALL"
	request.PushType = "NOTICE"

	if len(extParameters) > 0 {
		extJSON, err := json.Marshal(extParameters)
		if err != nil {
			return err
		}
		request.AndroidExtParameters = string(extJSON)
		request.IOSExtParameters = string(extJSON)
	}

	_, err := s.client.Push(request)
	return err
}
