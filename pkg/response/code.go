package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 账号与会话 100xx
	ErrUserExists         = 10001
	ErrUserNotFound       = 10002
	ErrAuthFailed         = 10003
	ErrTokenInvalid       = 10004
	ErrNoPermission       = 10005
	ErrAccountDeactivated = 10006
	ErrSubscription       = 10007
	ErrConsentRequired    = 10008

	// 宠物档案 200xx
	ErrProfileNotFound = 20001

	// 社区 300xx
	ErrPostNotFound     = 30001
	ErrEmptyContent     = 30002
	ErrAlreadyReported  = 30003
	ErrUnsafeImage      = 30004
	ErrReportNotFound   = 30005
	ErrSelfDeactivation = 30006

	// 翻译 400xx
	ErrRecordingTooShort = 40001
	ErrRecordingTooLong  = 40002
	ErrTranslateBusy     = 40003
	ErrTranslateFailed   = 40004

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
