package mp

// Event 事件类型常量
const (
	EventSubscribe             = "subscribe"
	EventUnsubscribe           = "unsubscribe"
	EventScan                  = "SCAN"
	EventLocation              = "LOCATION"
	EventClick                 = "CLICK"
	EventView                  = "VIEW"
	EventViewMiniProgram       = "view_miniprogram"
	EventScanCodePush          = "scancode_push"
	EventScanCodeWaitMsg       = "scancode_waitmsg"
	EventPicSysPhoto           = "pic_sysphoto"
	EventPicPhotoOrAlbum       = "pic_photo_or_album"
	EventPicWeixin             = "pic_weixin"
	EventLocationSelect        = "location_select"
	EventTemplateSendJobFinish = "TEMPLATESENDJOBFINISH"
	EventMassSendJobFinish     = "MASSSENDJOBFINISH"
	EventGuideInviteResult     = "guide_invite_result_event"
	EventGuideQrcodeScan       = "guide_qrcode_scan_event"
	EventPublishJobFinish      = "PUBLISHJOBFINISH"
)

// EventMessage MsgType 为 event 时的消息体
type EventMessage interface {
	ReceivedMessage
	// EventType 返回推送中的 Event 值
	EventType() string
}

// SubscribeEvent 关注
type SubscribeEvent struct{}

// UnsubscribeEvent 取消关注
type UnsubscribeEvent struct{}

// ScanEvent 已关注用户扫描带参数二维码
type ScanEvent struct {
	EventKey string
	Ticket   string
}

// SubscribeScanEvent 未关注用户扫码后关注，EventKey 带 qrscene_ 前缀
type SubscribeScanEvent struct {
	ScanEvent
}

// LocationEvent 上报地理位置
type LocationEvent struct {
	Latitude  float64
	Longitude float64
	Precision float64
}

// ClickEvent 点击菜单拉取消息
type ClickEvent struct {
	EventKey string
}

// ViewEvent 点击菜单跳转链接
type ViewEvent struct {
	EventKey string
	MenuID   *string
}

// ViewMiniProgramEvent 点击菜单跳转小程序
type ViewMiniProgramEvent struct {
	ViewEvent
}

// MenuScan 扫码类菜单事件的公共字段
type MenuScan struct {
	EventKey   string
	ScanType   string
	ScanResult string
}

type ScanCodePushEvent struct {
	MenuScan
}

type ScanCodeWaitMsgEvent struct {
	MenuScan
}

// SendPics 发图类菜单事件的公共字段
type SendPics struct {
	EventKey   string
	Count      int
	PicMD5Sums []string
}

type PicSysPhotoEvent struct {
	SendPics
}

type PicPhotoOrAlbumEvent struct {
	SendPics
}

type PicWeixinEvent struct {
	SendPics
}

// LocationSelectEvent 弹出地理位置选择器
type LocationSelectEvent struct {
	EventKey  string
	LocationX float64
	LocationY float64
	Scale     float64
	Label     string
	Poiname   *string
}

// TemplateSendJobFinishEvent 模板消息发送结果
type TemplateSendJobFinishEvent struct {
	MsgID  uint64
	Status string
}

// MassSendJobFinishEvent 群发结果
type MassSendJobFinishEvent struct {
	MsgID                uint64
	Status               string
	TotalCount           uint64
	FilterCount          uint64
	SentCount            uint64
	ErrorCount           uint64
	CopyrightCheckResult CopyrightCheckResult
}

// CopyrightCheckResult 群发原创校验结果
type CopyrightCheckResult struct {
	Count      int
	CheckState int
	ResultList []CopyrightCheckResultItem
}

type CopyrightCheckResultItem struct {
	ArticleIdx            int
	UserDeclareState      int
	AuditState            int
	OriginalArticleURL    string
	OriginalArticleType   int
	CanReprint            int
	NeedReplaceContent    int
	NeedShowReprintSource int
}

// GuideInviteResultEvent 顾问邀请结果，GuideAccount 与 GuideOpenID 至少有一个
type GuideInviteResultEvent struct {
	GuideAccount *string
	GuideOpenID  *string
	InviteResult int
}

// GuideQrcodeScanEvent 顾问二维码扫码
type GuideQrcodeScanEvent struct {
	QrcodeGuideAccount *string
	QrcodeGuideOpenID  *string
	OpenID             string
	Action             int
	QrcodeInfo         string
}

// PublishJobFinishEvent 发布任务完成
// PublishStatus 为 0 时 ArticleID/ArticleDetail 有效，否则 FailIdx 列出失败的文章序号
type PublishJobFinishEvent struct {
	PublishID     string
	PublishStatus int
	ArticleID     string
	ArticleDetail *ArticleDetail
	FailIdx       []int
}

// Succeeded 发布是否成功
func (e PublishJobFinishEvent) Succeeded() bool {
	return e.PublishStatus == 0
}

type ArticleDetail struct {
	Count int
	Items []ArticleDetailItem
}

type ArticleDetailItem struct {
	Idx        int
	ArticleURL string
}

// UnhandledEvent 未识别的事件
type UnhandledEvent struct {
	Event string
}

func (SubscribeEvent) receivedMessage()             {}
func (UnsubscribeEvent) receivedMessage()           {}
func (ScanEvent) receivedMessage()                  {}
func (SubscribeScanEvent) receivedMessage()         {}
func (LocationEvent) receivedMessage()              {}
func (ClickEvent) receivedMessage()                 {}
func (ViewEvent) receivedMessage()                  {}
func (ViewMiniProgramEvent) receivedMessage()       {}
func (ScanCodePushEvent) receivedMessage()          {}
func (ScanCodeWaitMsgEvent) receivedMessage()       {}
func (PicSysPhotoEvent) receivedMessage()           {}
func (PicPhotoOrAlbumEvent) receivedMessage()       {}
func (PicWeixinEvent) receivedMessage()             {}
func (LocationSelectEvent) receivedMessage()        {}
func (TemplateSendJobFinishEvent) receivedMessage() {}
func (MassSendJobFinishEvent) receivedMessage()     {}
func (GuideInviteResultEvent) receivedMessage()     {}
func (GuideQrcodeScanEvent) receivedMessage()       {}
func (PublishJobFinishEvent) receivedMessage()      {}
func (UnhandledEvent) receivedMessage()             {}

func (SubscribeEvent) EventType() string             { return EventSubscribe }
func (UnsubscribeEvent) EventType() string           { return EventUnsubscribe }
func (ScanEvent) EventType() string                  { return EventScan }
func (SubscribeScanEvent) EventType() string         { return EventSubscribe }
func (LocationEvent) EventType() string              { return EventLocation }
func (ClickEvent) EventType() string                 { return EventClick }
func (ViewEvent) EventType() string                  { return EventView }
func (ViewMiniProgramEvent) EventType() string       { return EventViewMiniProgram }
func (ScanCodePushEvent) EventType() string          { return EventScanCodePush }
func (ScanCodeWaitMsgEvent) EventType() string       { return EventScanCodeWaitMsg }
func (PicSysPhotoEvent) EventType() string           { return EventPicSysPhoto }
func (PicPhotoOrAlbumEvent) EventType() string       { return EventPicPhotoOrAlbum }
func (PicWeixinEvent) EventType() string             { return EventPicWeixin }
func (LocationSelectEvent) EventType() string        { return EventLocationSelect }
func (TemplateSendJobFinishEvent) EventType() string { return EventTemplateSendJobFinish }
func (MassSendJobFinishEvent) EventType() string     { return EventMassSendJobFinish }
func (GuideInviteResultEvent) EventType() string     { return EventGuideInviteResult }
func (GuideQrcodeScanEvent) EventType() string       { return EventGuideQrcodeScan }
func (PublishJobFinishEvent) EventType() string      { return EventPublishJobFinish }
func (e UnhandledEvent) EventType() string           { return e.Event }
