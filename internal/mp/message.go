package mp

// MsgType 消息类型常量
const (
	MsgTypeText       = "text"
	MsgTypeImage      = "image"
	MsgTypeVoice      = "voice"
	MsgTypeVideo      = "video"
	MsgTypeShortVideo = "shortvideo"
	MsgTypeLocation   = "location"
	MsgTypeLink       = "link"
	MsgTypeEvent      = "event"
	MsgTypeMusic      = "music"
	MsgTypeNews       = "news"
)

// ReceivedEvent 解析后的微信推送，每次请求新建，只读
type ReceivedEvent struct {
	From       string
	To         string
	CreateTime uint64
	MsgType    string
	Body       ReceivedMessage
}

// ReceivedMessage 推送消息体，具体类型为下列结构体之一或 EventMessage
type ReceivedMessage interface {
	receivedMessage()
}

// TextMessage 文本消息
type TextMessage struct {
	MsgID   uint64
	Content string
}

// ImageMessage 图片消息
type ImageMessage struct {
	MsgID   uint64
	PicURL  string
	MediaID string
}

// VoiceMessage 语音消息，Recognition 仅在开通语音识别后出现
type VoiceMessage struct {
	MsgID       uint64
	MediaID     string
	Format      string
	Recognition *string
}

// VideoMessage 视频消息
type VideoMessage struct {
	MsgID        uint64
	MediaID      string
	ThumbMediaID string
}

// ShortVideoMessage 小视频消息，字段与 VideoMessage 相同
type ShortVideoMessage struct {
	VideoMessage
}

// LocationMessage 地理位置消息
type LocationMessage struct {
	MsgID     uint64
	LocationX float64
	LocationY float64
	Scale     float64
	Label     string
}

// LinkMessage 链接消息
type LinkMessage struct {
	MsgID       uint64
	Title       string
	Description string
	URL         string
}

// UnhandledMessage 未识别的消息类型，平台新增类型时不报错
type UnhandledMessage struct {
	MsgType string
}

func (TextMessage) receivedMessage()       {}
func (ImageMessage) receivedMessage()      {}
func (VoiceMessage) receivedMessage()      {}
func (VideoMessage) receivedMessage()      {}
func (ShortVideoMessage) receivedMessage() {}
func (LocationMessage) receivedMessage()   {}
func (LinkMessage) receivedMessage()       {}
func (UnhandledMessage) receivedMessage()  {}
