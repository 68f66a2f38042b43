package mp

import "net/url"

// CallbackQuery 回调请求的 URL 查询参数
type CallbackQuery struct {
	Signature    string // 明文校验签名，GET 验证与明文模式 POST 使用
	MsgSignature string // 安全模式消息签名
	Timestamp    string
	Nonce        string
	Echostr      string // 仅 GET 验证时使用
	EncryptType  string // 加密模式下必须为 aes
}

// QueryFromValues 从 URL 参数读取回调参数
func QueryFromValues(v url.Values) CallbackQuery {
	return CallbackQuery{
		Signature:    v.Get("signature"),
		MsgSignature: v.Get("msg_signature"),
		Timestamp:    v.Get("timestamp"),
		Nonce:        v.Get("nonce"),
		Echostr:      v.Get("echostr"),
		EncryptType:  v.Get("encrypt_type"),
	}
}
