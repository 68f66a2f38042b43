package mp

import (
	"errors"
	"fmt"
)

var (
	// ErrXMLParse 推送内容不是合法的 XML
	ErrXMLParse = errors.New("xml parse error")
	// ErrInvalidSignature 签名验证失败
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrInvalidAppID 解密得到的 appid 与配置不一致
	ErrInvalidAppID = errors.New("invalid appid")
	// ErrInvalidParams 必填字段或参数缺失、格式错误
	ErrInvalidParams = errors.New("invalid params")
	// ErrDecode Base64 解码失败
	ErrDecode = errors.New("base64 decode error")
	// ErrUnsupportedReply 无法渲染的回复类型
	ErrUnsupportedReply = errors.New("unsupported reply")
)

// FieldErrorKind 字段错误类别
type FieldErrorKind int

const (
	FieldMissing FieldErrorKind = iota
	FieldEmpty
	FieldNotNumeric
)

func (k FieldErrorKind) String() string {
	switch k {
	case FieldMissing:
		return "is missing"
	case FieldEmpty:
		return "has no text content"
	case FieldNotNumeric:
		return "should be number"
	default:
		return "is invalid"
	}
}

// FieldError 解析 XML 时某个字段不满足要求，errors.Is(err, ErrInvalidParams) 为 true
type FieldError struct {
	Field string
	Kind  FieldErrorKind
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid params: tag `%s` %s", e.Field, e.Kind)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidParams
}

// invalidParams 构造一个非字段类的参数错误
func invalidParams(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParams, fmt.Sprintf(format, args...))
}

// DecryptError 消息解密失败，同样的输入永远失败，不可重试
type DecryptError struct {
	Reason string
	Err    error
}

func (e *DecryptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decrypt msg error: %s: %v", e.Reason, e.Err)
	}
	return "decrypt msg error: " + e.Reason
}

func (e *DecryptError) Unwrap() error { return e.Err }

// EncryptError 消息加密失败（密钥不合法或随机源读取失败）
type EncryptError struct {
	Reason string
	Err    error
}

func (e *EncryptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("encrypt msg error: %s: %v", e.Reason, e.Err)
	}
	return "encrypt msg error: " + e.Reason
}

func (e *EncryptError) Unwrap() error { return e.Err }
