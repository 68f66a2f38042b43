package mp

import "fmt"

// ModeKind 消息加解密方式
type ModeKind int

const (
	ModePlain ModeKind = iota
	ModeCompat
	ModeSecurity
)

func (k ModeKind) String() string {
	switch k {
	case ModePlain:
		return "plain"
	case ModeCompat:
		return "compat"
	case ModeSecurity:
		return "security"
	default:
		return fmt.Sprintf("ModeKind(%d)", int(k))
	}
}

// EncodingMode 明文 / 兼容 / 安全模式，后两者携带 43 字符的 EncodingAESKey
type EncodingMode struct {
	kind   ModeKind
	aesKey string
}

func PlainMode() EncodingMode { return EncodingMode{kind: ModePlain} }

func CompatMode(aesKey string) EncodingMode { return EncodingMode{kind: ModeCompat, aesKey: aesKey} }

func SecurityMode(aesKey string) EncodingMode {
	return EncodingMode{kind: ModeSecurity, aesKey: aesKey}
}

func (m EncodingMode) Kind() ModeKind { return m.kind }

// AESKey 明文模式下为空
func (m EncodingMode) AESKey() string { return m.aesKey }

// Encrypted 兼容模式与安全模式处理方式一致
func (m EncodingMode) Encrypted() bool {
	return m.kind == ModeCompat || m.kind == ModeSecurity
}

// ServerConfig 服务器配置，启动时构造一次，之后只读
type ServerConfig struct {
	Token string
	Mode  EncodingMode
}
