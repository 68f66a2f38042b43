package mp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Service 公众号消息推送服务接口
type Service interface {
	// VerifyURL 处理 GET 请求的 URL 验证，返回 echostr
	VerifyURL(ctx context.Context, q CallbackQuery) (string, error)

	// ParseMessage 验签、按需解密并解析推送消息
	ParseMessage(ctx context.Context, q CallbackQuery, body []byte) (*ReceivedEvent, error)

	// RenderReply 渲染被动回复，加密模式下使用推送中的 timestamp、nonce 加密签名
	RenderReply(ctx context.Context, q CallbackQuery, reply Reply, from, to string) (string, error)
}

// encryptTypeAES 兼容/安全模式下平台推送带的 encrypt_type
const encryptTypeAES = "aes"

var errCryptoNotConfigured = errors.New("crypto not configured for encrypted mode")

// serviceImpl Service 接口的实现
type serviceImpl struct {
	cfg    ServerConfig
	crypto Crypto
	appID  string
	logger *slog.Logger
}

// NewService 创建消息推送服务实例，明文模式下 crypto 可以为 nil
func NewService(cfg ServerConfig, crypto Crypto, appID string, logger *slog.Logger) Service {
	return &serviceImpl{
		cfg:    cfg,
		crypto: crypto,
		appID:  appID,
		logger: logger,
	}
}

// VerifyURL 验证 SHA1(sort(token, timestamp, nonce)) == signature 后原样返回 echostr
func (s *serviceImpl) VerifyURL(ctx context.Context, q CallbackQuery) (string, error) {
	if !VerifySignature(q.Signature, s.cfg.Token, q.Timestamp, q.Nonce) {
		return "", ErrInvalidSignature
	}
	return q.Echostr, nil
}

// ParseMessage 处理推送消息
// 明文模式: 1. 验证 signature 2. 解析 XML
// 兼容/安全模式: 1. 校验参数 2. 读取 Encrypt 3. 验证 msg_signature 4. 解密 5. 校验 appid 6. 解析明文 XML
func (s *serviceImpl) ParseMessage(ctx context.Context, q CallbackQuery, body []byte) (*ReceivedEvent, error) {
	if !s.cfg.Mode.Encrypted() {
		if !VerifySignature(q.Signature, s.cfg.Token, q.Timestamp, q.Nonce) {
			s.logger.Warn("signature verification failed",
				"timestamp", q.Timestamp,
				"nonce", q.Nonce,
			)
			return nil, ErrInvalidSignature
		}
		return ParseReceivedEvent(body)
	}

	if s.crypto == nil {
		return nil, errCryptoNotConfigured
	}

	// 1. 校验参数
	if err := requireQuery(q); err != nil {
		return nil, err
	}

	// 2. 读取密文
	root, err := parseXML(body)
	if err != nil {
		return nil, err
	}
	encrypt, err := text(root, "Encrypt")
	if err != nil {
		return nil, err
	}

	// 3. 验证签名
	if !s.crypto.VerifySignature(q.MsgSignature, q.Timestamp, q.Nonce, encrypt) {
		s.logger.Warn("msg_signature verification failed",
			"timestamp", q.Timestamp,
			"nonce", q.Nonce,
		)
		return nil, ErrInvalidSignature
	}

	// 4. 解密
	content, appID, err := s.crypto.Decrypt(encrypt)
	if err != nil {
		s.logger.Error("failed to decrypt message", "error", err)
		return nil, fmt.Errorf("decrypt message: %w", err)
	}

	// 5. 校验 appid
	if appID != s.appID {
		s.logger.Warn("appid mismatch, check wechat.app_id or the account this URL is bound to",
			"got", appID,
			"want", s.appID,
		)
		return nil, ErrInvalidAppID
	}

	// 6. 解析明文
	return ParseReceivedEvent([]byte(content))
}

// RenderReply 渲染被动回复
func (s *serviceImpl) RenderReply(ctx context.Context, q CallbackQuery, reply Reply, from, to string) (string, error) {
	plain, err := RenderReply(reply, from, to)
	if err != nil {
		return "", err
	}
	if !s.cfg.Mode.Encrypted() {
		return plain, nil
	}
	if s.crypto == nil {
		return "", errCryptoNotConfigured
	}

	if q.Timestamp == "" {
		return "", invalidParams("missing query param timestamp")
	}
	if q.Nonce == "" {
		return "", invalidParams("missing query param nonce")
	}
	sealed, err := SealReply(s.crypto, plain, q.Timestamp, q.Nonce)
	if err != nil {
		return "", fmt.Errorf("encrypt reply: %w", err)
	}
	return sealed.XML()
}

func requireQuery(q CallbackQuery) error {
	switch {
	case q.MsgSignature == "":
		return invalidParams("missing query param msg_signature")
	case q.Timestamp == "":
		return invalidParams("missing query param timestamp")
	case q.Nonce == "":
		return invalidParams("missing query param nonce")
	case q.EncryptType == "":
		return invalidParams("missing query param encrypt_type")
	case q.EncryptType != encryptTypeAES:
		return invalidParams("unsupported encrypt_type %q", q.EncryptType)
	}
	return nil
}
