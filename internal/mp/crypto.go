package mp

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"
)

const (
	// padBlockSize 微信加密消息的 PKCS#7 填充块大小
	padBlockSize = 32
	randomLen    = 16
	// envelopeHeaderLen random(16) + msgLen(4)
	envelopeHeaderLen = randomLen + 4
)

// Crypto 公众号消息加解密接口
//
//go:generate mockgen -destination=mock_mp/mock_mp.go -package=mock_mp . Crypto,Service
type Crypto interface {
	// VerifySignature 验证加密消息签名
	// 签名算法: SHA1(sort(token, timestamp, nonce, msgEncrypt))
	VerifySignature(signature, timestamp, nonce, msgEncrypt string) bool

	// Signature 为回复密文生成签名
	Signature(timestamp, nonce, msgEncrypt string) string

	// Decrypt 解密消息，返回明文与消息体中携带的 appid
	Decrypt(encrypted string) (content, appID string, err error)

	// Encrypt 加密回复，消息体尾部写入本公众号 appid
	Encrypt(plaintext string) (string, error)
}

// cryptoImpl Crypto 接口的实现
type cryptoImpl struct {
	token          string
	encodingAESKey string
	appID          string
	random         io.Reader
}

// NewCrypto 创建加解密服务实例
// encodingAESKey 为 43 字符的 Base64 编码密钥，追加 "=" 后解码得到 32 字节 AES 密钥
func NewCrypto(token, encodingAESKey, appID string) (Crypto, error) {
	c, err := newCrypto(token, encodingAESKey, appID, rand.Reader)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newCrypto(token, encodingAESKey, appID string, random io.Reader) (*cryptoImpl, error) {
	if _, err := decodeAESKey(encodingAESKey); err != nil {
		return nil, fmt.Errorf("decode encoding_aes_key: %w", err)
	}
	return &cryptoImpl{
		token:          token,
		encodingAESKey: encodingAESKey,
		appID:          appID,
		random:         random,
	}, nil
}

func (c *cryptoImpl) VerifySignature(signature, timestamp, nonce, msgEncrypt string) bool {
	return VerifySignature(signature, c.token, timestamp, nonce, msgEncrypt)
}

func (c *cryptoImpl) Signature(timestamp, nonce, msgEncrypt string) string {
	return ComputeSignature(c.token, timestamp, nonce, msgEncrypt)
}

func (c *cryptoImpl) Decrypt(encrypted string) (string, string, error) {
	return DecryptMessage(encrypted, c.encodingAESKey)
}

func (c *cryptoImpl) Encrypt(plaintext string) (string, error) {
	return EncryptMessage(c.random, plaintext, c.encodingAESKey, c.appID)
}

// decodeAESKey 43 字符 EncodingAESKey → 32 字节 AES 密钥，前 16 字节同时作为 IV
func decodeAESKey(encodingAESKey string) ([]byte, error) {
	key, err := decodeBase64(encodingAESKey + "=")
	if err != nil {
		return nil, err
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid aes key length: got %d, want 32", len(key))
	}
	return key, nil
}

// DecryptMessage 解密微信加密消息
// Base64 解码 → AES-CBC 解密（IV = aesKey[:16]）→ PKCS#7 去填充 → 解析 random(16) + msgLen(4) + msg + appid
func DecryptMessage(encrypted, encodingAESKey string) (content, appID string, err error) {
	// 1. 密钥
	aesKey, err := decodeAESKey(encodingAESKey)
	if err != nil {
		return "", "", &DecryptError{Reason: "decode aes key", Err: err}
	}

	// 2. Base64 解码
	ciphertext, err := decodeBase64(encrypted)
	if err != nil {
		return "", "", &DecryptError{Reason: "decode ciphertext", Err: err}
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", "", &DecryptError{Reason: fmt.Sprintf("ciphertext length %d is not a multiple of block size %d", len(ciphertext), aes.BlockSize)}
	}

	// 3. AES-CBC 解密
	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return "", "", &DecryptError{Reason: "new aes cipher", Err: err}
	}
	mode := cipher.NewCBCDecrypter(block, aesKey[:aes.BlockSize])
	plaintext := make([]byte, len(ciphertext))
	mode.CryptBlocks(plaintext, ciphertext)

	// 4. 去除 PKCS#7 填充
	plaintext, err = pkcs7Unpad(plaintext)
	if err != nil {
		return "", "", &DecryptError{Reason: "pkcs7 unpad", Err: err}
	}

	// 5. 拆分消息体
	if len(plaintext) < envelopeHeaderLen {
		return "", "", &DecryptError{Reason: fmt.Sprintf("plaintext too short: %d bytes", len(plaintext))}
	}
	msgLen := binary.BigEndian.Uint32(plaintext[randomLen:envelopeHeaderLen])
	if uint64(len(plaintext)-envelopeHeaderLen) < uint64(msgLen) {
		return "", "", &DecryptError{Reason: fmt.Sprintf("invalid msg length: %d, plaintext length: %d", msgLen, len(plaintext))}
	}
	msg := plaintext[envelopeHeaderLen : envelopeHeaderLen+int(msgLen)]
	tail := plaintext[envelopeHeaderLen+int(msgLen):]

	// 6. 损坏的明文直接报错，不做替换
	if !utf8.Valid(msg) || !utf8.Valid(tail) {
		return "", "", &DecryptError{Reason: "invalid utf-8 in decrypted message"}
	}

	return string(msg), string(tail), nil
}

// EncryptMessage 加密消息
// 构造 random(16) + msgLen(4, big-endian) + msg + appid → PKCS#7 填充 → AES-CBC 加密 → Base64 编码
func EncryptMessage(random io.Reader, plaintext, encodingAESKey, appID string) (string, error) {
	aesKey, err := decodeAESKey(encodingAESKey)
	if err != nil {
		return "", &EncryptError{Reason: "decode aes key", Err: err}
	}

	// 1. 构造明文
	randomBytes := make([]byte, randomLen)
	if _, err := io.ReadFull(random, randomBytes); err != nil {
		return "", &EncryptError{Reason: "generate random bytes", Err: err}
	}

	msgLen := make([]byte, 4)
	binary.BigEndian.PutUint32(msgLen, uint32(len(plaintext)))

	buf := make([]byte, 0, envelopeHeaderLen+len(plaintext)+len(appID)+padBlockSize)
	buf = append(buf, randomBytes...)
	buf = append(buf, msgLen...)
	buf = append(buf, plaintext...)
	buf = append(buf, appID...)

	// 2. PKCS#7 填充
	padded := pkcs7Pad(buf, padBlockSize)

	// 3. AES-CBC 加密，IV = aesKey[:16]
	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return "", &EncryptError{Reason: "new aes cipher", Err: err}
	}
	mode := cipher.NewCBCEncrypter(block, aesKey[:aes.BlockSize])
	ciphertext := make([]byte, len(padded))
	mode.CryptBlocks(ciphertext, padded)

	// 4. Base64 编码
	return encodeBase64(ciphertext), nil
}

// pkcs7Pad 对数据进行 PKCS#7 填充
func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	for i := 0; i < padding; i++ {
		data = append(data, byte(padding))
	}
	return data
}

// pkcs7Unpad 去除 PKCS#7 填充
// 填充值上限为 32，兼容按 16 字节块填充的密文
func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty data")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > padBlockSize {
		return nil, fmt.Errorf("invalid padding value: %d", padding)
	}
	if padding > len(data) {
		return nil, fmt.Errorf("padding %d exceeds data length %d", padding, len(data))
	}
	for i := len(data) - padding; i < len(data); i++ {
		if data[i] != byte(padding) {
			return nil, fmt.Errorf("invalid padding byte at position %d", i)
		}
	}
	return data[:len(data)-padding], nil
}
