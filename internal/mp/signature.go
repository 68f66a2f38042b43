package mp

import (
	"crypto/sha1"
	"encoding/hex"
	"slices"
	"strings"
)

// ComputeSignature 计算消息签名
// SHA1(sort(parts...)) 的小写十六进制，调用方无需预先排序
func ComputeSignature(parts ...string) string {
	sorted := slices.Clone(parts)
	slices.Sort(sorted)
	hash := sha1.Sum([]byte(strings.Join(sorted, "")))
	return hex.EncodeToString(hash[:])
}

// VerifySignature 验证签名，大小写敏感
//   - 加密消息: parts = token, timestamp, nonce, encrypt
//   - 明文/URL 验证: parts = token, timestamp, nonce
func VerifySignature(signature string, parts ...string) bool {
	return ComputeSignature(parts...) == signature
}
