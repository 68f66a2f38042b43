package mp

import (
	"github.com/beevik/etree"
)

// EncryptedReply 安全模式下的加密回复
type EncryptedReply struct {
	Encrypt      string
	MsgSignature string
	TimeStamp    string
	Nonce        string
}

// SealReply 生成加密回复包
// timestamp、nonce 取自推送请求的 URL 参数，保证平台能用同一组参数验签
func SealReply(crypto Crypto, plaintext, timestamp, nonce string) (EncryptedReply, error) {
	encrypted, err := crypto.Encrypt(plaintext)
	if err != nil {
		return EncryptedReply{}, err
	}
	return EncryptedReply{
		Encrypt:      encrypted,
		MsgSignature: crypto.Signature(timestamp, nonce, encrypted),
		TimeStamp:    timestamp,
		Nonce:        nonce,
	}, nil
}

// XML 渲染为 <xml><Encrypt/><MsgSignature/><TimeStamp/><Nonce/></xml>
func (r EncryptedReply) XML() (string, error) {
	doc := etree.NewDocument()
	root := doc.CreateElement("xml")
	cdataElement(root, "Encrypt", r.Encrypt)
	cdataElement(root, "MsgSignature", r.MsgSignature)
	root.CreateElement("TimeStamp").SetText(r.TimeStamp)
	cdataElement(root, "Nonce", r.Nonce)
	return doc.WriteToString()
}
