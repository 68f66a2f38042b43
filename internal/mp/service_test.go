package mp_test

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go-wxmp-svc/internal/mp"
	"go-wxmp-svc/internal/mp/mock_mp"
)

// 平台文档中的安全模式示例请求
const (
	sampleToken     = "QDG6eK"
	sampleAESKey    = "jWmYm7qr5nMoAUwZRjGtBxmz3KA1tkAj3ykkR6q2B2C"
	sampleAppID     = "wx5823bf96d3bd56c7"
	sampleTimestamp = "1409659813"
	sampleNonce     = "1372623149"
	sampleMsgSig    = "477715d11cdb4164915debcba66cb864d751f3e6"
	samplePlainSig  = "d2157f2f9079f4d6257b45edf665c43c62e60a0a"
	sampleEncrypt   = "RypEvHKD8QQKFhvQ6QleEB4J58tiPdvo+rtK1I9qca6aM/wvqnLSV5zEPeusUiX5L5X/0lWfrf0QADHHhGd3QczcdCUpj911L3vg3W/sYYvuJTs3TUUkSUXxaccAS0qhxchrRYt66wiSpGLYL42aM6A8dTT+6k4aSknmPj48kzJs8qLjvd4Xgpue06DOdnLxAUHzM6+kDZ+HMZfJYuR+LtwGc2hgf5gsijff0ekUNXZiqATP7PF5mZxZ3Izoun1s4zG4LUMnvw2r+KqCKIw+3IQH03v+BCA9nMELNqbSf6tiWSrXJB3LAVGUcallcrw8V2t9EL4EhzJWrQUax5wLVMNS0+rUPA3k22Ncx4XXZS9o0MBH27Bo6BpNelZpS+/uh9KsNlY6bHCmJU9p8g7m3fVKn28H3KDYA5Pl/T8Z1ptDAVe0lXdQ2YoyyH2uyPIGHBZZIs2pDBS8R07+qN+E7Q=="
)

const plainText = `<xml><ToUserName><![CDATA[gh_account]]></ToUserName><FromUserName><![CDATA[oUser]]></FromUserName><CreateTime>1348831860</CreateTime><MsgType><![CDATA[text]]></MsgType><Content><![CDATA[hi]]></Content><MsgId>42</MsgId></xml>`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func encryptedBody(encrypt string) []byte {
	return []byte("<xml><ToUserName><![CDATA[" + sampleAppID + "]]></ToUserName><Encrypt><![CDATA[" + encrypt + "]]></Encrypt></xml>")
}

func securityConfig() mp.ServerConfig {
	return mp.ServerConfig{Token: sampleToken, Mode: mp.SecurityMode(sampleAESKey)}
}

func plainConfig() mp.ServerConfig {
	return mp.ServerConfig{Token: sampleToken, Mode: mp.PlainMode()}
}

func sampleQuery() mp.CallbackQuery {
	return mp.CallbackQuery{
		Signature:    samplePlainSig,
		MsgSignature: sampleMsgSig,
		Timestamp:    sampleTimestamp,
		Nonce:        sampleNonce,
		EncryptType:  "aes",
	}
}

// TestVerifyURL 验证 URL 验证成功返回 echostr，签名错误返回 ErrInvalidSignature
func TestVerifyURL(t *testing.T) {
	svc := mp.NewService(plainConfig(), nil, sampleAppID, discardLogger())

	q := sampleQuery()
	q.Echostr = "5837397520233283219"
	echostr, err := svc.VerifyURL(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "5837397520233283219", echostr)

	q.Signature = "bad"
	_, err = svc.VerifyURL(context.Background(), q)
	assert.ErrorIs(t, err, mp.ErrInvalidSignature)
}

// TestParseMessagePlain 验证明文模式验签后直接解析
func TestParseMessagePlain(t *testing.T) {
	svc := mp.NewService(plainConfig(), nil, sampleAppID, discardLogger())

	ev, err := svc.ParseMessage(context.Background(), sampleQuery(), []byte(plainText))
	require.NoError(t, err)
	assert.Equal(t, mp.TextMessage{MsgID: 42, Content: "hi"}, ev.Body)

	q := sampleQuery()
	q.Timestamp = "1409659814"
	_, err = svc.ParseMessage(context.Background(), q, []byte(plainText))
	assert.ErrorIs(t, err, mp.ErrInvalidSignature)
}

// TestParseMessageSecuritySample 验证平台示例请求可完整验签、解密并解析
func TestParseMessageSecuritySample(t *testing.T) {
	crypto, err := mp.NewCrypto(sampleToken, sampleAESKey, sampleAppID)
	require.NoError(t, err)

	for _, cfg := range []mp.ServerConfig{
		securityConfig(),
		{Token: sampleToken, Mode: mp.CompatMode(sampleAESKey)},
	} {
		svc := mp.NewService(cfg, crypto, sampleAppID, discardLogger())
		ev, err := svc.ParseMessage(context.Background(), sampleQuery(), encryptedBody(sampleEncrypt))
		require.NoError(t, err, cfg.Mode.Kind().String())
		assert.Equal(t, &mp.ReceivedEvent{
			From:       "mycreate",
			To:         sampleAppID,
			CreateTime: 1409659813,
			MsgType:    mp.MsgTypeText,
			Body:       mp.TextMessage{MsgID: 4561255354251345929, Content: "hello"},
		}, ev)
	}
}

// TestParseMessageSecurityRejects 验证安全模式下各类拒绝路径
func TestParseMessageSecurityRejects(t *testing.T) {
	ctx := context.Background()

	t.Run("signature mismatch skips decrypt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		crypto := mock_mp.NewMockCrypto(ctrl)
		crypto.EXPECT().VerifySignature(sampleMsgSig, sampleTimestamp, sampleNonce, "CIPHER").Return(false)

		svc := mp.NewService(securityConfig(), crypto, sampleAppID, discardLogger())
		_, err := svc.ParseMessage(ctx, sampleQuery(), encryptedBody("CIPHER"))
		assert.ErrorIs(t, err, mp.ErrInvalidSignature)
	})

	t.Run("tampered ciphertext with original signature", func(t *testing.T) {
		crypto, err := mp.NewCrypto(sampleToken, sampleAESKey, sampleAppID)
		require.NoError(t, err)
		svc := mp.NewService(securityConfig(), crypto, sampleAppID, discardLogger())

		raw, err := base64.StdEncoding.DecodeString(sampleEncrypt)
		require.NoError(t, err)
		// 部分篡改仍能解密成功，只有验签能发现
		for _, idx := range []int{2, 4, 100} {
			tampered := append([]byte(nil), raw...)
			tampered[idx] ^= 0x01
			_, err := svc.ParseMessage(ctx, sampleQuery(), encryptedBody(base64.StdEncoding.EncodeToString(tampered)))
			assert.ErrorIs(t, err, mp.ErrInvalidSignature, "byte %d", idx)
		}
	})

	t.Run("appid mismatch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		crypto := mock_mp.NewMockCrypto(ctrl)
		crypto.EXPECT().VerifySignature(gomock.Any(), gomock.Any(), gomock.Any(), "CIPHER").Return(true)
		crypto.EXPECT().Decrypt("CIPHER").Return(plainText, "wx0000000000000000", nil)

		svc := mp.NewService(securityConfig(), crypto, sampleAppID, discardLogger())
		_, err := svc.ParseMessage(ctx, sampleQuery(), encryptedBody("CIPHER"))
		assert.ErrorIs(t, err, mp.ErrInvalidAppID)
	})

	t.Run("decrypt failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		crypto := mock_mp.NewMockCrypto(ctrl)
		crypto.EXPECT().VerifySignature(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true)
		crypto.EXPECT().Decrypt("CIPHER").Return("", "", &mp.DecryptError{Reason: "pkcs7 unpad"})

		svc := mp.NewService(securityConfig(), crypto, sampleAppID, discardLogger())
		_, err := svc.ParseMessage(ctx, sampleQuery(), encryptedBody("CIPHER"))
		var decErr *mp.DecryptError
		require.ErrorAs(t, err, &decErr)
		assert.Equal(t, "pkcs7 unpad", decErr.Reason)
	})

	t.Run("decrypted body not xml", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		crypto := mock_mp.NewMockCrypto(ctrl)
		crypto.EXPECT().VerifySignature(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true)
		crypto.EXPECT().Decrypt(gomock.Any()).Return("not xml <<", sampleAppID, nil)

		svc := mp.NewService(securityConfig(), crypto, sampleAppID, discardLogger())
		_, err := svc.ParseMessage(ctx, sampleQuery(), encryptedBody("CIPHER"))
		assert.ErrorIs(t, err, mp.ErrXMLParse)
	})

	t.Run("missing query params", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mp.NewService(securityConfig(), mock_mp.NewMockCrypto(ctrl), sampleAppID, discardLogger())

		for name, mutate := range map[string]func(*mp.CallbackQuery){
			"msg_signature": func(q *mp.CallbackQuery) { q.MsgSignature = "" },
			"timestamp":     func(q *mp.CallbackQuery) { q.Timestamp = "" },
			"nonce":         func(q *mp.CallbackQuery) { q.Nonce = "" },
			"encrypt_type":  func(q *mp.CallbackQuery) { q.EncryptType = "" },
		} {
			q := sampleQuery()
			mutate(&q)
			_, err := svc.ParseMessage(ctx, q, encryptedBody("CIPHER"))
			require.ErrorIs(t, err, mp.ErrInvalidParams, name)
			assert.Contains(t, err.Error(), name)
		}
	})

	t.Run("unsupported encrypt_type", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mp.NewService(securityConfig(), mock_mp.NewMockCrypto(ctrl), sampleAppID, discardLogger())

		q := sampleQuery()
		q.EncryptType = "rsa"
		_, err := svc.ParseMessage(ctx, q, encryptedBody("CIPHER"))
		require.ErrorIs(t, err, mp.ErrInvalidParams)
		assert.Contains(t, err.Error(), `"rsa"`)
	})

	t.Run("missing Encrypt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mp.NewService(securityConfig(), mock_mp.NewMockCrypto(ctrl), sampleAppID, discardLogger())

		_, err := svc.ParseMessage(ctx, sampleQuery(), []byte(plainText))
		var fe *mp.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "Encrypt", fe.Field)
	})

	t.Run("crypto not configured", func(t *testing.T) {
		svc := mp.NewService(securityConfig(), nil, sampleAppID, discardLogger())
		_, err := svc.ParseMessage(ctx, sampleQuery(), encryptedBody("CIPHER"))
		assert.Error(t, err)
	})
}

// TestRenderReplyPlain 验证明文模式直接输出回复 XML
func TestRenderReplyPlain(t *testing.T) {
	svc := mp.NewService(plainConfig(), nil, sampleAppID, discardLogger())

	out, err := svc.RenderReply(context.Background(), sampleQuery(), mp.TextReply{Content: "hi"}, "gh_account", "oUser")
	require.NoError(t, err)
	assert.Contains(t, out, "<Content><![CDATA[hi]]></Content>")
	assert.NotContains(t, out, "Encrypt")
}

// TestRenderReplySecurity 验证安全模式使用推送中的 timestamp、nonce 签名
func TestRenderReplySecurity(t *testing.T) {
	ctrl := gomock.NewController(t)
	crypto := mock_mp.NewMockCrypto(ctrl)
	gomock.InOrder(
		crypto.EXPECT().Encrypt(gomock.Any()).Return("CIPHER", nil),
		crypto.EXPECT().Signature(sampleTimestamp, sampleNonce, "CIPHER").Return("SIG"),
	)

	svc := mp.NewService(securityConfig(), crypto, sampleAppID, discardLogger())
	out, err := svc.RenderReply(context.Background(), sampleQuery(), mp.TextReply{Content: "hi"}, "gh_account", "oUser")
	require.NoError(t, err)
	assert.Contains(t, out, "<Encrypt><![CDATA[CIPHER]]></Encrypt>")
	assert.Contains(t, out, "<MsgSignature><![CDATA[SIG]]></MsgSignature>")
	assert.Contains(t, out, "<TimeStamp>"+sampleTimestamp+"</TimeStamp>")
	assert.Contains(t, out, "<Nonce><![CDATA["+sampleNonce+"]]></Nonce>")
}

// TestRenderReplySecurityErrors 验证安全模式回复的错误路径
func TestRenderReplySecurityErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	crypto := mock_mp.NewMockCrypto(ctrl)
	svc := mp.NewService(securityConfig(), crypto, sampleAppID, discardLogger())

	q := sampleQuery()
	q.Nonce = ""
	_, err := svc.RenderReply(context.Background(), q, mp.TextReply{Content: "hi"}, "gh", "o")
	assert.ErrorIs(t, err, mp.ErrInvalidParams)

	_, err = svc.RenderReply(context.Background(), sampleQuery(), mp.UnknownReply{}, "gh", "o")
	assert.ErrorIs(t, err, mp.ErrUnsupportedReply)

	crypto.EXPECT().Encrypt(gomock.Any()).Return("", &mp.EncryptError{Reason: "generate random bytes"})
	_, err = svc.RenderReply(context.Background(), sampleQuery(), mp.TextReply{Content: "hi"}, "gh", "o")
	var encErr *mp.EncryptError
	assert.ErrorAs(t, err, &encErr)
}

// TestSecurityRoundTrip 验证真实加解密下平台可验签并解密回复
func TestSecurityRoundTrip(t *testing.T) {
	crypto, err := mp.NewCrypto(sampleToken, sampleAESKey, sampleAppID)
	require.NoError(t, err)
	svc := mp.NewService(securityConfig(), crypto, sampleAppID, discardLogger())

	out, err := svc.RenderReply(context.Background(), sampleQuery(), mp.TextReply{Content: "pong"}, "gh_account", "oUser")
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(out))
	field := func(path string) string {
		el := doc.FindElement(path)
		require.NotNil(t, el, path)
		return el.Text()
	}
	encrypt := field("/xml/Encrypt")
	assert.True(t, mp.VerifySignature(field("/xml/MsgSignature"), sampleToken, field("/xml/TimeStamp"), field("/xml/Nonce"), encrypt))

	content, appID, err := crypto.Decrypt(encrypt)
	require.NoError(t, err)
	assert.Equal(t, sampleAppID, appID)
	assert.Contains(t, content, "<Content><![CDATA[pong]]></Content>")
	assert.Contains(t, content, "<ToUserName><![CDATA[oUser]]></ToUserName>")
}
