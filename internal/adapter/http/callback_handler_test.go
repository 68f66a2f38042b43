package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go-wxmp-svc/internal/mp"
	"go-wxmp-svc/internal/mp/mock_mp"
	"go-wxmp-svc/internal/responder/mock_responder"
)

const callbackQuery = "/callback?signature=sig&msg_signature=msig&timestamp=1409659813&nonce=1372623149&encrypt_type=aes"

func newTestHandler(t *testing.T) (*CallbackHandler, *mock_mp.MockService, *mock_responder.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mock_mp.NewMockService(ctrl)
	rsp := mock_responder.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCallbackHandler(svc, rsp, logger), svc, rsp
}

func wantQuery() mp.CallbackQuery {
	return mp.CallbackQuery{
		Signature:    "sig",
		MsgSignature: "msig",
		Timestamp:    "1409659813",
		Nonce:        "1372623149",
		EncryptType:  "aes",
	}
}

func textEvent() *mp.ReceivedEvent {
	return &mp.ReceivedEvent{
		From:       "oUser",
		To:         "gh_account",
		CreateTime: 1348831860,
		MsgType:    mp.MsgTypeText,
		Body:       mp.TextMessage{MsgID: 1, Content: "hi"},
	}
}

// TestCallbackVerifyURL 验证 GET 请求原样返回 echostr
func TestCallbackVerifyURL(t *testing.T) {
	h, svc, _ := newTestHandler(t)
	q := mp.CallbackQuery{Signature: "sig", Timestamp: "1", Nonce: "2", Echostr: "hello"}
	svc.EXPECT().VerifyURL(gomock.Any(), q).Return("hello", nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?signature=sig&timestamp=1&nonce=2&echostr=hello", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
}

// TestCallbackVerifyURLForbidden 验证签名失败返回 403
func TestCallbackVerifyURLForbidden(t *testing.T) {
	h, svc, _ := newTestHandler(t)
	svc.EXPECT().VerifyURL(gomock.Any(), gomock.Any()).Return("", mp.ErrInvalidSignature)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?signature=bad", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// TestCallbackReply 验证 POST 请求解析、业务回复并渲染，回复方向与推送相反
func TestCallbackReply(t *testing.T) {
	h, svc, rsp := newTestHandler(t)
	ev := textEvent()
	body := "<xml><Encrypt><![CDATA[x]]></Encrypt></xml>"

	svc.EXPECT().ParseMessage(gomock.Any(), wantQuery(), []byte(body)).Return(ev, nil)
	rsp.EXPECT().Respond(gomock.Any(), ev).Return(mp.TextReply{Content: "hi"}, nil)
	svc.EXPECT().RenderReply(gomock.Any(), wantQuery(), mp.TextReply{Content: "hi"}, "gh_account", "oUser").Return("<xml>reply</xml>", nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, callbackQuery, strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<xml>reply</xml>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/xml")
}

// TestCallbackNoReply 验证无回复、业务失败或渲染失败时返回 success
func TestCallbackNoReply(t *testing.T) {
	t.Run("nil reply", func(t *testing.T) {
		h, svc, rsp := newTestHandler(t)
		svc.EXPECT().ParseMessage(gomock.Any(), gomock.Any(), gomock.Any()).Return(textEvent(), nil)
		rsp.EXPECT().Respond(gomock.Any(), gomock.Any()).Return(nil, nil)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, callbackQuery, strings.NewReader("<xml/>")))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "success", rec.Body.String())
	})

	t.Run("responder error", func(t *testing.T) {
		h, svc, rsp := newTestHandler(t)
		svc.EXPECT().ParseMessage(gomock.Any(), gomock.Any(), gomock.Any()).Return(textEvent(), nil)
		rsp.EXPECT().Respond(gomock.Any(), gomock.Any()).Return(mp.TextReply{Content: "x"}, errors.New("upstream down"))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, callbackQuery, strings.NewReader("<xml/>")))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "success", rec.Body.String())
	})

	t.Run("render error", func(t *testing.T) {
		h, svc, rsp := newTestHandler(t)
		svc.EXPECT().ParseMessage(gomock.Any(), gomock.Any(), gomock.Any()).Return(textEvent(), nil)
		rsp.EXPECT().Respond(gomock.Any(), gomock.Any()).Return(mp.UnknownReply{}, nil)
		svc.EXPECT().RenderReply(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", mp.ErrUnsupportedReply)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, callbackQuery, strings.NewReader("<xml/>")))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "success", rec.Body.String())
	})
}

// TestCallbackErrorStatus 验证错误类别到 HTTP 状态码的映射
func TestCallbackErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"signature", mp.ErrInvalidSignature, http.StatusForbidden},
		{"appid", mp.ErrInvalidAppID, http.StatusForbidden},
		{"xml", fmt.Errorf("%w: unexpected EOF", mp.ErrXMLParse), http.StatusBadRequest},
		{"field", fmt.Errorf("parse text message: %w", &mp.FieldError{Field: "Content", Kind: mp.FieldMissing}), http.StatusBadRequest},
		{"decrypt", fmt.Errorf("decrypt message: %w", &mp.DecryptError{Reason: "pkcs7 unpad"}), http.StatusBadRequest},
		{"decode", fmt.Errorf("decrypt message: %w", &mp.DecryptError{Reason: "base64", Err: mp.ErrDecode}), http.StatusBadRequest},
		{"internal", errors.New("crypto not configured"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc, _ := newTestHandler(t)
			svc.EXPECT().ParseMessage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, callbackQuery, strings.NewReader("<xml/>")))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

// TestCallbackMethodNotAllowed 验证其他方法返回 405
func TestCallbackMethodNotAllowed(t *testing.T) {
	h, _, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/callback", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// TestHealthHandler 验证健康检查返回当前模式
func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(mp.ModeSecurity).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, map[string]string{"status": "ok", "mode": "security"}, got)
}
