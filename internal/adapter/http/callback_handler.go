package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"go-wxmp-svc/internal/mp"
	"go-wxmp-svc/internal/responder"
)

// maxBodySize 推送消息体上限
const maxBodySize = 1 << 20

// CallbackHandler 公众号消息推送 HTTP 处理器
type CallbackHandler struct {
	svc       mp.Service
	responder responder.Service
	logger    *slog.Logger
}

// NewCallbackHandler 创建回调处理器实例
func NewCallbackHandler(svc mp.Service, rsp responder.Service, logger *slog.Logger) *CallbackHandler {
	return &CallbackHandler{svc: svc, responder: rsp, logger: logger}
}

// ServeHTTP 统一处理 GET（URL 验证）和 POST（消息推送）请求
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("request_id", uuid.NewString())

	switch r.Method {
	case http.MethodGet:
		h.handleVerifyURL(w, r, logger)
	case http.MethodPost:
		h.handleCallback(w, r, logger)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleVerifyURL 处理 GET 请求的 URL 验证
func (h *CallbackHandler) handleVerifyURL(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	q := mp.QueryFromValues(r.URL.Query())

	echostr, err := h.svc.VerifyURL(r.Context(), q)
	if err != nil {
		h.writeError(w, logger, q, "URL verification failed", err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(echostr))
}

// handleCallback 处理 POST 请求的消息推送
// 1. 读取消息体 2. 验签解密解析 3. 业务回复 4. 渲染回复，无回复时返回 "success"
func (h *CallbackHandler) handleCallback(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		logger.Error("failed to read request body", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer r.Body.Close()

	q := mp.QueryFromValues(r.URL.Query())

	ev, err := h.svc.ParseMessage(r.Context(), q, body)
	if err != nil {
		h.writeError(w, logger, q, "callback processing failed", err)
		return
	}
	logger.Info("message received",
		"from", ev.From,
		"msg_type", ev.MsgType,
	)

	reply, err := h.responder.Respond(r.Context(), ev)
	if err != nil {
		// 业务失败按无回复处理
		logger.Error("responder failed", "error", err)
		reply = nil
	}
	if reply == nil {
		writeSuccess(w)
		return
	}

	// 回复方向与推送相反：公众号 → 用户
	out, err := h.svc.RenderReply(r.Context(), q, reply, ev.To, ev.From)
	if err != nil {
		logger.Error("failed to render reply", "error", err)
		writeSuccess(w)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}

// writeError 按错误类别映射 HTTP 状态码
func (h *CallbackHandler) writeError(w http.ResponseWriter, logger *slog.Logger, q mp.CallbackQuery, msg string, err error) {
	switch {
	case errors.Is(err, mp.ErrInvalidSignature), errors.Is(err, mp.ErrInvalidAppID):
		logger.Warn(msg,
			"timestamp", q.Timestamp,
			"nonce", q.Nonce,
			"error", err,
		)
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, mp.ErrXMLParse), errors.Is(err, mp.ErrInvalidParams),
		errors.Is(err, mp.ErrDecode), errors.As(err, new(*mp.DecryptError)):
		// 同样的输入重试也会失败
		logger.Warn(msg, "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
	default:
		logger.Error(msg, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeSuccess(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("success"))
}
