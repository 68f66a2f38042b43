package handler

import (
	"encoding/json"
	"net/http"

	"go-wxmp-svc/internal/mp"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	mode mp.ModeKind
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(mode mp.ModeKind) *HealthHandler {
	return &HealthHandler{mode: mode}
}

type healthResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}

// ServeHTTP 返回 HTTP 200 与当前加解密模式
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(healthResponse{Status: "ok", Mode: h.mode.String()})
}
