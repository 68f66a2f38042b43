package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go-wxmp-svc/internal/adapter/client"
	handler "go-wxmp-svc/internal/adapter/http"
	"go-wxmp-svc/internal/mp"
	"go-wxmp-svc/internal/responder"
	"go-wxmp-svc/internal/shared"
)

// App 应用程序，组装所有组件
type App struct {
	server *http.Server
	logger *slog.Logger
}

// NewApp 初始化应用：slog logger → Crypto → Responder → MP Service → HTTP Handler → 路由
func NewApp(cfg *shared.Config) (*App, error) {
	logger := initLogger(cfg.Log)

	mux, err := newMux(cfg, logger)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &App{server: server, logger: logger}, nil
}

func newMux(cfg *shared.Config, logger *slog.Logger) (*http.ServeMux, error) {
	serverCfg := cfg.WeChat.ServerConfig()

	var crypto mp.Crypto
	if serverCfg.Mode.Encrypted() {
		c, err := mp.NewCrypto(serverCfg.Token, serverCfg.Mode.AESKey(), cfg.WeChat.AppID)
		if err != nil {
			return nil, fmt.Errorf("init crypto: %w", err)
		}
		crypto = c
	}

	var rsp responder.Service
	if cfg.Upstream.BaseURL != "" {
		rsp = client.NewWebhookClient(cfg.Upstream, logger)
	} else {
		rsp = responder.NewEcho()
	}

	mpSvc := mp.NewService(serverCfg, crypto, cfg.WeChat.AppID, logger)

	callbackHandler := handler.NewCallbackHandler(mpSvc, rsp, logger)
	healthHandler := handler.NewHealthHandler(serverCfg.Mode.Kind())

	mux := http.NewServeMux()
	mux.Handle("/callback", callbackHandler)
	mux.Handle("/health", healthHandler)

	logger.Info("callback configured",
		"app_id", cfg.WeChat.AppID,
		"mode", serverCfg.Mode.Kind().String(),
		"upstream", cfg.Upstream.BaseURL != "",
	)
	return mux, nil
}

// shutdownTimeout 退出时等待处理中请求的最长时间
const shutdownTimeout = 5 * time.Second

// Handler 返回已注册的路由
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run 启动 HTTP 服务器，ctx 取消后优雅退出
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", "addr", a.server.Addr)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// initLogger 根据配置初始化 slog logger
func initLogger(cfg shared.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(h)
}
