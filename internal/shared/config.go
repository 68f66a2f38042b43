package shared

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"go-wxmp-svc/internal/mp"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	WeChat   WeChatConfig   `yaml:"wechat"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// WeChatConfig 公众号配置
type WeChatConfig struct {
	AppID          string `yaml:"app_id"`
	Token          string `yaml:"token"`
	EncodingAESKey string `yaml:"encoding_aes_key"`
	Mode           string `yaml:"mode"` // plain | compat | security
}

// UpstreamConfig 业务回复服务配置，BaseURL 为空时使用内置回声回复
type UpstreamConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Retry   int           `yaml:"retry"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var (
	alphanumericRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	appIDRegex        = regexp.MustCompile(`^wx[a-zA-Z0-9]+$`)
)

// LoadConfig 从 YAML 文件加载并验证配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig 解析并验证 YAML 配置
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ServerConfig 生成消息推送协议层使用的只读配置，调用前配置须已通过校验
func (c WeChatConfig) ServerConfig() mp.ServerConfig {
	var mode mp.EncodingMode
	switch strings.ToLower(c.Mode) {
	case "compat":
		mode = mp.CompatMode(c.EncodingAESKey)
	case "security":
		mode = mp.SecurityMode(c.EncodingAESKey)
	default:
		mode = mp.PlainMode()
	}
	return mp.ServerConfig{Token: c.Token, Mode: mode}
}

func (c *Config) validate() error {
	// server.addr
	if err := validateAddr(c.Server.Addr); err != nil {
		return fmt.Errorf("server.addr: %w", err)
	}

	// wechat.app_id
	if c.WeChat.AppID == "" {
		return fmt.Errorf("wechat.app_id: must not be empty")
	}
	if !appIDRegex.MatchString(c.WeChat.AppID) {
		return fmt.Errorf("wechat.app_id: must start with \"wx\" followed by alphanumeric characters")
	}

	// wechat.token
	if c.WeChat.Token == "" {
		return fmt.Errorf("wechat.token: must not be empty")
	}
	if len(c.WeChat.Token) > 32 {
		return fmt.Errorf("wechat.token: must be at most 32 characters, got %d", len(c.WeChat.Token))
	}
	if !alphanumericRegex.MatchString(c.WeChat.Token) {
		return fmt.Errorf("wechat.token: must contain only alphanumeric characters")
	}

	// wechat.mode
	c.WeChat.Mode = strings.ToLower(c.WeChat.Mode)
	switch c.WeChat.Mode {
	case "", "plain":
		c.WeChat.Mode = "plain"
	case "compat", "security":
		// wechat.encoding_aes_key
		if len(c.WeChat.EncodingAESKey) != 43 {
			return fmt.Errorf("wechat.encoding_aes_key: must be exactly 43 characters, got %d", len(c.WeChat.EncodingAESKey))
		}
		if !alphanumericRegex.MatchString(c.WeChat.EncodingAESKey) {
			return fmt.Errorf("wechat.encoding_aes_key: must contain only alphanumeric characters")
		}
	default:
		return fmt.Errorf("wechat.mode: must be one of plain, compat, security, got %q", c.WeChat.Mode)
	}

	// upstream.base_url
	if c.Upstream.BaseURL != "" {
		if err := validateBaseURL(c.Upstream.BaseURL); err != nil {
			return fmt.Errorf("upstream.base_url: %w", err)
		}
	}
	if c.Upstream.Retry < 0 {
		return fmt.Errorf("upstream.retry: must not be negative, got %d", c.Upstream.Retry)
	}

	return nil
}

func validateAddr(addr string) error {
	if addr == "" {
		return fmt.Errorf("must not be empty")
	}
	_, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address format: %w", err)
	}
	return nil
}

func validateBaseURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must include scheme and host")
	}
	return nil
}
