package responder

import (
	"context"
	"fmt"

	"go-wxmp-svc/internal/mp"
)

// Service 业务回复接口，返回 nil 表示不回复（平台收到 "success"）
//
//go:generate mockgen -destination=mock_responder/mock_responder.go -package=mock_responder . Service
type Service interface {
	Respond(ctx context.Context, ev *mp.ReceivedEvent) (mp.Reply, error)
}

// WebhookRequest 转发给上游的事件摘要
type WebhookRequest struct {
	From       string `json:"from"`
	To         string `json:"to"`
	CreateTime uint64 `json:"create_time"`
	MsgType    string `json:"msg_type"`
	Event      string `json:"event,omitempty"`
	EventKey   string `json:"event_key,omitempty"`
	Content    string `json:"content,omitempty"`
	MediaID    string `json:"media_id,omitempty"`
	Source     string `json:"source"` // "wxmp"
}

// WebhookResponse 上游返回的回复，Type 为空表示不回复
type WebhookResponse struct {
	Type         string           `json:"type"`
	Content      string           `json:"content,omitempty"`
	MediaID      string           `json:"media_id,omitempty"`
	Title        string           `json:"title,omitempty"`
	Description  string           `json:"description,omitempty"`
	MusicURL     string           `json:"music_url,omitempty"`
	HQMusicURL   string           `json:"hq_music_url,omitempty"`
	ThumbMediaID string           `json:"thumb_media_id,omitempty"`
	Articles     []WebhookArticle `json:"articles,omitempty"`
}

type WebhookArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PicURL      string `json:"pic_url"`
	URL         string `json:"url"`
}

// NewWebhookRequest 从推送事件提取摘要
func NewWebhookRequest(ev *mp.ReceivedEvent) WebhookRequest {
	req := WebhookRequest{
		From:       ev.From,
		To:         ev.To,
		CreateTime: ev.CreateTime,
		MsgType:    ev.MsgType,
		Source:     "wxmp",
	}

	switch m := ev.Body.(type) {
	case mp.TextMessage:
		req.Content = m.Content
	case mp.ImageMessage:
		req.MediaID = m.MediaID
	case mp.VoiceMessage:
		req.MediaID = m.MediaID
		if m.Recognition != nil {
			req.Content = *m.Recognition
		}
	case mp.VideoMessage:
		req.MediaID = m.MediaID
	case mp.ShortVideoMessage:
		req.MediaID = m.MediaID
	case mp.LocationMessage:
		req.Content = m.Label
	case mp.LinkMessage:
		req.Content = m.URL
	case mp.EventMessage:
		req.Event = m.EventType()
		req.EventKey = eventKey(m)
	}
	return req
}

// eventKey 菜单与扫码类事件携带的 EventKey
func eventKey(ev mp.EventMessage) string {
	switch e := ev.(type) {
	case mp.SubscribeScanEvent:
		return e.EventKey
	case mp.ScanEvent:
		return e.EventKey
	case mp.ClickEvent:
		return e.EventKey
	case mp.ViewEvent:
		return e.EventKey
	case mp.ViewMiniProgramEvent:
		return e.EventKey
	case mp.ScanCodePushEvent:
		return e.EventKey
	case mp.ScanCodeWaitMsgEvent:
		return e.EventKey
	case mp.PicSysPhotoEvent:
		return e.EventKey
	case mp.PicPhotoOrAlbumEvent:
		return e.EventKey
	case mp.PicWeixinEvent:
		return e.EventKey
	case mp.LocationSelectEvent:
		return e.EventKey
	}
	return ""
}

// Reply 转换为被动回复
func (r WebhookResponse) Reply() (mp.Reply, error) {
	switch r.Type {
	case "":
		return nil, nil
	case mp.MsgTypeText:
		return mp.TextReply{Content: r.Content}, nil
	case mp.MsgTypeImage:
		return mp.ImageReply{MediaID: r.MediaID}, nil
	case mp.MsgTypeVoice:
		return mp.VoiceReply{MediaID: r.MediaID}, nil
	case mp.MsgTypeVideo:
		return mp.VideoReply{MediaID: r.MediaID, Title: r.Title, Description: r.Description}, nil
	case mp.MsgTypeMusic:
		return mp.MusicReply{
			ThumbMediaID: r.ThumbMediaID,
			Title:        r.Title,
			Description:  r.Description,
			MusicURL:     r.MusicURL,
			HQMusicURL:   r.HQMusicURL,
		}, nil
	case mp.MsgTypeNews:
		articles := make([]mp.Article, 0, len(r.Articles))
		for _, a := range r.Articles {
			articles = append(articles, mp.Article{
				Title:       a.Title,
				Description: a.Description,
				PicURL:      a.PicURL,
				URL:         a.URL,
			})
		}
		return mp.NewsReply{Articles: articles}, nil
	default:
		return nil, fmt.Errorf("%w: type %q", mp.ErrUnsupportedReply, r.Type)
	}
}
