package mp

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// maxNewsArticles 图文回复最多 10 条
const maxNewsArticles = 10

// Reply 被动回复消息，由业务方构造，渲染一次后丢弃
type Reply interface {
	msgType() string
}

// TextReply 文本回复
type TextReply struct {
	Content string
}

// ImageReply 图片回复
type ImageReply struct {
	MediaID string
}

// VoiceReply 语音回复
type VoiceReply struct {
	MediaID string
}

// VideoReply 视频回复，Title/Description 为空时不输出
type VideoReply struct {
	MediaID     string
	Title       string
	Description string
}

// MusicReply 音乐回复，除 ThumbMediaID 外均可为空
type MusicReply struct {
	ThumbMediaID string
	Title        string
	Description  string
	MusicURL     string
	HQMusicURL   string
}

// NewsReply 图文回复
type NewsReply struct {
	Articles []Article
}

type Article struct {
	Title       string
	Description string
	PicURL      string
	URL         string
}

// UnknownReply 占位类型，渲染时返回 ErrUnsupportedReply
type UnknownReply struct{}

func (TextReply) msgType() string    { return MsgTypeText }
func (ImageReply) msgType() string   { return MsgTypeImage }
func (VoiceReply) msgType() string   { return MsgTypeVoice }
func (VideoReply) msgType() string   { return MsgTypeVideo }
func (MusicReply) msgType() string   { return MsgTypeMusic }
func (NewsReply) msgType() string    { return MsgTypeNews }
func (UnknownReply) msgType() string { return "" }

// RenderReply 渲染被动回复 XML，from 为公众号，to 为用户 openid
func RenderReply(reply Reply, from, to string) (string, error) {
	return renderReplyAt(reply, from, to, time.Now())
}

func renderReplyAt(reply Reply, from, to string, now time.Time) (string, error) {
	if reply == nil {
		return "", fmt.Errorf("%w: nil reply", ErrUnsupportedReply)
	}
	if _, ok := reply.(UnknownReply); ok {
		return "", ErrUnsupportedReply
	}

	doc := etree.NewDocument()
	root := doc.CreateElement("xml")
	cdataElement(root, "ToUserName", to)
	cdataElement(root, "FromUserName", from)
	root.CreateElement("CreateTime").SetText(strconv.FormatInt(now.Unix(), 10))
	cdataElement(root, "MsgType", reply.msgType())

	switch r := reply.(type) {
	case TextReply:
		cdataElement(root, "Content", r.Content)
	case ImageReply:
		cdataElement(root.CreateElement("Image"), "MediaId", r.MediaID)
	case VoiceReply:
		cdataElement(root.CreateElement("Voice"), "MediaId", r.MediaID)
	case VideoReply:
		video := root.CreateElement("Video")
		cdataElement(video, "MediaId", r.MediaID)
		optionalCData(video, "Title", r.Title)
		optionalCData(video, "Description", r.Description)
	case MusicReply:
		music := root.CreateElement("Music")
		optionalCData(music, "Title", r.Title)
		optionalCData(music, "Description", r.Description)
		optionalCData(music, "MusicUrl", r.MusicURL)
		optionalCData(music, "HQMusicUrl", r.HQMusicURL)
		cdataElement(music, "ThumbMediaId", r.ThumbMediaID)
	case NewsReply:
		if len(r.Articles) == 0 || len(r.Articles) > maxNewsArticles {
			return "", invalidParams("news reply needs 1 to %d articles, got %d", maxNewsArticles, len(r.Articles))
		}
		root.CreateElement("ArticleCount").SetText(strconv.Itoa(len(r.Articles)))
		articles := root.CreateElement("Articles")
		for _, a := range r.Articles {
			item := articles.CreateElement("item")
			cdataElement(item, "Title", a.Title)
			cdataElement(item, "Description", a.Description)
			cdataElement(item, "PicUrl", a.PicURL)
			cdataElement(item, "Url", a.URL)
		}
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedReply, reply)
	}

	for _, el := range root.FindElements("//*") {
		if r, ok := invalidXMLChar(el.Text()); ok {
			return "", invalidParams("tag `%s` contains character %U not allowed in XML", el.Tag, r)
		}
	}

	return doc.WriteToString()
}

// cdataElement 以 CDATA 写入文本，不做实体转义
// 文本中的 "]]>" 拆到两个 CDATA 段中
func cdataElement(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement(tag)
	el.CreateCData(strings.ReplaceAll(value, "]]>", "]]]]><![CDATA[>"))
	return el
}

func optionalCData(parent *etree.Element, tag, value string) {
	if value != "" {
		cdataElement(parent, tag, value)
	}
}
