package mp

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

type messageParser func(root *etree.Element) (ReceivedMessage, error)

type eventParser func(root *etree.Element) (EventMessage, error)

// messageParsers MsgType → 解析函数，未登记的类型解析为 UnhandledMessage
var messageParsers = map[string]messageParser{
	MsgTypeText:       parseText,
	MsgTypeImage:      parseImage,
	MsgTypeVoice:      parseVoice,
	MsgTypeVideo:      parseVideo,
	MsgTypeShortVideo: parseShortVideo,
	MsgTypeLocation:   parseLocation,
	MsgTypeLink:       parseLink,
	MsgTypeEvent:      parseEvent,
}

// eventParsers Event → 解析函数，未登记的事件解析为 UnhandledEvent
var eventParsers = map[string]eventParser{
	EventSubscribe:             parseSubscribe,
	EventUnsubscribe:           parseUnsubscribe,
	EventScan:                  parseScan,
	EventLocation:              parseLocationEvent,
	EventClick:                 parseClick,
	EventView:                  parseView,
	EventViewMiniProgram:       parseViewMiniProgram,
	EventScanCodePush:          parseScanCodePush,
	EventScanCodeWaitMsg:       parseScanCodeWaitMsg,
	EventPicSysPhoto:           parsePicSysPhoto,
	EventPicPhotoOrAlbum:       parsePicPhotoOrAlbum,
	EventPicWeixin:             parsePicWeixin,
	EventLocationSelect:        parseLocationSelect,
	EventTemplateSendJobFinish: parseTemplateSendJobFinish,
	EventMassSendJobFinish:     parseMassSendJobFinish,
	EventGuideInviteResult:     parseGuideInviteResult,
	EventGuideQrcodeScan:       parseGuideQrcodeScan,
	EventPublishJobFinish:      parsePublishJobFinish,
}

// ParseReceivedEvent 解析明文推送 XML
// 1. 解析 XML 2. 读取公共字段 3. 按 MsgType 分发 4. event 再按 Event 分发
func ParseReceivedEvent(data []byte) (*ReceivedEvent, error) {
	root, err := parseXML(data)
	if err != nil {
		return nil, err
	}

	msgType, err := text(root, "MsgType")
	if err != nil {
		return nil, err
	}
	from, err := text(root, "FromUserName")
	if err != nil {
		return nil, err
	}
	to, err := text(root, "ToUserName")
	if err != nil {
		return nil, err
	}
	createTime, err := uintField(root, "CreateTime", 64)
	if err != nil {
		return nil, err
	}

	var body ReceivedMessage
	if parse, ok := messageParsers[msgType]; ok {
		body, err = parse(root)
		if err != nil {
			return nil, fmt.Errorf("parse %s message: %w", msgType, err)
		}
	} else {
		body = UnhandledMessage{MsgType: msgType}
	}

	return &ReceivedEvent{
		From:       from,
		To:         to,
		CreateTime: createTime,
		MsgType:    msgType,
		Body:       body,
	}, nil
}

func parseXML(data []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrXMLParse, err)
	}
	// 文档只允许一个根元素，根元素之外只能有空白
	var root *etree.Element
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			if root != nil {
				return nil, fmt.Errorf("%w: multiple root elements", ErrXMLParse)
			}
			root = t
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return nil, fmt.Errorf("%w: text outside root element", ErrXMLParse)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrXMLParse)
	}
	return root, nil
}

func parseText(root *etree.Element) (ReceivedMessage, error) {
	content, err := text(root, "Content")
	if err != nil {
		return nil, err
	}
	msgID, err := uintField(root, "MsgId", 64)
	if err != nil {
		return nil, err
	}
	return TextMessage{MsgID: msgID, Content: content}, nil
}

func parseImage(root *etree.Element) (ReceivedMessage, error) {
	msgID, err := uintField(root, "MsgId", 64)
	if err != nil {
		return nil, err
	}
	picURL, err := text(root, "PicUrl")
	if err != nil {
		return nil, err
	}
	mediaID, err := text(root, "MediaId")
	if err != nil {
		return nil, err
	}
	return ImageMessage{MsgID: msgID, PicURL: picURL, MediaID: mediaID}, nil
}

func parseVoice(root *etree.Element) (ReceivedMessage, error) {
	msgID, err := uintField(root, "MsgId", 64)
	if err != nil {
		return nil, err
	}
	mediaID, err := text(root, "MediaId")
	if err != nil {
		return nil, err
	}
	format, err := text(root, "Format")
	if err != nil {
		return nil, err
	}
	msg := VoiceMessage{MsgID: msgID, MediaID: mediaID, Format: format}
	if recognition, ok := optionalText(root, "Recognition"); ok {
		msg.Recognition = &recognition
	}
	return msg, nil
}

func readVideo(root *etree.Element) (VideoMessage, error) {
	msgID, err := uintField(root, "MsgId", 64)
	if err != nil {
		return VideoMessage{}, err
	}
	mediaID, err := text(root, "MediaId")
	if err != nil {
		return VideoMessage{}, err
	}
	thumbMediaID, err := text(root, "ThumbMediaId")
	if err != nil {
		return VideoMessage{}, err
	}
	return VideoMessage{MsgID: msgID, MediaID: mediaID, ThumbMediaID: thumbMediaID}, nil
}

func parseVideo(root *etree.Element) (ReceivedMessage, error) {
	v, err := readVideo(root)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func parseShortVideo(root *etree.Element) (ReceivedMessage, error) {
	v, err := readVideo(root)
	if err != nil {
		return nil, err
	}
	return ShortVideoMessage{VideoMessage: v}, nil
}

func parseLocation(root *etree.Element) (ReceivedMessage, error) {
	msgID, err := uintField(root, "MsgId", 64)
	if err != nil {
		return nil, err
	}
	x, err := floatField(root, "Location_X")
	if err != nil {
		return nil, err
	}
	y, err := floatField(root, "Location_Y")
	if err != nil {
		return nil, err
	}
	scale, err := floatField(root, "Scale")
	if err != nil {
		return nil, err
	}
	label, err := text(root, "Label")
	if err != nil {
		return nil, err
	}
	return LocationMessage{MsgID: msgID, LocationX: x, LocationY: y, Scale: scale, Label: label}, nil
}

func parseLink(root *etree.Element) (ReceivedMessage, error) {
	msgID, err := uintField(root, "MsgId", 64)
	if err != nil {
		return nil, err
	}
	title, err := text(root, "Title")
	if err != nil {
		return nil, err
	}
	description, err := text(root, "Description")
	if err != nil {
		return nil, err
	}
	url, err := text(root, "Url")
	if err != nil {
		return nil, err
	}
	return LinkMessage{MsgID: msgID, Title: title, Description: description, URL: url}, nil
}

func parseEvent(root *etree.Element) (ReceivedMessage, error) {
	event, err := text(root, "Event")
	if err != nil {
		return nil, err
	}
	parse, ok := eventParsers[event]
	if !ok {
		return UnhandledEvent{Event: event}, nil
	}
	msg, err := parse(root)
	if err != nil {
		return nil, fmt.Errorf("parse %s event: %w", event, err)
	}
	return msg, nil
}

// parseSubscribe EventKey 非空时为扫码关注，此时 Ticket 必填
func parseSubscribe(root *etree.Element) (EventMessage, error) {
	eventKey, ok := optionalText(root, "EventKey")
	if !ok {
		return SubscribeEvent{}, nil
	}
	ticket, err := text(root, "Ticket")
	if err != nil {
		return nil, err
	}
	return SubscribeScanEvent{ScanEvent{EventKey: eventKey, Ticket: ticket}}, nil
}

func parseUnsubscribe(*etree.Element) (EventMessage, error) {
	return UnsubscribeEvent{}, nil
}

func readScan(root *etree.Element) (ScanEvent, error) {
	eventKey, err := text(root, "EventKey")
	if err != nil {
		return ScanEvent{}, err
	}
	ticket, err := text(root, "Ticket")
	if err != nil {
		return ScanEvent{}, err
	}
	return ScanEvent{EventKey: eventKey, Ticket: ticket}, nil
}

func parseScan(root *etree.Element) (EventMessage, error) {
	e, err := readScan(root)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func parseLocationEvent(root *etree.Element) (EventMessage, error) {
	latitude, err := floatField(root, "Latitude")
	if err != nil {
		return nil, err
	}
	longitude, err := floatField(root, "Longitude")
	if err != nil {
		return nil, err
	}
	precision, err := floatField(root, "Precision")
	if err != nil {
		return nil, err
	}
	return LocationEvent{Latitude: latitude, Longitude: longitude, Precision: precision}, nil
}

func parseClick(root *etree.Element) (EventMessage, error) {
	eventKey, err := text(root, "EventKey")
	if err != nil {
		return nil, err
	}
	return ClickEvent{EventKey: eventKey}, nil
}

func readView(root *etree.Element) (ViewEvent, error) {
	eventKey, err := text(root, "EventKey")
	if err != nil {
		return ViewEvent{}, err
	}
	e := ViewEvent{EventKey: eventKey}
	if menuID, ok := optionalText(root, "MenuId"); ok {
		e.MenuID = &menuID
	}
	return e, nil
}

func parseView(root *etree.Element) (EventMessage, error) {
	e, err := readView(root)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func parseViewMiniProgram(root *etree.Element) (EventMessage, error) {
	e, err := readView(root)
	if err != nil {
		return nil, err
	}
	return ViewMiniProgramEvent{ViewEvent: e}, nil
}

func readMenuScan(root *etree.Element) (MenuScan, error) {
	eventKey, err := text(root, "EventKey")
	if err != nil {
		return MenuScan{}, err
	}
	info, err := findTag(root, "ScanCodeInfo")
	if err != nil {
		return MenuScan{}, err
	}
	scanType, err := text(info, "ScanType")
	if err != nil {
		return MenuScan{}, err
	}
	scanResult, err := text(info, "ScanResult")
	if err != nil {
		return MenuScan{}, err
	}
	return MenuScan{EventKey: eventKey, ScanType: scanType, ScanResult: scanResult}, nil
}

func parseScanCodePush(root *etree.Element) (EventMessage, error) {
	s, err := readMenuScan(root)
	if err != nil {
		return nil, err
	}
	return ScanCodePushEvent{MenuScan: s}, nil
}

func parseScanCodeWaitMsg(root *etree.Element) (EventMessage, error) {
	s, err := readMenuScan(root)
	if err != nil {
		return nil, err
	}
	return ScanCodeWaitMsgEvent{MenuScan: s}, nil
}

func readSendPics(root *etree.Element) (SendPics, error) {
	eventKey, err := text(root, "EventKey")
	if err != nil {
		return SendPics{}, err
	}
	info, err := findTag(root, "SendPicsInfo")
	if err != nil {
		return SendPics{}, err
	}
	count, err := intField(info, "Count", 0)
	if err != nil {
		return SendPics{}, err
	}
	picList, err := findTag(info, "PicList")
	if err != nil {
		return SendPics{}, err
	}
	var sums []string
	for _, el := range descendants(picList, "PicMd5Sum") {
		sum, err := elementText(el)
		if err != nil {
			return SendPics{}, err
		}
		sums = append(sums, sum)
	}
	return SendPics{EventKey: eventKey, Count: int(count), PicMD5Sums: sums}, nil
}

func parsePicSysPhoto(root *etree.Element) (EventMessage, error) {
	p, err := readSendPics(root)
	if err != nil {
		return nil, err
	}
	return PicSysPhotoEvent{SendPics: p}, nil
}

func parsePicPhotoOrAlbum(root *etree.Element) (EventMessage, error) {
	p, err := readSendPics(root)
	if err != nil {
		return nil, err
	}
	return PicPhotoOrAlbumEvent{SendPics: p}, nil
}

func parsePicWeixin(root *etree.Element) (EventMessage, error) {
	p, err := readSendPics(root)
	if err != nil {
		return nil, err
	}
	return PicWeixinEvent{SendPics: p}, nil
}

func parseLocationSelect(root *etree.Element) (EventMessage, error) {
	eventKey, err := text(root, "EventKey")
	if err != nil {
		return nil, err
	}
	info, err := findTag(root, "SendLocationInfo")
	if err != nil {
		return nil, err
	}
	x, err := floatField(info, "Location_X")
	if err != nil {
		return nil, err
	}
	y, err := floatField(info, "Location_Y")
	if err != nil {
		return nil, err
	}
	scale, err := floatField(info, "Scale")
	if err != nil {
		return nil, err
	}
	label, err := text(info, "Label")
	if err != nil {
		return nil, err
	}
	e := LocationSelectEvent{EventKey: eventKey, LocationX: x, LocationY: y, Scale: scale, Label: label}
	if poiname, ok := optionalText(info, "Poiname"); ok {
		e.Poiname = &poiname
	}
	return e, nil
}

// jobMsgIDTag 群发与模板消息事件的消息 ID 标签，平台实际下发 MsgID，兼容 MsgId
func jobMsgIDTag(root *etree.Element) string {
	if descendant(root, "MsgID") != nil {
		return "MsgID"
	}
	return "MsgId"
}

func parseTemplateSendJobFinish(root *etree.Element) (EventMessage, error) {
	msgID, err := uintField(root, jobMsgIDTag(root), 64)
	if err != nil {
		return nil, err
	}
	status, err := text(root, "Status")
	if err != nil {
		return nil, err
	}
	return TemplateSendJobFinishEvent{MsgID: msgID, Status: status}, nil
}

func parseMassSendJobFinish(root *etree.Element) (EventMessage, error) {
	var (
		e   MassSendJobFinishEvent
		err error
	)
	if e.MsgID, err = uintField(root, jobMsgIDTag(root), 64); err != nil {
		return nil, err
	}
	if e.Status, err = text(root, "Status"); err != nil {
		return nil, err
	}
	if e.TotalCount, err = uintField(root, "TotalCount", 64); err != nil {
		return nil, err
	}
	if e.FilterCount, err = uintField(root, "FilterCount", 64); err != nil {
		return nil, err
	}
	if e.SentCount, err = uintField(root, "SentCount", 64); err != nil {
		return nil, err
	}
	if e.ErrorCount, err = uintField(root, "ErrorCount", 64); err != nil {
		return nil, err
	}
	if e.CopyrightCheckResult, err = readCopyrightCheckResult(root); err != nil {
		return nil, err
	}
	return e, nil
}

func readCopyrightCheckResult(root *etree.Element) (CopyrightCheckResult, error) {
	node, err := findTag(root, "CopyrightCheckResult")
	if err != nil {
		return CopyrightCheckResult{}, err
	}
	count, err := intField(node, "Count", 0)
	if err != nil {
		return CopyrightCheckResult{}, err
	}
	checkState, err := intField(node, "CheckState", 0)
	if err != nil {
		return CopyrightCheckResult{}, err
	}
	resultList, err := findTag(node, "ResultList")
	if err != nil {
		return CopyrightCheckResult{}, err
	}
	result := CopyrightCheckResult{Count: int(count), CheckState: int(checkState)}
	for _, item := range descendants(resultList, "item") {
		it, err := readCopyrightCheckResultItem(item)
		if err != nil {
			return CopyrightCheckResult{}, err
		}
		result.ResultList = append(result.ResultList, it)
	}
	return result, nil
}

func readCopyrightCheckResultItem(item *etree.Element) (CopyrightCheckResultItem, error) {
	var it CopyrightCheckResultItem
	fields := []struct {
		tag string
		dst *int
	}{
		{"ArticleIdx", &it.ArticleIdx},
		{"UserDeclareState", &it.UserDeclareState},
		{"AuditState", &it.AuditState},
		{"OriginalArticleType", &it.OriginalArticleType},
		{"CanReprint", &it.CanReprint},
		{"NeedReplaceContent", &it.NeedReplaceContent},
		{"NeedShowReprintSource", &it.NeedShowReprintSource},
	}
	for _, f := range fields {
		v, err := intField(item, f.tag, 0)
		if err != nil {
			return CopyrightCheckResultItem{}, err
		}
		*f.dst = int(v)
	}
	url, err := text(item, "OriginalArticleUrl")
	if err != nil {
		return CopyrightCheckResultItem{}, err
	}
	it.OriginalArticleURL = url
	return it, nil
}

// guideIdentity 读取两个可选身份字段，至少要有一个
func guideIdentity(node *etree.Element, accountTag, openIDTag string) (account, openID *string, err error) {
	if v, ok := optionalText(node, accountTag); ok {
		account = &v
	}
	if v, ok := optionalText(node, openIDTag); ok {
		openID = &v
	}
	if account == nil && openID == nil {
		return nil, nil, invalidParams("%s and %s should exist at least one of them", accountTag, openIDTag)
	}
	return account, openID, nil
}

func parseGuideInviteResult(root *etree.Element) (EventMessage, error) {
	node, err := findTag(root, "GuideInviteEvent")
	if err != nil {
		return nil, err
	}
	account, openID, err := guideIdentity(node, "guide_account", "guide_openid")
	if err != nil {
		return nil, err
	}
	result, err := intField(node, "invite_result", 32)
	if err != nil {
		return nil, err
	}
	return GuideInviteResultEvent{GuideAccount: account, GuideOpenID: openID, InviteResult: int(result)}, nil
}

func parseGuideQrcodeScan(root *etree.Element) (EventMessage, error) {
	node, err := findTag(root, "GuideScanEvent")
	if err != nil {
		return nil, err
	}
	account, openID, err := guideIdentity(node, "qrcode_guide_account", "qrcode_guide_openid")
	if err != nil {
		return nil, err
	}
	action, err := intField(node, "action", 0)
	if err != nil {
		return nil, err
	}
	userOpenID, err := text(node, "openid")
	if err != nil {
		return nil, err
	}
	qrcodeInfo, err := text(node, "qrcode_info")
	if err != nil {
		return nil, err
	}
	return GuideQrcodeScanEvent{
		QrcodeGuideAccount: account,
		QrcodeGuideOpenID:  openID,
		OpenID:             userOpenID,
		Action:             int(action),
		QrcodeInfo:         qrcodeInfo,
	}, nil
}

func parsePublishJobFinish(root *etree.Element) (EventMessage, error) {
	info, err := findTag(root, "PublishEventInfo")
	if err != nil {
		return nil, err
	}
	publishID, err := text(info, "publish_id")
	if err != nil {
		return nil, err
	}
	status, err := intField(info, "publish_status", 0)
	if err != nil {
		return nil, err
	}
	e := PublishJobFinishEvent{PublishID: publishID, PublishStatus: int(status)}

	if !e.Succeeded() {
		for _, el := range descendants(info, "fail_idx") {
			idx, err := elementInt(el)
			if err != nil {
				return nil, err
			}
			e.FailIdx = append(e.FailIdx, idx)
		}
		return e, nil
	}

	if e.ArticleID, err = text(info, "article_id"); err != nil {
		return nil, err
	}
	detailNode, err := findTag(info, "article_detail")
	if err != nil {
		return nil, err
	}
	count, err := intField(detailNode, "count", 0)
	if err != nil {
		return nil, err
	}
	detail := &ArticleDetail{Count: int(count)}
	for _, item := range descendants(detailNode, "item") {
		idx, err := intField(item, "idx", 0)
		if err != nil {
			return nil, err
		}
		articleURL, err := text(item, "article_url")
		if err != nil {
			return nil, err
		}
		detail.Items = append(detail.Items, ArticleDetailItem{Idx: int(idx), ArticleURL: articleURL})
	}
	e.ArticleDetail = detail
	return e, nil
}
