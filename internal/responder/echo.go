package responder

import (
	"context"

	"go-wxmp-svc/internal/mp"
)

const welcomeText = "感谢关注"

type echo struct{}

// NewEcho 回声回复：文本原样返回，关注事件回复欢迎语，其余不回复
func NewEcho() Service {
	return echo{}
}

func (echo) Respond(_ context.Context, ev *mp.ReceivedEvent) (mp.Reply, error) {
	switch m := ev.Body.(type) {
	case mp.TextMessage:
		return mp.TextReply{Content: m.Content}, nil
	case mp.SubscribeEvent, mp.SubscribeScanEvent:
		return mp.TextReply{Content: welcomeText}, nil
	}
	return nil, nil
}
