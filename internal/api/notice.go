package api

import (
	"context"
	"time"

	"github.com/kirychukyurii/dr-dashboard/internal/cache"
)

const noticeKey = "operator:notice"

// NoticeBoard keeps the latest operator notification until the next page render
type NoticeBoard struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewNoticeBoard creates a notice board whose notices expire after ttl if nobody looks at them
func NewNoticeBoard(c cache.Cache, ttl time.Duration) *NoticeBoard {
	return &NoticeBoard{cache: c, ttl: ttl}
}

// Notify stores message, replacing any unseen notice
func (n *NoticeBoard) Notify(_ context.Context, message string) {
	n.cache.Set(noticeKey, message, n.ttl)
}

// Pop returns the pending notice and clears it
func (n *NoticeBoard) Pop() string {
	v, ok := n.cache.Pop(noticeKey)
	if !ok {
		return ""
	}
	message, _ := v.(string)
	return message
}
