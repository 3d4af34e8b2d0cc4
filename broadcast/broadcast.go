// broadcast/broadcast.go
package broadcast

import (
	"github.com/wfunc/tictacserver/registry"
	"github.com/wfunc/tictacserver/session"
)

// 广播接口
type Broadcaster interface {
	Publish(roomCode, event string, payload interface{})
	SendTo(connID, event string, payload interface{})
}

// RoomBroadcaster delivers events to every connection bound to a room via
// the registry. Delivery is fire-and-forget per connection: one dead
// connection never blocks the others and never fails the originating
// transition, so Publish returns nothing.
type RoomBroadcaster struct {
	registry       *registry.Registry
	sessionManager *session.Manager
}

func NewRoomBroadcaster(reg *registry.Registry, sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		registry:       reg,
		sessionManager: sessionManager,
	}
}

func (b *RoomBroadcaster) Publish(roomCode, event string, payload interface{}) {
	for _, connID := range b.registry.Connections(roomCode) {
		b.SendTo(connID, event, payload)
	}
}

// SendTo delivers one event to one connection, if it is still open.
func (b *RoomBroadcaster) SendTo(connID, event string, payload interface{}) {
	sess, exists := b.sessionManager.Get(connID)
	if !exists {
		return
	}
	// 发送失败直接忽略，连接关闭由读循环处理
	_ = sess.Send(event, payload)
}
