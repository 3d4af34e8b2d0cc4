// network/protocol.go
package network

import "encoding/json"

// 客户端 -> 服务端事件
const (
	EventCreateRoom = "create-room"
	EventJoinRoom   = "join-room"
	EventMakeMove   = "make-move"
	EventHeartbeat  = "heartbeat"
)

// 服务端 -> 客户端事件
const (
	EventRoomCreated       = "room-created"
	EventRoomSnapshot      = "room-snapshot"
	EventParticipantJoined = "participant-joined"
	EventMoveApplied       = "move-applied"
	EventPlayerLeft        = "player-left"
	EventError             = "error"
)

// Envelope is the wire frame: a named event plus its JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinRoomRequest 加入房间请求
type JoinRoomRequest struct {
	RoomCode string `json:"room_code"`
}

// MakeMoveRequest 落子请求
type MakeMoveRequest struct {
	RoomCode string `json:"room_code"`
	Position int    `json:"position"`
}

// ErrorPayload is sent to the requesting connection only; rejections are
// never broadcast to the rest of the room.
type ErrorPayload struct {
	Message string `json:"message"`
}
