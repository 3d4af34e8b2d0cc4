// game/errors.go
package game

import "errors"

// 错误定义
var (
	ErrNotFound      = errors.New("room not found")
	ErrDuplicateRoom = errors.New("room code already exists")
	ErrNotJoinable   = errors.New("room is not joinable")
	ErrNotActive     = errors.New("game is not active")
	ErrWrongTurn     = errors.New("not your turn")
	ErrNotBound      = errors.New("connection not bound to a room")
)
