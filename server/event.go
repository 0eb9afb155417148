package server

import (
	"encoding/json"
	"errors"

	"github.com/mitchellh/mapstructure"
)

var (
	errUnknownEvent = errors.New("unknown event name")
	errNotAString   = errors.New("payload is not a string")
)

// Event 客户端与服务端之间统一的 JSON 信封
// 示例：{"name":"playerMove","data":{"deltaX":5,"deltaY":0}}
type Event struct {
	Name string `json:"name"`
	Data any    `json:"data,omitempty"`
}

// 客户端 → 服务端
const (
	EvPlayerMove     = "playerMove"
	EvTrySit         = "trySit"
	EvStandUp        = "standUp"
	EvUpdateAvatar   = "updateAvatar"
	EvJoinVideoRoom  = "joinVideoRoom"
	EvLeaveVideoRoom = "leaveVideoRoom"
	EvToggleVideo    = "toggleVideo"
	EvToggleAudio    = "toggleAudio"
)

// 双向（入站带 targetId，转发时替换为 fromId）
const (
	EvChatMessage  = "chatMessage"
	EvOffer        = "offer"
	EvAnswer       = "answer"
	EvIceCandidate = "ice-candidate"
)

// 服务端 → 客户端
const (
	EvWorldState      = "worldState"
	EvPlayerJoined    = "playerJoined"
	EvPlayerMoved     = "playerMoved"
	EvPlayerSitting   = "playerSitting"
	EvPlayerStanding  = "playerStanding"
	EvAvatarUpdated   = "avatarUpdated"
	EvPlayerLeft      = "playerLeft"
	EvVideoRoomJoined = "videoRoomJoined"
	EvPeerLeft        = "peerLeft"
	EvPeerVideoToggle = "peerVideoToggle"
	EvPeerAudioToggle = "peerAudioToggle"
)

// MovePayload 移动意图：以增量表示，服务端裁剪并做碰撞判定
type MovePayload struct {
	DeltaX float64 `json:"deltaX" mapstructure:"deltaX"`
	DeltaY float64 `json:"deltaY" mapstructure:"deltaY"`
}

// WorldStatePayload 加入时下发的全量快照
type WorldStatePayload struct {
	Players []*Player      `json:"players"`
	Objects []*WorldObject `json:"objects"`
}

// MovedPayload 被接受的移动，只携带 id 与新坐标
type MovedPayload struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// SittingPayload 坐下成功的广播
type SittingPayload struct {
	PlayerID string  `json:"playerId"`
	ChairID  string  `json:"chairId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// StandingPayload 起身的广播
type StandingPayload struct {
	PlayerID string `json:"playerId"`
}

// AvatarUpdatedPayload 外观变更的广播
type AvatarUpdatedPayload struct {
	ID     string `json:"id"`
	Avatar Avatar `json:"avatar"`
}

// SignalPayload 信令载荷：offer/answer/candidate 对服务端完全不透明
type SignalPayload struct {
	TargetID  string `json:"targetId,omitempty" mapstructure:"targetId"`
	FromID    string `json:"fromId,omitempty" mapstructure:"fromId"`
	Offer     any    `json:"offer,omitempty" mapstructure:"offer"`
	Answer    any    `json:"answer,omitempty" mapstructure:"answer"`
	Candidate any    `json:"candidate,omitempty" mapstructure:"candidate"`
}

// TogglePayload 音视频开关意图
type TogglePayload struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// PeerTogglePayload 音视频开关的广播
type PeerTogglePayload struct {
	PeerID  string `json:"peerId"`
	Enabled bool   `json:"enabled"`
}

// encodeEvent 序列化一次，供多路复用发送
func encodeEvent(e Event) ([]byte, error) {
	return json.Marshal(e)
}

// decodePayload 将信封里的 data 解到具体载荷结构上
func decodePayload(data any, out any) error {
	return mapstructure.Decode(data, out)
}
