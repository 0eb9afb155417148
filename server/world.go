package server

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// RoomConfig 房间的世界参数；SitRadius 等字段可通过 /admin/config 热更新
type RoomConfig struct {
	Width      float64
	Height     float64
	PlayerSize float64

	// SitRadius 坐下判定的切比雪夫距离阈值（两轴都要小于该值）
	SitRadius float64
	// MoveMinInterval 同一玩家两次移动意图之间的最小间隔（服务端限流）
	MoveMinInterval time.Duration
	// MaxChatLen 聊天内容的最大长度（按字符计），超出部分截断
	MaxChatLen int
}

// DefaultRoomConfig 默认参数：800×600 画布、30×30 玩家
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		Width:           800,
		Height:          600,
		PlayerSize:      30,
		SitRadius:       50,
		MoveMinInterval: 8 * time.Millisecond,
		MaxChatLen:      240,
	}
}

// MoveOutcome 一次移动意图的处理结果
type MoveOutcome int

const (
	// MoveAccepted 位置已提交，需要广播
	MoveAccepted MoveOutcome = iota
	// MoveIgnored 玩家不存在或正在坐下，静默忽略
	MoveIgnored
	// MoveThrottled 触发服务端限流
	MoveThrottled
	// MoveBlocked 目标位置发生碰撞，整次移动被拒绝
	MoveBlocked
)

// ChatBroadcast 聊天消息的出站载荷，由服务端补全 id 与时间戳
type ChatBroadcast struct {
	ID         string `json:"id"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}

// World 单个房间的权威世界状态。玩家与物件注册表只由房间协程改写，
// 所有不变式（碰撞、椅子互斥占用）都在这一个写入点上保证。
type World struct {
	cfg      RoomConfig
	players  map[PlayerID]*Player
	objects  []*WorldObject
	lastMove map[PlayerID]time.Time
}

// NewWorld 创建世界；objects 的插入顺序决定椅子扫描的先后
func NewWorld(cfg RoomConfig, objects []*WorldObject) *World {
	return &World{
		cfg:      cfg,
		players:  make(map[PlayerID]*Player),
		objects:  objects,
		lastMove: make(map[PlayerID]time.Time),
	}
}

// Config 返回当前世界参数
func (w *World) Config() RoomConfig {
	return w.cfg
}

// SetConfig 覆盖世界参数（经由房间协程调用）
func (w *World) SetConfig(cfg RoomConfig) {
	w.cfg = cfg
}

// PlayerCount 当前在线玩家数
func (w *World) PlayerCount() int {
	return len(w.players)
}

// Snapshot 全量世界状态，供新加入的连接初始化
func (w *World) Snapshot() WorldStatePayload {
	players := make([]*Player, 0, len(w.players))
	for _, p := range w.players {
		players = append(players, p)
	}
	return WorldStatePayload{Players: players, Objects: w.objects}
}

// Join 在随机出生点创建玩家并登记；connectionId 不会重复，无需幂等保护
func (w *World) Join(id PlayerID, name string) *Player {
	p := newPlayer(id, name, w.cfg)
	w.players[id] = p
	return p
}

// Move 处理一次移动意图：先裁剪到边界，再做全有或全无的碰撞检查。
// 碰撞或限流时位置保持不变。
func (w *World) Move(id PlayerID, deltaX, deltaY float64, now time.Time) (*Player, MoveOutcome) {
	p, ok := w.players[id]
	if !ok || p.IsSitting {
		return nil, MoveIgnored
	}
	if last, seen := w.lastMove[id]; seen && now.Sub(last) < w.cfg.MoveMinInterval {
		return p, MoveThrottled
	}
	w.lastMove[id] = now

	nx, ny := ClampToBounds(p.X+deltaX, p.Y+deltaY, p.Width, p.Height, w.cfg.Width, w.cfg.Height)
	if w.collides(Rect{X: nx, Y: ny, Width: p.Width, Height: p.Height}, id) {
		return p, MoveBlocked
	}
	p.X = nx
	p.Y = ny
	return p, MoveAccepted
}

// collides 判断候选矩形是否与障碍集相交。
// 空椅子和坐着的玩家不算障碍（可以穿行）。
func (w *World) collides(candidate Rect, self PlayerID) bool {
	for _, obj := range w.objects {
		if obj.Type == ObjectChair && !obj.Occupied {
			continue
		}
		if Overlap(candidate, obj.Bounds()) {
			return true
		}
	}
	for id, other := range w.players {
		if id == self || other.IsSitting {
			continue
		}
		if Overlap(candidate, other.Bounds()) {
			return true
		}
	}
	return false
}

// TrySit 按注册表顺序找第一把阈值内的空椅子；找到则占用并把玩家吸附到椅子位置。
// 没有合适椅子时静默返回 false。
func (w *World) TrySit(id PlayerID) (*WorldObject, bool) {
	p, ok := w.players[id]
	if !ok || p.IsSitting {
		return nil, false
	}
	for _, obj := range w.objects {
		if obj.Type != ObjectChair || obj.Occupied {
			continue
		}
		if math.Abs(obj.X-p.X) < w.cfg.SitRadius && math.Abs(obj.Y-p.Y) < w.cfg.SitRadius {
			obj.Occupied = true
			p.IsSitting = true
			p.SittingOn = obj.ID
			p.X = obj.X
			p.Y = obj.Y
			return obj, true
		}
	}
	return nil, false
}

// StandUp 释放椅子并恢复行走态；玩家位置留在椅子处，由后续移动离开。
// 玩家不存在或没在坐时无任何效果。
func (w *World) StandUp(id PlayerID) bool {
	p, ok := w.players[id]
	if !ok || !p.IsSitting {
		return false
	}
	w.releaseChair(p)
	return true
}

// UpdateAvatar 覆盖玩家外观；词表校验在协议边界完成
func (w *World) UpdateAvatar(id PlayerID, avatar Avatar) (*Player, bool) {
	p, ok := w.players[id]
	if !ok {
		return nil, false
	}
	p.Avatar = avatar
	return p, true
}

// Chat 为消息补全 id、发送者名字与服务端时间戳；超长内容按字符截断
func (w *World) Chat(id PlayerID, text string, now time.Time) (*ChatBroadcast, bool) {
	p, ok := w.players[id]
	if !ok {
		return nil, false
	}
	if runes := []rune(text); len(runes) > w.cfg.MaxChatLen {
		text = string(runes[:w.cfg.MaxChatLen])
	}
	return &ChatBroadcast{
		ID:         uuid.NewString(),
		PlayerName: p.Name,
		Message:    text,
		Timestamp:  now.UnixMilli(),
	}, true
}

// Leave 移除玩家；若其正坐着，先释放椅子再删除，
// 保证之后任何操作都不会看到被遗留占用的椅子。
func (w *World) Leave(id PlayerID) bool {
	p, ok := w.players[id]
	if !ok {
		return false
	}
	if p.IsSitting {
		w.releaseChair(p)
	}
	delete(w.players, id)
	delete(w.lastMove, id)
	return true
}

func (w *World) releaseChair(p *Player) {
	for _, obj := range w.objects {
		if obj.ID == p.SittingOn {
			obj.Occupied = false
			break
		}
	}
	p.IsSitting = false
	p.SittingOn = ""
}
