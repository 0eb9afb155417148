package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
type RoomMetrics struct {
	Joins           int64 // 加入的连接数
	Leaves          int64 // 离开的连接数
	MovesAccepted   int64 // 被接受并广播的移动数
	MovesRejected   int64 // 因碰撞被整体拒绝的移动数
	MovesThrottled  int64 // 因服务端限流被拒绝的移动数
	SitsAccepted    int64 // 成功坐下次数
	SitsDenied      int64 // 阈值内无空椅子的坐下尝试数
	Stands          int64 // 起身次数
	Chats           int64 // 广播的聊天消息数
	AvatarUpdates   int64 // 生效的外观更新数
	AvatarRejected  int64 // 词表校验失败的外观更新数
	RelayForwarded  int64 // 转发成功的信令数
	RelayDropped    int64 // 目标不存在被丢弃的信令数
	MalformedFrames int64 // 载荷解码失败被丢弃的帧数
	InboxDropped    int64 // 因邮箱满被丢弃的帧数
}

func (m *RoomMetrics) IncJoins()          { atomic.AddInt64(&m.Joins, 1) }
func (m *RoomMetrics) IncLeaves()         { atomic.AddInt64(&m.Leaves, 1) }
func (m *RoomMetrics) IncMovesAccepted()  { atomic.AddInt64(&m.MovesAccepted, 1) }
func (m *RoomMetrics) IncMovesRejected()  { atomic.AddInt64(&m.MovesRejected, 1) }
func (m *RoomMetrics) IncMovesThrottled() { atomic.AddInt64(&m.MovesThrottled, 1) }
func (m *RoomMetrics) IncSitsAccepted()   { atomic.AddInt64(&m.SitsAccepted, 1) }
func (m *RoomMetrics) IncSitsDenied()     { atomic.AddInt64(&m.SitsDenied, 1) }
func (m *RoomMetrics) IncStands()         { atomic.AddInt64(&m.Stands, 1) }
func (m *RoomMetrics) IncChats()          { atomic.AddInt64(&m.Chats, 1) }
func (m *RoomMetrics) IncAvatarUpdates()  { atomic.AddInt64(&m.AvatarUpdates, 1) }
func (m *RoomMetrics) IncAvatarRejected() { atomic.AddInt64(&m.AvatarRejected, 1) }
func (m *RoomMetrics) IncRelayForwarded() { atomic.AddInt64(&m.RelayForwarded, 1) }
func (m *RoomMetrics) IncRelayDropped()   { atomic.AddInt64(&m.RelayDropped, 1) }
func (m *RoomMetrics) IncMalformed()      { atomic.AddInt64(&m.MalformedFrames, 1) }
func (m *RoomMetrics) IncInboxDropped()   { atomic.AddInt64(&m.InboxDropped, 1) }

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	return map[string]any{
		"joins":            atomic.LoadInt64(&m.Joins),
		"leaves":           atomic.LoadInt64(&m.Leaves),
		"moves_accepted":   atomic.LoadInt64(&m.MovesAccepted),
		"moves_rejected":   atomic.LoadInt64(&m.MovesRejected),
		"moves_throttled":  atomic.LoadInt64(&m.MovesThrottled),
		"sits_accepted":    atomic.LoadInt64(&m.SitsAccepted),
		"sits_denied":      atomic.LoadInt64(&m.SitsDenied),
		"stands":           atomic.LoadInt64(&m.Stands),
		"chats":            atomic.LoadInt64(&m.Chats),
		"avatar_updates":   atomic.LoadInt64(&m.AvatarUpdates),
		"avatar_rejected":  atomic.LoadInt64(&m.AvatarRejected),
		"relay_forwarded":  atomic.LoadInt64(&m.RelayForwarded),
		"relay_dropped":    atomic.LoadInt64(&m.RelayDropped),
		"malformed_frames": atomic.LoadInt64(&m.MalformedFrames),
		"inbox_dropped":    atomic.LoadInt64(&m.InboxDropped),
	}
}

// HandleMetrics 输出指定房间的运行指标
// GET /metrics?room=plaza
func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		roomID = DefaultRoomID
	}
	rm := GetRoomManager()
	room, ok := rm.Lookup(roomID)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	payload := map[string]any{
		"room":    roomID,
		"metrics": room.metrics.Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
