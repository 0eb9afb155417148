package server

import "sync"

// DefaultRoomID 未指定 ?room= 时使用的默认房间
const DefaultRoomID = "plaza"

// RoomManager 管理多个房间的生命周期；每个房间是彼此独立的单写者世界
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

var (
	defaultManager *RoomManager
	once           sync.Once
)

// GetRoomManager 单例房间管理器
func GetRoomManager() *RoomManager {
	once.Do(func() {
		defaultManager = &RoomManager{rooms: make(map[string]*Room)}
	})
	return defaultManager
}

// GetOrCreateRoom 获取或创建房间，并确保主循环已启动
func (m *RoomManager) GetOrCreateRoom(id string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		r = NewRoom(id)
		r.onEmpty = m.removeRoom
		m.rooms[id] = r
		go r.Run()
	}
	return r
}

// Lookup 只查不建，供监控与管理接口使用
func (m *RoomManager) Lookup(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// removeRoom 回收空房间（由房间协程在最后一个连接离开时回调）
func (m *RoomManager) removeRoom(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return
	}
	delete(m.rooms, id)
	r.Stop()
	Log.Infof("room removed: id=%s", id)
}
