package server

import (
	"time"
)

// Conn 是发送端的抽象：房间只负责入队，真正的网络写由连接自己的协程完成
type Conn interface {
	Enqueue(b []byte)
	Close()
}

// Room 一个独立的共享空间：权威世界状态、连接表与视频房成员
// 都只属于 Run 协程，所有改动都以命令形式经过 inbox 串行处理。
type Room struct {
	ID string

	inbox chan any
	quit  chan struct{}

	world      *World
	clients    map[PlayerID]Conn
	videoPeers map[PlayerID]bool

	metrics *RoomMetrics

	// onEmpty 在最后一个连接离开后回调（用于管理器回收房间）
	onEmpty func(id string)
}

// 入站命令；全部在 Run 协程中依次处理完毕，互不交叠
type (
	joinCmd struct {
		ID   PlayerID
		Name string
		Conn Conn
	}
	frameCmd struct {
		ID    PlayerID
		Event Event
	}
	leaveCmd struct {
		ID PlayerID
	}
	configGetCmd struct {
		reply chan RoomConfig
	}
	configSetCmd struct {
		patch ConfigPatch
		reply chan RoomConfig
	}
)

// ConfigPatch 可热更新的房间参数（毫秒等标量，指针表示未设置）
type ConfigPatch struct {
	SitRadius         *float64 `json:"sitRadius,omitempty"`
	MoveMinIntervalMs *int     `json:"moveMinIntervalMs,omitempty"`
	MaxChatLen        *int     `json:"maxChatLen,omitempty"`
}

// NewRoom 创建房间；物件布局在此构建一次，进程生命周期内不再增删
func NewRoom(id string) *Room {
	return &Room{
		ID:         id,
		inbox:      make(chan any, 256), // 足够缓冲，避免网络读阻塞世界推进
		quit:       make(chan struct{}),
		world:      NewWorld(DefaultRoomConfig(), DefaultWorldObjects()),
		clients:    make(map[PlayerID]Conn),
		videoPeers: make(map[PlayerID]bool),
		metrics:    &RoomMetrics{},
	}
}

// Run 房间主循环：单协程消费 inbox，附带慢速的运维 Tick
func (r *Room) Run() {
	ticker := time.NewTicker(housekeepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.quit:
			return
		case cmd := <-r.inbox:
			r.dispatch(cmd)
		case <-ticker.C:
			r.housekeep()
		}
	}
}

// Stop 终止主循环；之后的投递都会被丢弃
func (r *Room) Stop() {
	close(r.quit)
}

// Enter 注册新连接（阻塞投递，保证加入一定被处理）
func (r *Room) Enter(id PlayerID, name string, conn Conn) {
	select {
	case r.inbox <- joinCmd{ID: id, Name: name, Conn: conn}:
	case <-r.quit:
		conn.Close()
	}
}

// Post 投递一帧客户端事件。拥塞时丢弃：静默拒绝模型下丢一帧
// 等价于该意图被拒绝，且不会打乱同一连接内的先后顺序。
func (r *Room) Post(id PlayerID, e Event) {
	select {
	case r.inbox <- frameCmd{ID: id, Event: e}:
	default:
		r.metrics.IncInboxDropped()
	}
}

// RequestLeave 请求移除连接（阻塞投递：断开清理必须生效）
func (r *Room) RequestLeave(id PlayerID) {
	select {
	case r.inbox <- leaveCmd{ID: id}:
	case <-r.quit:
	}
}

func (r *Room) dispatch(cmd any) {
	switch c := cmd.(type) {
	case joinCmd:
		r.handleJoin(c)
	case frameCmd:
		r.handleFrame(c)
	case leaveCmd:
		r.handleLeave(c.ID)
	case configGetCmd:
		c.reply <- r.world.Config()
	case configSetCmd:
		cfg := r.world.Config()
		if c.patch.SitRadius != nil {
			cfg.SitRadius = *c.patch.SitRadius
		}
		if c.patch.MoveMinIntervalMs != nil {
			cfg.MoveMinInterval = time.Duration(*c.patch.MoveMinIntervalMs) * time.Millisecond
		}
		if c.patch.MaxChatLen != nil {
			cfg.MaxChatLen = *c.patch.MaxChatLen
		}
		r.world.SetConfig(cfg)
		c.reply <- cfg
	}
}

// handleJoin 登记连接、下发全量快照、向其余连接广播新玩家。
// 同一 id 重复接入时先按离开处理旧连接。
func (r *Room) handleJoin(c joinCmd) {
	if _, ok := r.clients[c.ID]; ok {
		r.handleLeave(c.ID)
	}
	p := r.world.Join(c.ID, c.Name)
	r.clients[c.ID] = c.Conn
	r.metrics.IncJoins()

	r.sendTo(c.ID, Event{Name: EvWorldState, Data: r.world.Snapshot()})
	r.broadcastExcept(c.ID, Event{Name: EvPlayerJoined, Data: p})
	Log.Infof("player joined: room=%s id=%s name=%s", r.ID, c.ID, p.Name)
}

// handleLeave 断开清理：退出视频房、释放椅子、移除玩家、广播离开。
// clients 表做幂等保护，迟到的重复离开不会产生第二次广播。
func (r *Room) handleLeave(id PlayerID) {
	conn, ok := r.clients[id]
	if !ok {
		return
	}
	delete(r.clients, id)
	if r.videoPeers[id] {
		delete(r.videoPeers, id)
		r.broadcastExcept(id, Event{Name: EvPeerLeft, Data: string(id)})
	}
	r.world.Leave(id)
	conn.Close()
	r.metrics.IncLeaves()

	r.broadcast(Event{Name: EvPlayerLeft, Data: string(id)})
	Log.Infof("player left: room=%s id=%s remaining=%d", r.ID, id, r.world.PlayerCount())

	if len(r.clients) == 0 && r.onEmpty != nil {
		r.onEmpty(r.ID)
	}
}

// handleFrame 把一帧客户端事件翻译成世界操作并广播结果；
// 载荷解码失败按畸形帧丢弃，绝不影响其他连接。
func (r *Room) handleFrame(c frameCmd) {
	switch c.Event.Name {
	case EvPlayerMove:
		var mp MovePayload
		if err := decodePayload(c.Event.Data, &mp); err != nil {
			r.dropFrame(c, err)
			return
		}
		p, outcome := r.world.Move(c.ID, mp.DeltaX, mp.DeltaY, time.Now())
		switch outcome {
		case MoveAccepted:
			r.metrics.IncMovesAccepted()
			r.broadcast(Event{Name: EvPlayerMoved, Data: MovedPayload{ID: string(c.ID), X: p.X, Y: p.Y}})
		case MoveBlocked:
			r.metrics.IncMovesRejected()
		case MoveThrottled:
			r.metrics.IncMovesThrottled()
		}

	case EvTrySit:
		chair, ok := r.world.TrySit(c.ID)
		if !ok {
			r.metrics.IncSitsDenied()
			return
		}
		r.metrics.IncSitsAccepted()
		r.broadcast(Event{Name: EvPlayerSitting, Data: SittingPayload{
			PlayerID: string(c.ID), ChairID: chair.ID, X: chair.X, Y: chair.Y,
		}})

	case EvStandUp:
		if !r.world.StandUp(c.ID) {
			return
		}
		r.metrics.IncStands()
		r.broadcast(Event{Name: EvPlayerStanding, Data: StandingPayload{PlayerID: string(c.ID)}})

	case EvUpdateAvatar:
		var av Avatar
		if err := decodePayload(c.Event.Data, &av); err != nil {
			r.dropFrame(c, err)
			return
		}
		if !av.Valid() {
			r.metrics.IncAvatarRejected()
			Log.Warnf("avatar rejected: room=%s id=%s avatar=%+v", r.ID, c.ID, av)
			return
		}
		p, ok := r.world.UpdateAvatar(c.ID, av)
		if !ok {
			return
		}
		r.metrics.IncAvatarUpdates()
		r.broadcast(Event{Name: EvAvatarUpdated, Data: AvatarUpdatedPayload{ID: string(c.ID), Avatar: p.Avatar}})

	case EvChatMessage:
		text, ok := c.Event.Data.(string)
		if !ok {
			r.dropFrame(c, errNotAString)
			return
		}
		msg, ok := r.world.Chat(c.ID, text, time.Now())
		if !ok {
			return
		}
		r.metrics.IncChats()
		r.broadcast(Event{Name: EvChatMessage, Data: msg})

	case EvJoinVideoRoom:
		r.handleJoinVideoRoom(c.ID)
	case EvLeaveVideoRoom:
		r.handleLeaveVideoRoom(c.ID)
	case EvOffer, EvAnswer, EvIceCandidate:
		r.relaySignal(c)
	case EvToggleVideo:
		r.handleToggle(c, EvPeerVideoToggle)
	case EvToggleAudio:
		r.handleToggle(c, EvPeerAudioToggle)

	default:
		r.dropFrame(c, errUnknownEvent)
	}
}

// dropFrame 记录并丢弃无法处理的帧
func (r *Room) dropFrame(c frameCmd, err error) {
	r.metrics.IncMalformed()
	Log.Warnf("dropping frame: room=%s id=%s event=%s err=%v", r.ID, c.ID, c.Event.Name, err)
}

// broadcast 向所有连接发送（含事件来源方）
func (r *Room) broadcast(e Event) {
	b, err := encodeEvent(e)
	if err != nil {
		Log.Errorf("encode %s: %v", e.Name, err)
		return
	}
	for _, conn := range r.clients {
		conn.Enqueue(b)
	}
}

// broadcastExcept 向除 id 之外的所有连接发送
func (r *Room) broadcastExcept(id PlayerID, e Event) {
	b, err := encodeEvent(e)
	if err != nil {
		Log.Errorf("encode %s: %v", e.Name, err)
		return
	}
	for pid, conn := range r.clients {
		if pid == id {
			continue
		}
		conn.Enqueue(b)
	}
}

// sendTo 向单个连接发送；目标不存在时静默丢弃（可能刚断开）
func (r *Room) sendTo(id PlayerID, e Event) bool {
	conn, ok := r.clients[id]
	if !ok {
		return false
	}
	b, err := encodeEvent(e)
	if err != nil {
		Log.Errorf("encode %s: %v", e.Name, err)
		return false
	}
	conn.Enqueue(b)
	return true
}

// Config 读取房间参数（跨协程，经 inbox 往返）
func (r *Room) Config() (RoomConfig, bool) {
	reply := make(chan RoomConfig, 1)
	select {
	case r.inbox <- configGetCmd{reply: reply}:
	case <-r.quit:
		return RoomConfig{}, false
	}
	select {
	case cfg := <-reply:
		return cfg, true
	case <-time.After(time.Second):
		return RoomConfig{}, false
	}
}

// UpdateConfig 应用参数补丁并返回生效后的配置
func (r *Room) UpdateConfig(patch ConfigPatch) (RoomConfig, bool) {
	reply := make(chan RoomConfig, 1)
	select {
	case r.inbox <- configSetCmd{patch: patch, reply: reply}:
	case <-r.quit:
		return RoomConfig{}, false
	}
	select {
	case cfg := <-reply:
		return cfg, true
	case <-time.After(time.Second):
		return RoomConfig{}, false
	}
}
