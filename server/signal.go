package server

// WebRTC 信令中转。服务端不解析 offer/answer/candidate，只按
// targetId 原样转发并标注 fromId；视频房成员表随连接断开一并清理。

// handleJoinVideoRoom 登记信令节点，并把当前成员名单回给申请方（用于发现对端）
func (r *Room) handleJoinVideoRoom(id PlayerID) {
	if _, ok := r.clients[id]; !ok {
		return
	}
	r.videoPeers[id] = true
	peers := make([]string, 0, len(r.videoPeers))
	for pid := range r.videoPeers {
		peers = append(peers, string(pid))
	}
	r.sendTo(id, Event{Name: EvVideoRoomJoined, Data: peers})
}

// handleLeaveVideoRoom 注销信令节点并通知其余连接
func (r *Room) handleLeaveVideoRoom(id PlayerID) {
	if !r.videoPeers[id] {
		return
	}
	delete(r.videoPeers, id)
	r.broadcastExcept(id, Event{Name: EvPeerLeft, Data: string(id)})
}

// relaySignal 将 offer/answer/ice-candidate 转发给 targetId 指定的连接。
// 目标不存在（可能刚断开）时静默丢弃。
func (r *Room) relaySignal(c frameCmd) {
	var sp SignalPayload
	if err := decodePayload(c.Event.Data, &sp); err != nil {
		r.dropFrame(c, err)
		return
	}
	out := SignalPayload{
		FromID:    string(c.ID),
		Offer:     sp.Offer,
		Answer:    sp.Answer,
		Candidate: sp.Candidate,
	}
	if !r.sendTo(PlayerID(sp.TargetID), Event{Name: c.Event.Name, Data: out}) {
		r.metrics.IncRelayDropped()
		return
	}
	r.metrics.IncRelayForwarded()
}

// handleToggle 把音/视频开关状态广播给除来源方之外的所有连接
func (r *Room) handleToggle(c frameCmd, outName string) {
	var tp TogglePayload
	if err := decodePayload(c.Event.Data, &tp); err != nil {
		r.dropFrame(c, err)
		return
	}
	r.broadcastExcept(c.ID, Event{Name: outName, Data: PeerTogglePayload{
		PeerID:  string(c.ID),
		Enabled: tp.Enabled,
	}})
}
