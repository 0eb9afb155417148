package server

import "time"

// housekeepInterval 运维 Tick 周期。世界状态本身由事件驱动、
// 逐条提交，这里的 Tick 只承担周期性的指标落日志。
const housekeepInterval = 30 * time.Second

// housekeep 在房间协程内执行，可以安全读取世界状态
func (r *Room) housekeep() {
	Log.Debugf("room housekeeping: id=%s players=%d videoPeers=%d metrics=%v",
		r.ID, r.world.PlayerCount(), len(r.videoPeers), r.metrics.Snapshot())
}
