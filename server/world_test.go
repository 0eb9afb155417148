package server

import (
	"fmt"
	"math/rand"
	"testing"
	"time"
)

// 测试用世界：关闭移动限流，物件按参数给定
func newTestWorld(objects ...*WorldObject) *World {
	cfg := DefaultRoomConfig()
	cfg.MoveMinInterval = 0
	return NewWorld(cfg, objects)
}

// 加入后直接摆到指定位置，绕开随机出生点
func place(w *World, id PlayerID, x, y float64) *Player {
	p := w.Join(id, "")
	p.X = x
	p.Y = y
	return p
}

func chairAt(id string, x, y float64) *WorldObject {
	return &WorldObject{ID: id, Type: ObjectChair, X: x, Y: y, Width: 30, Height: 30}
}

func TestJoinSpawnsInBounds(t *testing.T) {
	w := newTestWorld()
	for i := 0; i < 100; i++ {
		p := w.Join(PlayerID(fmt.Sprintf("p%d", i)), "")
		if p.X < 0 || p.X > 770 || p.Y < 0 || p.Y > 570 {
			t.Fatalf("spawn out of bounds: (%v,%v)", p.X, p.Y)
		}
	}
}

func TestMovePositionAlwaysInBounds(t *testing.T) {
	w := newTestWorld()
	p := place(w, "p1", 0, 0)
	rng := rand.New(rand.NewSource(42))
	now := time.Now()
	for i := 0; i < 2000; i++ {
		dx := (rng.Float64() - 0.5) * 200
		dy := (rng.Float64() - 0.5) * 200
		w.Move("p1", dx, dy, now)
		if p.X < 0 || p.X > 770 || p.Y < 0 || p.Y > 570 {
			t.Fatalf("iteration %d: position out of bounds: (%v,%v)", i, p.X, p.Y)
		}
	}
}

// 场景A：玩家(100,100) 30×30，岩石(110,100,50,50)，右移5 → 目标(105,100)
// 与岩石相交，整次移动被拒绝
func TestMoveRejectedOnObjectCollision(t *testing.T) {
	rock := &WorldObject{ID: "rock-1", Type: ObjectRock, X: 110, Y: 100, Width: 50, Height: 50}
	w := newTestWorld(rock)
	p := place(w, "p1", 100, 100)

	_, outcome := w.Move("p1", 5, 0, time.Now())
	if outcome != MoveBlocked {
		t.Fatalf("expected MoveBlocked, got %v", outcome)
	}
	if p.X != 100 || p.Y != 100 {
		t.Fatalf("position changed on rejected move: (%v,%v)", p.X, p.Y)
	}
}

func TestMoveRejectedOnPlayerCollision(t *testing.T) {
	w := newTestWorld()
	p1 := place(w, "p1", 100, 100)
	place(w, "p2", 140, 100)

	_, outcome := w.Move("p1", 15, 0, time.Now())
	if outcome != MoveBlocked {
		t.Fatalf("expected MoveBlocked against standing player, got %v", outcome)
	}
	if p1.X != 100 {
		t.Fatalf("position changed on rejected move: x=%v", p1.X)
	}
}

// 坐着的玩家不进入障碍集（可以从其身上走过）
func TestSittingPlayerIsWalkThrough(t *testing.T) {
	w := newTestWorld()
	p1 := place(w, "p1", 100, 100)
	p2 := place(w, "p2", 140, 100)
	p2.IsSitting = true

	_, outcome := w.Move("p1", 15, 0, time.Now())
	if outcome != MoveAccepted {
		t.Fatalf("expected MoveAccepted through sitting player, got %v", outcome)
	}
	if p1.X != 115 {
		t.Fatalf("expected x=115, got %v", p1.X)
	}
}

func TestEmptyChairIsWalkThrough(t *testing.T) {
	chair := chairAt("chair-1", 120, 100)
	w := newTestWorld(chair)
	p := place(w, "p1", 100, 100)

	_, outcome := w.Move("p1", 10, 0, time.Now())
	if outcome != MoveAccepted {
		t.Fatalf("expected MoveAccepted through empty chair, got %v", outcome)
	}
	if p.X != 110 {
		t.Fatalf("expected x=110, got %v", p.X)
	}

	chair.Occupied = true
	_, outcome = w.Move("p1", 10, 0, time.Now())
	if outcome != MoveBlocked {
		t.Fatalf("expected MoveBlocked by occupied chair, got %v", outcome)
	}
}

func TestMoveIgnoredWhileSitting(t *testing.T) {
	chair := chairAt("chair-1", 120, 100)
	w := newTestWorld(chair)
	p := place(w, "p1", 100, 100)
	if _, ok := w.TrySit("p1"); !ok {
		t.Fatalf("failed to sit")
	}

	_, outcome := w.Move("p1", 10, 0, time.Now())
	if outcome != MoveIgnored {
		t.Fatalf("expected MoveIgnored while sitting, got %v", outcome)
	}
	if p.X != 120 || p.Y != 100 {
		t.Fatalf("sitting player moved: (%v,%v)", p.X, p.Y)
	}
}

func TestMoveIgnoredForUnknownPlayer(t *testing.T) {
	w := newTestWorld()
	if _, outcome := w.Move("ghost", 5, 5, time.Now()); outcome != MoveIgnored {
		t.Fatalf("expected MoveIgnored for unknown id, got %v", outcome)
	}
}

func TestMoveThrottled(t *testing.T) {
	cfg := DefaultRoomConfig()
	cfg.MoveMinInterval = 8 * time.Millisecond
	w := NewWorld(cfg, nil)
	place(w, "p1", 100, 100)

	now := time.Now()
	if _, outcome := w.Move("p1", 5, 0, now); outcome != MoveAccepted {
		t.Fatalf("first move should be accepted, got %v", outcome)
	}
	if _, outcome := w.Move("p1", 5, 0, now.Add(time.Millisecond)); outcome != MoveThrottled {
		t.Fatalf("second move within interval should be throttled, got %v", outcome)
	}
	if _, outcome := w.Move("p1", 5, 0, now.Add(10*time.Millisecond)); outcome != MoveAccepted {
		t.Fatalf("move after interval should be accepted, got %v", outcome)
	}
}

// 场景B：椅子(200,300)，玩家(160,310)：|200-160|=40<50 且 |300-310|=10<50 → 坐下成功
func TestTrySitWithinThreshold(t *testing.T) {
	chair := chairAt("chair-1", 200, 300)
	w := newTestWorld(chair)
	p := place(w, "p1", 160, 310)

	got, ok := w.TrySit("p1")
	if !ok {
		t.Fatalf("expected sit to succeed")
	}
	if got.ID != "chair-1" || !chair.Occupied {
		t.Fatalf("chair not occupied: %+v", chair)
	}
	if !p.IsSitting || p.SittingOn != "chair-1" {
		t.Fatalf("player state wrong: %+v", p)
	}
	if p.X != 200 || p.Y != 300 {
		t.Fatalf("player not snapped to chair: (%v,%v)", p.X, p.Y)
	}
}

func TestTrySitOutOfThreshold(t *testing.T) {
	chair := chairAt("chair-1", 200, 300)
	w := newTestWorld(chair)
	p := place(w, "p1", 140, 310) // |200-140|=60 超出阈值

	if _, ok := w.TrySit("p1"); ok {
		t.Fatalf("expected sit to fail out of threshold")
	}
	if chair.Occupied || p.IsSitting {
		t.Fatalf("state mutated on failed sit: chair=%+v player=%+v", chair, p)
	}
}

// 平局规则：阈值内取注册表顺序的第一把空椅子，不做最近选择
func TestTrySitFirstInRegistryOrder(t *testing.T) {
	far := chairAt("chair-far", 140, 300)
	near := chairAt("chair-near", 190, 300)
	w := newTestWorld(far, near)
	place(w, "p1", 180, 300) // near 更近，但 far 先注册且同样在阈值内

	got, ok := w.TrySit("p1")
	if !ok {
		t.Fatalf("expected sit to succeed")
	}
	if got.ID != "chair-far" {
		t.Fatalf("expected first chair in registry order, got %s", got.ID)
	}
}

// 场景C：两个玩家抢同一把椅子，只有一个成功
func TestTrySitExclusiveOccupancy(t *testing.T) {
	chair := chairAt("chair-1", 200, 300)
	w := newTestWorld(chair)
	a := place(w, "a", 180, 290)
	b := place(w, "b", 210, 310)

	_, okA := w.TrySit("a")
	_, okB := w.TrySit("b")
	if !okA {
		t.Fatalf("first sit should succeed")
	}
	if okB {
		t.Fatalf("second sit on occupied chair should fail")
	}
	if !chair.Occupied {
		t.Fatalf("chair should be occupied")
	}
	if !a.IsSitting || a.SittingOn != "chair-1" {
		t.Fatalf("winner state wrong: %+v", a)
	}
	if b.IsSitting || b.SittingOn != "" {
		t.Fatalf("loser should remain walking: %+v", b)
	}
}

func TestStandUpReleasesChair(t *testing.T) {
	chair := chairAt("chair-1", 200, 300)
	w := newTestWorld(chair)
	p := place(w, "p1", 190, 290)
	if _, ok := w.TrySit("p1"); !ok {
		t.Fatalf("failed to sit")
	}

	if !w.StandUp("p1") {
		t.Fatalf("expected stand to succeed")
	}
	if chair.Occupied {
		t.Fatalf("chair still occupied after stand")
	}
	if p.IsSitting || p.SittingOn != "" {
		t.Fatalf("player still sitting: %+v", p)
	}
	// 位置留在椅子处，由后续移动离开
	if p.X != 200 || p.Y != 300 {
		t.Fatalf("player should stay at chair position: (%v,%v)", p.X, p.Y)
	}
}

func TestStandUpIdempotentWhenNotSitting(t *testing.T) {
	chair := chairAt("chair-1", 200, 300)
	w := newTestWorld(chair)
	p := place(w, "p1", 100, 100)

	if w.StandUp("p1") {
		t.Fatalf("stand on walking player should be a no-op")
	}
	if w.StandUp("ghost") {
		t.Fatalf("stand on unknown player should be a no-op")
	}
	if p.X != 100 || p.Y != 100 || p.IsSitting || chair.Occupied {
		t.Fatalf("state mutated by no-op stand")
	}
}

// 加入后立即离开，注册表与椅子占用恢复原样
func TestJoinLeaveRoundTrip(t *testing.T) {
	chair := chairAt("chair-1", 200, 300)
	w := newTestWorld(chair)

	place(w, "p1", 190, 290)
	if _, ok := w.TrySit("p1"); !ok {
		t.Fatalf("failed to sit")
	}
	if !w.Leave("p1") {
		t.Fatalf("leave should succeed")
	}

	if w.PlayerCount() != 0 {
		t.Fatalf("player registry not empty: %d", w.PlayerCount())
	}
	if chair.Occupied {
		t.Fatalf("chair reservation leaked after leave")
	}
	if w.Leave("p1") {
		t.Fatalf("second leave should be a no-op")
	}
}

func TestUpdateAvatar(t *testing.T) {
	w := newTestWorld()
	p := place(w, "p1", 100, 100)

	av := Avatar{Body: "tan", Hair: "blue", Clothes: "red", Accessories: "hat", Character: "Adam"}
	got, ok := w.UpdateAvatar("p1", av)
	if !ok || got.Avatar != av {
		t.Fatalf("avatar not applied: %+v", p.Avatar)
	}
	if _, ok := w.UpdateAvatar("ghost", av); ok {
		t.Fatalf("avatar update for unknown id should fail")
	}
}

func TestChatFillsServerFields(t *testing.T) {
	w := newTestWorld()
	p := place(w, "p1", 100, 100)
	now := time.Now()

	msg, ok := w.Chat("p1", "hello world", now)
	if !ok {
		t.Fatalf("chat should succeed")
	}
	if msg.ID == "" {
		t.Fatalf("chat id missing")
	}
	if msg.PlayerName != p.Name {
		t.Fatalf("playerName = %q, want %q", msg.PlayerName, p.Name)
	}
	if msg.Message != "hello world" {
		t.Fatalf("message = %q", msg.Message)
	}
	if msg.Timestamp != now.UnixMilli() {
		t.Fatalf("timestamp = %d, want %d", msg.Timestamp, now.UnixMilli())
	}

	if _, ok := w.Chat("ghost", "hi", now); ok {
		t.Fatalf("chat from unknown id should fail")
	}
}

func TestChatTruncatesLongMessage(t *testing.T) {
	cfg := DefaultRoomConfig()
	cfg.MaxChatLen = 5
	w := NewWorld(cfg, nil)
	w.Join("p1", "alice")

	msg, ok := w.Chat("p1", "今天天气很不错啊", time.Now())
	if !ok {
		t.Fatalf("chat should succeed")
	}
	if msg.Message != "今天天气很" {
		t.Fatalf("truncation wrong: %q", msg.Message)
	}
}

func TestJoinUsesProvidedName(t *testing.T) {
	w := newTestWorld()
	p := w.Join("p1", "alice")
	if p.Name != "alice" {
		t.Fatalf("name = %q, want alice", p.Name)
	}
	q := w.Join("p2", "")
	if q.Name == "" {
		t.Fatalf("placeholder name missing")
	}
}
