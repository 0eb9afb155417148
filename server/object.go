package server

// ObjectType 物件类型，决定是否参与碰撞以及客户端的绘制方式
type ObjectType string

const (
	ObjectTree  ObjectType = "tree"
	ObjectRock  ObjectType = "rock"
	ObjectHome  ObjectType = "home"
	ObjectChair ObjectType = "chair"
)

// WorldObject 世界中静态放置的物件；只有椅子的 Occupied 会被改写
type WorldObject struct {
	ID     string     `json:"id"`
	Type   ObjectType `json:"type"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`

	// Occupied 仅对椅子有意义，由坐下/起身切换
	Occupied bool `json:"occupied,omitempty"`
}

// Bounds 返回物件的碰撞矩形
func (o *WorldObject) Bounds() Rect {
	return Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
}

// DefaultWorldObjects 默认的物件布局（进程启动时构建一次，房间各持一份）
func DefaultWorldObjects() []*WorldObject {
	return []*WorldObject{
		{ID: "tree-1", Type: ObjectTree, X: 100, Y: 100, Width: 40, Height: 60},
		{ID: "tree-2", Type: ObjectTree, X: 300, Y: 200, Width: 40, Height: 60},
		{ID: "tree-3", Type: ObjectTree, X: 670, Y: 378, Width: 40, Height: 60},
		{ID: "tree-4", Type: ObjectTree, X: 346, Y: 56, Width: 40, Height: 60},
		{ID: "home-1", Type: ObjectHome, X: 500, Y: 150, Width: 80, Height: 100},
		{ID: "home-2", Type: ObjectHome, X: 234, Y: 399, Width: 80, Height: 100},
		{ID: "rock-1", Type: ObjectRock, X: 150, Y: 400, Width: 50, Height: 50},
		{ID: "rock-2", Type: ObjectRock, X: 600, Y: 300, Width: 40, Height: 40},
		{ID: "rock-3", Type: ObjectRock, X: 50, Y: 50, Width: 30, Height: 30},
		{ID: "rock-4", Type: ObjectRock, X: 487, Y: 36, Width: 50, Height: 50},
		{ID: "rock-5", Type: ObjectRock, X: 674, Y: 34, Width: 40, Height: 40},
		{ID: "rock-6", Type: ObjectRock, X: 335, Y: 288, Width: 40, Height: 40},
		{ID: "chair-1", Type: ObjectChair, X: 200, Y: 300, Width: 30, Height: 30},
		{ID: "chair-2", Type: ObjectChair, X: 240, Y: 300, Width: 30, Height: 30},
		{ID: "chair-3", Type: ObjectChair, X: 520, Y: 260, Width: 30, Height: 30},
		{ID: "chair-4", Type: ObjectChair, X: 440, Y: 480, Width: 30, Height: 30},
	}
}
