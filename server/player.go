package server

import (
	"fmt"
	"math/rand"
)

// PlayerID 表示一次连接的唯一标识（断开后销毁，不再复用）
type PlayerID string

// Avatar 玩家外观；除 Character 外各字段取值限定在固定词表内
type Avatar struct {
	Body        string `json:"body" mapstructure:"body"`
	Hair        string `json:"hair" mapstructure:"hair"`
	Clothes     string `json:"clothes" mapstructure:"clothes"`
	Accessories string `json:"accessories" mapstructure:"accessories"`
	Character   string `json:"character" mapstructure:"character"`
}

// 外观词表，与客户端定制界面提供的选项一一对应
var (
	avatarBodies      = map[string]bool{"default": true, "tan": true, "dark": true, "pale": true}
	avatarHairs       = map[string]bool{"default": true, "blonde": true, "black": true, "red": true, "blue": true, "pink": true}
	avatarClothes     = map[string]bool{"default": true, "red": true, "green": true, "purple": true, "yellow": true, "black": true}
	avatarAccessories = map[string]bool{"none": true, "hat": true, "glasses": true, "crown": true, "mask": true}
)

// Valid 校验各字段是否落在词表内；Character 是客户端精灵图的键，只要求非空
func (a Avatar) Valid() bool {
	return avatarBodies[a.Body] &&
		avatarHairs[a.Hair] &&
		avatarClothes[a.Clothes] &&
		avatarAccessories[a.Accessories] &&
		a.Character != ""
}

// DefaultAvatar 新玩家的初始外观
func DefaultAvatar() Avatar {
	return Avatar{
		Body:        "default",
		Hair:        "default",
		Clothes:     "default",
		Accessories: "none",
		Character:   "Adam",
	}
}

// Player 房间内的玩家实体（服务端权威状态，只由房间协程改写）
type Player struct {
	ID     PlayerID `json:"id"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Color  string   `json:"color"`
	Name   string   `json:"name"`
	Avatar Avatar   `json:"avatar"`

	IsSitting bool   `json:"isSitting"`
	SittingOn string `json:"sittingOn,omitempty"`
}

// Bounds 返回玩家的碰撞矩形
func (p *Player) Bounds() Rect {
	return Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// newPlayer 在世界边界内随机出生点创建玩家；name 为空时生成占位名
func newPlayer(id PlayerID, name string, cfg RoomConfig) *Player {
	if name == "" {
		name = fmt.Sprintf("Player%d", rand.Intn(1000))
	}
	return &Player{
		ID:     id,
		X:      rand.Float64() * (cfg.Width - cfg.PlayerSize),
		Y:      rand.Float64() * (cfg.Height - cfg.PlayerSize),
		Width:  cfg.PlayerSize,
		Height: cfg.PlayerSize,
		Color:  fmt.Sprintf("#%06x", rand.Intn(0x1000000)),
		Name:   name,
		Avatar: DefaultAvatar(),
	}
}
