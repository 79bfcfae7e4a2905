package structs

// Cell 描述网格上的一个格子，坐标以像素为单位，始终是格子尺寸的整数倍。
type Cell struct {
	X int `json:"x"` // X坐标
	Y int `json:"y"` // Y坐标
}

// Direction 是四个单位方向之一。
type Direction struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

var (
	Up    = Direction{DX: 0, DY: -1}
	Down  = Direction{DX: 0, DY: 1}
	Left  = Direction{DX: -1, DY: 0}
	Right = Direction{DX: 1, DY: 0}
)

// Directions lists the canonical directions in a fixed order.
var Directions = [4]Direction{Up, Down, Left, Right}

// Valid reports whether d is one of the four canonical directions.
func (d Direction) Valid() bool {
	for _, c := range Directions {
		if d == c {
			return true
		}
	}
	return false
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return Direction{DX: -d.DX, DY: -d.DY}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// ParseDirection maps "up", "down", "left" and "right" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return Direction{}, false
}

// RenderSnapshot 是每个tick交给绘图方的唯一数据。
type RenderSnapshot struct {
	Tick     uint64 `json:"tick"`
	Segments []Cell `json:"segments"`          // 蛇身，蛇头在下标0
	Vacated  *Cell  `json:"vacated,omitempty"` // 本次移动让出的尾部格子
	Target   Cell   `json:"target"`            // 苹果位置
	Length   int    `json:"length"`
	Heading  string `json:"heading"`
	Grew     bool   `json:"grew"`  // 本tick吃到苹果
	Reset    bool   `json:"reset"` // 本tick发生自撞并重置，绘图方应清屏
}

// ActorState 是蛇的可持久化状态。
type ActorState struct {
	Segments []Cell     `json:"segments"`
	Length   int        `json:"length"`
	Heading  Direction  `json:"heading"`
	Pending  *Direction `json:"pending,omitempty"`
	Vacated  *Cell      `json:"vacated,omitempty"`
}

// GameState 是一局游戏核心状态的完整副本。
type GameState struct {
	Actor     ActorState `json:"actor"`
	Target    Cell       `json:"target"`
	Tick      uint64     `json:"tick"`
	BoardFull bool       `json:"board_full"`
}

// Session 描述一个由HTTP驱动的游戏实例。
type Session struct {
	GroupID      string    `json:"group_id"`      // 游戏组标识
	Width        int       `json:"width"`         // 地图宽度（格）
	Height       int       `json:"height"`        // 地图高度（格）
	CellSize     int       `json:"cell_size"`     // 格子像素尺寸
	State        GameState `json:"state"`         // 核心状态
	LastRefresh  int64     `json:"last_refresh"`  // 最后刷新时间，毫秒时间戳
	TickInterval int       `json:"tick_interval"` // 刷新间隔，单位毫秒
}
