// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerSample 一帧的原始指针输入（鼠标或触摸）
type PointerSample struct {
	X, Y  int
	Down  bool // 鼠标左键按下或存在活动触摸
	Touch bool // 来自触摸输入
}

// ReadPointerSample 从 ebiten 读取当前指针，触摸优先
//
// 触摸释放的那一帧没有位置，返回 Touch=true、Down=false，
// 位置由 PointerTracker 沿用上一帧的值。
func ReadPointerSample() PointerSample {
	if touchIDs := ebiten.AppendTouchIDs(nil); len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return PointerSample{X: x, Y: y, Down: true, Touch: true}
	}
	if released := inpututil.AppendJustReleasedTouchIDs(nil); len(released) > 0 {
		return PointerSample{Touch: true}
	}

	x, y := ebiten.CursorPosition()
	return PointerSample{X: x, Y: y, Down: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)}
}

// DragState 拖拽状态
type DragState int

const (
	// DragStateNone 无拖拽
	DragStateNone DragState = iota
	// DragStateStarted 拖拽开始（刚按下）
	DragStateStarted
	// DragStateDragging 拖拽中（按住移动）
	DragStateDragging
	// DragStateEnded 拖拽结束（释放），只持续一帧
	DragStateEnded
)

// Pointer 经过跟踪的一帧指针状态
type Pointer struct {
	X, Y float64

	Pressed      bool // 按住（含刚按下的一帧）
	JustPressed  bool
	JustReleased bool

	// DX, DY 本帧相对上一帧的移动量（仅拖拽中非零）
	DX, DY float64
	// StartX, StartY 本次按下的起点
	StartX, StartY float64

	Touch bool
}

// PointerTracker 跟踪按下、拖拽与释放
type PointerTracker struct {
	state          DragState
	startX, startY int
	x, y           int
	touch          bool
}

// NewPointerTracker 创建指针跟踪器
func NewPointerTracker() *PointerTracker {
	return &PointerTracker{}
}

// Step 用本帧的原始输入推进状态
func (pt *PointerTracker) Step(s PointerSample) Pointer {
	var p Pointer

	if s.Down {
		switch pt.state {
		case DragStateStarted, DragStateDragging:
			p.DX, p.DY = float64(s.X-pt.x), float64(s.Y-pt.y)
			pt.state = DragStateDragging
		default:
			pt.state = DragStateStarted
			pt.startX, pt.startY = s.X, s.Y
			p.JustPressed = true
		}
		pt.x, pt.y = s.X, s.Y
		pt.touch = s.Touch
		p.Pressed = true
	} else {
		switch pt.state {
		case DragStateStarted, DragStateDragging:
			pt.state = DragStateEnded
			p.JustReleased = true
			if !s.Touch {
				pt.x, pt.y = s.X, s.Y
			}
		default:
			pt.state = DragStateNone
			if s.Touch {
				break
			}
			pt.x, pt.y = s.X, s.Y
			pt.touch = false
		}
	}

	p.X, p.Y = float64(pt.x), float64(pt.y)
	p.StartX, p.StartY = float64(pt.startX), float64(pt.startY)
	p.Touch = pt.touch
	return p
}

// State 返回当前拖拽状态
func (pt *PointerTracker) State() DragState {
	return pt.state
}

// Reset 重置跟踪状态
func (pt *PointerTracker) Reset() {
	*pt = PointerTracker{}
}
