package components

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// UIState 按钮交互状态
type UIState int

const (
	UINormal   UIState = iota // 默认
	UIHovered                 // 指针悬停
	UIClicked                 // 按住
	UIDisabled                // 禁用，不响应指针
)

// ButtonComponent 按钮组件（ECS 架构）
// 包含按钮的所有数据：外观、文字、状态、回调
//
// 设计原则：
//   - 纯数据组件，不包含任何方法
//   - 文字自动居中显示
//   - 鼠标在按钮内释放时触发 OnClick
type ButtonComponent struct {
	// Text 按钮上显示的文字
	Text string
	// Face 文字字体（字体加载完成前为 nil，使用 Fallback 调试文字）
	Face *text.GoTextFace
	// Fallback 无字体时显示的 ASCII 文字
	Fallback string

	// Width 按钮宽度（像素）
	Width float64
	// Height 按钮高度（像素）
	Height float64

	// 各状态的填充颜色
	NormalColor  color.RGBA
	HoverColor   color.RGBA
	PressedColor color.RGBA
	TextColor    color.RGBA

	// State 当前交互状态
	State UIState
	// Enabled 是否响应交互
	Enabled bool

	// OnClick 点击回调
	OnClick func()
}
