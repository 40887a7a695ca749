package systems

import (
	"github.com/gonewx/rocketlaunch/pkg/components"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
	"github.com/gonewx/rocketlaunch/pkg/utils"
)

// ButtonSystem 按钮交互系统
// 负责处理按钮的鼠标悬停、点击等交互逻辑
//
// 职责：
//   - 检测鼠标悬停（更新按钮状态为 UIHovered）
//   - 检测鼠标释放（触发 OnClick 回调）
//   - 根据 Enabled 状态决定是否响应交互
type ButtonSystem struct {
	entityManager *ecs.EntityManager
}

// NewButtonSystem 创建按钮交互系统
func NewButtonSystem(em *ecs.EntityManager) *ButtonSystem {
	return &ButtonSystem{
		entityManager: em,
	}
}

// Update 按本帧指针状态更新按钮，返回是否有按钮被点击
func (s *ButtonSystem) Update(p utils.Pointer) bool {
	return s.Process(p.X, p.Y, p.Pressed, p.JustReleased)
}

// Contains 判断屏幕坐标是否落在任一可用按钮内
func (s *ButtonSystem) Contains(x, y float64) bool {
	for _, entityID := range ecs.GetEntitiesWith2[*components.ButtonComponent, *components.PositionComponent](s.entityManager) {
		button, _ := ecs.GetComponent[*components.ButtonComponent](s.entityManager, entityID)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, entityID)
		if button.Enabled && isPointInRect(x, y, pos.X, pos.Y, button.Width, button.Height) {
			return true
		}
	}
	return false
}

// Process 按给定鼠标状态更新所有按钮，返回是否有按钮被点击
func (s *ButtonSystem) Process(mouseX, mouseY float64, pressed, released bool) bool {
	clicked := false
	entities := ecs.GetEntitiesWith2[*components.ButtonComponent, *components.PositionComponent](s.entityManager)

	for _, entityID := range entities {
		button, _ := ecs.GetComponent[*components.ButtonComponent](s.entityManager, entityID)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, entityID)

		if !button.Enabled {
			button.State = components.UIDisabled
			continue
		}

		if !isPointInRect(mouseX, mouseY, pos.X, pos.Y, button.Width, button.Height) {
			button.State = components.UINormal
			continue
		}

		switch {
		case pressed:
			button.State = components.UIClicked
		case released:
			// 释放瞬间触发回调
			if button.OnClick != nil {
				button.OnClick()
			}
			clicked = true
			button.State = components.UIHovered
		default:
			button.State = components.UIHovered
		}
	}
	return clicked
}

// isPointInRect 检测点是否在矩形范围内（含边界）
func isPointInRect(x, y, left, top, width, height float64) bool {
	return x >= left && x <= left+width && y >= top && y <= top+height
}
