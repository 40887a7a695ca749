package entities

import (
	"image/color"

	"github.com/gonewx/rocketlaunch/pkg/components"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
)

// 点火按钮尺寸与文字
const (
	IgniteButtonWidth  = 120
	IgniteButtonHeight = 48
	IgniteButtonText   = "点火"
)

// NewIgniteButton 创建点火按钮实体（屏幕左上角 UI）
//
// 参数：
//   - em: 实体管理器
//   - x, y: 按钮位置（屏幕坐标）
//   - onClick: 点击回调函数
//
// 返回：
//   - 按钮实体ID
func NewIgniteButton(em *ecs.EntityManager, x, y float64, onClick func()) ecs.EntityID {
	entity := em.CreateEntity()

	ecs.AddComponent(em, entity, &components.PositionComponent{
		X: x,
		Y: y,
	})

	ecs.AddComponent(em, entity, &components.ButtonComponent{
		Text:         IgniteButtonText,
		Fallback:     "IGNITE",
		Width:        IgniteButtonWidth,
		Height:       IgniteButtonHeight,
		NormalColor:  color.RGBA{0xd9, 0x04, 0x29, 0xff},
		HoverColor:   color.RGBA{0xef, 0x23, 0x3c, 0xff},
		PressedColor: color.RGBA{0x9d, 0x02, 0x08, 0xff},
		TextColor:    color.RGBA{0xff, 0xff, 0xff, 0xff},
		State:        components.UINormal,
		Enabled:      true,
		OnClick:      onClick,
	})

	return entity
}
