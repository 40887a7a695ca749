package systems

import (
	"image/color"

	"github.com/gonewx/rocketlaunch/pkg/components"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// debugGlyphWidth/debugGlyphHeight ebitenutil 调试字体的字符尺寸
const (
	debugGlyphWidth  = 6
	debugGlyphHeight = 16
)

// ButtonRenderSystem 按钮渲染系统
// 负责渲染所有按钮实体
//
// 职责：
//   - 按状态渲染按钮背景色块与描边
//   - 渲染按钮文字（自动居中；字体未就绪时使用调试字体）
type ButtonRenderSystem struct {
	entityManager *ecs.EntityManager
}

// NewButtonRenderSystem 创建按钮渲染系统
func NewButtonRenderSystem(em *ecs.EntityManager) *ButtonRenderSystem {
	return &ButtonRenderSystem{
		entityManager: em,
	}
}

// Draw 渲染所有按钮
func (s *ButtonRenderSystem) Draw(screen *ebiten.Image) {
	entities := ecs.GetEntitiesWith2[*components.ButtonComponent, *components.PositionComponent](s.entityManager)

	for _, entityID := range entities {
		button, _ := ecs.GetComponent[*components.ButtonComponent](s.entityManager, entityID)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, entityID)

		s.drawButtonBackground(screen, button, pos.X, pos.Y)
		s.drawButtonText(screen, button, pos.X, pos.Y)
	}
}

func (s *ButtonRenderSystem) drawButtonBackground(screen *ebiten.Image, button *components.ButtonComponent, x, y float64) {
	fill := buttonFillColor(button)
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(button.Width), float32(button.Height), fill, true)
	vector.StrokeRect(screen, float32(x), float32(y), float32(button.Width), float32(button.Height), 1, button.TextColor, true)
}

// buttonFillColor 根据按钮状态选择填充颜色
func buttonFillColor(button *components.ButtonComponent) color.RGBA {
	switch button.State {
	case components.UIHovered:
		return button.HoverColor
	case components.UIClicked:
		return button.PressedColor
	case components.UIDisabled:
		c := button.NormalColor
		c.A /= 2
		return c
	default:
		return button.NormalColor
	}
}

func (s *ButtonRenderSystem) drawButtonText(screen *ebiten.Image, button *components.ButtonComponent, x, y float64) {
	centerX := x + button.Width/2
	centerY := y + button.Height/2

	if button.Face == nil {
		if button.Fallback == "" {
			return
		}
		w := float64(len(button.Fallback) * debugGlyphWidth)
		ebitenutil.DebugPrintAt(screen, button.Fallback, int(centerX-w/2), int(centerY-debugGlyphHeight/2))
		return
	}

	w, h := text.Measure(button.Text, button.Face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(centerX-w/2, centerY-h/2)
	op.ColorScale.ScaleWithColor(button.TextColor)
	text.Draw(screen, button.Text, button.Face, op)
}
