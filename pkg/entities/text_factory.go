package entities

import (
	"math"

	"github.com/gonewx/rocketlaunch/pkg/components"
	"github.com/gonewx/rocketlaunch/pkg/config"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// NewExplodeText 创建一段庆祝文字（初始隐藏）
//
// 文字位于 (-23, 100, 18)，绕 Y 轴旋转 π/4，与火箭升空终点同高。
//
// 参数：
//   - em: 实体管理器
//   - name: 实体名称（发射流程按名称切换可见性）
//   - content: 文字内容
//   - source: 已加载的字体
//   - cfg: 文字配置（字号、颜色）
func NewExplodeText(em *ecs.EntityManager, name, content string, source *text.GoTextFaceSource, cfg config.TextConfig) ecs.EntityID {
	entity := em.CreateEntity()

	tr := components.NewTransform(-23, 100, 18)
	tr.Rotation.Y = math.Pi / 4
	ecs.AddComponent(em, entity, tr)
	ecs.AddComponent(em, entity, components.NewVisibility(false))
	ecs.AddComponent(em, entity, &components.NameComponent{Name: name})
	ecs.AddComponent(em, entity, &components.TextComponent{
		Text:  content,
		Face:  &text.GoTextFace{Source: source, Size: cfg.Size},
		Color: config.MustHexColor(cfg.Color),
		Size:  cfg.Size,
	})
	return entity
}
