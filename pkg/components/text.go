package components

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// TextComponent 场景中的文字网格
//
// 由字体加载完成回调创建，Face 在此之前不存在。
type TextComponent struct {
	Text  string
	Face  *text.GoTextFace
	Color color.RGBA
	Size  float64 // 世界单位字号
}
