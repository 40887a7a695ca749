package components

import (
	"image/color"

	"github.com/gonewx/rocketlaunch/internal/vecmath"
)

// LightKind 光源类型
type LightKind int

const (
	LightAmbient LightKind = iota
	LightDirectional
	LightPoint
)

// LightComponent 光源
//
// 渲染系统只做平面着色：环境光为常量项，方向光/点光按面法线计算漫反射。
type LightComponent struct {
	Kind      LightKind
	Color     color.RGBA
	Intensity float64
	Position  vecmath.Vec3 // 方向光：从 Position 指向原点
}
