package components

import (
	"image/color"

	"github.com/gonewx/rocketlaunch/internal/vecmath"
)

// MeshKind 网格几何类型
type MeshKind int

const (
	// MeshBox 长方体，尺寸见 Size
	MeshBox MeshKind = iota
	// MeshCylinder 圆柱/圆锥，见 RadiusTop、RadiusBottom、Height
	MeshCylinder
	// MeshRing 圆环弧段，几何参数见同实体上的 RingGeometryComponent
	MeshRing
	// MeshPolygon 平面多边形，顶点见 Outline（局部坐标）
	MeshPolygon
	// MeshLine 折线，顶点见 Outline（局部坐标）
	MeshLine
)

// String 返回几何类型名称（日志用）
func (k MeshKind) String() string {
	switch k {
	case MeshBox:
		return "box"
	case MeshCylinder:
		return "cylinder"
	case MeshRing:
		return "ring"
	case MeshPolygon:
		return "polygon"
	case MeshLine:
		return "line"
	default:
		return "unknown"
	}
}

// 绘制层：小于 LayerObject 的层按层号依次绘制（地面、路面），
// 阴影绘制在它们之上，LayerObject 及以上按深度排序。
const (
	LayerGround      = 0
	LayerRoad        = 1
	LayerRoadMarking = 2
	LayerObject      = 10
)

// MeshComponent 可渲染几何体
//
// 纯数据组件：只描述形状与材质颜色，投影与着色由 RenderSystem 完成。
type MeshComponent struct {
	Kind  MeshKind
	Color color.RGBA

	// 长方体尺寸（宽、高、深）
	Size vecmath.Vec3

	// 圆柱参数（RadiusTop 为 0 时即为圆锥）
	RadiusTop    float64
	RadiusBottom float64
	Height       float64

	// 多边形/折线顶点
	Outline []vecmath.Vec3

	// CastShadow 是否在地面投射阴影
	CastShadow bool

	// Layer 绘制层
	Layer int
}
