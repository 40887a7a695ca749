package components

import (
	"github.com/gonewx/rocketlaunch/internal/vecmath"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
)

// TransformComponent 实体在父节点坐标系中的变换
//
// 旋转使用 XYZ 顺序的欧拉角（弧度），即先绕 Z、再绕 Y、最后绕 X 作用于顶点。
// Parent 为 0 表示直接挂在场景根节点下。
type TransformComponent struct {
	Position vecmath.Vec3 // 局部位置
	Rotation vecmath.Vec3 // 局部欧拉角（弧度）
	Scale    vecmath.Vec3 // 局部缩放
	Parent   ecs.EntityID // 父实体
}

// NewTransform 创建单位缩放、无旋转的变换
func NewTransform(x, y, z float64) *TransformComponent {
	return &TransformComponent{
		Position: vecmath.V3(x, y, z),
		Scale:    vecmath.V3(1, 1, 1),
	}
}

// Apply 将局部变换作用于点 p（缩放 → 旋转 → 平移）
func (t *TransformComponent) Apply(p vecmath.Vec3) vecmath.Vec3 {
	p = p.Mul(t.Scale)
	p = p.RotateZ(t.Rotation.Z).RotateY(t.Rotation.Y).RotateX(t.Rotation.X)
	return p.Add(t.Position)
}
