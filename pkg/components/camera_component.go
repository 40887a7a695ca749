package components

import "github.com/gonewx/rocketlaunch/internal/vecmath"

// CameraComponent 正交相机状态
//
// 相机始终看向 Target，方向由 Position - Target 决定（等轴测视角）。
// 平移通过 Velocity 带阻尼地作用于 Position 与 Target。
type CameraComponent struct {
	Position vecmath.Vec3 // 相机位置（世界坐标）
	Target   vecmath.Vec3 // 观察点
	Velocity vecmath.Vec3 // 平移速度（世界单位/秒）

	Zoom       float64 // 缩放倍数
	MinZoom    float64
	MaxZoom    float64
	FrustumDiv float64 // 视口像素 / FrustumDiv = 可视世界宽度

	PanSpeed    float64 // 键盘平移速度
	DampingRate float64 // 每帧速度保留比例（0~1）
}
