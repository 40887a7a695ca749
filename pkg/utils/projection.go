// Package utils 提供场景渲染与帧循环中常用的工具
//
// projection.go 提供正交相机的世界坐标 → 屏幕坐标投影。
//
// # 坐标系统概述
//
//   - **世界坐标**：右手系，Y 轴向上，单位为场景单位
//   - **视图坐标**：相机位于 Position、看向 Target，右/上/前三个基向量
//   - **屏幕坐标**：相对窗口左上角的像素，Y 轴向下
//
// # 核心转换公式
//
//	d       = p - Position
//	screenX = width/2  + (d·right) * scale
//	screenY = height/2 - (d·up)    * scale
//	depth   = d·forward           （越大越远，用于画家算法排序）
//	scale   = zoom * frustumDiv / 2
//
// frustumDiv 对应视口宽高除以 frustumDiv 作为正交视锥半宽/半高，
// 因此每个场景单位占 frustumDiv/2 像素（zoom=1 时）。
package utils

import (
	"math"

	"github.com/gonewx/rocketlaunch/internal/vecmath"
)

// worldUp 世界坐标系的上方向
var worldUp = vecmath.V3(0, 1, 0)

// Projector 正交投影器，每帧由相机状态重建
type Projector struct {
	position vecmath.Vec3
	right    vecmath.Vec3
	up       vecmath.Vec3
	forward  vecmath.Vec3
	scale    float64
	halfW    float64
	halfH    float64
}

// NewProjector 创建正交投影器
//
// 参数：
//   - position: 相机位置
//   - target: 相机注视点
//   - zoom: 缩放倍数（>0）
//   - frustumDiv: 视锥除数（>0）
//   - width, height: 屏幕尺寸（像素）
func NewProjector(position, target vecmath.Vec3, zoom, frustumDiv float64, width, height int) *Projector {
	forward := target.Sub(position).Normalize()
	right := forward.Cross(worldUp)
	if right.Len() < 1e-9 {
		// 垂直俯视时退化，改用 -Z 作为参考上方向
		right = forward.Cross(vecmath.V3(0, 0, -1))
	}
	right = right.Normalize()
	up := right.Cross(forward)

	return &Projector{
		position: position,
		right:    right,
		up:       up,
		forward:  forward,
		scale:    zoom * frustumDiv / 2,
		halfW:    float64(width) / 2,
		halfH:    float64(height) / 2,
	}
}

// Project 将世界坐标投影到屏幕，返回屏幕坐标和深度
func (p *Projector) Project(world vecmath.Vec3) (x, y, depth float64) {
	d := world.Sub(p.position)
	x = p.halfW + d.Dot(p.right)*p.scale
	y = p.halfH - d.Dot(p.up)*p.scale
	depth = d.Dot(p.forward)
	return x, y, depth
}

// Forward 返回相机朝向（单位向量）
func (p *Projector) Forward() vecmath.Vec3 {
	return p.forward
}

// Right 返回相机右方向（单位向量）
func (p *Projector) Right() vecmath.Vec3 {
	return p.right
}

// Scale 返回每个场景单位对应的像素数
func (p *Projector) Scale() float64 {
	return p.scale
}

// FacesCamera 判断法线为 normal 的面是否朝向相机（正交投影只看朝向）
func (p *Projector) FacesCamera(normal vecmath.Vec3) bool {
	return normal.Dot(p.forward) < 0
}

// Clamp 把 v 限制在 [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
