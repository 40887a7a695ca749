package systems

import (
	"math"

	"github.com/gonewx/rocketlaunch/internal/vecmath"
	"github.com/gonewx/rocketlaunch/pkg/components"
	"github.com/gonewx/rocketlaunch/pkg/config"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
	"github.com/gonewx/rocketlaunch/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// zoomStep 滚轮每格的缩放倍率
const zoomStep = 1.1

// CameraInput 一帧的相机输入
type CameraInput struct {
	Forward, Back, Left, Right bool
	Wheel                      float64 // 滚轮纵向增量，正值放大
}

// ReadCameraInput 从 ebiten 读取 WASD 与滚轮输入
func ReadCameraInput() CameraInput {
	_, wheelY := ebiten.Wheel()
	return CameraInput{
		Forward: ebiten.IsKeyPressed(ebiten.KeyW),
		Back:    ebiten.IsKeyPressed(ebiten.KeyS),
		Left:    ebiten.IsKeyPressed(ebiten.KeyA),
		Right:   ebiten.IsKeyPressed(ebiten.KeyD),
		Wheel:   wheelY,
	}
}

// CameraSystem 正交相机控制：WASD 在地面平移（带阻尼），滚轮缩放。
type CameraSystem struct {
	entityManager *ecs.EntityManager
	cameraEntity  ecs.EntityID
	initial       components.CameraComponent
}

// NewCameraSystem 创建相机系统并按配置创建相机实体
func NewCameraSystem(em *ecs.EntityManager, cfg config.CameraConfig) *CameraSystem {
	cs := &CameraSystem{
		entityManager: em,
		initial: components.CameraComponent{
			Position:    vecmath.V3(cfg.Position[0], cfg.Position[1], cfg.Position[2]),
			Zoom:        1,
			MinZoom:     cfg.MinZoom,
			MaxZoom:     cfg.MaxZoom,
			FrustumDiv:  cfg.FrustumDiv,
			PanSpeed:    cfg.PanSpeed,
			DampingRate: cfg.DampingRate,
		},
	}

	cs.cameraEntity = em.CreateEntity()
	camera := cs.initial
	ecs.AddComponent(em, cs.cameraEntity, &camera)
	return cs
}

// Camera 返回相机组件
func (cs *CameraSystem) Camera() *components.CameraComponent {
	camera, _ := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	return camera
}

// HandleInput 应用一帧输入
func (cs *CameraSystem) HandleInput(in CameraInput, dt float64) {
	camera := cs.Camera()
	if camera == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}

	forward, right := groundAxes(camera)
	dir := vecmath.Vec3{}
	if in.Forward {
		dir = dir.Add(forward)
	}
	if in.Back {
		dir = dir.Sub(forward)
	}
	if in.Right {
		dir = dir.Add(right)
	}
	if in.Left {
		dir = dir.Sub(right)
	}

	if dir.Len() > 0 {
		camera.Velocity = dir.Normalize().Scale(camera.PanSpeed)
	} else {
		camera.Velocity = camera.Velocity.Scale(camera.DampingRate)
		if camera.Velocity.Len() < 1e-3 {
			camera.Velocity = vecmath.Vec3{}
		}
	}

	step := camera.Velocity.Scale(dt)
	camera.Position = camera.Position.Add(step)
	camera.Target = camera.Target.Add(step)

	if in.Wheel != 0 {
		camera.Zoom = utils.Clamp(camera.Zoom*math.Pow(zoomStep, in.Wheel), camera.MinZoom, camera.MaxZoom)
	}
}

// Reset 恢复初始位置与缩放
func (cs *CameraSystem) Reset() {
	if camera := cs.Camera(); camera != nil {
		*camera = cs.initial
	}
}

// SetZoom 设置缩放（会被限制在允许范围内）
func (cs *CameraSystem) SetZoom(zoom float64) {
	if camera := cs.Camera(); camera != nil {
		camera.Zoom = utils.Clamp(zoom, camera.MinZoom, camera.MaxZoom)
	}
}

// DragPan 按屏幕拖拽量平移相机（触摸与鼠标拖拽）
//
// 画面跟随指针移动：向右拖拽时相机向左移动。pixelsPerUnit 为当前投影的
// 每世界单位像素数。
func (cs *CameraSystem) DragPan(dx, dy, pixelsPerUnit float64) {
	camera := cs.Camera()
	if camera == nil || pixelsPerUnit <= 0 {
		return
	}
	forward, right := groundAxes(camera)
	step := right.Scale(-dx / pixelsPerUnit).Add(forward.Scale(dy / pixelsPerUnit))
	camera.Position = camera.Position.Add(step)
	camera.Target = camera.Target.Add(step)
	camera.Velocity = vecmath.Vec3{}
}

// Pan 返回相机相对初始位置在地面上的偏移
func (cs *CameraSystem) Pan() (x, z float64) {
	camera := cs.Camera()
	if camera == nil {
		return 0, 0
	}
	d := camera.Target.Sub(cs.initial.Target)
	return d.X, d.Z
}

// SetPan 将相机移动到相对初始位置 (x, z) 的偏移处，并清除残余速度
func (cs *CameraSystem) SetPan(x, z float64) {
	camera := cs.Camera()
	if camera == nil {
		return
	}
	offset := vecmath.V3(x, 0, z)
	camera.Position = cs.initial.Position.Add(offset)
	camera.Target = cs.initial.Target.Add(offset)
	camera.Velocity = vecmath.Vec3{}
}

// Projector 返回当前相机状态下的投影器
func (cs *CameraSystem) Projector(width, height int) *utils.Projector {
	camera := cs.Camera()
	return utils.NewProjector(camera.Position, camera.Target, camera.Zoom, camera.FrustumDiv, width, height)
}

// groundAxes 返回相机朝向在地面上的投影及其右方向
func groundAxes(camera *components.CameraComponent) (forward, right vecmath.Vec3) {
	view := camera.Target.Sub(camera.Position)
	forward = vecmath.V3(view.X, 0, view.Z).Normalize()
	right = forward.Cross(vecmath.V3(0, 1, 0)).Normalize()
	return forward, right
}
