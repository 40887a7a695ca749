package entities

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand"

	"github.com/gonewx/rocketlaunch/internal/vecmath"
	"github.com/gonewx/rocketlaunch/pkg/components"
	"github.com/gonewx/rocketlaunch/pkg/config"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
	"github.com/gonewx/rocketlaunch/pkg/systems"
)

// 场景材质颜色
var (
	colorGround    = color.RGBA{0x95, 0xd5, 0xb2, 0xff}
	colorRoad      = color.RGBA{0x49, 0x50, 0x57, 0xff}
	colorDash      = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorRocketRed = color.RGBA{0xe7, 0x1d, 0x36, 0xff}
	colorRocketOrg = color.RGBA{0xff, 0x9f, 0x1c, 0xff}
	colorStick     = color.RGBA{0x34, 0x3a, 0x40, 0xff}
	colorFlame     = color.RGBA{0xd9, 0x04, 0x29, 0xff}
	colorAmbient   = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
	colorWhite     = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

const (
	// GroundTopY 地面上表面高度（阴影平面）
	GroundTopY = 2.0

	// flameCount 火花簇中火焰片数量
	flameCount = 4
	// sparkScale 火花簇缩放
	sparkScale = 0.3
)

// LaunchSceneEntities 发射场景中的关键实体
type LaunchSceneEntities struct {
	Ground       ecs.EntityID
	Road         ecs.EntityID
	Dashes       []ecs.EntityID
	Rocket       ecs.EntityID
	RocketParts  []ecs.EntityID // 头、身体各节、杆
	FuseRing     ecs.EntityID
	SparkCluster ecs.EntityID
	Flames       []ecs.EntityID
	FuseLine     ecs.EntityID
	Lights       []ecs.EntityID
}

// Targets 返回发射流程需要驱动的实体
func (e LaunchSceneEntities) Targets() systems.LaunchTargets {
	return systems.LaunchTargets{
		SparkCluster: e.SparkCluster,
		Rocket:       e.Rocket,
		FuseRing:     e.FuseRing,
	}
}

// BuildLaunchScene 创建发射场景的全部静态实体
//
// 参数：
//   - em: 实体管理器
//   - cfg: 场景配置（导火索环初始弧度、fuse-line 曲线）
//   - rng: 火焰轮廓的随机源
//
// 返回：
//   - LaunchSceneEntities: 关键实体
//   - error: fuse-line 片段无法构建时返回
func BuildLaunchScene(em *ecs.EntityManager, cfg *config.LaunchConfig, rng *rand.Rand) (LaunchSceneEntities, error) {
	var ents LaunchSceneEntities

	ents.Ground = newMesh(em, 0, vecmath.V3(0, 1, 0), &components.MeshComponent{
		Kind:  components.MeshBox,
		Color: colorGround,
		Size:  vecmath.V3(100, 2, 100),
		Layer: components.LayerGround,
	})

	ents.Road = newGroup(em, 0, vecmath.V3(0, 0, 10), true)
	newMesh(em, ents.Road, vecmath.V3(0, 2.5, 25), &components.MeshComponent{
		Kind:  components.MeshBox,
		Color: colorRoad,
		Size:  vecmath.V3(100, 1, 30),
		Layer: components.LayerRoad,
	})
	dashSet := newGroup(em, ents.Road, vecmath.Vec3{}, true)
	for _, z := range []float64{24, 26} {
		for i := 0; i < 5; i++ {
			ents.Dashes = append(ents.Dashes, newMesh(em, dashSet, vecmath.V3(-40+20*float64(i), 3, z), &components.MeshComponent{
				Kind:  components.MeshBox,
				Color: colorDash,
				Size:  vecmath.V3(10, 0.1, 1),
				Layer: components.LayerRoadMarking,
			}))
		}
	}

	buildRocket(em, cfg, &ents)
	buildSparkCluster(em, rng, &ents)

	if err := buildFuseLine(em, cfg, &ents); err != nil {
		return ents, err
	}

	ents.Lights = append(ents.Lights,
		newLight(em, components.LightAmbient, colorAmbient, vecmath.Vec3{}),
		newLight(em, components.LightPoint, colorWhite, vecmath.V3(100, 100, 50)),
		newLight(em, components.LightDirectional, colorWhite, vecmath.V3(100, 100, 50)),
	)

	log.Printf("[SceneFactory] Launch scene built: %d entities", em.EntityCount())
	return ents, nil
}

func buildRocket(em *ecs.EntityManager, cfg *config.LaunchConfig, ents *LaunchSceneEntities) {
	ents.Rocket = newGroup(em, 0, vecmath.V3(-10, 2, 5), true)

	ents.RocketParts = append(ents.RocketParts, newMesh(em, ents.Rocket, vecmath.V3(0, 10.5, 0), &components.MeshComponent{
		Kind:         components.MeshCylinder,
		Color:        colorRocketRed,
		RadiusTop:    0,
		RadiusBottom: 1.5,
		Height:       3,
		CastShadow:   true,
		Layer:        components.LayerObject,
	}))

	body := newGroup(em, ents.Rocket, vecmath.V3(0, 3.5, 0), true)
	for i := 0; i < 6; i++ {
		clr := colorRocketRed
		if i%2 == 1 {
			clr = colorRocketOrg
		}
		ents.RocketParts = append(ents.RocketParts, newMesh(em, body, vecmath.V3(0, float64(i), 0), &components.MeshComponent{
			Kind:         components.MeshCylinder,
			Color:        clr,
			RadiusTop:    1,
			RadiusBottom: 1,
			Height:       1,
			CastShadow:   true,
			Layer:        components.LayerObject,
		}))
	}

	ents.RocketParts = append(ents.RocketParts, newMesh(em, ents.Rocket, vecmath.V3(0, 1.5, 0), &components.MeshComponent{
		Kind:         components.MeshCylinder,
		Color:        colorStick,
		RadiusTop:    0.2,
		RadiusBottom: 0.2,
		Height:       3,
		CastShadow:   true,
		Layer:        components.LayerObject,
	}))

	// 导火索环：先绕 Y 再绕 X 翻转半圈
	ents.FuseRing = newMesh(em, ents.Rocket, vecmath.V3(1.5, 3, 0), &components.MeshComponent{
		Kind:       components.MeshRing,
		Color:      colorRocketRed,
		CastShadow: true,
		Layer:      components.LayerObject,
	})
	tr, _ := ecs.GetComponent[*components.TransformComponent](em, ents.FuseRing)
	tr.Rotation = vecmath.V3(math.Pi, math.Pi, 0)
	ecs.AddComponent(em, ents.FuseRing, &components.RingGeometryComponent{
		Radius:          1,
		Tube:            0.1,
		RadialSegments:  16,
		TubularSegments: 16,
		Arc:             cfg.Ignite.RingStartAngle,
	})
}

func buildSparkCluster(em *ecs.EntityManager, rng *rand.Rand, ents *LaunchSceneEntities) {
	ents.SparkCluster = newGroup(em, 0, vecmath.V3(-8.5, 4, 5), false)
	tr, _ := ecs.GetComponent[*components.TransformComponent](em, ents.SparkCluster)
	tr.Scale = vecmath.V3(sparkScale, sparkScale, sparkScale)

	for i := 0; i < flameCount; i++ {
		spin := 2*math.Pi - math.Pi/2*float64(i+1)
		outline := FlameOutline(rng)
		for k, p := range outline {
			outline[k] = p.RotateX(math.Pi / 6).RotateY(spin).RotateZ(-math.Pi / 2)
		}

		ents.Flames = append(ents.Flames, newMesh(em, ents.SparkCluster, vecmath.Vec3{}, &components.MeshComponent{
			Kind:    components.MeshPolygon,
			Color:   colorFlame,
			Outline: outline,
			Layer:   components.LayerObject,
		}))
	}
}

// FlameOutline 生成一片火焰的轮廓（XY 平面，首尾闭合）
//
// 三个火舌的顶点带随机抖动：x 抖动 ±0.1，y 抖动 ±0.5。
func FlameOutline(rng *rand.Rand) []vecmath.Vec3 {
	jx := func() float64 { return (rng.Float64() - 0.5) / 5 }
	jy := func() float64 { return rng.Float64() - 0.5 }

	return []vecmath.Vec3{
		vecmath.V3(1, 0, 0),
		vecmath.V3(2+jx(), 2+jy(), 0),
		vecmath.V3(1+jx(), 1.5+jy(), 0),
		vecmath.V3(1+jx(), 3+jy(), 0),
		vecmath.V3(0+jx(), 1.5+jy(), 0),
		vecmath.V3(-1+jx(), 3+jy(), 0),
		vecmath.V3(-1+jx(), 1.5+jy(), 0),
		vecmath.V3(-2+jx(), 2+jy(), 0),
		vecmath.V3(-1, 0, 0),
		vecmath.V3(1, 0, 0),
	}
}

// buildFuseLine 沿 fuse-line 关键帧位置创建（隐藏的）导火索折线
func buildFuseLine(em *ecs.EntityManager, cfg *config.LaunchConfig, ents *LaunchSceneEntities) error {
	clip, err := cfg.BuildClip(config.EffectFuseLine)
	if err != nil {
		return fmt.Errorf("fuse line: %w", err)
	}

	var outline []vecmath.Vec3
	for _, track := range clip.Tracks {
		if track.ValueSize() != 3 {
			continue
		}
		for i := 0; i+2 < len(track.Values); i += 3 {
			outline = append(outline, vecmath.V3(track.Values[i], track.Values[i+1], track.Values[i+2]))
		}
	}

	ents.FuseLine = newMesh(em, 0, vecmath.Vec3{}, &components.MeshComponent{
		Kind:    components.MeshLine,
		Color:   colorFlame,
		Outline: outline,
		Layer:   components.LayerObject,
	})
	vis, _ := ecs.GetComponent[*components.VisibilityComponent](em, ents.FuseLine)
	vis.Visible = false
	return nil
}

// RegisterLaunchEffects 为三个帧驱动效果创建效果实体
func RegisterLaunchEffects(effects *systems.EffectSystem, cfg *config.LaunchConfig, ents LaunchSceneEntities) error {
	targets := map[string]ecs.EntityID{
		config.EffectSparkFlicker: ents.SparkCluster,
		config.EffectFuseLine:     ents.SparkCluster,
		config.EffectRocketAscent: ents.Rocket,
	}

	for _, id := range config.EffectIDs {
		clip, err := cfg.BuildClip(id)
		if err != nil {
			return err
		}
		effCfg := cfg.Effects[id]
		effects.CreateEffect(id, clip, targets[id], effCfg.LoopMode(), effCfg.Clamp)
	}
	return nil
}

func newGroup(em *ecs.EntityManager, parent ecs.EntityID, pos vecmath.Vec3, visible bool) ecs.EntityID {
	entity := em.CreateEntity()
	tr := components.NewTransform(pos.X, pos.Y, pos.Z)
	tr.Parent = parent
	ecs.AddComponent(em, entity, tr)
	ecs.AddComponent(em, entity, components.NewVisibility(visible))
	return entity
}

func newMesh(em *ecs.EntityManager, parent ecs.EntityID, pos vecmath.Vec3, mesh *components.MeshComponent) ecs.EntityID {
	entity := newGroup(em, parent, pos, true)
	ecs.AddComponent(em, entity, mesh)
	return entity
}

func newLight(em *ecs.EntityManager, kind components.LightKind, clr color.RGBA, pos vecmath.Vec3) ecs.EntityID {
	entity := em.CreateEntity()
	ecs.AddComponent(em, entity, &components.LightComponent{
		Kind:      kind,
		Color:     clr,
		Intensity: 0.4,
		Position:  pos,
	})
	return entity
}
