package systems

import (
	"testing"

	"github.com/gonewx/rocketlaunch/pkg/components"
	"github.com/gonewx/rocketlaunch/pkg/config"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
)

// testLaunchScene 测试用的最小发射场景（不依赖渲染资源）
type testLaunchScene struct {
	em       *ecs.EntityManager
	effects  *EffectSystem
	timers   *TimerSystem
	sequence *LaunchSequenceSystem
	targets  LaunchTargets
	text1    ecs.EntityID
	text2    ecs.EntityID
}

// newTestLaunchScene 按配置创建火花、火箭、导火索环和两段文字，并注册三个效果
//
// withText 为 false 时模拟字体尚未加载完成。
func newTestLaunchScene(t *testing.T, cfg *config.LaunchConfig, withText bool) *testLaunchScene {
	t.Helper()

	em := ecs.NewEntityManager()
	sc := &testLaunchScene{
		em:      em,
		effects: NewEffectSystem(em),
		timers:  NewTimerSystem(em),
	}

	sc.targets.SparkCluster = em.CreateEntity()
	ecs.AddComponent(em, sc.targets.SparkCluster, components.NewTransform(-8.5, 4, 5))
	ecs.AddComponent(em, sc.targets.SparkCluster, components.NewVisibility(false))

	sc.targets.Rocket = em.CreateEntity()
	ecs.AddComponent(em, sc.targets.Rocket, components.NewTransform(-10, 2, 5))
	ecs.AddComponent(em, sc.targets.Rocket, components.NewVisibility(true))

	sc.targets.FuseRing = em.CreateEntity()
	ecs.AddComponent(em, sc.targets.FuseRing, components.NewTransform(1.5, 3, 0))
	ecs.AddComponent(em, sc.targets.FuseRing, &components.RingGeometryComponent{
		Radius: 1.5, Tube: 0.1, RadialSegments: 8, TubularSegments: 32, Arc: cfg.Ignite.RingStartAngle,
	})

	if withText {
		sc.text1 = newTestNamedEntity(em, ExplodeTextName)
		sc.text2 = newTestNamedEntity(em, ExplodeText2Name)
	}

	targetOf := map[string]ecs.EntityID{
		config.EffectSparkFlicker: sc.targets.SparkCluster,
		config.EffectFuseLine:     sc.targets.SparkCluster,
		config.EffectRocketAscent: sc.targets.Rocket,
	}
	for _, id := range config.EffectIDs {
		clip, err := cfg.BuildClip(id)
		if err != nil {
			t.Fatalf("BuildClip(%s): %v", id, err)
		}
		effCfg := cfg.Effects[id]
		sc.effects.CreateEffect(id, clip, targetOf[id], effCfg.LoopMode(), effCfg.Clamp)
	}

	sc.sequence = NewLaunchSequenceSystem(em, sc.effects, sc.timers, cfg, sc.targets)
	return sc
}

func newTestNamedEntity(em *ecs.EntityManager, name string) ecs.EntityID {
	entity := em.CreateEntity()
	ecs.AddComponent(em, entity, &components.NameComponent{Name: name})
	ecs.AddComponent(em, entity, components.NewTransform(0, 0, 0))
	ecs.AddComponent(em, entity, components.NewVisibility(false))
	return entity
}

// visible 返回实体的 Visible 标志（无组件视为不可见）
func (sc *testLaunchScene) visible(entity ecs.EntityID) bool {
	vis, ok := ecs.GetComponent[*components.VisibilityComponent](sc.em, entity)
	return ok && vis.Visible
}

func (sc *testLaunchScene) transform(entity ecs.EntityID) *components.TransformComponent {
	tr, _ := ecs.GetComponent[*components.TransformComponent](sc.em, entity)
	return tr
}

// launch 点火并把 fuse-line 与 rocket-ascent 推进到完成
func (sc *testLaunchScene) launch() {
	sc.sequence.Ignite()
	sc.sequence.Advance(config.EffectFuseLine, 1.0)
	sc.sequence.Advance(config.EffectRocketAscent, 1.5)
}
