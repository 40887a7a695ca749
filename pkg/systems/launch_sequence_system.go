package systems

import (
	"log"
	"time"

	"github.com/gonewx/rocketlaunch/pkg/components"
	"github.com/gonewx/rocketlaunch/pkg/config"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
)

// 文字实体名称
const (
	ExplodeTextName  = "explodeText"
	ExplodeText2Name = "explodeText2"
)

// LaunchTargets 发射流程需要操作的场景实体
type LaunchTargets struct {
	SparkCluster ecs.EntityID // 火花簇（spark-flicker 与 fuse-line 的目标）
	Rocket       ecs.EntityID // 火箭整体（rocket-ascent 的目标）
	FuseRing     ecs.EntityID // 导火索环（RingGeometryComponent）
}

// LaunchSequenceSystem 串联点火 → 导火索燃烧 → 火箭升空 → 文字显示的流程
//
// 流程：
//  1. Ignite：显示火花（仅未发射时），重新播放 spark-flicker 与 fuse-line，
//     启动导火索环定时器
//  2. fuse-line 完成：隐藏火花，开始 rocket-ascent
//  3. rocket-ascent 完成：隐藏火箭，标记已发射，显示 explodeText，
//     延迟后隐藏 explodeText，再延迟后显示 explodeText2
//
// 完成事件在 Advance 内同步分发，分发表按效果ID索引。
type LaunchSequenceSystem struct {
	entityManager *ecs.EntityManager
	effects       *EffectSystem
	timers        *TimerSystem
	targets       LaunchTargets

	// launchFinished 只会由 false 变为 true 一次
	launchFinished bool

	// 导火索环：弧度只减不增，从不复位
	ringAngle  float64
	ringStep   float64
	ringPeriod time.Duration
	ringTimer  TimerHandle

	textHideDelay time.Duration
	textShowDelay time.Duration

	onCompleted map[string]func()
	igniteCount int
}

// NewLaunchSequenceSystem 创建发射流程系统
//
// 三个效果必须已通过 EffectSystem.CreateEffect 注册。
func NewLaunchSequenceSystem(em *ecs.EntityManager, effects *EffectSystem, timers *TimerSystem, cfg *config.LaunchConfig, targets LaunchTargets) *LaunchSequenceSystem {
	s := &LaunchSequenceSystem{
		entityManager: em,
		effects:       effects,
		timers:        timers,
		targets:       targets,
		ringAngle:     cfg.Ignite.RingStartAngle,
		ringStep:      cfg.Ignite.RingStep,
		ringPeriod:    cfg.RingPeriod(),
		textHideDelay: cfg.TextHideDelay(),
		textShowDelay: cfg.TextShowDelay(),
	}

	s.onCompleted = map[string]func(){
		config.EffectFuseLine:     s.onFuseLineCompleted,
		config.EffectRocketAscent: s.onRocketAscentCompleted,
	}

	log.Printf("[LaunchSequence] Created (ring=%.4f rad, step=%.4f, period=%v)", s.ringAngle, s.ringStep, s.ringPeriod)
	return s
}

// Ignite 点火（可重复调用）
//
// 发射完成后再次点火不会重新显示火花，但 fuse-line 与导火索环定时器
// 仍会重新启动；导火索环弧度已耗尽时，新定时器在第一次触发时即取消。
func (s *LaunchSequenceSystem) Ignite() {
	s.igniteCount++
	log.Printf("[LaunchSequence] Ignite #%d (launchFinished=%v)", s.igniteCount, s.launchFinished)

	if !s.launchFinished {
		s.setVisible(s.targets.SparkCluster, true)
	}

	if !s.ringTimer.Active() {
		s.ringTimer = s.timers.Every("fuse_ring", s.ringPeriod, s.burnFuseRing)
	}

	s.effects.Replay(config.EffectSparkFlicker)
	s.effects.Replay(config.EffectFuseLine)
}

// Advance 推进指定效果，跨过终点时同步分发完成事件
func (s *LaunchSequenceSystem) Advance(effectID string, deltaTime float64) {
	if !s.effects.Advance(effectID, deltaTime) {
		return
	}
	if handler, ok := s.onCompleted[effectID]; ok {
		handler()
	}
}

// burnFuseRing 导火索环定时器回调：弧度 > 0 时按当前弧度重建几何体并递减，否则取消定时器
func (s *LaunchSequenceSystem) burnFuseRing() {
	if s.ringAngle > 0 {
		s.regenerateRing(s.ringAngle)
		s.ringAngle -= s.ringStep
		return
	}

	s.ringTimer.Cancel()
	log.Printf("[LaunchSequence] Fuse ring exhausted (angle=%.4f), timer cancelled", s.ringAngle)
}

func (s *LaunchSequenceSystem) regenerateRing(arc float64) {
	ring, ok := ecs.GetComponent[*components.RingGeometryComponent](s.entityManager, s.targets.FuseRing)
	if !ok {
		return
	}
	ring.Arc = arc
	ring.Generation++
}

func (s *LaunchSequenceSystem) onFuseLineCompleted() {
	log.Printf("[LaunchSequence] fuse-line completed → hide sparks, start rocket-ascent")
	s.setVisible(s.targets.SparkCluster, false)
	s.effects.Start(config.EffectRocketAscent)
}

func (s *LaunchSequenceSystem) onRocketAscentCompleted() {
	log.Printf("[LaunchSequence] rocket-ascent completed → hide rocket, reveal text")
	s.setVisible(s.targets.Rocket, false)
	s.launchFinished = true
	s.setVisibleByName(ExplodeTextName, true)

	s.timers.After("hide_explode_text", s.textHideDelay, func() {
		s.setVisibleByName(ExplodeTextName, false)
		s.timers.After("show_explode_text2", s.textShowDelay, func() {
			s.setVisibleByName(ExplodeText2Name, true)
		})
	})
}

func (s *LaunchSequenceSystem) setVisible(entity ecs.EntityID, visible bool) {
	if vis, ok := ecs.GetComponent[*components.VisibilityComponent](s.entityManager, entity); ok {
		vis.Visible = visible
	}
}

// setVisibleByName 按名称设置可见性；字体未加载完成时文字实体不存在，直接忽略
func (s *LaunchSequenceSystem) setVisibleByName(name string, visible bool) {
	entity, ok := FindEntityByName(s.entityManager, name)
	if !ok {
		log.Printf("[LaunchSequence] %s not loaded, skip visibility=%v", name, visible)
		return
	}
	s.setVisible(entity, visible)
}

// LaunchFinished 火箭是否已完成发射
func (s *LaunchSequenceSystem) LaunchFinished() bool {
	return s.launchFinished
}

// RingAngle 返回导火索环当前弧度参数
func (s *LaunchSequenceSystem) RingAngle() float64 {
	return s.ringAngle
}

// RingTimerActive 导火索环定时器是否在运行
func (s *LaunchSequenceSystem) RingTimerActive() bool {
	return s.ringTimer.Active()
}

// IgniteCount 返回点火次数
func (s *LaunchSequenceSystem) IgniteCount() int {
	return s.igniteCount
}

// FindEntityByName 查找第一个名称匹配的实体
func FindEntityByName(em *ecs.EntityManager, name string) (ecs.EntityID, bool) {
	for _, entity := range ecs.GetEntitiesWith1[*components.NameComponent](em) {
		if n, ok := ecs.GetComponent[*components.NameComponent](em, entity); ok && n.Name == name {
			return entity, true
		}
	}
	return 0, false
}
