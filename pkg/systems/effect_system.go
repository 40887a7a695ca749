package systems

import (
	"log"
	"math"

	"github.com/gonewx/rocketlaunch/internal/keyframe"
	"github.com/gonewx/rocketlaunch/pkg/components"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
)

// playheadEpsilon 播放头与时长相差不超过该值即视为到达终点（秒）
//
// 逐帧累加的浮点增量（如 90 × 1/60）会比时长略小。
const playheadEpsilon = 1e-9

// EffectSystem 播放关键帧效果
//
// 每个效果有独立的播放头，由调用方逐个 Advance（不是统一的 Update），
// 因此各效果可以使用各自的时钟。
//
// 状态机：Idle → Playing → Finished
//   - Start：仅 Idle → Playing
//   - Replay：Idle/Finished → Playing（从 0 重新开始），播放中调用无效
type EffectSystem struct {
	entityManager *ecs.EntityManager
	effects       map[string]ecs.EntityID // 效果ID → 效果实体
}

// NewEffectSystem 创建效果系统
func NewEffectSystem(em *ecs.EntityManager) *EffectSystem {
	return &EffectSystem{
		entityManager: em,
		effects:       make(map[string]ecs.EntityID),
	}
}

// CreateEffect 创建效果实体
//
// 参数：
//   - id: 效果标识符（重复创建会覆盖旧的映射）
//   - clip: 关键帧片段
//   - target: 被驱动的实体（需要 TransformComponent，opacity 轨道还需要 VisibilityComponent）
//   - loop: 循环模式
//   - clamp: 结束后是否保持最终值
func (s *EffectSystem) CreateEffect(id string, clip keyframe.Clip, target ecs.EntityID, loop keyframe.LoopMode, clamp bool) ecs.EntityID {
	entity := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, entity, &components.EffectComponent{
		ID:                id,
		Clip:              clip,
		Target:            target,
		Loop:              loop,
		ClampWhenFinished: clamp,
		State:             components.EffectIdle,
	})
	s.effects[id] = entity
	return entity
}

func (s *EffectSystem) effect(id string) (*components.EffectComponent, bool) {
	entity, ok := s.effects[id]
	if !ok {
		return nil, false
	}
	return ecs.GetComponent[*components.EffectComponent](s.entityManager, entity)
}

// Start 开始播放处于 Idle 状态的效果，返回是否真的开始了
func (s *EffectSystem) Start(id string) bool {
	eff, ok := s.effect(id)
	if !ok || eff.State != components.EffectIdle {
		return false
	}
	s.play(eff)
	return true
}

// Replay 从头播放 Idle 或 Finished 状态的效果，播放中返回 false
func (s *EffectSystem) Replay(id string) bool {
	eff, ok := s.effect(id)
	if !ok || eff.State == components.EffectPlaying {
		return false
	}
	s.play(eff)
	return true
}

func (s *EffectSystem) play(eff *components.EffectComponent) {
	// 记录目标当前值，用于不保持最终值时复位
	if tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, eff.Target); ok {
		eff.BindPosition = tr.Position
		eff.BindRotationZ = tr.Rotation.Z
	}
	if vis, ok := ecs.GetComponent[*components.VisibilityComponent](s.entityManager, eff.Target); ok {
		eff.BindOpacity = vis.Opacity
	}

	eff.Time = 0
	eff.State = components.EffectPlaying
	log.Printf("[EffectSystem] %s: → Playing", eff.ID)
}

// Advance 推进效果播放头并把插值结果写入目标
//
// 返回 true 表示本次推进使 LoopOnce 效果到达终点（即应发出完成事件）。
// 非 Playing 状态的效果不受影响；负的 deltaTime 按 0 处理。
// 累计推进量与时长的差在 playheadEpsilon 以内时按到达终点处理。
func (s *EffectSystem) Advance(id string, deltaTime float64) bool {
	eff, ok := s.effect(id)
	if !ok || eff.State != components.EffectPlaying {
		return false
	}
	if deltaTime < 0 || math.IsNaN(deltaTime) {
		deltaTime = 0
	}

	eff.Time += deltaTime
	duration := eff.Clip.Duration

	switch eff.Loop {
	case keyframe.LoopRepeat:
		if eff.Time >= duration-playheadEpsilon {
			eff.Time = math.Mod(eff.Time, duration)
			if eff.Time >= duration-playheadEpsilon {
				eff.Time = 0
			}
		}
		s.apply(eff, eff.Time)
		return false

	default:
		if eff.Time < duration-playheadEpsilon {
			s.apply(eff, eff.Time)
			return false
		}

		eff.Time = duration
		if eff.ClampWhenFinished {
			s.apply(eff, duration)
		} else {
			s.restore(eff)
		}
		eff.State = components.EffectFinished
		log.Printf("[EffectSystem] %s: Playing → Finished (t=%.3f)", eff.ID, eff.Time)
		return true
	}
}

// apply 在时刻 t 对所有轨道求值并写入目标属性
func (s *EffectSystem) apply(eff *components.EffectComponent, t float64) {
	for _, track := range eff.Clip.Tracks {
		value := track.Evaluate(t, eff.Scratch())
		s.write(eff.Target, track.Property, value)
	}
}

// restore 把目标属性恢复为开始播放时的值
func (s *EffectSystem) restore(eff *components.EffectComponent) {
	for _, track := range eff.Clip.Tracks {
		switch track.Property {
		case keyframe.PropertyPosition:
			s.write(eff.Target, track.Property, []float64{eff.BindPosition.X, eff.BindPosition.Y, eff.BindPosition.Z})
		case keyframe.PropertyRotationZ:
			s.write(eff.Target, track.Property, []float64{eff.BindRotationZ})
		case keyframe.PropertyOpacity:
			s.write(eff.Target, track.Property, []float64{eff.BindOpacity})
		}
	}
}

func (s *EffectSystem) write(target ecs.EntityID, property keyframe.Property, value []float64) {
	switch property {
	case keyframe.PropertyPosition:
		if tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, target); ok {
			tr.Position.X, tr.Position.Y, tr.Position.Z = value[0], value[1], value[2]
		}
	case keyframe.PropertyRotationZ:
		if tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, target); ok {
			tr.Rotation.Z = value[0]
		}
	case keyframe.PropertyOpacity:
		if vis, ok := ecs.GetComponent[*components.VisibilityComponent](s.entityManager, target); ok {
			vis.Opacity = math.Max(0, math.Min(1, value[0]))
		}
	}
}

// State 返回效果状态（未知效果返回 Idle）
func (s *EffectSystem) State(id string) components.EffectState {
	if eff, ok := s.effect(id); ok {
		return eff.State
	}
	return components.EffectIdle
}

// Time 返回效果播放头（秒）
func (s *EffectSystem) Time(id string) float64 {
	if eff, ok := s.effect(id); ok {
		return eff.Time
	}
	return 0
}
