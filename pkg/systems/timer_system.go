package systems

import (
	"time"

	"github.com/gonewx/rocketlaunch/pkg/components"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
)

// TimerHandle 计时器句柄，由创建者持有并负责取消
//
// 零值句柄表示“没有计时器”，对其调用 Cancel/Active 是安全的。
type TimerHandle struct {
	entityManager *ecs.EntityManager
	entity        ecs.EntityID
}

// Cancel 取消计时器（已触发完毕或已取消的计时器上调用无副作用）
func (h TimerHandle) Cancel() {
	if h.entityManager == nil {
		return
	}
	if timer, ok := ecs.GetComponent[*components.TimerComponent](h.entityManager, h.entity); ok {
		timer.Cancelled = true
	}
}

// Active 计时器是否仍在运行
func (h TimerHandle) Active() bool {
	if h.entityManager == nil {
		return false
	}
	timer, ok := ecs.GetComponent[*components.TimerComponent](h.entityManager, h.entity)
	return ok && !timer.Cancelled
}

// TimerSystem 管理非帧驱动的定时任务（周期定时器、延迟回调）
//
// 所有回调都在调用 Advance 的 goroutine 上执行，与帧更新串行，无需加锁。
// 计时器按创建顺序推进；回调中新建的计时器从下一次 Advance 开始计时。
type TimerSystem struct {
	entityManager *ecs.EntityManager
}

// NewTimerSystem 创建计时器系统
func NewTimerSystem(em *ecs.EntityManager) *TimerSystem {
	return &TimerSystem{
		entityManager: em,
	}
}

// Every 创建周期计时器，每经过 period 调用一次 fn，直到句柄被取消
func (s *TimerSystem) Every(name string, period time.Duration, fn func()) TimerHandle {
	return s.schedule(name, period, true, fn)
}

// After 创建单次计时器，经过 delay 后调用一次 fn
func (s *TimerSystem) After(name string, delay time.Duration, fn func()) TimerHandle {
	return s.schedule(name, delay, false, fn)
}

func (s *TimerSystem) schedule(name string, period time.Duration, repeat bool, fn func()) TimerHandle {
	entity := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, entity, &components.TimerComponent{
		Name:   name,
		Period: period,
		Repeat: repeat,
		OnFire: fn,
	})
	return TimerHandle{entityManager: s.entityManager, entity: entity}
}

// Advance 推进所有计时器 d
//
// 重复计时器在一次推进中可能触发多次（补齐错过的周期），
// 回调内取消自身后立即停止。
func (s *TimerSystem) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}

	entities := ecs.GetEntitiesWith1[*components.TimerComponent](s.entityManager)
	for _, entity := range entities {
		timer, ok := ecs.GetComponent[*components.TimerComponent](s.entityManager, entity)
		if !ok {
			continue
		}

		if !timer.Cancelled {
			timer.Elapsed += d
			s.fireDue(timer)
		}

		if timer.Cancelled {
			s.entityManager.DestroyEntity(entity)
		}
	}

	s.entityManager.RemoveMarkedEntities()
}

// fireDue 触发所有已到期的周期
func (s *TimerSystem) fireDue(timer *components.TimerComponent) {
	for !timer.Cancelled && timer.Elapsed >= timer.Period {
		if timer.Period > 0 {
			timer.Elapsed -= timer.Period
		} else {
			timer.Elapsed = 0
		}
		timer.Fired++

		if timer.OnFire != nil {
			timer.OnFire()
		}

		if !timer.Repeat {
			timer.Cancelled = true
			return
		}
		if timer.Period <= 0 {
			// 零周期的重复计时器每次推进只触发一次
			return
		}
	}
}

// ActiveCount 返回仍在运行的计时器数量
func (s *TimerSystem) ActiveCount() int {
	count := 0
	for _, entity := range ecs.GetEntitiesWith1[*components.TimerComponent](s.entityManager) {
		if timer, ok := ecs.GetComponent[*components.TimerComponent](s.entityManager, entity); ok && !timer.Cancelled {
			count++
		}
	}
	return count
}
