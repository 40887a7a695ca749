package components

import (
	"github.com/gonewx/rocketlaunch/internal/keyframe"
	"github.com/gonewx/rocketlaunch/internal/vecmath"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
)

// EffectState 效果播放状态：Idle → Playing → Finished
type EffectState int

const (
	// EffectIdle 尚未开始
	EffectIdle EffectState = iota
	// EffectPlaying 播放中，每帧推进播放头
	EffectPlaying
	// EffectFinished 播放头到达时长（仅 LoopOnce）
	EffectFinished
)

// String 返回状态名称（日志用）
func (s EffectState) String() string {
	switch s {
	case EffectIdle:
		return "Idle"
	case EffectPlaying:
		return "Playing"
	case EffectFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// EffectComponent 一个可独立播放的关键帧效果
//
// 效果实体只承载播放状态，关键帧写入 Target 实体的
// TransformComponent / VisibilityComponent。
type EffectComponent struct {
	ID     string        // 效果标识符，如 "rocket-ascent"
	Clip   keyframe.Clip // 关键帧片段
	Target ecs.EntityID  // 被驱动的实体

	Loop              keyframe.LoopMode
	ClampWhenFinished bool // true：结束后保持最终值；false：恢复到开始前的值

	State EffectState
	Time  float64 // 播放头（秒）

	// 开始播放时记录的目标属性，用于不保持最终值时复位
	BindPosition  vecmath.Vec3
	BindRotationZ float64
	BindOpacity   float64

	scratch []float64
}

// Scratch 返回供关键帧求值复用的缓冲区
func (e *EffectComponent) Scratch() []float64 {
	if e.scratch == nil {
		e.scratch = make([]float64, 3)
	}
	return e.scratch
}
