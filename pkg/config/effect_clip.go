package config

import (
	"fmt"
	"time"

	"github.com/gonewx/rocketlaunch/internal/keyframe"
	"github.com/gonewx/rocketlaunch/internal/vecmath"
)

// BuildClip 将效果配置转换为关键帧片段
//
// 参数：
//   - id: 效果标识符，如 EffectRocketAscent
//
// 返回：
//   - keyframe.Clip: 校验通过的片段
//   - error: 效果不存在或关键帧非法
func (c *LaunchConfig) BuildClip(id string) (keyframe.Clip, error) {
	ec, ok := c.Effects[id]
	if !ok {
		return keyframe.Clip{}, fmt.Errorf("effect %q not configured", id)
	}

	if _, ok := keyframe.ParseLoopMode(ec.Loop); !ok {
		return keyframe.Clip{}, fmt.Errorf("effect %q: unknown loop mode %q", id, ec.Loop)
	}

	property := keyframe.Property(ec.Property)
	var (
		track keyframe.Track
		err   error
	)

	if ec.Curve != nil {
		if property != keyframe.PropertyPosition {
			return keyframe.Clip{}, fmt.Errorf("effect %q: curve keyframes require property %q, got %q",
				id, keyframe.PropertyPosition, ec.Property)
		}
		if len(ec.Curve.Points) < 2 {
			return keyframe.Clip{}, fmt.Errorf("effect %q: curve needs at least 2 points, got %d", id, len(ec.Curve.Points))
		}
		points := make([]vecmath.Vec3, len(ec.Curve.Points))
		for i, p := range ec.Curve.Points {
			points[i] = vecmath.V3(p[0], p[1], p[2])
		}
		samples := keyframe.NewCatmullRomCurve(points...).Sample(ec.Curve.Divisions)
		track, err = keyframe.NewVectorTrack(keyframe.UniformTimes(len(samples), ec.Duration), samples)
	} else {
		track, err = keyframe.NewTrack(property, ec.Times, ec.Values)
	}
	if err != nil {
		return keyframe.Clip{}, fmt.Errorf("effect %q: %w", id, err)
	}

	clip := keyframe.Clip{Name: id, Duration: ec.Duration, Tracks: []keyframe.Track{track}}
	if err := clip.Validate(); err != nil {
		return keyframe.Clip{}, err
	}
	return clip, nil
}

// LoopMode 返回效果的循环模式（非法值按 LoopOnce 处理）
func (ec EffectConfig) LoopMode() keyframe.LoopMode {
	mode, _ := keyframe.ParseLoopMode(ec.Loop)
	return mode
}

// RingPeriod 返回导火索环定时器周期
func (c *LaunchConfig) RingPeriod() time.Duration {
	return time.Duration(c.Ignite.RingPeriodMs) * time.Millisecond
}

// TextHideDelay 返回 explodeText 显示后到隐藏的延迟
func (c *LaunchConfig) TextHideDelay() time.Duration {
	return time.Duration(c.Text.HideDelayMs) * time.Millisecond
}

// TextShowDelay 返回 explodeText 隐藏后到 explodeText2 显示的延迟
func (c *LaunchConfig) TextShowDelay() time.Duration {
	return time.Duration(c.Text.ShowDelayMs) * time.Millisecond
}
