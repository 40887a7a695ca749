package utils

import "time"

// Clock 帧间隔计时器
//
// 第一次调用 Delta 只记录起点并返回 0，之后每次返回距上次调用经过的时间。
// 每个帧驱动的效果持有自己的 Clock，彼此独立。
type Clock struct {
	now     func() time.Time
	last    time.Time
	started bool
}

// NewClockWithSource 创建使用指定时间源的时钟
func NewClockWithSource(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// DeltaDuration 返回距上次调用经过的时间，时间源回退时返回 0
func (c *Clock) DeltaDuration() time.Duration {
	t := c.now()
	if !c.started {
		c.started = true
		c.last = t
		return 0
	}

	d := t.Sub(c.last)
	c.last = t
	if d < 0 {
		return 0
	}
	return d
}

// Delta 与 DeltaDuration 相同，单位为秒
func (c *Clock) Delta() float64 {
	return c.DeltaDuration().Seconds()
}
