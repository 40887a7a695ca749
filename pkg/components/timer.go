package components

import "time"

// TimerComponent 调度计时器组件
//
// 由 TimerSystem 推进。单次计时器触发后即被移除；
// 重复计时器每经过一个 Period 触发一次，直到被取消。
type TimerComponent struct {
	Name      string        // 计时器名称，如 "fuse_ring"
	Period    time.Duration // 触发间隔（单次计时器即为延迟）
	Elapsed   time.Duration // 距上次触发已过时间
	Repeat    bool          // 是否重复触发
	Cancelled bool          // 已取消，等待系统清理
	Fired     int           // 已触发次数
	OnFire    func()        // 触发回调
}
