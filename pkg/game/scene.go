package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a running vignette.
// Each scene owns its entities and systems and is replaced wholesale on reload.
type Scene interface {
	// Update advances the scene by one frame.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Saveable 是一个可选接口，场景被替换或程序退出前保存状态
type Saveable interface {
	// SaveOnExit 返回 false 表示保存失败（不影响退出或切换）
	SaveOnExit() bool
}
