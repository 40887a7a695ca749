// Package app 提供应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/gonewx/rocketlaunch/pkg/config"
	"github.com/gonewx/rocketlaunch/pkg/game"
	"github.com/gonewx/rocketlaunch/pkg/scenes"
	"github.com/gonewx/rocketlaunch/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储使用的应用名
const AppName = "rocketlaunch"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 场景配置文件路径，为空使用 config.DefaultLaunchConfigPath
	ConfigPath string
	// Watch 监听配置文件，变更时重建场景
	Watch bool
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	watcher      *config.Watcher
	configPath   string
	verbose      bool
}

// NewApp 创建并初始化应用
func NewApp(cfg Config) (*App, error) {
	if cfg.Verbose {
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	} else {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	path := cfg.ConfigPath
	if path == "" {
		path = config.DefaultLaunchConfigPath
	}
	launchCfg, err := config.LoadLaunchConfig(path)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}

	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}

	// gdata 不可用时降级为仅内存设置
	gdataManager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (settings will not persist)", err)
		gdataManager = nil
	}
	settings := game.NewSettingsManager(gdataManager)

	var sceneManager *game.SceneManager
	sceneManager = game.NewSceneManager(func(c *config.LaunchConfig) (game.Scene, error) {
		return scenes.NewLaunchScene(c, sceneManager, settings)
	})
	if err := sceneManager.Load(launchCfg); err != nil {
		return nil, fmt.Errorf("场景创建失败: %w", err)
	}

	a := &App{
		sceneManager: sceneManager,
		settings:     settings,
		configPath:   path,
		verbose:      cfg.Verbose,
	}

	if cfg.Watch {
		watcher, err := config.NewWatcher(path)
		if err != nil {
			log.Printf("[App] Warning: cannot watch %s: %v", path, err)
		} else {
			a.watcher = watcher
			log.Printf("[App] Watching %s for changes", path)
		}
	}

	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	log.Printf("[App] Started (config=%s)", path)
	return a, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		a.settings.SetFullscreen(fullscreen)
	}

	a.pollWatcher()

	a.sceneManager.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

// pollWatcher 配置文件变更时重新加载并重建场景；失败时保留当前场景
func (a *App) pollWatcher() {
	if a.watcher == nil {
		return
	}

	select {
	case err := <-a.watcher.Errors:
		log.Printf("[App] Watcher error: %v", err)
	default:
	}

	if _, changed := a.watcher.Poll(); !changed {
		return
	}

	cfg, err := config.LoadLaunchConfig(a.configPath)
	if err != nil {
		log.Printf("[App] Reload failed, keeping current scene: %v", err)
		return
	}
	if err := a.sceneManager.Load(cfg); err != nil {
		log.Printf("[App] Rebuild failed, keeping current scene: %v", err)
		return
	}
	log.Printf("[App] Scene rebuilt from %s", a.configPath)
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸（来自当前场景配置）
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := a.sceneManager.Config().Window
	return w.Width, w.Height
}

// WindowConfig 返回当前场景的窗口配置
func (a *App) WindowConfig() config.WindowConfig {
	return a.sceneManager.Config().Window
}

// Close 保存设置并停止监听
func (a *App) Close() {
	a.sceneManager.SaveCurrent()
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			log.Printf("[App] Failed to close watcher: %v", err)
		}
	}
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
