// Command rocketlaunch 播放火箭点火升空的小场景
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--config <path>  场景配置文件（默认 data/launch.yaml）
//	--watch          监听配置文件，保存后重建场景
//	--verbose        启用详细日志
//
// Controls:
//
//	Space/Enter/按钮 - 点火
//	W A S D         - 平移相机
//	滚轮            - 缩放
//	C               - 相机复位
//	R               - 重置场景
//	H               - 显示/隐藏帮助
//	F11             - 全屏
package main

import (
	"flag"
	"log"

	"github.com/gonewx/rocketlaunch/pkg/app"
	"github.com/gonewx/rocketlaunch/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	configFlag  = flag.String("config", config.DefaultLaunchConfigPath, "Launch scene config file")
	watchFlag   = flag.Bool("watch", false, "Rebuild the scene when the config file changes")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verboseFlag,
		ConfigPath: *configFlag,
		Watch:      *watchFlag,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	defer gameApp.Close()

	window := gameApp.WindowConfig()
	ebiten.SetWindowSize(window.Width, window.Height)
	ebiten.SetWindowTitle(window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
