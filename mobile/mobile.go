//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此文件仅在使用 -tags mobile 构建时编译：
//
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.gonewx.rocketlaunch -o build/android/rocketlaunch.aar -v ./mobile
//	ebitenmobile bind -target ios -tags mobile -o build/ios/RocketLaunch.xcframework -v ./mobile
//
// 移动端没有配置文件时使用内置默认配置。
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/gonewx/rocketlaunch/pkg/app"
)

func init() {
	gameApp, err := app.NewApp(app.Config{Verbose: true})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
