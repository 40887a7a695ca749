package game

import (
	"fmt"
	"log"

	"github.com/gonewx/rocketlaunch/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 按配置创建场景
type SceneFactory func(cfg *config.LaunchConfig) (Scene, error)

// SceneManager controls which scene is active and rebuilds it on demand.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
	config       *config.LaunchConfig // 最近一次成功构建所用的配置
}

// NewSceneManager creates a SceneManager with no active scene.
func NewSceneManager(factory SceneFactory) *SceneManager {
	return &SceneManager{sceneFactory: factory}
}

// SwitchTo changes the active scene.
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// SaveCurrent 让当前场景保存状态（若支持）
func (sm *SceneManager) SaveCurrent() bool {
	if saveable, ok := sm.currentScene.(Saveable); ok {
		return saveable.SaveOnExit()
	}
	return true
}

// GetCurrentScene 返回当前活动的场景，没有则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Config 返回当前场景所用的配置
func (sm *SceneManager) Config() *config.LaunchConfig {
	return sm.config
}

// Load 用给定配置构建新场景并切换过去
//
// 构建前先保存当前场景的状态，新场景据此恢复；构建失败时保留当前场景并返回错误。
func (sm *SceneManager) Load(cfg *config.LaunchConfig) error {
	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set")
	}
	sm.SaveCurrent()

	scene, err := sm.sceneFactory(cfg)
	if err != nil {
		log.Printf("[SceneManager] Failed to build scene: %v", err)
		return fmt.Errorf("failed to build scene: %w", err)
	}

	sm.SwitchTo(scene)
	sm.config = cfg
	log.Printf("[SceneManager] Scene loaded (config version=%s)", cfg.Version)
	return nil
}

// Reload 以当前配置重建场景（重置）
func (sm *SceneManager) Reload() error {
	if sm.config == nil {
		return fmt.Errorf("no scene loaded")
	}
	return sm.Load(sm.config)
}

// Update updates the active scene, if any.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the active scene, if any.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
