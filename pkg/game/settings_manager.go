package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ViewerSettings 观察者设置（相机与显示）
// 注意：这些设置与场景配置无关，重建场景时保留
type ViewerSettings struct {
	// 相机
	Zoom  float64 `yaml:"zoom"`  // 缩放倍数
	PanX  float64 `yaml:"panX"`  // 相机在地面上相对初始位置的偏移
	PanZ  float64 `yaml:"panZ"`  // 同上（Z 方向）
	Moved bool    `yaml:"moved"` // 是否保存过相机状态

	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
	ShowHelp   bool `yaml:"showHelp"`   // 是否显示按键帮助
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		Zoom:       1,
		Fullscreen: false,
		ShowHelp:   true,
	}
}

// SettingsManager 设置管理器
// 负责观察者设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ViewerSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	sm.settings = DefaultSettings()
	if sm.gdataManager == nil {
		return nil
	}
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if loaded.Zoom <= 0 {
		loaded.Zoom = 1
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded (zoom=%.2f, pan=%.1f,%.1f)", loaded.Zoom, loaded.PanX, loaded.PanZ)
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// SetCamera 记录相机缩放与平移
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetCamera(zoom, panX, panZ float64) {
	if zoom > 0 {
		sm.settings.Zoom = zoom
	}
	sm.settings.PanX = panX
	sm.settings.PanZ = panZ
	sm.settings.Moved = true
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// ToggleHelp 切换按键帮助的显示，返回新的状态
func (sm *SettingsManager) ToggleHelp() bool {
	sm.settings.ShowHelp = !sm.settings.ShowHelp
	return sm.settings.ShowHelp
}
