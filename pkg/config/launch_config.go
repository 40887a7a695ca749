package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// 效果标识符（同时也是 YAML 中 effects 的键）
const (
	EffectSparkFlicker = "spark-flicker" // 火花旋转闪烁
	EffectFuseLine     = "fuse-line"     // 火花沿导火索移动
	EffectRocketAscent = "rocket-ascent" // 火箭升空
)

// EffectIDs 按启动顺序列出帧驱动的全部效果
var EffectIDs = []string{EffectSparkFlicker, EffectFuseLine, EffectRocketAscent}

// DefaultLaunchConfigPath 默认配置文件路径
const DefaultLaunchConfigPath = "data/launch.yaml"

// LaunchConfig 火箭发射场景的完整配置
type LaunchConfig struct {
	Version string       `yaml:"version"`
	Window  WindowConfig `yaml:"window"`

	// Background 背景颜色（#rrggbb）
	Background string `yaml:"background"`

	Ignite  IgniteConfig            `yaml:"ignite"`
	Text    TextConfig              `yaml:"text"`
	Camera  CameraConfig            `yaml:"camera"`
	Effects map[string]EffectConfig `yaml:"effects"`
}

// WindowConfig 窗口配置
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// IgniteConfig 点火后导火索环的燃烧参数
type IgniteConfig struct {
	RingStartAngle float64 `yaml:"ring_start_angle"` // 导火索环初始弧度
	RingStep       float64 `yaml:"ring_step"`        // 每次定时器触发减少的弧度
	RingPeriodMs   int     `yaml:"ring_period_ms"`   // 定时器周期（毫秒）
}

// TextConfig 庆祝文字配置
type TextConfig struct {
	FontPath    string  `yaml:"font_path"`
	Size        float64 `yaml:"size"`
	Color       string  `yaml:"color"`
	First       string  `yaml:"first"`         // explodeText 的内容
	Second      string  `yaml:"second"`        // explodeText2 的内容
	HideDelayMs int     `yaml:"hide_delay_ms"` // 显示 explodeText 后隐藏它的延迟
	ShowDelayMs int     `yaml:"show_delay_ms"` // 隐藏 explodeText 后显示 explodeText2 的延迟
}

// CameraConfig 正交相机配置
type CameraConfig struct {
	Position    [3]float64 `yaml:"position"`
	FrustumDiv  float64    `yaml:"frustum_div"` // 视口宽高除以该值得到可视范围
	PanSpeed    float64    `yaml:"pan_speed"`   // 键盘平移速度（世界单位/秒）
	MinZoom     float64    `yaml:"min_zoom"`
	MaxZoom     float64    `yaml:"max_zoom"`
	DampingRate float64    `yaml:"damping"` // 阻尼系数（0~1，每帧保留的速度比例）
}

// EffectConfig 单个关键帧效果的配置
//
// 关键帧来源二选一：
//   - Times + Values：直接给出采样
//   - Curve：沿 Catmull-Rom 曲线均匀采样（仅 position）
type EffectConfig struct {
	Property string       `yaml:"property"` // rotation.z | position | opacity
	Duration float64      `yaml:"duration"`
	Loop     string       `yaml:"loop"`  // once | repeat
	Clamp    bool         `yaml:"clamp"` // 结束后保持最终值
	Times    []float64    `yaml:"times"`
	Values   []float64    `yaml:"values"`
	Curve    *CurveConfig `yaml:"curve"`
}

// CurveConfig 曲线关键帧配置
type CurveConfig struct {
	Points    [][3]float64 `yaml:"points"`
	Divisions int          `yaml:"divisions"`
}

// DefaultLaunchConfig 返回内置默认配置
func DefaultLaunchConfig() *LaunchConfig {
	return &LaunchConfig{
		Version:    "1.0",
		Window:     WindowConfig{Width: 1280, Height: 720, Title: "元宵快乐"},
		Background: "#d8e2dc",
		Ignite: IgniteConfig{
			RingStartAngle: math.Pi / 2,
			RingStep:       0.035,
			RingPeriodMs:   20,
		},
		Text: TextConfig{
			FontPath:    "assets/fonts/font.ttf",
			Size:        10,
			Color:       "#d90429",
			First:       "(爆炸)",
			Second:      "元宵快乐",
			HideDelayMs: 1000,
			ShowDelayMs: 100,
		},
		Camera: CameraConfig{
			Position:    [3]float64{100, 100, 100},
			FrustumDiv:  16,
			PanSpeed:    50,
			MinZoom:     0.5,
			MaxZoom:     4,
			DampingRate: 0.85,
		},
		Effects: DefaultEffects(),
	}
}

// DefaultEffects 返回三个帧驱动效果的默认关键帧
func DefaultEffects() map[string]EffectConfig {
	return map[string]EffectConfig{
		EffectSparkFlicker: {
			Property: "rotation.z",
			Duration: 1,
			Loop:     "once",
			Clamp:    true,
			Times:    []float64{0, 1},
			Values:   []float64{0, -math.Pi / 2},
		},
		EffectFuseLine: {
			Property: "position",
			Duration: 1,
			Loop:     "once",
			Clamp:    true,
			Curve: &CurveConfig{
				Points: [][3]float64{
					{-8.5, 4, 5},
					{-8.85, 4.09, 5},
					{-9.2, 4.31, 5},
					{-9.42, 4.62, 5},
					{-9.5, 5, 5},
				},
				Divisions: 20,
			},
		},
		EffectRocketAscent: {
			Property: "position",
			Duration: 1.5,
			Loop:     "once",
			Clamp:    true,
			Times:    []float64{0, 1.5},
			Values:   []float64{-10, 2, 5, -10, 100, 5},
		},
	}
}

// LoadLaunchConfig 加载场景配置文件
//
// 文件中出现的字段覆盖默认值；effects 下的条目整体替换同名默认条目。
// 文件不存在时返回默认配置（不视为错误）。
//
// 参数：
//   - path: 配置文件路径，如 "data/launch.yaml"
//
// 返回：
//   - *LaunchConfig: 合并后的配置
//   - error: 读取、解析或校验失败
func LoadLaunchConfig(path string) (*LaunchConfig, error) {
	cfg := DefaultLaunchConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("[Config] Warning: '%s' not found, using built-in defaults", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read launch config '%s': %w", path, err)
	}

	cfg, err = ParseLaunchConfig(data)
	if err != nil {
		return nil, fmt.Errorf("launch config '%s': %w", path, err)
	}

	log.Printf("[Config] Loaded launch config (version=%s, effects=%d)", cfg.Version, len(cfg.Effects))
	return cfg, nil
}

// ParseLaunchConfig 解析 YAML 数据并与默认配置合并、校验
func ParseLaunchConfig(data []byte) (*LaunchConfig, error) {
	cfg := DefaultLaunchConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置
func (c *LaunchConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, err := ParseHexColor(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if _, err := ParseHexColor(c.Text.Color); err != nil {
		return fmt.Errorf("text.color: %w", err)
	}
	if c.Ignite.RingStep <= 0 {
		return fmt.Errorf("ignite.ring_step must be positive, got %g", c.Ignite.RingStep)
	}
	if c.Ignite.RingPeriodMs <= 0 {
		return fmt.Errorf("ignite.ring_period_ms must be positive, got %d", c.Ignite.RingPeriodMs)
	}
	if c.Text.HideDelayMs < 0 || c.Text.ShowDelayMs < 0 {
		return fmt.Errorf("text delays must be non-negative (hide=%d, show=%d)", c.Text.HideDelayMs, c.Text.ShowDelayMs)
	}
	if c.Text.Size <= 0 {
		return fmt.Errorf("text.size must be positive, got %g", c.Text.Size)
	}
	if c.Camera.FrustumDiv <= 0 {
		return fmt.Errorf("camera.frustum_div must be positive, got %g", c.Camera.FrustumDiv)
	}
	if c.Camera.MinZoom <= 0 || c.Camera.MaxZoom < c.Camera.MinZoom {
		return fmt.Errorf("invalid camera zoom range [%g, %g]", c.Camera.MinZoom, c.Camera.MaxZoom)
	}

	for _, id := range EffectIDs {
		if _, ok := c.Effects[id]; !ok {
			return fmt.Errorf("effect %q missing", id)
		}
		if _, err := c.BuildClip(id); err != nil {
			return err
		}
	}
	return nil
}

// ParseHexColor 解析 "#rrggbb" 或 "#rrggbbaa" 格式的颜色
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// MustHexColor 与 ParseHexColor 相同，解析失败时返回不透明黑色
func MustHexColor(s string) color.RGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return c
}
