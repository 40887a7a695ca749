package scenes

import (
	"fmt"
	"image/color"
	"log"
	"math/rand"
	"time"

	"github.com/gonewx/rocketlaunch/pkg/components"
	"github.com/gonewx/rocketlaunch/pkg/config"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
	"github.com/gonewx/rocketlaunch/pkg/entities"
	"github.com/gonewx/rocketlaunch/pkg/game"
	"github.com/gonewx/rocketlaunch/pkg/systems"
	"github.com/gonewx/rocketlaunch/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// 界面布局
const (
	igniteButtonX = 20
	igniteButtonY = 20

	helpX          = 20
	helpY          = 84
	helpFontSize   = 14
	helpLineHeight = 18

	buttonFontSize = 22
)

var (
	desktopHelp = []string{
		"Space / Enter / button: ignite",
		"W A S D or drag: pan    wheel: zoom",
		"C: recenter camera    R: reset    H: toggle help    F11: fullscreen",
	}
	mobileHelp = []string{
		"Tap the button to ignite",
		"Drag to pan",
	}
)

func helpLines() []string {
	if utils.IsMobile() {
		return mobileHelp
	}
	return desktopHelp
}

// sceneInput 一帧的场景输入（按键、指针、相机）
type sceneInput struct {
	Ignite      bool
	ToggleHelp  bool
	Reset       bool
	ResetCamera bool

	Pointer utils.Pointer
	Camera  systems.CameraInput
}

func (s *LaunchScene) readInput() sceneInput {
	return sceneInput{
		Ignite:      inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter),
		ToggleHelp:  inpututil.IsKeyJustPressed(ebiten.KeyH),
		Reset:       inpututil.IsKeyJustPressed(ebiten.KeyR),
		ResetCamera: inpututil.IsKeyJustPressed(ebiten.KeyC),
		Pointer:     s.pointer.Step(utils.ReadPointerSample()),
		Camera:      systems.ReadCameraInput(),
	}
}

// LaunchScene 火箭发射场景
//
// 每帧顺序：取字体加载结果 → 定时器 → 输入（按钮、按键、相机）→ 三个效果。
// 三个效果各自使用独立的时钟推进，定时器使用第四个时钟。
type LaunchScene struct {
	cfg          *config.LaunchConfig
	sceneManager *game.SceneManager
	settings     *game.SettingsManager

	entityManager *ecs.EntityManager
	effects       *systems.EffectSystem
	timers        *systems.TimerSystem
	sequence      *systems.LaunchSequenceSystem
	camera        *systems.CameraSystem
	render        *systems.RenderSystem
	buttons       *systems.ButtonSystem
	buttonRender  *systems.ButtonRenderSystem

	fonts        *game.FontLoader
	entities     entities.LaunchSceneEntities
	igniteButton ecs.EntityID

	// 指针拖拽平移相机（起点不在按钮上时）
	pointer  *utils.PointerTracker
	dragging bool

	timerClock   *utils.Clock
	effectClocks map[string]*utils.Clock

	background color.RGBA
	uiFace     *text.GoTextFace
}

// NewLaunchScene 创建发射场景
//
// 参数：
//   - cfg: 场景配置
//   - sm: 场景管理器（R 键重置时重建场景），可为 nil
//   - settings: 观察者设置（相机缩放与平移、帮助显示），可为 nil
//
// 返回：
//   - *LaunchScene: 场景实例
//   - error: 场景实体或效果构建失败
func NewLaunchScene(cfg *config.LaunchConfig, sm *game.SceneManager, settings *game.SettingsManager) (*LaunchScene, error) {
	return newLaunchScene(cfg, sm, settings, time.Now, rand.New(rand.NewSource(time.Now().UnixNano())), game.NewFontLoader())
}

func newLaunchScene(cfg *config.LaunchConfig, sm *game.SceneManager, settings *game.SettingsManager,
	now func() time.Time, rng *rand.Rand, fonts *game.FontLoader) (*LaunchScene, error) {
	if settings == nil {
		settings = game.NewSettingsManager(nil)
	}

	em := ecs.NewEntityManager()
	s := &LaunchScene{
		cfg:           cfg,
		sceneManager:  sm,
		settings:      settings,
		entityManager: em,
		effects:       systems.NewEffectSystem(em),
		timers:        systems.NewTimerSystem(em),
		camera:        systems.NewCameraSystem(em, cfg.Camera),
		render:        systems.NewRenderSystem(em),
		buttons:       systems.NewButtonSystem(em),
		buttonRender:  systems.NewButtonRenderSystem(em),
		fonts:         fonts,
		pointer:       utils.NewPointerTracker(),
		timerClock:    utils.NewClockWithSource(now),
		effectClocks:  make(map[string]*utils.Clock, len(config.EffectIDs)),
		background:    config.MustHexColor(cfg.Background),
	}

	ents, err := entities.BuildLaunchScene(em, cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to build launch scene: %w", err)
	}
	if err := entities.RegisterLaunchEffects(s.effects, cfg, ents); err != nil {
		return nil, fmt.Errorf("failed to register effects: %w", err)
	}
	s.entities = ents
	s.sequence = systems.NewLaunchSequenceSystem(em, s.effects, s.timers, cfg, ents.Targets())
	s.render.SetShadowPlane(entities.GroundTopY)
	s.igniteButton = entities.NewIgniteButton(em, igniteButtonX, igniteButtonY, s.sequence.Ignite)

	for _, id := range config.EffectIDs {
		s.effectClocks[id] = utils.NewClockWithSource(now)
	}

	if src := game.UIFontSource(); src != nil {
		s.uiFace = &text.GoTextFace{Source: src, Size: helpFontSize}
	}

	s.applySettings()

	// 两段文字共用同一字体文件，各自独立加载
	s.fonts.Load(systems.ExplodeTextName, cfg.Text.FontPath)
	s.fonts.Load(systems.ExplodeText2Name, cfg.Text.FontPath)

	log.Printf("[LaunchScene] Scene created (%d entities)", em.EntityCount())
	return s, nil
}

func (s *LaunchScene) applySettings() {
	vs := s.settings.GetSettings()
	if !vs.Moved {
		return
	}
	s.camera.SetZoom(vs.Zoom)
	s.camera.SetPan(vs.PanX, vs.PanZ)
}

// Update 推进一帧
func (s *LaunchScene) Update(deltaTime float64) {
	s.update(s.readInput(), deltaTime)
}

func (s *LaunchScene) update(in sceneInput, deltaTime float64) {
	s.applyFonts()

	// 先推进已有计时器：本帧输入中创建的计时器（导火索环）从下一帧开始计时
	s.timers.Advance(s.timerClock.DeltaDuration())

	if in.Reset && s.sceneManager != nil {
		log.Printf("[LaunchScene] Reset requested")
		if err := s.sceneManager.Reload(); err != nil {
			log.Printf("[LaunchScene] Reset failed: %v", err)
		} else {
			return
		}
	}
	if in.ToggleHelp {
		s.settings.ToggleHelp()
	}

	s.buttons.Update(in.Pointer)
	if in.Ignite {
		s.sequence.Ignite()
	}

	if in.ResetCamera {
		s.camera.Reset()
	}
	s.handleDrag(in.Pointer)
	s.camera.HandleInput(in.Camera, deltaTime)

	for _, id := range config.EffectIDs {
		s.sequence.Advance(id, s.effectClocks[id].Delta())
	}
}

func (s *LaunchScene) handleDrag(p utils.Pointer) {
	if p.JustPressed {
		s.dragging = !s.buttons.Contains(p.X, p.Y)
	}
	if s.dragging && p.Pressed && (p.DX != 0 || p.DY != 0) {
		proj := s.camera.Projector(s.cfg.Window.Width, s.cfg.Window.Height)
		s.camera.DragPan(p.DX, p.DY, proj.Scale())
	}
	if p.JustReleased {
		s.dragging = false
	}
}

// applyFonts 把已完成的字体加载结果变成文字实体
func (s *LaunchScene) applyFonts() {
	for _, r := range s.fonts.Poll() {
		if r.Err != nil {
			continue
		}

		var content string
		switch r.Key {
		case systems.ExplodeTextName:
			content = s.cfg.Text.First
		case systems.ExplodeText2Name:
			content = s.cfg.Text.Second
		default:
			continue
		}
		if _, exists := systems.FindEntityByName(s.entityManager, r.Key); exists {
			continue
		}
		entities.NewExplodeText(s.entityManager, r.Key, content, r.Source, s.cfg.Text)

		if button, ok := ecs.GetComponent[*components.ButtonComponent](s.entityManager, s.igniteButton); ok && button.Face == nil {
			button.Face = &text.GoTextFace{Source: r.Source, Size: buttonFontSize}
		}
	}
}

// Draw 绘制场景
func (s *LaunchScene) Draw(screen *ebiten.Image) {
	screen.Fill(s.background)

	bounds := screen.Bounds()
	s.render.Draw(screen, s.camera.Projector(bounds.Dx(), bounds.Dy()))
	s.buttonRender.Draw(screen)

	if s.settings.GetSettings().ShowHelp {
		s.drawHelp(screen)
	}
}

func (s *LaunchScene) drawHelp(screen *ebiten.Image) {
	lines := append([]string{}, helpLines()...)
	lines = append(lines, fmt.Sprintf("ignites: %d    launched: %v    zoom: %.2f",
		s.sequence.IgniteCount(), s.sequence.LaunchFinished(), s.camera.Camera().Zoom))

	for i, line := range lines {
		y := float64(helpY + i*helpLineHeight)
		if s.uiFace == nil {
			ebitenutil.DebugPrintAt(screen, line, helpX, int(y))
			continue
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(helpX, y)
		op.ColorScale.ScaleWithColor(color.RGBA{0x34, 0x3a, 0x40, 0xff})
		text.Draw(screen, line, s.uiFace, op)
	}
}

// SaveOnExit 保存相机状态与显示设置
func (s *LaunchScene) SaveOnExit() bool {
	x, z := s.camera.Pan()
	s.settings.SetCamera(s.camera.Camera().Zoom, x, z)
	if err := s.settings.Save(); err != nil {
		log.Printf("[LaunchScene] Failed to save settings: %v", err)
		return false
	}
	return true
}

// Sequence 返回发射流程系统
func (s *LaunchScene) Sequence() *systems.LaunchSequenceSystem {
	return s.sequence
}
