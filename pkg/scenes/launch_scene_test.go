package scenes

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/gonewx/rocketlaunch/pkg/components"
	"github.com/gonewx/rocketlaunch/pkg/config"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
	"github.com/gonewx/rocketlaunch/pkg/entities"
	"github.com/gonewx/rocketlaunch/pkg/game"
	"github.com/gonewx/rocketlaunch/pkg/systems"
	"github.com/gonewx/rocketlaunch/pkg/utils"
	"golang.org/x/image/font/gofont/goregular"
)

// frameStep 测试帧间隔（二进制可精确表示，累加无误差）
const frameStep = 125 * time.Millisecond

// fakeClock 手动推进的时间源
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

type testHarness struct {
	scene *LaunchScene
	clock *fakeClock
	fonts *game.FontLoader
}

func newTestHarness(t *testing.T, sm *game.SceneManager, settings *game.SettingsManager, fontOK bool) *testHarness {
	t.Helper()

	read := func(string) ([]byte, error) { return goregular.TTF, nil }
	if !fontOK {
		read = func(string) ([]byte, error) { return nil, errors.New("missing") }
	}

	h := &testHarness{
		clock: &fakeClock{t: time.Unix(1700000000, 0)},
		fonts: game.NewFontLoaderWithReader(read),
	}
	scene, err := newLaunchScene(config.DefaultLaunchConfig(), sm, settings, h.clock.now, rand.New(rand.NewSource(1)), h.fonts)
	if err != nil {
		t.Fatalf("newLaunchScene: %v", err)
	}
	h.scene = scene
	h.fonts.Wait()
	return h
}

// frame 推进一帧：第一帧时间为 0，此后每帧 frameStep
func (h *testHarness) frame(in sceneInput) {
	h.scene.update(in, frameStep.Seconds())
	h.clock.t = h.clock.t.Add(frameStep)
}

func (h *testHarness) visibleByName(name string) bool {
	entity, ok := systems.FindEntityByName(h.scene.entityManager, name)
	if !ok {
		return false
	}
	vis, _ := ecs.GetComponent[*components.VisibilityComponent](h.scene.entityManager, entity)
	return vis.Visible
}

// TestLaunchScene_FrameDrivenLaunch 测试按帧驱动完整发射流程
func TestLaunchScene_FrameDrivenLaunch(t *testing.T) {
	h := newTestHarness(t, nil, nil, true)
	seq := h.scene.Sequence()

	// 第 0 帧：点火，时钟刚启动，所有增量为 0
	h.frame(sceneInput{Ignite: true})
	if _, ok := systems.FindEntityByName(h.scene.entityManager, systems.ExplodeText2Name); !ok {
		t.Fatal("text entities should be created once fonts are ready")
	}
	if seq.IgniteCount() != 1 {
		t.Fatalf("IgniteCount: %d", seq.IgniteCount())
	}

	// 第 1..7 帧：fuse-line 累计 0.875 秒
	for i := 1; i <= 7; i++ {
		h.frame(sceneInput{})
	}
	if h.scene.effects.State(config.EffectRocketAscent) != components.EffectIdle {
		t.Fatal("rocket-ascent started early")
	}

	// 第 8 帧：fuse-line 完成，rocket-ascent 同帧开始推进
	h.frame(sceneInput{})
	if h.scene.effects.State(config.EffectRocketAscent) != components.EffectPlaying {
		t.Fatal("rocket-ascent should be playing")
	}

	// 第 9..19 帧：rocket-ascent 累计 1.5 秒
	for i := 9; i <= 19; i++ {
		h.frame(sceneInput{})
	}
	if !seq.LaunchFinished() {
		t.Fatal("launch should finish on frame 19")
	}
	if !h.visibleByName(systems.ExplodeTextName) {
		t.Error("explodeText should be visible")
	}

	// 第 20..26 帧：875ms，文字仍在
	for i := 20; i <= 26; i++ {
		h.frame(sceneInput{})
	}
	if !h.visibleByName(systems.ExplodeTextName) {
		t.Error("explodeText hidden too early")
	}

	// 第 27 帧：满 1000ms 隐藏
	h.frame(sceneInput{})
	if h.visibleByName(systems.ExplodeTextName) || h.visibleByName(systems.ExplodeText2Name) {
		t.Error("both texts should be hidden between the two phases")
	}

	// 第 28 帧：100ms 延迟从下一次推进开始计时
	h.frame(sceneInput{})
	if !h.visibleByName(systems.ExplodeText2Name) {
		t.Error("explodeText2 should be visible")
	}
}

// TestLaunchScene_RingTimerStartsAfterIgniteFrame 测试点火帧不计入点火前的时间，导火索环从下一帧开始燃烧
func TestLaunchScene_RingTimerStartsAfterIgniteFrame(t *testing.T) {
	h := newTestHarness(t, nil, nil, true)
	seq := h.scene.Sequence()
	ignite := h.scene.cfg.Ignite

	h.frame(sceneInput{})
	h.frame(sceneInput{Ignite: true})
	if seq.RingAngle() != ignite.RingStartAngle {
		t.Fatalf("ring burned on the ignite frame: angle %v", seq.RingAngle())
	}
	if !seq.RingTimerActive() {
		t.Fatal("ring timer should be running")
	}

	// 125ms 内触发 6 次（20ms 周期）
	h.frame(sceneInput{})
	want := ignite.RingStartAngle - 6*ignite.RingStep
	if got := seq.RingAngle(); math.Abs(got-want) > 1e-9 {
		t.Errorf("ring angle after one frame: got %v, want %v", got, want)
	}
}

// TestLaunchScene_ButtonIgnites 测试在按钮内释放鼠标触发点火
func TestLaunchScene_ButtonIgnites(t *testing.T) {
	h := newTestHarness(t, nil, nil, true)

	x := float64(igniteButtonX + entities.IgniteButtonWidth/2)
	y := float64(igniteButtonY + entities.IgniteButtonHeight/2)

	h.frame(sceneInput{Pointer: utils.Pointer{X: x, Y: y, Pressed: true, JustPressed: true}})
	if h.scene.Sequence().IgniteCount() != 0 {
		t.Fatal("press alone should not ignite")
	}
	h.frame(sceneInput{Pointer: utils.Pointer{X: x, Y: y, JustReleased: true}})
	if h.scene.Sequence().IgniteCount() != 1 {
		t.Error("release inside the button should ignite")
	}

	button, _ := ecs.GetComponent[*components.ButtonComponent](h.scene.entityManager, h.scene.igniteButton)
	if button.Face == nil {
		t.Error("button should switch to the loaded font")
	}
}

// TestLaunchScene_FontFailure 测试字体加载失败时不创建文字，流程照常完成
func TestLaunchScene_FontFailure(t *testing.T) {
	h := newTestHarness(t, nil, nil, false)

	h.frame(sceneInput{Ignite: true})
	for i := 0; i < 40; i++ {
		h.frame(sceneInput{})
	}

	if !h.scene.Sequence().LaunchFinished() {
		t.Error("launch should finish without fonts")
	}
	if _, ok := systems.FindEntityByName(h.scene.entityManager, systems.ExplodeTextName); ok {
		t.Error("no text entity expected after a failed font load")
	}
}

// TestLaunchScene_ResetRebuilds 测试 R 键通过场景管理器重建场景并保存相机状态
func TestLaunchScene_ResetRebuilds(t *testing.T) {
	settings := game.NewSettingsManager(nil)
	var sm *game.SceneManager
	sm = game.NewSceneManager(func(cfg *config.LaunchConfig) (game.Scene, error) {
		return NewLaunchScene(cfg, sm, settings)
	})
	if err := sm.Load(config.DefaultLaunchConfig()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	first := sm.GetCurrentScene().(*LaunchScene)
	first.camera.SetZoom(2)
	first.camera.SetPan(3, -4)

	first.update(sceneInput{Reset: true}, 0.016)

	second, ok := sm.GetCurrentScene().(*LaunchScene)
	if !ok || second == first {
		t.Fatal("reset should install a new scene")
	}
	if vs := settings.GetSettings(); !vs.Moved || vs.Zoom != 2 || vs.PanX != 3 || vs.PanZ != -4 {
		t.Errorf("camera state not saved: %+v", vs)
	}
	if second.camera.Camera().Zoom != 2 {
		t.Errorf("new scene should restore zoom, got %v", second.camera.Camera().Zoom)
	}
	if x, z := second.camera.Pan(); x != 3 || z != -4 {
		t.Errorf("new scene should restore pan, got (%v, %v)", x, z)
	}
}

func TestLaunchScene_ToggleHelp(t *testing.T) {
	settings := game.NewSettingsManager(nil)
	h := newTestHarness(t, nil, settings, true)

	h.frame(sceneInput{ToggleHelp: true})
	if settings.GetSettings().ShowHelp {
		t.Error("help should be hidden after toggling")
	}
}

// TestLaunchScene_DragPansCamera 测试在按钮外拖拽平移相机，从按钮上开始的拖拽不平移
func TestLaunchScene_DragPansCamera(t *testing.T) {
	h := newTestHarness(t, nil, nil, true)
	pt := utils.NewPointerTracker()

	h.frame(sceneInput{Pointer: pt.Step(utils.PointerSample{X: 600, Y: 400, Down: true})})
	h.frame(sceneInput{Pointer: pt.Step(utils.PointerSample{X: 640, Y: 400, Down: true})})
	h.frame(sceneInput{Pointer: pt.Step(utils.PointerSample{X: 640, Y: 400})})

	x, z := h.scene.camera.Pan()
	if x == 0 && z == 0 {
		t.Fatal("dragging the scene should pan the camera")
	}

	h.frame(sceneInput{ResetCamera: true, Pointer: pt.Step(utils.PointerSample{X: 640, Y: 400})})
	if x, z := h.scene.camera.Pan(); x != 0 || z != 0 {
		t.Fatalf("C should recenter the camera, got (%v, %v)", x, z)
	}

	bx := igniteButtonX + 10
	by := igniteButtonY + 10
	h.frame(sceneInput{Pointer: pt.Step(utils.PointerSample{X: bx, Y: by, Down: true})})
	h.frame(sceneInput{Pointer: pt.Step(utils.PointerSample{X: bx + 200, Y: by + 200, Down: true})})
	if x, z := h.scene.camera.Pan(); x != 0 || z != 0 {
		t.Errorf("drag starting on the button must not pan, got (%v, %v)", x, z)
	}
}
