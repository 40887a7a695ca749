package systems

import (
	"testing"

	"github.com/gonewx/rocketlaunch/pkg/components"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
	"github.com/gonewx/rocketlaunch/pkg/utils"
)

func newTestButton(em *ecs.EntityManager, onClick func()) *components.ButtonComponent {
	entity := em.CreateEntity()
	button := &components.ButtonComponent{
		Text:    "点火",
		Width:   100,
		Height:  40,
		Enabled: true,
		OnClick: onClick,
	}
	ecs.AddComponent(em, entity, button)
	ecs.AddComponent(em, entity, &components.PositionComponent{X: 10, Y: 10})
	return button
}

// TestButtonSystem_Process 测试悬停、按下、释放的状态转换
func TestButtonSystem_Process(t *testing.T) {
	em := ecs.NewEntityManager()
	clicks := 0
	button := newTestButton(em, func() { clicks++ })
	bs := NewButtonSystem(em)

	tests := []struct {
		name      string
		x, y      float64
		pressed   bool
		released  bool
		wantState components.UIState
		wantClick int
	}{
		{"外部", 0, 0, false, false, components.UINormal, 0},
		{"悬停", 50, 30, false, false, components.UIHovered, 0},
		{"按下", 50, 30, true, false, components.UIClicked, 0},
		{"释放", 50, 30, false, true, components.UIHovered, 1},
		{"外部释放", 500, 30, false, true, components.UINormal, 1},
		{"边界", 110, 50, false, false, components.UIHovered, 1},
	}

	for _, tt := range tests {
		bs.Process(tt.x, tt.y, tt.pressed, tt.released)
		if button.State != tt.wantState {
			t.Errorf("%s: state = %v, want %v", tt.name, button.State, tt.wantState)
		}
		if clicks != tt.wantClick {
			t.Errorf("%s: clicks = %d, want %d", tt.name, clicks, tt.wantClick)
		}
	}
}

// TestButtonSystem_Disabled 测试禁用按钮不响应点击
func TestButtonSystem_Disabled(t *testing.T) {
	em := ecs.NewEntityManager()
	clicked := false
	button := newTestButton(em, func() { clicked = true })
	button.Enabled = false

	if NewButtonSystem(em).Process(50, 30, false, true) || clicked {
		t.Error("disabled button should not fire")
	}
	if button.State != components.UIDisabled {
		t.Errorf("state = %v, want UIDisabled", button.State)
	}
}

// TestButtonSystem_UpdateWithTrackedPointer 测试经由指针跟踪器的完整点击
func TestButtonSystem_UpdateWithTrackedPointer(t *testing.T) {
	em := ecs.NewEntityManager()
	clicks := 0
	newTestButton(em, func() { clicks++ })
	bs := NewButtonSystem(em)
	pt := utils.NewPointerTracker()

	bs.Update(pt.Step(utils.PointerSample{X: 50, Y: 30, Down: true, Touch: true}))
	if !bs.Update(pt.Step(utils.PointerSample{Touch: true})) || clicks != 1 {
		t.Errorf("touch tap should click once, clicks=%d", clicks)
	}
}

func TestButtonSystem_Contains(t *testing.T) {
	em := ecs.NewEntityManager()
	button := newTestButton(em, nil)
	bs := NewButtonSystem(em)

	if !bs.Contains(10, 10) || bs.Contains(111, 10) {
		t.Error("Contains should match the inclusive button rect")
	}
	button.Enabled = false
	if bs.Contains(50, 30) {
		t.Error("disabled buttons are not hit targets")
	}
}
