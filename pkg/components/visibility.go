package components

// VisibilityComponent 可见性与透明度
//
// 与场景图一致：任一祖先不可见时，子节点也不会被绘制。
type VisibilityComponent struct {
	Visible bool
	Opacity float64 // 0.0 - 1.0
}

// NewVisibility 创建不透明的可见性组件
func NewVisibility(visible bool) *VisibilityComponent {
	return &VisibilityComponent{Visible: visible, Opacity: 1}
}
