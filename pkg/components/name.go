package components

// NameComponent 实体名称，用于按名称查找（如 "explodeText"）
type NameComponent struct {
	Name string
}
