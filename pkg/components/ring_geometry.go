package components

// RingGeometryComponent 导火索环的过程化几何参数
//
// Arc 每次变化都视为重新生成几何体，Generation 随之递增，
// 渲染缓存据此判断是否需要重建顶点。
type RingGeometryComponent struct {
	Radius          float64 // 环半径
	Tube            float64 // 管半径
	RadialSegments  int
	TubularSegments int
	Arc             float64 // 扫过的弧度
	Generation      int     // 重新生成次数
}
