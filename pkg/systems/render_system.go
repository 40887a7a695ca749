package systems

import (
	"image"
	"image/color"
	"log"
	"math"
	"sort"

	"github.com/gonewx/rocketlaunch/internal/geometry"
	"github.com/gonewx/rocketlaunch/internal/vecmath"
	"github.com/gonewx/rocketlaunch/pkg/components"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
	"github.com/gonewx/rocketlaunch/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	// cylinderSegments 圆柱/圆锥的周向分段数
	cylinderSegments = 32
	// maxBatchVertices 单次 DrawTriangles 的顶点上限（uint16 索引）
	maxBatchVertices = math.MaxUint16
	// shadowAlpha 阴影层合成透明度
	shadowAlpha = 0.25
	// lineWidth 折线宽度（像素）
	lineWidth = 2
)

// drawFace 投影到屏幕后的一个面
type drawFace struct {
	points []vecmath.Vec3 // X/Y 为屏幕坐标
	depth  float64
	layer  int
	color  color.RGBA
	alpha  float64
	entity ecs.EntityID
}

// cachedMesh 局部坐标系下的网格（环形几何按 Generation 重建）
type cachedMesh struct {
	generation int
	polygons   []geometry.Polygon
}

// RenderSystem 绘制场景中的网格、阴影与文字
//
// 渲染顺序（从底到顶）：
//  1. 地面层（Layer < LayerObject，按层号）
//  2. 平面阴影（CastShadow 的网格沿方向光投影到阴影平面）
//  3. 物体层（按深度从远到近，画家算法）
//  4. 折线与文字
//
// 可见性沿父链继承：任一祖先不可见则不绘制；透明度沿父链相乘。
// 实心网格剔除背面，多边形双面绘制。
type RenderSystem struct {
	entityManager *ecs.EntityManager
	meshCache     map[ecs.EntityID]cachedMesh

	shadowPlaneY float64

	whiteImage  *ebiten.Image
	shadowImage *ebiten.Image

	vertices []ebiten.Vertex // 复用，避免每帧分配
	indices  []uint16
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(em *ecs.EntityManager) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		meshCache:     make(map[ecs.EntityID]cachedMesh),
		vertices:      make([]ebiten.Vertex, 0, 4096),
		indices:       make([]uint16, 0, 8192),
	}
}

// SetShadowPlane 设置接收阴影的水平面高度
func (s *RenderSystem) SetShadowPlane(y float64) {
	s.shadowPlaneY = y
}

// Draw 绘制整个场景
func (s *RenderSystem) Draw(screen *ebiten.Image, proj *utils.Projector) {
	faces := s.collectFaces(proj)

	split := sort.Search(len(faces), func(i int) bool { return faces[i].layer >= components.LayerObject })
	s.drawFaces(screen, faces[:split])
	s.drawShadows(screen, proj)
	s.drawFaces(screen, faces[split:])

	s.drawLines(screen, proj)
	s.drawTexts(screen, proj)
}

// collectFaces 收集所有可见面，已按（层号升序，深度降序）排序
func (s *RenderSystem) collectFaces(proj *utils.Projector) []drawFace {
	lights := s.lights()
	var faces []drawFace

	entities := ecs.GetEntitiesWith2[*components.MeshComponent, *components.TransformComponent](s.entityManager)
	for _, entity := range entities {
		mesh, _ := ecs.GetComponent[*components.MeshComponent](s.entityManager, entity)
		if mesh.Kind == components.MeshLine {
			continue
		}

		visible, opacity := s.worldVisibility(entity)
		if !visible || opacity <= 0 {
			continue
		}

		doubleSided := mesh.Kind == components.MeshPolygon
		chain := s.transformChain(entity)

		for _, local := range s.localPolygons(entity, mesh) {
			world := make(geometry.Polygon, len(local))
			for i, p := range local {
				world[i] = applyChain(chain, p)
			}

			normal := world.Normal()
			if !proj.FacesCamera(normal) {
				if !doubleSided {
					continue
				}
				normal = normal.Scale(-1)
			}

			centroid := world.Centroid()
			screenPts := make([]vecmath.Vec3, len(world))
			for i, p := range world {
				x, y, d := proj.Project(p)
				screenPts[i] = vecmath.V3(x, y, d)
			}
			_, _, depth := proj.Project(centroid)

			faces = append(faces, drawFace{
				points: screenPts,
				depth:  depth,
				layer:  mesh.Layer,
				color:  shade(mesh.Color, normal, centroid, lights),
				alpha:  opacity,
				entity: entity,
			})
		}
	}

	sort.SliceStable(faces, func(i, j int) bool {
		li, lj := min(faces[i].layer, components.LayerObject), min(faces[j].layer, components.LayerObject)
		if li != lj {
			return li < lj
		}
		return faces[i].depth > faces[j].depth
	})
	return faces
}

// localPolygons 返回实体的局部网格（带缓存）
func (s *RenderSystem) localPolygons(entity ecs.EntityID, mesh *components.MeshComponent) []geometry.Polygon {
	generation := 0
	ring, isRing := ecs.GetComponent[*components.RingGeometryComponent](s.entityManager, entity)
	if isRing {
		generation = ring.Generation
	}

	if cached, ok := s.meshCache[entity]; ok && cached.generation == generation {
		return cached.polygons
	}

	var polygons []geometry.Polygon
	switch mesh.Kind {
	case components.MeshBox:
		polygons = geometry.Box(mesh.Size)
	case components.MeshCylinder:
		polygons = geometry.Cylinder(mesh.RadiusTop, mesh.RadiusBottom, mesh.Height, cylinderSegments)
	case components.MeshRing:
		if isRing {
			polygons = geometry.Torus(ring.Radius, ring.Tube, ring.RadialSegments, ring.TubularSegments, ring.Arc)
		}
	case components.MeshPolygon:
		polygons = geometry.Triangulate(mesh.Outline)
	}

	s.meshCache[entity] = cachedMesh{generation: generation, polygons: polygons}
	return polygons
}

// transformChain 返回从自身到根的变换链
func (s *RenderSystem) transformChain(entity ecs.EntityID) []*components.TransformComponent {
	var chain []*components.TransformComponent
	for id := entity; id != 0; {
		tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if !ok {
			break
		}
		chain = append(chain, tr)
		if tr.Parent == id {
			break
		}
		id = tr.Parent
	}
	return chain
}

func applyChain(chain []*components.TransformComponent, p vecmath.Vec3) vecmath.Vec3 {
	for _, tr := range chain {
		p = tr.Apply(p)
	}
	return p
}

// WorldPosition 返回实体局部点 p 的世界坐标
func (s *RenderSystem) WorldPosition(entity ecs.EntityID, p vecmath.Vec3) vecmath.Vec3 {
	return applyChain(s.transformChain(entity), p)
}

// worldVisibility 沿父链计算可见性与累计透明度
func (s *RenderSystem) worldVisibility(entity ecs.EntityID) (bool, float64) {
	opacity := 1.0
	for id := entity; id != 0; {
		if vis, ok := ecs.GetComponent[*components.VisibilityComponent](s.entityManager, id); ok {
			if !vis.Visible {
				return false, 0
			}
			opacity *= vis.Opacity
		}
		tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if !ok || tr.Parent == id {
			break
		}
		id = tr.Parent
	}
	return true, opacity
}

func (s *RenderSystem) lights() []*components.LightComponent {
	var lights []*components.LightComponent
	for _, entity := range ecs.GetEntitiesWith1[*components.LightComponent](s.entityManager) {
		light, _ := ecs.GetComponent[*components.LightComponent](s.entityManager, entity)
		lights = append(lights, light)
	}
	return lights
}

// shade 平面着色：环境光 + 方向光/点光漫反射
func shade(base color.RGBA, normal, point vecmath.Vec3, lights []*components.LightComponent) color.RGBA {
	if len(lights) == 0 {
		return base
	}

	var r, g, b float64
	for _, light := range lights {
		factor := light.Intensity
		switch light.Kind {
		case components.LightDirectional:
			factor *= math.Max(0, normal.Dot(light.Position.Normalize()))
		case components.LightPoint:
			factor *= math.Max(0, normal.Dot(light.Position.Sub(point).Normalize()))
		}
		r += factor * float64(light.Color.R) / 255
		g += factor * float64(light.Color.G) / 255
		b += factor * float64(light.Color.B) / 255
	}

	channel := func(c uint8, f float64) uint8 {
		return uint8(utils.Clamp(float64(c)*f, 0, 255))
	}
	return color.RGBA{R: channel(base.R, r), G: channel(base.G, g), B: channel(base.B, b), A: base.A}
}

// shadowDirection 返回第一个方向光的光线方向（指向光源）
func (s *RenderSystem) shadowDirection() (vecmath.Vec3, bool) {
	for _, light := range s.lights() {
		if light.Kind == components.LightDirectional && light.Position.Y > 0 {
			return light.Position.Normalize(), true
		}
	}
	return vecmath.Vec3{}, false
}

// collectShadows 把投射阴影的网格沿光线压到阴影平面，返回屏幕坐标多边形
func (s *RenderSystem) collectShadows(proj *utils.Projector) [][]vecmath.Vec3 {
	toLight, ok := s.shadowDirection()
	if !ok {
		return nil
	}

	var shadows [][]vecmath.Vec3
	for _, entity := range ecs.GetEntitiesWith2[*components.MeshComponent, *components.TransformComponent](s.entityManager) {
		mesh, _ := ecs.GetComponent[*components.MeshComponent](s.entityManager, entity)
		if !mesh.CastShadow {
			continue
		}
		if visible, _ := s.worldVisibility(entity); !visible {
			continue
		}

		chain := s.transformChain(entity)
		for _, local := range s.localPolygons(entity, mesh) {
			pts := make([]vecmath.Vec3, len(local))
			for i, p := range local {
				w := applyChain(chain, p)
				w = w.Sub(toLight.Scale((w.Y - s.shadowPlaneY) / toLight.Y))
				x, y, _ := proj.Project(w)
				pts[i] = vecmath.V3(x, y, 0)
			}
			shadows = append(shadows, pts)
		}
	}
	return shadows
}

func (s *RenderSystem) white() *ebiten.Image {
	if s.whiteImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		s.whiteImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return s.whiteImage
}

func (s *RenderSystem) drawFaces(dst *ebiten.Image, faces []drawFace) {
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]

	for _, face := range faces {
		r, g, b := float32(face.color.R)/255, float32(face.color.G)/255, float32(face.color.B)/255
		a := float32(face.color.A) / 255 * float32(face.alpha)
		s.appendPolygon(dst, face.points, r, g, b, a)
	}
	s.flush(dst)
}

func (s *RenderSystem) appendPolygon(dst *ebiten.Image, pts []vecmath.Vec3, r, g, b, a float32) {
	if len(pts) < 3 {
		return
	}
	if len(s.vertices)+len(pts) > maxBatchVertices {
		s.flush(dst)
	}

	base := uint16(len(s.vertices))
	for _, p := range pts {
		s.vertices = append(s.vertices, ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		})
	}
	for i := 1; i+1 < len(pts); i++ {
		s.indices = append(s.indices, base, base+uint16(i), base+uint16(i+1))
	}
}

func (s *RenderSystem) flush(dst *ebiten.Image) {
	if len(s.indices) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = true
	dst.DrawTriangles(s.vertices, s.indices, s.white(), op)
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
}

// drawShadows 阴影先以不透明黑色画到离屏图像，再整体半透明合成，避免重叠处加深
func (s *RenderSystem) drawShadows(screen *ebiten.Image, proj *utils.Projector) {
	shadows := s.collectShadows(proj)
	if len(shadows) == 0 {
		return
	}

	bounds := screen.Bounds()
	if s.shadowImage == nil || s.shadowImage.Bounds().Size() != bounds.Size() {
		if s.shadowImage != nil {
			s.shadowImage.Deallocate()
		}
		s.shadowImage = ebiten.NewImage(bounds.Dx(), bounds.Dy())
		log.Printf("[RenderSystem] Shadow buffer %dx%d", bounds.Dx(), bounds.Dy())
	}
	s.shadowImage.Clear()

	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	for _, pts := range shadows {
		s.appendPolygon(s.shadowImage, pts, 0, 0, 0, 1)
	}
	s.flush(s.shadowImage)

	op := &ebiten.DrawImageOptions{}
	op.ColorScale.ScaleAlpha(shadowAlpha)
	screen.DrawImage(s.shadowImage, op)
}

func (s *RenderSystem) drawLines(screen *ebiten.Image, proj *utils.Projector) {
	entities := ecs.GetEntitiesWith2[*components.MeshComponent, *components.TransformComponent](s.entityManager)
	for _, entity := range entities {
		mesh, _ := ecs.GetComponent[*components.MeshComponent](s.entityManager, entity)
		if mesh.Kind != components.MeshLine || len(mesh.Outline) < 2 {
			continue
		}
		visible, opacity := s.worldVisibility(entity)
		if !visible {
			continue
		}

		clr := mesh.Color
		clr.A = uint8(float64(clr.A) * utils.Clamp(opacity, 0, 1))
		chain := s.transformChain(entity)

		x0, y0, _ := proj.Project(applyChain(chain, mesh.Outline[0]))
		for _, p := range mesh.Outline[1:] {
			x1, y1, _ := proj.Project(applyChain(chain, p))
			vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), lineWidth, clr, true)
			x0, y0 = x1, y1
		}
	}
}

// drawTexts 文字按实体的局部 X/Y 轴投影后做仿射绘制
func (s *RenderSystem) drawTexts(screen *ebiten.Image, proj *utils.Projector) {
	entities := ecs.GetEntitiesWith2[*components.TextComponent, *components.TransformComponent](s.entityManager)
	for _, entity := range entities {
		tc, _ := ecs.GetComponent[*components.TextComponent](s.entityManager, entity)
		if tc.Face == nil || tc.Text == "" {
			continue
		}
		visible, opacity := s.worldVisibility(entity)
		if !visible || opacity <= 0 {
			continue
		}

		geo, px := textGeoM(s.transformChain(entity), proj, tc.Size)
		if px < 1 {
			continue
		}
		tc.Face.Size = px

		op := &text.DrawOptions{}
		op.GeoM.Translate(0, -tc.Face.Metrics().HAscent)
		op.GeoM.Concat(geo)
		op.ColorScale.ScaleWithColor(tc.Color)
		op.ColorScale.ScaleAlpha(float32(opacity))
		text.Draw(screen, tc.Text, tc.Face, op)
	}
}

// textGeoM 计算字形坐标（像素，Y 向下）到屏幕的仿射变换，以及字号像素值
func textGeoM(chain []*components.TransformComponent, proj *utils.Projector, size float64) (ebiten.GeoM, float64) {
	scale := proj.Scale()
	ox, oy, _ := proj.Project(applyChain(chain, vecmath.Vec3{}))
	xx, xy, _ := proj.Project(applyChain(chain, vecmath.V3(1, 0, 0)))
	yx, yy, _ := proj.Project(applyChain(chain, vecmath.V3(0, 1, 0)))

	var geo ebiten.GeoM
	geo.SetElement(0, 0, (xx-ox)/scale)
	geo.SetElement(0, 1, -(yx-ox)/scale)
	geo.SetElement(1, 0, (xy-oy)/scale)
	geo.SetElement(1, 1, -(yy-oy)/scale)
	geo.SetElement(0, 2, ox)
	geo.SetElement(1, 2, oy)
	return geo, size * scale
}
