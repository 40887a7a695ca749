package systems

import (
	"image/color"
	"math"
	"testing"

	"github.com/gonewx/rocketlaunch/internal/vecmath"
	"github.com/gonewx/rocketlaunch/pkg/components"
	"github.com/gonewx/rocketlaunch/pkg/ecs"
	"github.com/gonewx/rocketlaunch/pkg/utils"
)

func newTestProjector() *utils.Projector {
	return utils.NewProjector(vecmath.V3(100, 100, 100), vecmath.Vec3{}, 1, 16, 1280, 720)
}

func addTestMesh(em *ecs.EntityManager, parent ecs.EntityID, mesh *components.MeshComponent, pos vecmath.Vec3) ecs.EntityID {
	entity := em.CreateEntity()
	tr := components.NewTransform(pos.X, pos.Y, pos.Z)
	tr.Parent = parent
	ecs.AddComponent(em, entity, tr)
	ecs.AddComponent(em, entity, components.NewVisibility(true))
	ecs.AddComponent(em, entity, mesh)
	return entity
}

func addTestGroup(em *ecs.EntityManager, visible bool) ecs.EntityID {
	group := em.CreateEntity()
	ecs.AddComponent(em, group, components.NewTransform(0, 0, 0))
	ecs.AddComponent(em, group, components.NewVisibility(visible))
	return group
}

// TestRenderSystem_BackFaceCulling 测试实心网格只绘制朝向相机的面
func TestRenderSystem_BackFaceCulling(t *testing.T) {
	em := ecs.NewEntityManager()
	addTestMesh(em, 0, &components.MeshComponent{Kind: components.MeshBox, Size: vecmath.V3(2, 2, 2), Layer: components.LayerObject}, vecmath.Vec3{})

	faces := NewRenderSystem(em).collectFaces(newTestProjector())
	if len(faces) != 3 {
		t.Errorf("isometric view of a box should show 3 faces, got %d", len(faces))
	}
}

// TestRenderSystem_DoubleSidedPolygon 测试多边形背面朝向相机时仍然绘制
func TestRenderSystem_DoubleSidedPolygon(t *testing.T) {
	em := ecs.NewEntityManager()
	entity := addTestMesh(em, 0, &components.MeshComponent{
		Kind:    components.MeshPolygon,
		Outline: []vecmath.Vec3{{X: 0}, {X: 1}, {X: 0, Y: 1}},
		Layer:   components.LayerObject,
	}, vecmath.Vec3{})

	rs := NewRenderSystem(em)
	proj := newTestProjector()
	if got := len(rs.collectFaces(proj)); got != 1 {
		t.Fatalf("front side: got %d faces", got)
	}

	tr, _ := ecs.GetComponent[*components.TransformComponent](em, entity)
	tr.Rotation.Y = math.Pi
	if got := len(rs.collectFaces(proj)); got != 1 {
		t.Errorf("back side should still be drawn, got %d faces", got)
	}
}

// TestRenderSystem_VisibilityInherited 测试祖先不可见时子节点不绘制，透明度沿父链相乘
func TestRenderSystem_VisibilityInherited(t *testing.T) {
	em := ecs.NewEntityManager()
	group := addTestGroup(em, false)
	child := addTestMesh(em, group, &components.MeshComponent{Kind: components.MeshBox, Size: vecmath.V3(1, 1, 1)}, vecmath.Vec3{})

	rs := NewRenderSystem(em)
	if faces := rs.collectFaces(newTestProjector()); len(faces) != 0 {
		t.Fatalf("child of a hidden group should not be drawn, got %d faces", len(faces))
	}

	groupVis, _ := ecs.GetComponent[*components.VisibilityComponent](em, group)
	groupVis.Visible = true
	groupVis.Opacity = 0.5
	childVis, _ := ecs.GetComponent[*components.VisibilityComponent](em, child)
	childVis.Opacity = 0.5

	visible, opacity := rs.worldVisibility(child)
	if !visible || opacity != 0.25 {
		t.Errorf("worldVisibility: got (%v, %v), want (true, 0.25)", visible, opacity)
	}
}

// TestRenderSystem_WorldPosition 测试父子变换组合
func TestRenderSystem_WorldPosition(t *testing.T) {
	em := ecs.NewEntityManager()
	rocket := addTestGroup(em, true)
	rocketTr, _ := ecs.GetComponent[*components.TransformComponent](em, rocket)
	rocketTr.Position = vecmath.V3(-10, 2, 5)

	head := addTestMesh(em, rocket, &components.MeshComponent{Kind: components.MeshCylinder, RadiusBottom: 1.5, Height: 3}, vecmath.V3(0, 10.5, 0))

	rs := NewRenderSystem(em)
	if got := rs.WorldPosition(head, vecmath.Vec3{}); got != vecmath.V3(-10, 12.5, 5) {
		t.Errorf("head world position: got %+v", got)
	}

	rocketTr.Position.Y = 100
	if got := rs.WorldPosition(head, vecmath.Vec3{}); got.Y != 110.5 {
		t.Errorf("child should follow parent, got %+v", got)
	}
}

// TestRenderSystem_LayerOrder 测试地面层总是先于物体层绘制，物体层由远到近
func TestRenderSystem_LayerOrder(t *testing.T) {
	em := ecs.NewEntityManager()
	box := func(layer int, pos vecmath.Vec3) {
		addTestMesh(em, 0, &components.MeshComponent{Kind: components.MeshBox, Size: vecmath.V3(1, 1, 1), Layer: layer}, pos)
	}
	box(components.LayerObject, vecmath.V3(-20, 0, -20))
	box(components.LayerObject, vecmath.V3(20, 0, 20))
	box(components.LayerRoad, vecmath.V3(30, 0, 30))
	box(components.LayerGround, vecmath.V3(0, -5, 0))

	faces := NewRenderSystem(em).collectFaces(newTestProjector())
	if len(faces) != 12 {
		t.Fatalf("got %d faces", len(faces))
	}

	for i := 0; i < 3; i++ {
		if faces[i].layer != components.LayerGround {
			t.Errorf("face %d: layer %d, want ground first", i, faces[i].layer)
		}
	}
	for i := 3; i < 6; i++ {
		if faces[i].layer != components.LayerRoad {
			t.Errorf("face %d: layer %d, want road second", i, faces[i].layer)
		}
	}
	for i := 7; i < len(faces); i++ {
		if faces[i].depth > faces[i-1].depth {
			t.Errorf("object faces not sorted far to near at %d", i)
		}
	}
}

// TestRenderSystem_RingRegeneration 测试环形几何按 Generation 重建
func TestRenderSystem_RingRegeneration(t *testing.T) {
	em := ecs.NewEntityManager()
	entity := addTestMesh(em, 0, &components.MeshComponent{Kind: components.MeshRing}, vecmath.Vec3{})
	ring := &components.RingGeometryComponent{Radius: 1, Tube: 0.1, RadialSegments: 8, TubularSegments: 8, Arc: math.Pi / 2}
	ecs.AddComponent(em, entity, ring)

	rs := NewRenderSystem(em)
	mesh, _ := ecs.GetComponent[*components.MeshComponent](em, entity)
	if got := len(rs.localPolygons(entity, mesh)); got != 64 {
		t.Fatalf("initial ring: got %d polygons", got)
	}

	// 未递增 Generation 时沿用缓存
	ring.Arc = 0
	if got := len(rs.localPolygons(entity, mesh)); got != 64 {
		t.Errorf("cache should be reused until generation changes, got %d", got)
	}

	ring.Generation++
	if got := len(rs.localPolygons(entity, mesh)); got != 0 {
		t.Errorf("exhausted ring should have no polygons, got %d", got)
	}
}

// TestRenderSystem_Shadows 测试阴影投影到阴影平面，隐藏实体不投影
func TestRenderSystem_Shadows(t *testing.T) {
	em := ecs.NewEntityManager()
	rs := NewRenderSystem(em)
	rs.SetShadowPlane(2)
	proj := newTestProjector()

	caster := addTestMesh(em, 0, &components.MeshComponent{Kind: components.MeshBox, Size: vecmath.V3(1, 1, 1), CastShadow: true}, vecmath.V3(0, 10, 0))

	if shadows := rs.collectShadows(proj); shadows != nil {
		t.Fatal("no directional light means no shadows")
	}

	light := em.CreateEntity()
	ecs.AddComponent(em, light, &components.LightComponent{Kind: components.LightDirectional, Color: color.RGBA{255, 255, 255, 255}, Intensity: 0.4, Position: vecmath.V3(0, 100, 0)})

	shadows := rs.collectShadows(proj)
	if len(shadows) != 6 {
		t.Fatalf("expected one shadow polygon per face, got %d", len(shadows))
	}

	// 正上方光源：阴影落在 (0,2,0) 周围
	cx, cy, _ := proj.Project(vecmath.V3(0, 2, 0))
	for _, poly := range shadows {
		for _, p := range poly {
			if math.Abs(p.X-cx) > 8 || math.Abs(p.Y-cy) > 8 {
				t.Fatalf("shadow vertex (%.2f, %.2f) too far from (%.2f, %.2f)", p.X, p.Y, cx, cy)
			}
		}
	}

	vis, _ := ecs.GetComponent[*components.VisibilityComponent](em, caster)
	vis.Visible = false
	if shadows := rs.collectShadows(proj); len(shadows) != 0 {
		t.Error("hidden meshes should not cast shadows")
	}
}

func TestShade(t *testing.T) {
	base := color.RGBA{200, 100, 50, 255}
	if got := shade(base, vecmath.V3(0, 1, 0), vecmath.Vec3{}, nil); got != base {
		t.Errorf("no lights should keep the base colour, got %v", got)
	}

	lights := []*components.LightComponent{
		{Kind: components.LightAmbient, Color: color.RGBA{255, 255, 255, 255}, Intensity: 0.5},
		{Kind: components.LightDirectional, Color: color.RGBA{255, 255, 255, 255}, Intensity: 0.5, Position: vecmath.V3(0, 10, 0)},
	}

	if got := shade(base, vecmath.V3(0, 1, 0), vecmath.Vec3{}, lights); got != base {
		t.Errorf("lit face: got %v, want %v", got, base)
	}
	if got := shade(base, vecmath.V3(0, -1, 0), vecmath.Vec3{}, lights); got != (color.RGBA{100, 50, 25, 255}) {
		t.Errorf("face away from light gets ambient only, got %v", got)
	}
}

func TestTextGeoM(t *testing.T) {
	proj := newTestProjector()
	tr := components.NewTransform(-23, 100, 18)
	tr.Rotation.Y = math.Pi / 4
	chain := []*components.TransformComponent{tr}

	geo, px := textGeoM(chain, proj, 10)
	if math.Abs(px-80) > 1e-9 {
		t.Errorf("font size: got %v px, want 80", px)
	}

	ox, oy, _ := proj.Project(vecmath.V3(-23, 100, 18))
	if x, y := geo.Apply(0, 0); math.Abs(x-ox) > 1e-9 || math.Abs(y-oy) > 1e-9 {
		t.Errorf("origin: got (%v, %v), want (%v, %v)", x, y, ox, oy)
	}

	// 字形坐标 (px, 0) 对应局部 X 方向 1 个世界单位（乘以字号）
	wx, wy, _ := proj.Project(applyChain(chain, vecmath.V3(1, 0, 0)))
	if x, y := geo.Apply(proj.Scale(), 0); math.Abs(x-wx) > 1e-9 || math.Abs(y-wy) > 1e-9 {
		t.Errorf("local X: got (%v, %v), want (%v, %v)", x, y, wx, wy)
	}
}
