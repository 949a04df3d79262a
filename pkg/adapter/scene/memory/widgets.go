// 指示: miu200521358
package memory

import (
	"math"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
)

const (
	sphereWidgetRadius = 0.2
	circleResolution   = 16
)

// circleOrientation は円を配置する平面の法線軸を表す。
type circleOrientation int

const (
	circleOrientationX circleOrientation = iota
	circleOrientationY
	circleOrientationZ
)

// SetupWidgets は既定ウィジェットを登録する。ウィジェットコレクションが既にある場合は何もしない。
func (s *Scene) SetupWidgets() bool {
	if s.data.WidgetCollection == model.WIDGET_COLLECTION {
		return false
	}
	s.data.WidgetCollection = model.WIDGET_COLLECTION
	s.AddWidget(newSphereWidget(model.WIDGET_SPHERE, sphereWidgetRadius))
	s.AddWidget(newCircleWidget(model.WIDGET_CIRCLE, 1.0, circleOrientationZ))
	s.AddWidget(newSquareWidget(model.WIDGET_SQUARE))
	s.AddWidget(newCubeWidget(model.WIDGET_CUBE, 1.0))
	return true
}

// AddWidget はウィジェットを登録する。同名は置き換える。
func (s *Scene) AddWidget(widget *model.Widget) {
	if widget == nil {
		return
	}
	if _, exists := s.widgets[widget.Name]; !exists {
		s.data.Widgets = append(s.data.Widgets, widget)
	} else {
		for i, existing := range s.data.Widgets {
			if existing.Name == widget.Name {
				s.data.Widgets[i] = widget
			}
		}
	}
	s.widgets[widget.Name] = widget
}

// LookupWidget は名前でウィジェットを取得する。
func (s *Scene) LookupWidget(name string) (*model.Widget, bool) {
	widget, exists := s.widgets[name]
	return widget, exists
}

// newCircleWidget は円形ウィジェットを生成する。
func newCircleWidget(name string, radius float64, orientation circleOrientation) *model.Widget {
	vertices, edges := circleOutline(radius, orientation, 0)
	return &model.Widget{Name: name, Vertices: vertices, Edges: edges}
}

// newSphereWidget は3軸の円を重ねた球ウィジェットを生成する。
func newSphereWidget(name string, radius float64) *model.Widget {
	widget := &model.Widget{Name: name}
	for _, orientation := range []circleOrientation{circleOrientationX, circleOrientationY, circleOrientationZ} {
		vertices, edges := circleOutline(radius, orientation, len(widget.Vertices))
		widget.Vertices = append(widget.Vertices, vertices...)
		widget.Edges = append(widget.Edges, edges...)
	}
	return widget
}

// newSquareWidget はXY平面の単位正方形ウィジェットを生成する。
func newSquareWidget(name string) *model.Widget {
	return &model.Widget{
		Name: name,
		Vertices: []mmath.Vec3{
			mmath.NewVec3(0.5, 0.5, 0),
			mmath.NewVec3(0.5, -0.5, 0),
			mmath.NewVec3(-0.5, -0.5, 0),
			mmath.NewVec3(-0.5, 0.5, 0),
		},
		Edges: [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
	}
}

// newCubeWidget は立方体ウィジェットを生成する。
func newCubeWidget(name string, size float64) *model.Widget {
	h := size / 2
	return &model.Widget{
		Name: name,
		Vertices: []mmath.Vec3{
			mmath.NewVec3(h, h, h),
			mmath.NewVec3(h, -h, h),
			mmath.NewVec3(-h, -h, h),
			mmath.NewVec3(-h, h, h),
			mmath.NewVec3(h, h, -h),
			mmath.NewVec3(h, -h, -h),
			mmath.NewVec3(-h, -h, -h),
			mmath.NewVec3(-h, h, -h),
		},
		Edges: [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 0},
			{4, 5}, {5, 6}, {6, 7}, {7, 4},
			{0, 4}, {1, 5}, {2, 6}, {3, 7},
		},
	}
}

// circleOutline は円周の頂点と辺を返す。辺のindexはoffsetから始まる。
func circleOutline(radius float64, orientation circleOrientation, offset int) ([]mmath.Vec3, [][2]int) {
	vertices := make([]mmath.Vec3, 0, circleResolution)
	edges := make([][2]int, 0, circleResolution)
	for i := 0; i < circleResolution; i++ {
		angle := 2.0 * math.Pi * float64(i) / circleResolution
		a := radius * math.Cos(angle)
		b := radius * math.Sin(angle)
		switch orientation {
		case circleOrientationX:
			vertices = append(vertices, mmath.NewVec3(0, b, -a))
		case circleOrientationY:
			vertices = append(vertices, mmath.NewVec3(a, 0, b))
		default:
			vertices = append(vertices, mmath.NewVec3(a, b, 0))
		}
		edges = append(edges, [2]int{offset + i, offset + (i+1)%circleResolution})
	}
	return vertices, edges
}
