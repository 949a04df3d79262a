// 指示: miu200521358
// Package preview はリグのボーン配置を平面投影した画像を出力する。
package preview

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/shared/base/logging"
)

// Projection は投影面を表す。
type Projection struct {
	Title  string
	XLabel string
	YLabel string
	pick   func(v mmath.Vec3) plotter.XY
}

var (
	// PROJECTION_TOP は上面(X-Y)投影。
	PROJECTION_TOP = Projection{Title: "Top (X-Y)", XLabel: "X", YLabel: "Y", pick: func(v mmath.Vec3) plotter.XY {
		return plotter.XY{X: v.X, Y: v.Y}
	}}
	// PROJECTION_FRONT は正面(X-Z)投影。
	PROJECTION_FRONT = Projection{Title: "Front (X-Z)", XLabel: "X", YLabel: "Z", pick: func(v mmath.Vec3) plotter.XY {
		return plotter.XY{X: v.X, Y: v.Z}
	}}
)

var roleColors = map[model.BoneRole]color.Color{
	model.BONE_ROLE_ROOT:         color.RGBA{R: 0xFF, G: 0x6B, B: 0x6B, A: 0xFF},
	model.BONE_ROLE_GROUP_PARENT: color.RGBA{R: 0xF7, G: 0xB8, B: 0x01, A: 0xFF},
	model.BONE_ROLE_CONTROL:      color.RGBA{R: 0x5B, G: 0x8D, B: 0xEF, A: 0xFF},
	model.BONE_ROLE_DEFORM:       color.RGBA{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF},
	model.BONE_ROLE_NONE:         color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xFF},
}

var roleOrder = []model.BoneRole{
	model.BONE_ROLE_DEFORM,
	model.BONE_ROLE_CONTROL,
	model.BONE_ROLE_GROUP_PARENT,
	model.BONE_ROLE_ROOT,
	model.BONE_ROLE_NONE,
}

const (
	previewWidth  = 12 * vg.Inch
	previewHeight = 6 * vg.Inch
)

// Options はプレビュー出力の対象を表す。
type Options struct {
	ArmatureName string
	LatticeName  string
	Projections  []Projection
}

// SaveBonePreview はアーマチュアのボーンとラティス制御点を投影面ごとに並べたPNGを保存する。
func SaveBonePreview(data *model.SceneData, options Options, path string) error {
	armature, lattice, err := resolvePreviewTargets(data, options)
	if err != nil {
		return err
	}
	projections := options.Projections
	if len(projections) == 0 {
		projections = []Projection{PROJECTION_TOP, PROJECTION_FRONT}
	}

	plots := make([]*plot.Plot, 0, len(projections))
	for _, projection := range projections {
		p, err := newProjectionPlot(projection, armature, lattice)
		if err != nil {
			return err
		}
		plots = append(plots, p)
	}

	img := vgimg.New(previewWidth, previewHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(plots),
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(2),
		PadBottom: vg.Points(2),
		PadLeft:   vg.Points(2),
		PadRight:  vg.Points(2),
	}
	canvases := plot.Align([][]*plot.Plot{plots}, tiles, dc)
	for i, p := range plots {
		p.Draw(canvases[0][i])
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("プレビュー画像の作成に失敗しました: %w", err)
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("プレビュー画像の書き込みに失敗しました: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("プレビュー画像のクローズに失敗しました: %w", err)
	}
	logging.DefaultLogger().Debug("プレビュー画像を保存しました: path=%s bones=%d", path, armature.Armature.Bones.Len())
	return nil
}

// resolvePreviewTargets は描画対象のアーマチュアとラティスを解決する。名前未指定時は先頭を使う。
func resolvePreviewTargets(data *model.SceneData, options Options) (*model.SceneObject, *model.SceneObject, error) {
	if data == nil {
		return nil, nil, fmt.Errorf("プレビュー対象シーンが未設定です")
	}
	var armature, lattice *model.SceneObject
	for _, object := range data.Objects {
		switch object.Type {
		case model.OBJECT_TYPE_ARMATURE:
			if armature == nil && (options.ArmatureName == "" || options.ArmatureName == object.Name) {
				armature = object
			}
		case model.OBJECT_TYPE_LATTICE:
			if lattice == nil && (options.LatticeName == "" || options.LatticeName == object.Name) {
				lattice = object
			}
		}
	}
	if armature == nil || armature.Armature == nil {
		return nil, nil, fmt.Errorf("プレビュー対象のアーマチュアが見つかりません: %s", options.ArmatureName)
	}
	return armature, lattice, nil
}

// newProjectionPlot は1つの投影面のプロットを生成する。
func newProjectionPlot(projection Projection, armature *model.SceneObject, lattice *model.SceneObject) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = projection.Title
	p.X.Label.Text = projection.XLabel
	p.Y.Label.Text = projection.YLabel
	p.Add(plotter.NewGrid())

	if lattice != nil && lattice.Lattice != nil {
		points := make(plotter.XYs, 0, len(lattice.Lattice.Points))
		for _, point := range lattice.Lattice.Points {
			points = append(points, projection.pick(lattice.MatrixWorld.MulVec3(point)))
		}
		scatter, err := plotter.NewScatter(points)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Color = color.Gray{Y: 0x60}
		scatter.GlyphStyle.Radius = vg.Points(2)
		p.Add(scatter)
		p.Legend.Add("lattice", scatter)
	}

	for _, role := range roleOrder {
		legendAdded := false
		for _, bone := range armature.Armature.Bones.Values() {
			if bone.Role != role {
				continue
			}
			line, err := plotter.NewLine(boneSegment(projection, bone))
			if err != nil {
				return nil, err
			}
			line.Color = roleColors[role]
			line.Width = vg.Points(1)
			p.Add(line)
			if !legendAdded {
				p.Legend.Add(roleLabel(role), line)
				legendAdded = true
			}
		}
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// boneSegment はボーンの投影線分を返す。ボーンの頭と尾はワールド座標で保持しているため、アーマチュアの行列は掛けない。
func boneSegment(projection Projection, bone *model.Bone) plotter.XYs {
	return plotter.XYs{projection.pick(bone.Head), projection.pick(bone.Tail)}
}

func roleLabel(role model.BoneRole) string {
	if role == model.BONE_ROLE_NONE {
		return "other"
	}
	return string(role)
}
