// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model/merrors"
)

// LatticeGroup は制御点グループの範囲[Start, End)を表す。
type LatticeGroup struct {
	Start int
	End   int
}

// Len はグループの制御点数を返す。
func (g LatticeGroup) Len() int {
	return g.End - g.Start
}

// LatticeGrid はラティス変形器の制御点を読み取り専用で参照する。
type LatticeGrid struct {
	name        string
	lattice     *model.LatticeData
	matrixWorld mmath.Mat4
}

// NewLatticeGrid はラティスオブジェクトから制御点ビューを生成する。
func NewLatticeGrid(object *model.SceneObject) (*LatticeGrid, error) {
	if object == nil {
		return nil, merrors.NewInvalidLatticeError("ラティスオブジェクトが未設定です")
	}
	if object.Type != model.OBJECT_TYPE_LATTICE || object.Lattice == nil {
		return nil, merrors.NewInvalidLatticeError(fmt.Sprintf("ラティスデータがありません: %s", object.Name))
	}
	if len(object.Lattice.Points) == 0 {
		return nil, merrors.NewInvalidLatticeError(fmt.Sprintf("ラティス制御点がありません: %s", object.Name))
	}
	if object.Lattice.PointsW <= 0 {
		return nil, merrors.NewInvalidLatticeError(
			fmt.Sprintf("ラティスの縦解像度が不正です: name=%s points_w=%d", object.Name, object.Lattice.PointsW))
	}
	return &LatticeGrid{name: object.Name, lattice: object.Lattice, matrixWorld: object.MatrixWorld}, nil
}

// Name はラティスオブジェクト名を返す。
func (g *LatticeGrid) Name() string {
	return g.name
}

// PointCount は制御点数を返す。
func (g *LatticeGrid) PointCount() int {
	return len(g.lattice.Points)
}

// VerticalResolution は1グループの制御点数(W)を返す。
func (g *LatticeGrid) VerticalResolution() int {
	return g.lattice.PointsW
}

// WorldMatrix はラティスのワールド行列を返す。
func (g *LatticeGrid) WorldMatrix() mmath.Mat4 {
	return g.matrixWorld
}

// LocalPoint は制御点のローカル座標を返す。
func (g *LatticeGrid) LocalPoint(index int) mmath.Vec3 {
	return g.lattice.Points[index]
}

// WorldPoint は制御点のワールド座標を返す。
func (g *LatticeGrid) WorldPoint(index int) mmath.Vec3 {
	return g.matrixWorld.MulVec3(g.lattice.Points[index])
}

// GroupCount はグループ数を返す。割り切れない場合は末尾の短いグループを含む。
func (g *LatticeGrid) GroupCount() int {
	w := g.VerticalResolution()
	return (g.PointCount() + w - 1) / w
}

// Groups は先頭から連続するW点ずつのグループを返す。末尾はW点未満になり得る。
func (g *LatticeGrid) Groups() []LatticeGroup {
	w := g.VerticalResolution()
	count := g.PointCount()
	groups := make([]LatticeGroup, 0, g.GroupCount())
	for start := 0; start < count; start += w {
		groups = append(groups, LatticeGroup{Start: start, End: min(start+w, count)})
	}
	return groups
}

// GroupCentroid はグループ制御点のワールド座標平均を返す。
func (g *LatticeGrid) GroupCentroid(group LatticeGroup) mmath.Vec3 {
	points := make([]mmath.Vec3, 0, group.Len())
	for index := group.Start; index < group.End; index++ {
		points = append(points, g.WorldPoint(index))
	}
	return mmath.MeanVec3(points)
}
