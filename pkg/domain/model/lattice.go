// 指示: miu200521358
package model

import "github.com/miu200521358/mu_lattice_rig/pkg/domain/mmath"

// LatticeData はラティス変形器の制御点を表す。
// 制御点はU→V→Wの順に並ぶローカル座標。
type LatticeData struct {
	PointsU int
	PointsV int
	PointsW int
	Points  []mmath.Vec3
}

// NewLatticeData は解像度を指定して、[-0.5, 0.5]の立方体に均等配置したラティスを生成する。
func NewLatticeData(pointsU, pointsV, pointsW int) *LatticeData {
	lattice := &LatticeData{PointsU: pointsU, PointsV: pointsV, PointsW: pointsW}
	for w := 0; w < pointsW; w++ {
		for v := 0; v < pointsV; v++ {
			for u := 0; u < pointsU; u++ {
				lattice.Points = append(lattice.Points, mmath.NewVec3(
					latticeAxisCoordinate(u, pointsU),
					latticeAxisCoordinate(v, pointsV),
					latticeAxisCoordinate(w, pointsW),
				))
			}
		}
	}
	return lattice
}

// latticeAxisCoordinate は軸方向の等分座標を返す。
func latticeAxisCoordinate(index int, resolution int) float64 {
	if resolution <= 1 {
		return 0
	}
	return -0.5 + float64(index)/float64(resolution-1)
}
