// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/mmath"
)

// 階層ごとのボーン長倍率。
const (
	rootBoneLengthRatio        = 3.0
	groupParentBoneLengthRatio = 2.0
	pointBoneLengthRatio       = 1.0
)

const alignmentEpsilon = 1e-9

// boneFrame はボーンのヘッド・テール・ロールを表す。
type boneFrame struct {
	Head mmath.Vec3
	Tail mmath.Vec3
	Roll float64
}

// boneAligner は配置方針に従ってボーンのテールとロールを決める。
type boneAligner struct {
	mode           AlignMode
	rotationScale  mmath.Mat3
	upAxis         mmath.Vec3
	baseBoneLength float64
}

// newBoneAligner はラティスのワールド行列から整列計算器を生成する。
func newBoneAligner(mode AlignMode, latticeMatrix mmath.Mat4, baseBoneLength float64) boneAligner {
	rotationScale := latticeMatrix.ToMat3()
	return boneAligner{
		mode:           mode,
		rotationScale:  rotationScale,
		upAxis:         rotationScale.MulVec3(mmath.UNIT_Z_VEC3).Normalized(),
		baseBoneLength: baseBoneLength,
	}
}

// frame はヘッドと長さ倍率からボーン姿勢を返す。
func (a boneAligner) frame(head mmath.Vec3, lengthRatio float64) boneFrame {
	localOffset := mmath.NewVec3(0, a.baseBoneLength*lengthRatio, 0)
	if a.mode != ALIGN_MODE_LATTICE {
		return boneFrame{Head: head, Tail: head.Added(localOffset)}
	}
	offset := a.rotationScale.MulVec3(localOffset)
	if offset.Length() <= alignmentEpsilon {
		// 潰れたラティスでは長さ0のボーンになるためワールド軸へ戻す
		return boneFrame{Head: head, Tail: head.Added(localOffset)}
	}
	tail := head.Added(offset)
	return boneFrame{Head: head, Tail: tail, Roll: mmath.RollToAlignAxis(head, tail, a.upAxis)}
}

// rootHeadPosition はルートボーンのヘッド位置を返す。
func rootHeadPosition(placement RootPlacement, latticeMatrix mmath.Mat4) mmath.Vec3 {
	origin := latticeMatrix.Translation()
	if placement != ROOT_PLACEMENT_BOTTOM {
		return origin
	}
	rotationScale := latticeMatrix.ToMat3()
	down := rotationScale.MulVec3(mmath.UNIT_Z_NEG_VEC3)
	scaleZ := down.Length()
	if scaleZ <= alignmentEpsilon {
		return origin
	}
	return origin.Added(down.Normalized().MuledScalar(scaleZ / 2))
}

// BoneFrame はヘッド・テール・ロールからボーンの姿勢行列を返す。列0/1/2がローカルX/Y/Z軸。
func BoneFrame(head mmath.Vec3, tail mmath.Vec3, roll float64) mmath.Mat3 {
	return mmath.NewBoneMatrix(head, tail, roll)
}
