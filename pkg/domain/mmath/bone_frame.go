// 指示: miu200521358
package mmath

import "math"

const (
	boneFrameSafeThreshold = 6.1e-3
	boneFrameThreshold     = 2.5e-4
	boneFrameEpsilon       = 1e-10
)

// NewBoneMatrixFromDirection はボーン方向(Y軸)とロールからボーンの姿勢行列を返す。
// ロール0のときはワールドYからボーン方向への最短回転で得られる姿勢となる。
func NewBoneMatrixFromDirection(direction Vec3, roll float64) Mat3 {
	base := boneBaseMatrix(direction.Normalized())
	if roll == 0 {
		return base
	}
	rollRotation := NewQuaternionFromAxisAngle(base.AxisY(), roll)
	return rollRotation.ToMat3().Muled(base)
}

// NewBoneMatrix はヘッド・テール・ロールからボーンの姿勢行列を返す。
func NewBoneMatrix(head Vec3, tail Vec3, roll float64) Mat3 {
	return NewBoneMatrixFromDirection(tail.Subed(head), roll)
}

// RollToAlignAxis はボーンのローカルZ軸が alignAxis に揃うロール(ラジアン)を返す。
// alignAxis がボーン方向と平行な場合は0を返す。
func RollToAlignAxis(head Vec3, tail Vec3, alignAxis Vec3) float64 {
	direction := tail.Subed(head).Normalized()
	if direction.Length() <= boneFrameEpsilon {
		return 0
	}
	base := boneBaseMatrix(direction)

	projected := alignAxis.Subed(direction.MuledScalar(alignAxis.Dot(direction)))
	if projected.Length() <= boneFrameEpsilon {
		return 0
	}
	projected = projected.Normalized()
	baseZ := base.AxisZ()

	cosine := clampUnit(baseZ.Dot(projected))
	roll := math.Acos(cosine)
	if baseZ.Cross(projected).Dot(direction) < 0 {
		roll = -roll
	}
	return roll
}

// boneBaseMatrix はロール0のボーン姿勢を返す。列0/1/2がX/Y/Z軸。
func boneBaseMatrix(direction Vec3) Mat3 {
	if direction.Length() <= boneFrameEpsilon {
		return NewMat3()
	}
	x, y, z := direction.X, direction.Y, direction.Z
	theta := 1.0 + y
	thetaAlt := x*x + z*z

	if theta > boneFrameSafeThreshold || thetaAlt > boneFrameThreshold {
		if theta <= boneFrameSafeThreshold {
			theta = thetaAlt*0.5 + thetaAlt*thetaAlt*0.125
		}
		axisX := NewVec3(1-x*x/theta, -x, -x*z/theta)
		axisY := NewVec3(x, y, z)
		axisZ := NewVec3(-x*z/theta, -z, 1-z*z/theta)
		return NewMat3FromAxes(axisX, axisY, axisZ)
	}

	// -Y方向はX,Yを反転した姿勢
	return NewMat3FromAxes(NewVec3(-1, 0, 0), NewVec3(0, -1, 0), UNIT_Z_VEC3)
}

// clampUnit は値を[-1, 1]へ丸める。
func clampUnit(value float64) float64 {
	if value < -1 {
		return -1
	}
	if value > 1 {
		return 1
	}
	return value
}
