// 指示: miu200521358
package mmath

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Mat4 は4x4アフィン行列を表す。内部は mathgl の列優先配列。
type Mat4 struct {
	mgl64.Mat4
}

// Mat3 は3x3行列を表す。列が各軸を表す。
type Mat3 struct {
	mgl64.Mat3
}

// Quaternion は回転を表す。
type Quaternion struct {
	mgl64.Quat
}

// NewMat4 は単位行列を生成する。
func NewMat4() Mat4 {
	return Mat4{Mat4: mgl64.Ident4()}
}

// NewMat4FromRowMajor は行優先16要素から行列を生成する。
func NewMat4FromRowMajor(values [16]float64) Mat4 {
	m := mgl64.Mat4{}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m.Set(row, col, values[row*4+col])
		}
	}
	return Mat4{Mat4: m}
}

// NewMat4FromTRS は平行移動・回転・スケールから行列を生成する。
func NewMat4FromTRS(translation Vec3, rotation Quaternion, scale Vec3) Mat4 {
	t := mgl64.Translate3D(translation.X, translation.Y, translation.Z)
	r := rotation.Quat.Mat4()
	s := mgl64.Scale3D(scale.X, scale.Y, scale.Z)
	return Mat4{Mat4: t.Mul4(r).Mul4(s)}
}

// RowMajor は行優先16要素を返す。
func (m Mat4) RowMajor() [16]float64 {
	values := [16]float64{}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			values[row*4+col] = m.At(row, col)
		}
	}
	return values
}

// Translation は平行移動成分を返す。
func (m Mat4) Translation() Vec3 {
	return NewVec3FromMgl(m.Col(3).Vec3())
}

// MulVec3 は点として変換した結果を返す。
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return NewVec3FromMgl(mgl64.TransformCoordinate(v.Mgl(), m.Mat4))
}

// Muled は行列積 m*other を返す。
func (m Mat4) Muled(other Mat4) Mat4 {
	return Mat4{Mat4: m.Mul4(other.Mat4)}
}

// ToMat3 は回転・スケール部分の3x3行列を返す。
func (m Mat4) ToMat3() Mat3 {
	return Mat3{Mat3: m.Mat4.Mat3()}
}

// Scaled はローカル軸ごとのスケール(列ベクトル長)を返す。
func (m Mat4) Scaled() Vec3 {
	rot := m.ToMat3()
	return NewVec3(rot.AxisX().Length(), rot.AxisY().Length(), rot.AxisZ().Length())
}

// NearEquals は全要素が許容誤差内で一致するか判定する。
func (m Mat4) NearEquals(other Mat4, epsilon float64) bool {
	return m.ApproxEqualThreshold(other.Mat4, epsilon)
}

// NewMat3 は単位行列を生成する。
func NewMat3() Mat3 {
	return Mat3{Mat3: mgl64.Ident3()}
}

// NewMat3FromAxes は各軸ベクトルを列とする行列を生成する。
func NewMat3FromAxes(axisX, axisY, axisZ Vec3) Mat3 {
	return Mat3{Mat3: mgl64.Mat3FromCols(axisX.Mgl(), axisY.Mgl(), axisZ.Mgl())}
}

// MulVec3 はベクトルを変換する。
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return NewVec3FromMgl(m.Mul3x1(v.Mgl()))
}

// Muled は行列積 m*other を返す。
func (m Mat3) Muled(other Mat3) Mat3 {
	return Mat3{Mat3: m.Mul3(other.Mat3)}
}

// AxisX はX軸(第0列)を返す。
func (m Mat3) AxisX() Vec3 {
	return NewVec3FromMgl(m.Col(0))
}

// AxisY はY軸(第1列)を返す。
func (m Mat3) AxisY() Vec3 {
	return NewVec3FromMgl(m.Col(1))
}

// AxisZ はZ軸(第2列)を返す。
func (m Mat3) AxisZ() Vec3 {
	return NewVec3FromMgl(m.Col(2))
}

// NearEquals は全要素が許容誤差内で一致するか判定する。
func (m Mat3) NearEquals(other Mat3, epsilon float64) bool {
	return m.ApproxEqualThreshold(other.Mat3, epsilon)
}

// NewQuaternion は単位クォータニオンを生成する。
func NewQuaternion() Quaternion {
	return Quaternion{Quat: mgl64.QuatIdent()}
}

// NewQuaternionFromDegrees はXYZ順の度指定オイラー角から生成する。
func NewQuaternionFromDegrees(x, y, z float64) Quaternion {
	return Quaternion{Quat: mgl64.AnglesToQuat(DegToRad(x), DegToRad(y), DegToRad(z), mgl64.XYZ)}
}

// NewQuaternionFromAxisAngle は軸と角度(ラジアン)から生成する。
func NewQuaternionFromAxisAngle(axis Vec3, radian float64) Quaternion {
	normalized := axis.Normalized()
	if normalized.Length() == 0 {
		return NewQuaternion()
	}
	return Quaternion{Quat: mgl64.QuatRotate(radian, normalized.Mgl())}
}

// MulVec3 はベクトルを回転する。
func (q Quaternion) MulVec3(v Vec3) Vec3 {
	return NewVec3FromMgl(q.Rotate(v.Mgl()))
}

// Muled は q*other を返す。
func (q Quaternion) Muled(other Quaternion) Quaternion {
	return Quaternion{Quat: q.Mul(other.Quat)}
}

// ToMat3 は回転行列を返す。
func (q Quaternion) ToMat3() Mat3 {
	return Mat3{Mat3: q.Quat.Mat4().Mat3()}
}
