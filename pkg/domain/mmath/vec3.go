// 指示: miu200521358
// Package mmath はボーン・ラティス計算で使うベクトル/行列型を提供する。
package mmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 は3次元ベクトルを表す。
type Vec3 struct {
	r3.Vec
}

var (
	// ZERO_VEC3 はゼロベクトル。
	ZERO_VEC3 = Vec3{}
	// ONE_VEC3 は全成分1のベクトル。
	ONE_VEC3 = Vec3{Vec: r3.Vec{X: 1, Y: 1, Z: 1}}
	// UNIT_X_VEC3 はX軸単位ベクトル。
	UNIT_X_VEC3 = Vec3{Vec: r3.Vec{X: 1}}
	// UNIT_Y_VEC3 はY軸単位ベクトル。
	UNIT_Y_VEC3 = Vec3{Vec: r3.Vec{Y: 1}}
	// UNIT_Z_VEC3 はZ軸単位ベクトル。
	UNIT_Z_VEC3 = Vec3{Vec: r3.Vec{Z: 1}}
	// UNIT_Z_NEG_VEC3 は-Z軸単位ベクトル。
	UNIT_Z_NEG_VEC3 = Vec3{Vec: r3.Vec{Z: -1}}
)

// NewVec3 は成分指定でベクトルを生成する。
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{Vec: r3.Vec{X: x, Y: y, Z: z}}
}

// Added は加算結果を返す。
func (v Vec3) Added(other Vec3) Vec3 {
	return Vec3{Vec: r3.Add(v.Vec, other.Vec)}
}

// Subed は減算結果を返す。
func (v Vec3) Subed(other Vec3) Vec3 {
	return Vec3{Vec: r3.Sub(v.Vec, other.Vec)}
}

// MuledScalar はスカラー倍を返す。
func (v Vec3) MuledScalar(s float64) Vec3 {
	return Vec3{Vec: r3.Scale(s, v.Vec)}
}

// DivedScalar はスカラー除算を返す。0除算時はゼロベクトルを返す。
func (v Vec3) DivedScalar(s float64) Vec3 {
	if s == 0 {
		return ZERO_VEC3
	}
	return Vec3{Vec: r3.Scale(1.0/s, v.Vec)}
}

// Length はベクトル長を返す。
func (v Vec3) Length() float64 {
	return r3.Norm(v.Vec)
}

// Normalized は正規化ベクトルを返す。長さ0の場合はゼロベクトル。
func (v Vec3) Normalized() Vec3 {
	if v.Length() == 0 {
		return ZERO_VEC3
	}
	return Vec3{Vec: r3.Unit(v.Vec)}
}

// Dot は内積を返す。
func (v Vec3) Dot(other Vec3) float64 {
	return r3.Dot(v.Vec, other.Vec)
}

// Cross は外積を返す。
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{Vec: r3.Cross(v.Vec, other.Vec)}
}

// NearEquals は各成分が許容誤差内で一致するか判定する。
func (v Vec3) NearEquals(other Vec3, epsilon float64) bool {
	return math.Abs(v.X-other.X) <= epsilon &&
		math.Abs(v.Y-other.Y) <= epsilon &&
		math.Abs(v.Z-other.Z) <= epsilon
}

// Mgl は mathgl のベクトルへ変換する。
func (v Vec3) Mgl() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// Vector は成分をスライスで返す。
func (v Vec3) Vector() []float64 {
	return []float64{v.X, v.Y, v.Z}
}

// String は表示用文字列を返す。
func (v Vec3) String() string {
	return fmt.Sprintf("[x=%.5f, y=%.5f, z=%.5f]", v.X, v.Y, v.Z)
}

// NewVec3FromMgl は mathgl のベクトルから生成する。
func NewVec3FromMgl(v mgl64.Vec3) Vec3 {
	return NewVec3(v[0], v[1], v[2])
}

// NewVec3FromSlice はスライスから生成する。長さ不足の成分は0とする。
func NewVec3FromSlice(values []float64) Vec3 {
	v := Vec3{}
	if len(values) > 0 {
		v.X = values[0]
	}
	if len(values) > 1 {
		v.Y = values[1]
	}
	if len(values) > 2 {
		v.Z = values[2]
	}
	return v
}

// MeanVec3 は算術平均を返す。空の場合はゼロベクトル。
func MeanVec3(values []Vec3) Vec3 {
	if len(values) == 0 {
		return ZERO_VEC3
	}
	sum := r3.Vec{}
	for _, v := range values {
		sum = r3.Add(sum, v.Vec)
	}
	return Vec3{Vec: r3.Scale(1.0/float64(len(values)), sum)}
}

// DegToRad は度をラジアンへ変換する。
func DegToRad(degree float64) float64 {
	return mgl64.DegToRad(degree)
}

// RadToDeg はラジアンを度へ変換する。
func RadToDeg(radian float64) float64 {
	return mgl64.RadToDeg(radian)
}
