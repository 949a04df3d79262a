// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_lattice_rig/pkg/usecase/port/moutput"

// LatticeRigUsecaseDeps はラティスリグ生成ユースケースの依存を表す。
type LatticeRigUsecaseDeps struct {
	SceneReader moutput.ISceneReader
	SceneWriter moutput.ISceneWriter
}

// LatticeRigUsecase はラティスをボーンで操作できるようにするリグ生成処理をまとめたユースケースを表す。
type LatticeRigUsecase struct {
	sceneReader moutput.ISceneReader
	sceneWriter moutput.ISceneWriter
}

// NewLatticeRigUsecase はラティスリグ生成ユースケースを生成する。
func NewLatticeRigUsecase(deps LatticeRigUsecaseDeps) *LatticeRigUsecase {
	return &LatticeRigUsecase{
		sceneReader: deps.SceneReader,
		sceneWriter: deps.SceneWriter,
	}
}
