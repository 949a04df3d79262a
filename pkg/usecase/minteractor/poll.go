// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/port/moutput"
)

// selectionScene は選択判定に必要なシーン参照を表す。
type selectionScene interface {
	moutput.ISceneQuery
	ActiveObjectName() string
}

// rigTargets は選択から解決したリグ対象を表す。
type rigTargets struct {
	Armature *model.SceneObject
	Lattices []*model.SceneObject
}

// PollRigLattice はリグ生成を実行できる選択状態か判定する。
func PollRigLattice(scene selectionScene) bool {
	_, err := resolveRigTargets(scene)
	return err == nil
}

// resolveRigTargets は選択状態を検証し、アーマチュア1つとラティス1つ以上を返す。
// 2つ以上選択し、アーマチュアが1つだけで残りが全てラティス、アクティブがあればアーマチュアである必要がある。
func resolveRigTargets(scene selectionScene) (*rigTargets, error) {
	if scene == nil {
		return nil, merrors.NewNotApplicableError("シーンが未設定です")
	}
	selected := scene.SelectedObjects()
	if len(selected) < 2 {
		return nil, merrors.NewNotApplicableError(fmt.Sprintf("2つ以上のオブジェクト選択が必要です: selected=%d", len(selected)))
	}
	targets := &rigTargets{Lattices: make([]*model.SceneObject, 0, len(selected)-1)}
	armatureCount := 0
	for _, object := range selected {
		switch object.Type {
		case model.OBJECT_TYPE_ARMATURE:
			armatureCount++
			targets.Armature = object
		case model.OBJECT_TYPE_LATTICE:
			targets.Lattices = append(targets.Lattices, object)
		default:
			return nil, merrors.NewNotApplicableError(
				fmt.Sprintf("アーマチュアとラティス以外が選択されています: %s(%s)", object.Name, object.Type))
		}
	}
	if armatureCount != 1 {
		return nil, merrors.NewNotApplicableError(fmt.Sprintf("アーマチュアは1つだけ選択してください: armature=%d", armatureCount))
	}
	if active := scene.ActiveObjectName(); active != "" {
		activeObject, err := scene.Object(active)
		if err != nil {
			return nil, merrors.NewNotApplicableError(fmt.Sprintf("アクティブオブジェクトが見つかりません: %s", active))
		}
		if activeObject.Type != model.OBJECT_TYPE_ARMATURE {
			return nil, merrors.NewNotApplicableError(
				fmt.Sprintf("アクティブオブジェクトはアーマチュアである必要があります: %s(%s)", active, activeObject.Type))
		}
	}
	return targets, nil
}
