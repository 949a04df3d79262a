// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/port/moutput"
)

const armatureModifierName = "Armature"

// attachDeformer はラティスへアーマチュアモディファイアを追加し、
// ラティスとラティスを参照するメッシュをアーマチュアの子にする。
// OBJECTモードでラティスがアクティブである必要がある。戻り値は親を付け替えたオブジェクト名。
func attachDeformer(scene moutput.ISceneGraph, armatureName string, latticeName string) ([]string, error) {
	if _, err := scene.AddModifier(latticeName, &model.Modifier{
		Name:   armatureModifierName,
		Type:   model.MODIFIER_ARMATURE,
		Object: armatureName,
	}); err != nil {
		return nil, fmt.Errorf("アーマチュアモディファイアの追加に失敗しました: %w", err)
	}

	reparented := make([]string, 0)
	if err := scene.SetParent(latticeName, armatureName); err != nil {
		return reparented, fmt.Errorf("ラティスの親設定に失敗しました: %w", err)
	}
	reparented = append(reparented, latticeName)

	for _, object := range scene.ObjectsReferencingLattice(latticeName) {
		if object.Name == armatureName {
			continue
		}
		if err := scene.SetParent(object.Name, armatureName); err != nil {
			return reparented, fmt.Errorf("ラティス参照オブジェクトの親設定に失敗しました: %s: %w", object.Name, err)
		}
		reparented = append(reparented, object.Name)
	}
	return reparented, nil
}
