// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/port/moutput"
)

const rigidBindingWeight = 1.0

// skinBindingEditor は頂点グループ割当に必要なシーン操作を表す。
type skinBindingEditor interface {
	moutput.ISceneQuery
	moutput.IObjectEditor
}

// bindSkin は制御点ごとに変形ボーン名の頂点グループを用意し、ウェイト1.0で割り当てる。
// 同名の頂点グループが既にある場合は置き換え割当で再利用する。
// OBJECTモードでラティスがアクティブである必要がある。戻り値は割り当てた頂点グループ名。
func bindSkin(editor skinBindingEditor, latticeName string, deforms []*model.Bone) ([]string, error) {
	lattice, err := editor.Object(latticeName)
	if err != nil {
		return nil, err
	}
	groupNames := make([]string, 0, len(deforms))
	for pointIndex, deform := range deforms {
		groupName := deform.Name
		if _, exists := lattice.VertexGroup(groupName); !exists {
			group, err := editor.NewVertexGroup(latticeName, groupName)
			if err != nil {
				return groupNames, fmt.Errorf("頂点グループの作成に失敗しました: %s: %w", groupName, err)
			}
			groupName = group.Name
		} else {
			logRigDebug("既存の頂点グループを再利用します: %s", groupName)
		}
		if err := editor.AddVertexGroupWeights(
			latticeName, groupName, []int{pointIndex}, rigidBindingWeight, model.VERTEX_ASSIGN_REPLACE,
		); err != nil {
			return groupNames, fmt.Errorf("頂点ウェイトの割当に失敗しました: %s: %w", groupName, err)
		}
		groupNames = append(groupNames, groupName)
	}
	return groupNames, nil
}
