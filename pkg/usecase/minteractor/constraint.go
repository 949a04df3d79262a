// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/port/moutput"
)

// wireConstraints は変形ボーンを同じindexの操作ボーンへ追従させる。
// propagateRootScale が有効な場合は操作ボーンへルートのスケールを伝える。
// POSEモードでアーマチュアがアクティブである必要がある。戻り値は追加した拘束数。
func wireConstraints(editor moutput.IPoseEditor, armatureName string, skeleton *rigSkeleton, propagateRootScale bool) (int, error) {
	if len(skeleton.Deforms) != len(skeleton.Controls) {
		return 0, fmt.Errorf("変形ボーンと操作ボーンの数が一致しません: deform=%d control=%d",
			len(skeleton.Deforms), len(skeleton.Controls))
	}
	count := 0
	for index, deform := range skeleton.Deforms {
		control := skeleton.Controls[index]
		if err := editor.NewConstraint(armatureName, &model.Constraint{
			Kind:         model.CONSTRAINT_COPY_TRANSFORMS,
			OwnerIndex:   deform.Index(),
			TargetObject: armatureName,
			TargetIndex:  control.Index(),
		}); err != nil {
			return count, fmt.Errorf("トランスフォームコピー拘束の追加に失敗しました: %s: %w", deform.Name, err)
		}
		count++

		if !propagateRootScale {
			continue
		}
		if err := editor.NewConstraint(armatureName, &model.Constraint{
			Kind:         model.CONSTRAINT_COPY_SCALE,
			OwnerIndex:   control.Index(),
			TargetObject: armatureName,
			TargetIndex:  skeleton.Root.Index(),
		}); err != nil {
			return count, fmt.Errorf("スケールコピー拘束の追加に失敗しました: %s: %w", control.Name, err)
		}
		count++
	}
	return count, nil
}
