// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/port/moutput"
)

// organizeBones は既定と指定のボーンコレクションを用意し、変形ボーンとそれ以外を振り分ける。
// 変形ボーン用コレクションは新規作成時のみ非表示にする。戻り値は新規作成したコレクション名。
func organizeBones(
	editor moutput.IPoseEditor,
	armatureName string,
	skeleton *rigSkeleton,
	deformCollection string,
	latticeCollection string,
) ([]string, error) {
	created := make([]string, 0)
	for _, name := range boneCollectionNames(deformCollection, latticeCollection) {
		visible := name != deformCollection && name != model.COLLECTION_DEFORM
		isCreated, err := editor.EnsureBoneCollection(armatureName, name, visible)
		if err != nil {
			return created, fmt.Errorf("ボーンコレクションの作成に失敗しました: %s: %w", name, err)
		}
		if isCreated {
			created = append(created, name)
		}
	}

	for _, bone := range skeleton.Deforms {
		if err := editor.AssignBoneToCollection(armatureName, deformCollection, bone.Name); err != nil {
			return created, fmt.Errorf("変形ボーンのコレクション割当に失敗しました: %s: %w", bone.Name, err)
		}
	}
	latticeBones := make([]*model.Bone, 0, 1+len(skeleton.GroupParents)+len(skeleton.Controls))
	latticeBones = append(latticeBones, skeleton.Controls...)
	latticeBones = append(latticeBones, skeleton.GroupParents...)
	latticeBones = append(latticeBones, skeleton.Root)
	for _, bone := range latticeBones {
		if err := editor.AssignBoneToCollection(armatureName, latticeCollection, bone.Name); err != nil {
			return created, fmt.Errorf("ラティスボーンのコレクション割当に失敗しました: %s: %w", bone.Name, err)
		}
	}
	return created, nil
}

// boneCollectionNames は用意するコレクション名を重複なしで返す。
func boneCollectionNames(extra ...string) []string {
	names := make([]string, 0, 3+len(extra))
	seen := map[string]struct{}{}
	for _, name := range append(model.DefaultBoneCollectionNames(), extra...) {
		if _, exists := seen[name]; exists {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
