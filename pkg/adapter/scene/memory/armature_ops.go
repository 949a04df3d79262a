// 指示: miu200521358
package memory

import (
	"fmt"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_lattice_rig/pkg/shared/base/logging"
)

// NewEditBone はEDITモードでボーンを追加する。名前衝突時は自動改名する。
func (s *Scene) NewEditBone(armatureName string, bone *model.Bone) (*model.Bone, error) {
	if bone == nil {
		return nil, fmt.Errorf("追加対象ボーンが未設定です")
	}
	object, err := s.requireObject(model.OBJECT_MODE_EDIT, armatureName, model.OBJECT_TYPE_ARMATURE)
	if err != nil {
		return nil, err
	}
	bones := object.Armature.Bones
	created := bone.Copy()
	created.Name = uniqueName(bone.Name, bones.ContainsByName)
	if created.Name != bone.Name {
		logging.DefaultLogger().Debug("ボーン名が重複したため改名しました: %s -> %s", bone.Name, created.Name)
	}
	if _, err := bones.Append(created); err != nil {
		return nil, err
	}
	return created, nil
}

// RemoveBones はEDITモードでボーンを削除する。拘束とコレクション所属も追従し、他アーマチュアからの拘束対象も付け替える。
func (s *Scene) RemoveBones(armatureName string, boneNames []string) error {
	object, err := s.requireObject(model.OBJECT_MODE_EDIT, armatureName, model.OBJECT_TYPE_ARMATURE)
	if err != nil {
		return err
	}
	indexes := make([]int, 0, len(boneNames))
	for _, name := range boneNames {
		bone, err := object.Armature.Bones.GetByName(name)
		if err != nil {
			return err
		}
		indexes = append(indexes, bone.Index())
	}
	oldToNew := object.Armature.RemoveBones(armatureName, indexes)
	for _, other := range s.data.Objects {
		if other == object || other.Armature == nil {
			continue
		}
		other.Armature.RemapConstraintTargets(other.Name, armatureName, oldToNew)
	}
	if dangling := object.Armature.DanglingConstraints(); dangling > 0 {
		logging.DefaultLogger().Debug("対象ボーンが削除された拘束があります: armature=%s count=%d", armatureName, dangling)
	}
	return nil
}

// NewConstraint はPOSEモードでボーンへ拘束を追加する。
func (s *Scene) NewConstraint(armatureName string, constraint *model.Constraint) error {
	if constraint == nil {
		return fmt.Errorf("追加対象拘束が未設定です")
	}
	object, err := s.requireObject(model.OBJECT_MODE_POSE, armatureName, model.OBJECT_TYPE_ARMATURE)
	if err != nil {
		return err
	}
	if _, err := object.Armature.Bones.Get(constraint.OwnerIndex); err != nil {
		return err
	}
	copied := *constraint
	if copied.TargetObject == "" {
		copied.TargetObject = armatureName
	}
	target, err := s.Object(copied.TargetObject)
	if err != nil {
		return err
	}
	if target.Armature != nil {
		if _, err := target.Armature.Bones.Get(copied.TargetIndex); err != nil {
			return err
		}
	}
	object.Armature.Constraints = append(object.Armature.Constraints, &copied)
	return nil
}

// AssignWidget はPOSEモードでボーンへ表示ウィジェットを割り当てる。
func (s *Scene) AssignWidget(armatureName string, boneName string, widget *model.Widget, scale mmath.Vec3, rotation *mmath.Vec3) error {
	if widget == nil {
		return merrors.NewNotFoundError("ウィジェット", boneName)
	}
	object, err := s.requireObject(model.OBJECT_MODE_POSE, armatureName, model.OBJECT_TYPE_ARMATURE)
	if err != nil {
		return err
	}
	bone, err := object.Armature.Bones.GetByName(boneName)
	if err != nil {
		return err
	}
	bone.WidgetName = widget.Name
	bone.WidgetScale = scale
	if rotation != nil {
		copied := *rotation
		bone.WidgetRotation = &copied
	} else {
		bone.WidgetRotation = nil
	}
	bone.UseBoneSize = false
	return nil
}

// EnsureBoneCollection はPOSEモードでボーンコレクションを用意する。既存の場合は表示状態を変更しない。
func (s *Scene) EnsureBoneCollection(armatureName string, collectionName string, visible bool) (bool, error) {
	object, err := s.requireObject(model.OBJECT_MODE_POSE, armatureName, model.OBJECT_TYPE_ARMATURE)
	if err != nil {
		return false, err
	}
	if _, exists := object.Armature.Collection(collectionName); exists {
		return false, nil
	}
	object.Armature.Collections = append(object.Armature.Collections, &model.BoneCollection{
		Name:      collectionName,
		IsVisible: visible,
		BoneNames: make([]string, 0),
	})
	return true, nil
}

// AssignBoneToCollection はPOSEモードでボーンをコレクションへ所属させる。
func (s *Scene) AssignBoneToCollection(armatureName string, collectionName string, boneName string) error {
	object, err := s.requireObject(model.OBJECT_MODE_POSE, armatureName, model.OBJECT_TYPE_ARMATURE)
	if err != nil {
		return err
	}
	collection, exists := object.Armature.Collection(collectionName)
	if !exists {
		return merrors.NewNotFoundError("ボーンコレクション", collectionName)
	}
	if !object.Armature.Bones.ContainsByName(boneName) {
		return merrors.NewNotFoundError("ボーン", boneName)
	}
	if !collection.Contains(boneName) {
		collection.BoneNames = append(collection.BoneNames, boneName)
	}
	return nil
}
