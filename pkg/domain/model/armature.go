// 指示: miu200521358
package model

import (
	"fmt"
)

// ConstraintKind はポーズ時拘束の種別を表す。
type ConstraintKind string

const (
	// CONSTRAINT_COPY_TRANSFORMS はトランスフォームコピー拘束。
	CONSTRAINT_COPY_TRANSFORMS ConstraintKind = "COPY_TRANSFORMS"
	// CONSTRAINT_COPY_SCALE はスケールコピー拘束。
	CONSTRAINT_COPY_SCALE ConstraintKind = "COPY_SCALE"
)

// Constraint はポーズボーンの拘束を表す。ホストがポーズ時に評価する。
type Constraint struct {
	Kind         ConstraintKind
	OwnerIndex   int
	TargetObject string
	TargetIndex  int
}

// BoneCollection はボーンの整理用コレクションを表す。変形には影響しない。
type BoneCollection struct {
	Name      string
	IsVisible bool
	BoneNames []string
}

// Contains はボーン名の所属を判定する。
func (c *BoneCollection) Contains(boneName string) bool {
	for _, name := range c.BoneNames {
		if name == boneName {
			return true
		}
	}
	return false
}

// ArmatureData はボーン・拘束・コレクションをまとめたアーマチュアを表す。
type ArmatureData struct {
	Bones       *BoneArena
	Constraints []*Constraint
	Collections []*BoneCollection
}

// NewArmatureData は空のアーマチュアを生成する。
func NewArmatureData() *ArmatureData {
	return &ArmatureData{
		Bones:       NewBoneArena(),
		Constraints: make([]*Constraint, 0),
		Collections: make([]*BoneCollection, 0),
	}
}

// Collection は名前でコレクションを取得する。
func (a *ArmatureData) Collection(name string) (*BoneCollection, bool) {
	for _, collection := range a.Collections {
		if collection.Name == name {
			return collection, true
		}
	}
	return nil, false
}

// ConstraintsByOwner は指定ボーンが持つ拘束一覧を返す。
func (a *ArmatureData) ConstraintsByOwner(ownerIndex int) []*Constraint {
	constraints := make([]*Constraint, 0)
	for _, constraint := range a.Constraints {
		if constraint.OwnerIndex == ownerIndex {
			constraints = append(constraints, constraint)
		}
	}
	return constraints
}

// RemoveBones はボーンを削除し、拘束とコレクション所属を追従させる。
// selfNameはこのアーマチュアのオブジェクト名で、他アーマチュアを対象とする拘束の対象indexは変更しない。
// 対象ボーンが削除された拘束は対象なし(TargetIndex=-1)として残す。戻り値は旧indexから新indexへの対応表。
func (a *ArmatureData) RemoveBones(selfName string, indexes []int) []int {
	if len(indexes) == 0 {
		return nil
	}
	removedNames := make(map[string]struct{}, len(indexes))
	for _, index := range indexes {
		if bone, err := a.Bones.Get(index); err == nil {
			removedNames[bone.Name] = struct{}{}
		}
	}

	oldToNew := a.Bones.Remove(indexes)

	constraints := make([]*Constraint, 0, len(a.Constraints))
	for _, constraint := range a.Constraints {
		owner := RemapBoneIndex(constraint.OwnerIndex, oldToNew)
		if owner < 0 {
			continue
		}
		constraint.OwnerIndex = owner
		constraints = append(constraints, constraint)
	}
	a.Constraints = constraints
	a.RemapConstraintTargets(selfName, selfName, oldToNew)

	for _, collection := range a.Collections {
		names := make([]string, 0, len(collection.BoneNames))
		for _, name := range collection.BoneNames {
			if _, removed := removedNames[name]; removed {
				continue
			}
			names = append(names, name)
		}
		collection.BoneNames = names
	}
	return oldToNew
}

// RemapConstraintTargets はtargetObjectのボーンを対象とする拘束の対象indexを付け替える。
// 対象オブジェクト名が空の拘束はselfNameを対象とみなす。
func (a *ArmatureData) RemapConstraintTargets(selfName string, targetObject string, oldToNew []int) {
	if len(oldToNew) == 0 {
		return
	}
	for _, constraint := range a.Constraints {
		target := constraint.TargetObject
		if target == "" {
			target = selfName
		}
		if target != targetObject || constraint.TargetIndex < 0 {
			continue
		}
		constraint.TargetIndex = RemapBoneIndex(constraint.TargetIndex, oldToNew)
	}
}

// DanglingConstraints は対象ボーンを持たない拘束数を返す。
func (a *ArmatureData) DanglingConstraints() int {
	count := 0
	for _, constraint := range a.Constraints {
		if constraint.TargetIndex < 0 {
			count++
		}
	}
	return count
}

// Validate は親子関係の非循環と名前の一意性を検証する。
func (a *ArmatureData) Validate() error {
	if a == nil || a.Bones == nil {
		return fmt.Errorf("アーマチュアデータが未設定です")
	}
	seen := make(map[string]struct{}, a.Bones.Len())
	for _, bone := range a.Bones.Values() {
		if _, exists := seen[bone.Name]; exists {
			return fmt.Errorf("ボーン名が重複しています: %s", bone.Name)
		}
		seen[bone.Name] = struct{}{}
		if _, err := a.Bones.AncestorIndexes(bone.Index()); err != nil {
			return err
		}
	}
	return nil
}
