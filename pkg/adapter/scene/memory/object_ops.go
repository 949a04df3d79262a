// 指示: miu200521358
package memory

import (
	"fmt"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model/merrors"
)

// NewVertexGroup はOBJECTモードで頂点グループを追加する。名前衝突時は自動改名する。
func (s *Scene) NewVertexGroup(objectName string, groupName string) (*model.VertexGroup, error) {
	object, err := s.requireObject(model.OBJECT_MODE_OBJECT, objectName, "")
	if err != nil {
		return nil, err
	}
	name := uniqueName(groupName, func(name string) bool {
		_, exists := object.VertexGroup(name)
		return exists
	})
	group := &model.VertexGroup{Name: name, Weights: make([]model.VertexWeight, 0)}
	object.VertexGroups = append(object.VertexGroups, group)
	return group, nil
}

// AddVertexGroupWeights はOBJECTモードで頂点ウェイトを追加する。
func (s *Scene) AddVertexGroupWeights(
	objectName string,
	groupName string,
	indexes []int,
	weight float64,
	mode model.VertexAssignMode,
) error {
	object, err := s.requireObject(model.OBJECT_MODE_OBJECT, objectName, "")
	if err != nil {
		return err
	}
	group, exists := object.VertexGroup(groupName)
	if !exists {
		return merrors.NewNotFoundError("頂点グループ", groupName)
	}
	if object.Lattice != nil {
		for _, index := range indexes {
			if index < 0 || index >= len(object.Lattice.Points) {
				return merrors.NewNotFoundError("制御点", fmt.Sprintf("index=%d", index))
			}
		}
	}
	group.Add(indexes, weight, mode)
	return nil
}

// RemoveVertexGroups はOBJECTモードで頂点グループを削除する。存在しない名前は無視する。
func (s *Scene) RemoveVertexGroups(objectName string, groupNames []string) error {
	object, err := s.requireObject(model.OBJECT_MODE_OBJECT, objectName, "")
	if err != nil {
		return err
	}
	removed := make(map[string]struct{}, len(groupNames))
	for _, name := range groupNames {
		removed[name] = struct{}{}
	}
	kept := make([]*model.VertexGroup, 0, len(object.VertexGroups))
	for _, group := range object.VertexGroups {
		if _, isRemoved := removed[group.Name]; isRemoved {
			continue
		}
		kept = append(kept, group)
	}
	object.VertexGroups = kept
	return nil
}

// AddModifier はOBJECTモードでモディファイアを追加する。
func (s *Scene) AddModifier(objectName string, modifier *model.Modifier) (*model.Modifier, error) {
	if modifier == nil {
		return nil, fmt.Errorf("追加対象モディファイアが未設定です")
	}
	object, err := s.requireObject(model.OBJECT_MODE_OBJECT, objectName, "")
	if err != nil {
		return nil, err
	}
	if modifier.Object != "" {
		if _, err := s.Object(modifier.Object); err != nil {
			return nil, err
		}
	}
	copied := *modifier
	copied.Name = uniqueName(modifier.Name, func(name string) bool {
		for _, existing := range object.Modifiers {
			if existing.Name == name {
				return true
			}
		}
		return false
	})
	object.Modifiers = append(object.Modifiers, &copied)
	return &copied, nil
}

// RemoveModifiers はOBJECTモードで種別・対象が一致するモディファイアを削除する。
func (s *Scene) RemoveModifiers(objectName string, modifierType model.ModifierType, targetName string) (int, error) {
	object, err := s.requireObject(model.OBJECT_MODE_OBJECT, objectName, "")
	if err != nil {
		return 0, err
	}
	kept := make([]*model.Modifier, 0, len(object.Modifiers))
	for _, modifier := range object.Modifiers {
		if modifier.Type == modifierType && modifier.Object == targetName {
			continue
		}
		kept = append(kept, modifier)
	}
	removed := len(object.Modifiers) - len(kept)
	object.Modifiers = kept
	return removed, nil
}

// SetParent はOBJECTモードで親オブジェクトを設定する。空の親名は親解除。
func (s *Scene) SetParent(childName string, parentName string) error {
	if err := s.requireMode(model.OBJECT_MODE_OBJECT); err != nil {
		return err
	}
	child, err := s.Object(childName)
	if err != nil {
		return err
	}
	if parentName == "" {
		child.ParentName = ""
		return nil
	}
	if _, err := s.Object(parentName); err != nil {
		return err
	}
	for current := parentName; current != ""; {
		if current == childName {
			return fmt.Errorf("オブジェクト親子関係が循環します: child=%s parent=%s", childName, parentName)
		}
		parent, err := s.Object(current)
		if err != nil {
			return err
		}
		current = parent.ParentName
	}
	child.ParentName = parentName
	return nil
}
