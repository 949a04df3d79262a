// 指示: miu200521358
package memory

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_lattice_rig/pkg/shared/base/logging"
	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/port/moutput"
)

var (
	_ moutput.ISceneGraph    = (*Scene)(nil)
	_ moutput.IWidgetLibrary = (*Scene)(nil)
)

// Scene はメモリ上のシーングラフを表す。全ての変更操作はモード状態で検査する。
type Scene struct {
	data    *model.SceneData
	objects map[string]*model.SceneObject
	state   *model.ModeState
	widgets map[string]*model.Widget
}

// NewScene はシーン文書からシーンを生成する。dataがnilの場合は空シーン。
func NewScene(data *model.SceneData) (*Scene, error) {
	if data == nil {
		data = &model.SceneData{}
	}
	scene := &Scene{
		data:    data,
		objects: make(map[string]*model.SceneObject, len(data.Objects)),
		widgets: make(map[string]*model.Widget, len(data.Widgets)),
	}
	for _, object := range data.Objects {
		if object == nil {
			return nil, fmt.Errorf("シーンに空のオブジェクトが含まれています")
		}
		if _, exists := scene.objects[object.Name]; exists {
			return nil, merrors.NewNameConflictError(object.Name)
		}
		if object.Type == model.OBJECT_TYPE_ARMATURE && object.Armature == nil {
			object.Armature = model.NewArmatureData()
		}
		if object.Armature != nil {
			object.Armature.Bones.Reindex()
		}
		scene.objects[object.Name] = object
	}
	for _, object := range data.Objects {
		if object.ParentName == "" {
			continue
		}
		if _, exists := scene.objects[object.ParentName]; !exists {
			return nil, merrors.NewNotFoundError("親オブジェクト", object.ParentName)
		}
	}
	for _, name := range data.Selected {
		if _, exists := scene.objects[name]; !exists {
			return nil, merrors.NewNotFoundError("選択オブジェクト", name)
		}
	}
	if data.Active != "" {
		if _, exists := scene.objects[data.Active]; !exists {
			return nil, merrors.NewNotFoundError("アクティブオブジェクト", data.Active)
		}
	}
	for _, widget := range data.Widgets {
		scene.widgets[widget.Name] = widget
	}
	scene.state = model.NewModeState(data.Active, data.Mode)
	return scene, nil
}

// Data は現在の状態を反映したシーン文書を返す。返却値は内部状態と共有する。
func (s *Scene) Data() *model.SceneData {
	s.data.Active = s.state.Active()
	s.data.Mode = s.state.Mode()
	return s.data
}

// Snapshot はシーン文書の複製を返す。
func (s *Scene) Snapshot() (*model.SceneData, error) {
	var copied model.SceneData
	if err := deepcopy.Copy(&copied, s.Data()); err != nil {
		return nil, fmt.Errorf("シーンの複製に失敗しました: %w", err)
	}
	for _, object := range copied.Objects {
		if object.Armature != nil && object.Armature.Bones != nil {
			object.Armature.Bones.Reindex()
		}
	}
	return &copied, nil
}

// AddObject はオブジェクトを追加する。名前衝突時は自動改名し、追加後の名前を返す。
func (s *Scene) AddObject(object *model.SceneObject) (string, error) {
	if object == nil {
		return "", fmt.Errorf("追加対象オブジェクトが未設定です")
	}
	if err := s.requireMode(model.OBJECT_MODE_OBJECT); err != nil {
		return "", err
	}
	object.Name = uniqueName(object.Name, func(name string) bool {
		_, exists := s.objects[name]
		return exists
	})
	if object.Type == model.OBJECT_TYPE_ARMATURE && object.Armature == nil {
		object.Armature = model.NewArmatureData()
	}
	s.objects[object.Name] = object
	s.data.Objects = append(s.data.Objects, object)
	return object.Name, nil
}

// Object は名前でオブジェクトを取得する。
func (s *Scene) Object(name string) (*model.SceneObject, error) {
	object, exists := s.objects[name]
	if !exists {
		return nil, merrors.NewNotFoundError("オブジェクト", name)
	}
	return object, nil
}

// Objects は全オブジェクトを登録順に返す。
func (s *Scene) Objects() []*model.SceneObject {
	return s.data.Objects
}

// SelectedObjects は選択中オブジェクトを選択順に返す。
func (s *Scene) SelectedObjects() []*model.SceneObject {
	selected := make([]*model.SceneObject, 0, len(s.data.Selected))
	for _, name := range s.data.Selected {
		if object, exists := s.objects[name]; exists {
			selected = append(selected, object)
		}
	}
	return selected
}

// ObjectsReferencingLattice は指定ラティスを参照するオブジェクトを返す。
func (s *Scene) ObjectsReferencingLattice(latticeName string) []*model.SceneObject {
	referencing := make([]*model.SceneObject, 0)
	for _, object := range s.data.Objects {
		if object.HasModifierTargeting(model.MODIFIER_LATTICE, latticeName) {
			referencing = append(referencing, object)
		}
	}
	return referencing
}

// ActiveObjectName はアクティブオブジェクト名を返す。
func (s *Scene) ActiveObjectName() string {
	return s.state.Active()
}

// Mode は現在モードを返す。
func (s *Scene) Mode() model.ObjectMode {
	return s.state.Mode()
}

// SetActive はアクティブオブジェクトを切り替える。
func (s *Scene) SetActive(name string) error {
	if name != "" {
		if _, err := s.Object(name); err != nil {
			return err
		}
	}
	return s.state.SetActive(name)
}

// SetMode はアクティブオブジェクトのモードを切り替える。
func (s *Scene) SetMode(mode model.ObjectMode) error {
	var activeType model.ObjectType
	if active, exists := s.objects[s.state.Active()]; exists {
		activeType = active.Type
	}
	if mode == model.OBJECT_MODE_EDIT && activeType == model.OBJECT_TYPE_MESH {
		return merrors.NewInvalidStateError(
			fmt.Sprintf("メッシュの構造編集には対応していません: active=%s", s.state.Active()))
	}
	if err := s.state.SetMode(mode, activeType); err != nil {
		return err
	}
	logging.DefaultLogger().Verbose(logging.VERBOSE_INDEX_SCENE, "モード切替: mode=%s active=%s", mode, s.state.Active())
	return nil
}

// Select は選択状態を置き換える。
func (s *Scene) Select(names []string) error {
	if err := s.requireMode(model.OBJECT_MODE_OBJECT); err != nil {
		return err
	}
	selected := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, err := s.Object(name); err != nil {
			return err
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		selected = append(selected, name)
	}
	s.data.Selected = selected
	return nil
}

// requireMode はモードのみを検査する。
func (s *Scene) requireMode(mode model.ObjectMode) error {
	if s.state.Mode() != mode {
		return merrors.NewInvalidStateError(
			fmt.Sprintf("%sモードが必要です: current=%s", mode, s.state.Mode()))
	}
	return nil
}

// requireObject はモードとアクティブオブジェクトを検査し、対象オブジェクトを返す。
func (s *Scene) requireObject(mode model.ObjectMode, objectName string, objectType model.ObjectType) (*model.SceneObject, error) {
	if err := s.state.Require(mode, objectName); err != nil {
		return nil, err
	}
	object, err := s.Object(objectName)
	if err != nil {
		return nil, err
	}
	if objectType != "" && object.Type != objectType {
		return nil, merrors.NewInvalidStateError(
			fmt.Sprintf("対象オブジェクトの種別が不正です: name=%s type=%s want=%s", objectName, object.Type, objectType))
	}
	return object, nil
}
