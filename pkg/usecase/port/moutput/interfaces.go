// 指示: miu200521358
package moutput

import (
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
)

// ISceneQuery はシーンオブジェクトと選択状態の参照契約を表す。
type ISceneQuery interface {
	// Object は名前でオブジェクトを取得する。
	Object(name string) (*model.SceneObject, error)
	// Objects は全オブジェクトを登録順に返す。
	Objects() []*model.SceneObject
	// SelectedObjects は選択中オブジェクトを選択順に返す。
	SelectedObjects() []*model.SceneObject
	// ObjectsReferencingLattice は指定ラティスをLATTICEモディファイアで参照するオブジェクトを返す。
	ObjectsReferencingLattice(latticeName string) []*model.SceneObject
}

// IModeController は操作モードとアクティブオブジェクトの切替契約を表す。
type IModeController interface {
	// ActiveObjectName はアクティブオブジェクト名を返す。
	ActiveObjectName() string
	// Mode は現在モードを返す。
	Mode() model.ObjectMode
	// SetActive はアクティブオブジェクトを切り替える。OBJECTモードのみ。
	SetActive(name string) error
	// SetMode はアクティブオブジェクトのモードを切り替える。
	SetMode(mode model.ObjectMode) error
	// Select は選択状態を置き換える。OBJECTモードのみ。
	Select(names []string) error
}

// IEditBoneEditor はEDITモードのボーン構造編集契約を表す。
type IEditBoneEditor interface {
	// NewEditBone はボーンを追加する。名前が衝突した場合は自動改名し、実際に追加したボーンを返す。
	NewEditBone(armatureName string, bone *model.Bone) (*model.Bone, error)
	// RemoveBones は名前指定でボーンを削除する。
	RemoveBones(armatureName string, boneNames []string) error
}

// IPoseEditor はPOSEモードの拘束・表示設定契約を表す。
type IPoseEditor interface {
	// NewConstraint はポーズボーンへ拘束を追加する。
	NewConstraint(armatureName string, constraint *model.Constraint) error
	// AssignWidget はポーズボーンへ表示ウィジェットを割り当てる。
	AssignWidget(armatureName string, boneName string, widget *model.Widget, scale mmath.Vec3, rotation *mmath.Vec3) error
	// EnsureBoneCollection はボーンコレクションを用意する。新規作成した場合はtrue。
	EnsureBoneCollection(armatureName string, collectionName string, visible bool) (bool, error)
	// AssignBoneToCollection はボーンをコレクションへ所属させる。
	AssignBoneToCollection(armatureName string, collectionName string, boneName string) error
}

// IObjectEditor はOBJECTモードのオブジェクト編集契約を表す。
type IObjectEditor interface {
	// NewVertexGroup は頂点グループを追加する。
	NewVertexGroup(objectName string, groupName string) (*model.VertexGroup, error)
	// AddVertexGroupWeights は頂点グループへウェイトを追加する。
	AddVertexGroupWeights(objectName string, groupName string, indexes []int, weight float64, mode model.VertexAssignMode) error
	// RemoveVertexGroups は名前指定で頂点グループを削除する。
	RemoveVertexGroups(objectName string, groupNames []string) error
	// AddModifier はモディファイアを追加する。名前衝突時は自動改名する。
	AddModifier(objectName string, modifier *model.Modifier) (*model.Modifier, error)
	// RemoveModifiers は種別と対象が一致するモディファイアを削除し、削除数を返す。
	RemoveModifiers(objectName string, modifierType model.ModifierType, targetName string) (int, error)
	// SetParent は親オブジェクトを設定する。
	SetParent(childName string, parentName string) error
}

// ISceneGraph はリグ生成が利用するシーン操作契約を表す。
type ISceneGraph interface {
	ISceneQuery
	IModeController
	IEditBoneEditor
	IPoseEditor
	IObjectEditor
}

// IWidgetLibrary は表示ウィジェットの参照契約を表す。
type IWidgetLibrary interface {
	// LookupWidget は名前でウィジェットを取得する。
	LookupWidget(name string) (*model.Widget, bool)
}

// ISceneReader はシーン文書の読み込み契約を表す。
type ISceneReader interface {
	// CanLoad は読み込み可能なパスか判定する。
	CanLoad(path string) bool
	// Load はシーン文書を読み込む。
	Load(path string) (*model.SceneData, error)
}

// ISceneWriter はシーン文書の保存契約を表す。
type ISceneWriter interface {
	// Save はシーン文書を保存する。
	Save(path string, data *model.SceneData) error
}
