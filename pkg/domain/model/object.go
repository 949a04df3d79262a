// 指示: miu200521358
package model

import "github.com/miu200521358/mu_lattice_rig/pkg/domain/mmath"

// ObjectType はシーンオブジェクトの種別を表す。
type ObjectType string

const (
	OBJECT_TYPE_LATTICE  ObjectType = "LATTICE"
	OBJECT_TYPE_ARMATURE ObjectType = "ARMATURE"
	OBJECT_TYPE_MESH     ObjectType = "MESH"
)

// ModifierType はモディファイア種別を表す。
type ModifierType string

const (
	// MODIFIER_ARMATURE はアーマチュア変形。
	MODIFIER_ARMATURE ModifierType = "ARMATURE"
	// MODIFIER_LATTICE はラティス変形。
	MODIFIER_LATTICE ModifierType = "LATTICE"
)

// Modifier はオブジェクトに付与された変形器を表す。
type Modifier struct {
	Name   string
	Type   ModifierType
	Object string
}

// VertexAssignMode はウェイト追加時の合成方法を表す。
type VertexAssignMode string

const (
	VERTEX_ASSIGN_REPLACE VertexAssignMode = "REPLACE"
	VERTEX_ASSIGN_ADD     VertexAssignMode = "ADD"
)

// VertexWeight は頂点indexとウェイトの組を表す。
type VertexWeight struct {
	Index  int
	Weight float64
}

// VertexGroup は頂点グループを表す。名前はボーン名に対応する。
type VertexGroup struct {
	Name    string
	Weights []VertexWeight
}

// Add は頂点ウェイトを追加する。
func (g *VertexGroup) Add(indexes []int, weight float64, mode VertexAssignMode) {
	for _, index := range indexes {
		replaced := false
		for i := range g.Weights {
			if g.Weights[i].Index != index {
				continue
			}
			if mode == VERTEX_ASSIGN_ADD {
				g.Weights[i].Weight += weight
			} else {
				g.Weights[i].Weight = weight
			}
			replaced = true
			break
		}
		if !replaced {
			g.Weights = append(g.Weights, VertexWeight{Index: index, Weight: weight})
		}
	}
}

// Weight は指定頂点のウェイトを返す。
func (g *VertexGroup) Weight(index int) (float64, bool) {
	for _, vw := range g.Weights {
		if vw.Index == index {
			return vw.Weight, true
		}
	}
	return 0, false
}

// SceneObject はシーン内のオブジェクトを表す。
type SceneObject struct {
	Name         string
	Type         ObjectType
	ParentName   string
	MatrixWorld  mmath.Mat4
	Modifiers    []*Modifier
	VertexGroups []*VertexGroup
	Lattice      *LatticeData
	Armature     *ArmatureData
}

// VertexGroup は名前で頂点グループを取得する。
func (o *SceneObject) VertexGroup(name string) (*VertexGroup, bool) {
	for _, group := range o.VertexGroups {
		if group.Name == name {
			return group, true
		}
	}
	return nil, false
}

// HasModifierTargeting は指定種別・対象のモディファイア有無を返す。
func (o *SceneObject) HasModifierTargeting(modifierType ModifierType, objectName string) bool {
	for _, modifier := range o.Modifiers {
		if modifier.Type == modifierType && modifier.Object == objectName {
			return true
		}
	}
	return false
}

// Widget はボーン表示用の代理形状を表す。
type Widget struct {
	Name     string
	Vertices []mmath.Vec3
	Edges    [][2]int
}

// SceneData はシーン全体の保存単位を表す。
type SceneData struct {
	Objects          []*SceneObject
	Selected         []string
	Active           string
	Mode             ObjectMode
	Widgets          []*Widget
	WidgetCollection string
}
