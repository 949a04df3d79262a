// 指示: miu200521358
package yaml

// sceneDocument はシーンYAMLの最上位要素を表す。
type sceneDocument struct {
	Version          int              `yaml:"version"`
	Active           string           `yaml:"active,omitempty"`
	Mode             string           `yaml:"mode,omitempty"`
	Selected         []string         `yaml:"selected,omitempty"`
	WidgetCollection string           `yaml:"widget_collection,omitempty"`
	Widgets          []widgetDocument `yaml:"widgets,omitempty"`
	Objects          []objectDocument `yaml:"objects"`
}

// objectDocument はシーンオブジェクトを表す。行列は行優先16要素。
type objectDocument struct {
	Name         string                `yaml:"name"`
	Type         string                `yaml:"type"`
	Parent       string                `yaml:"parent,omitempty"`
	MatrixWorld  *[16]float64          `yaml:"matrix_world,omitempty,flow"`
	Modifiers    []modifierDocument    `yaml:"modifiers,omitempty"`
	VertexGroups []vertexGroupDocument `yaml:"vertex_groups,omitempty"`
	Lattice      *latticeDocument      `yaml:"lattice,omitempty"`
	Armature     *armatureDocument     `yaml:"armature,omitempty"`
}

type modifierDocument struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Object string `yaml:"object,omitempty"`
}

type vertexGroupDocument struct {
	Name    string                 `yaml:"name"`
	Weights []vertexWeightDocument `yaml:"weights,omitempty"`
}

type vertexWeightDocument struct {
	Index  int     `yaml:"index"`
	Weight float64 `yaml:"weight"`
}

// latticeDocument はラティス解像度と制御点を表す。制御点省略時は解像度から均等配置する。
type latticeDocument struct {
	PointsU int          `yaml:"points_u"`
	PointsV int          `yaml:"points_v"`
	PointsW int          `yaml:"points_w"`
	Points  [][3]float64 `yaml:"points,omitempty,flow"`
}

type armatureDocument struct {
	Bones       []boneDocument           `yaml:"bones,omitempty"`
	Constraints []constraintDocument     `yaml:"constraints,omitempty"`
	Collections []boneCollectionDocument `yaml:"collections,omitempty"`
}

// boneDocument はボーンを表す。親は名前で参照する。
type boneDocument struct {
	Name           string      `yaml:"name"`
	Parent         string      `yaml:"parent,omitempty"`
	Head           [3]float64  `yaml:"head,flow"`
	Tail           [3]float64  `yaml:"tail,flow"`
	Roll           float64     `yaml:"roll"`
	UseDeform      bool        `yaml:"use_deform"`
	Role           string      `yaml:"role,omitempty"`
	Widget         string      `yaml:"widget,omitempty"`
	WidgetScale    *[3]float64 `yaml:"widget_scale,omitempty,flow"`
	WidgetRotation *[3]float64 `yaml:"widget_rotation,omitempty,flow"`
	UseBoneSize    *bool       `yaml:"use_bone_size,omitempty"`
	RunSignature   string      `yaml:"run_signature,omitempty"`
}

// constraintDocument はボーン拘束を表す。所有ボーンと対象ボーンは名前で参照する。
type constraintDocument struct {
	Kind         string `yaml:"kind"`
	Owner        string `yaml:"owner"`
	TargetObject string `yaml:"target_object,omitempty"`
	Target       string `yaml:"target"`
}

type boneCollectionDocument struct {
	Name    string   `yaml:"name"`
	Visible bool     `yaml:"visible"`
	Bones   []string `yaml:"bones,omitempty"`
}

type widgetDocument struct {
	Name     string       `yaml:"name"`
	Vertices [][3]float64 `yaml:"vertices,flow"`
	Edges    [][2]int     `yaml:"edges,flow"`
}
