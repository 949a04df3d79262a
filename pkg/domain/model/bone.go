// 指示: miu200521358
package model

import (
	"fmt"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model/merrors"
)

// BoneRole はリグ内でのボーンの階層種別を表す。
type BoneRole string

const (
	// BONE_ROLE_NONE はリグ生成対象外のボーン。
	BONE_ROLE_NONE BoneRole = ""
	// BONE_ROLE_ROOT はリグのルートボーン。
	BONE_ROLE_ROOT BoneRole = "ROOT"
	// BONE_ROLE_GROUP_PARENT はグループ親ボーン。
	BONE_ROLE_GROUP_PARENT BoneRole = "GROUP_PARENT"
	// BONE_ROLE_CONTROL は操作用ボーン。
	BONE_ROLE_CONTROL BoneRole = "CONTROL"
	// BONE_ROLE_DEFORM は変形用ボーン。
	BONE_ROLE_DEFORM BoneRole = "DEFORM"
)

// Bone はアーマチュア内のボーンを表す。親はindexで保持する。
type Bone struct {
	index int

	Name        string
	Head        mmath.Vec3
	Tail        mmath.Vec3
	Roll        float64
	ParentIndex int
	UseDeform   bool
	Role        BoneRole

	// 表示用ウィジェット。変形には影響しない。
	WidgetName     string
	WidgetScale    mmath.Vec3
	WidgetRotation *mmath.Vec3
	UseBoneSize    bool

	// RunSignature は生成したリグ実行の署名。
	RunSignature string
}

// NewBoneByName は名前指定でボーンを生成する。
func NewBoneByName(name string) *Bone {
	return &Bone{
		index:       -1,
		Name:        name,
		Tail:        mmath.UNIT_Y_VEC3,
		ParentIndex: -1,
		UseDeform:   true,
		WidgetScale: mmath.ONE_VEC3,
		UseBoneSize: true,
	}
}

// Index はアリーナ内indexを返す。
func (b *Bone) Index() int {
	return b.index
}

// SetIndex はアリーナ内indexを設定する。
func (b *Bone) SetIndex(index int) {
	b.index = index
}

// Matrix はヘッド・テール・ロールから姿勢行列を返す。
func (b *Bone) Matrix() mmath.Mat3 {
	return mmath.NewBoneMatrix(b.Head, b.Tail, b.Roll)
}

// Length はボーン長を返す。
func (b *Bone) Length() float64 {
	return b.Tail.Subed(b.Head).Length()
}

// Copy はindexを除いた複製を返す。
func (b *Bone) Copy() *Bone {
	copied := *b
	copied.index = -1
	if b.WidgetRotation != nil {
		rotation := *b.WidgetRotation
		copied.WidgetRotation = &rotation
	}
	return &copied
}

// BoneArena はボーンを密配列で保持し、名前を副索引として持つ。
type BoneArena struct {
	Items       []*Bone
	nameIndexes map[string]int
}

// NewBoneArena は空のアリーナを生成する。
func NewBoneArena() *BoneArena {
	return &BoneArena{Items: make([]*Bone, 0), nameIndexes: map[string]int{}}
}

// Len はボーン数を返す。
func (a *BoneArena) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Items)
}

// Values はボーン一覧を返す。
func (a *BoneArena) Values() []*Bone {
	if a == nil {
		return nil
	}
	return a.Items
}

// Get はindexでボーンを取得する。
func (a *BoneArena) Get(index int) (*Bone, error) {
	if a == nil || index < 0 || index >= len(a.Items) {
		return nil, merrors.NewNotFoundError("ボーン", fmt.Sprintf("index=%d", index))
	}
	return a.Items[index], nil
}

// GetByName は名前でボーンを取得する。
func (a *BoneArena) GetByName(name string) (*Bone, error) {
	if a == nil {
		return nil, merrors.NewNotFoundError("ボーン", name)
	}
	a.ensureNameIndexes()
	index, exists := a.nameIndexes[name]
	if !exists {
		return nil, merrors.NewNotFoundError("ボーン", name)
	}
	return a.Items[index], nil
}

// ContainsByName は名前の存在を判定する。
func (a *BoneArena) ContainsByName(name string) bool {
	if a == nil {
		return false
	}
	a.ensureNameIndexes()
	_, exists := a.nameIndexes[name]
	return exists
}

// Append はボーンを末尾に追加してindexを返す。名前重複時はエラー。
func (a *BoneArena) Append(bone *Bone) (int, error) {
	if bone == nil {
		return -1, fmt.Errorf("追加対象ボーンが未設定です")
	}
	a.ensureNameIndexes()
	if _, exists := a.nameIndexes[bone.Name]; exists {
		return -1, merrors.NewNameConflictError(bone.Name)
	}
	if bone.ParentIndex >= len(a.Items) {
		return -1, merrors.NewNotFoundError("親ボーン", fmt.Sprintf("index=%d", bone.ParentIndex))
	}
	index := len(a.Items)
	bone.SetIndex(index)
	a.Items = append(a.Items, bone)
	a.nameIndexes[bone.Name] = index
	return index, nil
}

// Remove は指定indexのボーンを削除して詰め直し、旧index→新indexの対応を返す。
// 削除されたボーンの対応先は-1。削除対象を親に持つボーンは親なしになる。
func (a *BoneArena) Remove(indexes []int) []int {
	oldToNew := make([]int, len(a.Items))
	removed := make(map[int]struct{}, len(indexes))
	for _, index := range indexes {
		removed[index] = struct{}{}
	}

	kept := make([]*Bone, 0, len(a.Items))
	for oldIndex, bone := range a.Items {
		if _, isRemoved := removed[oldIndex]; isRemoved {
			oldToNew[oldIndex] = -1
			continue
		}
		oldToNew[oldIndex] = len(kept)
		kept = append(kept, bone)
	}
	for _, bone := range kept {
		bone.ParentIndex = RemapBoneIndex(bone.ParentIndex, oldToNew)
	}
	a.Items = kept
	a.Reindex()
	return oldToNew
}

// Reindex は配列順からindexと名前索引を再構築する。
func (a *BoneArena) Reindex() {
	a.nameIndexes = make(map[string]int, len(a.Items))
	for index, bone := range a.Items {
		bone.SetIndex(index)
		a.nameIndexes[bone.Name] = index
	}
}

// Children は指定ボーンの子index一覧を返す。
func (a *BoneArena) Children(parentIndex int) []int {
	children := make([]int, 0)
	for _, bone := range a.Values() {
		if bone.ParentIndex == parentIndex {
			children = append(children, bone.Index())
		}
	}
	return children
}

// AncestorIndexes は親方向へ辿ったindex一覧を返す。循環を検出した場合はエラー。
func (a *BoneArena) AncestorIndexes(index int) ([]int, error) {
	ancestors := make([]int, 0)
	visited := map[int]struct{}{index: {}}
	current, err := a.Get(index)
	if err != nil {
		return nil, err
	}
	for current.ParentIndex >= 0 {
		if _, seen := visited[current.ParentIndex]; seen {
			return nil, fmt.Errorf("ボーン親子関係が循環しています: %s", current.Name)
		}
		visited[current.ParentIndex] = struct{}{}
		ancestors = append(ancestors, current.ParentIndex)
		current, err = a.Get(current.ParentIndex)
		if err != nil {
			return nil, err
		}
	}
	return ancestors, nil
}

// ensureNameIndexes は名前索引が未構築なら構築する。
func (a *BoneArena) ensureNameIndexes() {
	if a.nameIndexes == nil || len(a.nameIndexes) != len(a.Items) {
		a.Reindex()
	}
}

// RemapBoneIndex は旧indexを新indexへ変換する。範囲外・削除済みは-1。
func RemapBoneIndex(index int, oldToNew []int) int {
	if index < 0 || index >= len(oldToNew) {
		return -1
	}
	return oldToNew[index]
}
