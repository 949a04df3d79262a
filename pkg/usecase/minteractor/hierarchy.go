// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/port/moutput"
)

// boneNaming はリグのボーン命名規則を表す。
type boneNaming struct {
	boneName     string
	deformPrefix string
}

// rootName はルートボーン名を返す。
func (n boneNaming) rootName() string {
	return fmt.Sprintf("%s-%s_root", n.deformPrefix, n.boneName)
}

// groupParentName はグループ親ボーン名を返す。indexはグループ先頭の制御点index。
func (n boneNaming) groupParentName(groupStart int) string {
	return fmt.Sprintf("parent_%s_%d", n.boneName, groupStart)
}

// deformName は変形ボーン名を返す。
func (n boneNaming) deformName(index int) string {
	return fmt.Sprintf("%s-%s_%d", n.deformPrefix, n.boneName, index)
}

// controlName は操作ボーン名を返す。
func (n boneNaming) controlName(index int) string {
	return fmt.Sprintf("%s_%d", n.boneName, index)
}

// rigSkeleton は生成したボーン階層を表す。各一覧は制御点の走査順。
type rigSkeleton struct {
	Root         *model.Bone
	GroupParents []*model.Bone
	Controls     []*model.Bone
	Deforms      []*model.Bone
	Groups       []LatticeGroup
}

// hierarchyBuilder はラティス制御点からボーン階層を生成する。
type hierarchyBuilder struct {
	editor       moutput.IEditBoneEditor
	armatureName string
	grid         *LatticeGrid
	aligner      boneAligner
	naming       boneNaming
	rootHead     mmath.Vec3
	signature    string
}

// build はルート・グループ親・変形・操作ボーンを生成する。EDITモードでアーマチュアがアクティブである必要がある。
func (b hierarchyBuilder) build() (*rigSkeleton, error) {
	skeleton := &rigSkeleton{
		GroupParents: make([]*model.Bone, 0, b.grid.GroupCount()),
		Controls:     make([]*model.Bone, 0, b.grid.PointCount()),
		Deforms:      make([]*model.Bone, 0, b.grid.PointCount()),
		Groups:       b.grid.Groups(),
	}

	root, err := b.newBone(b.naming.rootName(), model.BONE_ROLE_ROOT, b.aligner.frame(b.rootHead, rootBoneLengthRatio), -1, false)
	if err != nil {
		return nil, fmt.Errorf("ルートボーンの生成に失敗しました: %w", err)
	}
	skeleton.Root = root

	pointIndex := 0
	for _, group := range skeleton.Groups {
		centroid := b.grid.GroupCentroid(group)
		groupParent, err := b.newBone(
			b.naming.groupParentName(group.Start),
			model.BONE_ROLE_GROUP_PARENT,
			b.aligner.frame(centroid, groupParentBoneLengthRatio),
			root.Index(),
			false,
		)
		if err != nil {
			return nil, fmt.Errorf("グループ親ボーンの生成に失敗しました: group=%d: %w", group.Start, err)
		}
		skeleton.GroupParents = append(skeleton.GroupParents, groupParent)

		for index := group.Start; index < group.End; index++ {
			frame := b.aligner.frame(b.grid.WorldPoint(index), pointBoneLengthRatio)
			deform, err := b.newBone(b.naming.deformName(pointIndex), model.BONE_ROLE_DEFORM, frame, root.Index(), true)
			if err != nil {
				return nil, fmt.Errorf("変形ボーンの生成に失敗しました: index=%d: %w", pointIndex, err)
			}
			control, err := b.newBone(b.naming.controlName(pointIndex), model.BONE_ROLE_CONTROL, frame, groupParent.Index(), false)
			if err != nil {
				return nil, fmt.Errorf("操作ボーンの生成に失敗しました: index=%d: %w", pointIndex, err)
			}
			skeleton.Deforms = append(skeleton.Deforms, deform)
			skeleton.Controls = append(skeleton.Controls, control)
			pointIndex++
		}
		logRigDebug("グループ生成: start=%d count=%d parent=%s", group.Start, group.Len(), groupParent.Name)
	}
	return skeleton, nil
}

// newBone はボーンを追加し、ホストが実際に採用したボーンを返す。
func (b hierarchyBuilder) newBone(name string, role model.BoneRole, frame boneFrame, parentIndex int, useDeform bool) (*model.Bone, error) {
	bone := model.NewBoneByName(name)
	bone.Head = frame.Head
	bone.Tail = frame.Tail
	bone.Roll = frame.Roll
	bone.ParentIndex = parentIndex
	bone.UseDeform = useDeform
	bone.Role = role
	bone.RunSignature = b.signature
	return b.editor.NewEditBone(b.armatureName, bone)
}

// boneNames はボーン一覧の名前を返す。
func boneNames(bones []*model.Bone) []string {
	names := make([]string, 0, len(bones))
	for _, bone := range bones {
		names = append(names, bone.Name)
	}
	return names
}
