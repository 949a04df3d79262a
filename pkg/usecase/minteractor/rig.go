// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/port/moutput"
)

// RigLattice は選択中のアーマチュアへラティス操作用のボーン階層を生成し、ラティス制御点を割り当てる。
// 選択状態が条件を満たさない場合は何も変更せず ErrNotApplicable を返す。
// 途中で失敗した場合、生成済みのボーン等は残る。
func (uc *LatticeRigUsecase) RigLattice(request RigRequest) (*RigResult, error) {
	scene := request.Scene
	if scene == nil {
		return nil, fmt.Errorf("シーンが未設定です")
	}
	options, err := request.Options.normalized()
	if err != nil {
		return nil, err
	}
	targets, err := resolveRigTargets(scene)
	if err != nil {
		return nil, err
	}
	armature := targets.Armature
	lattice := targets.Lattices[0]
	grid, err := NewLatticeGrid(lattice)
	if err != nil {
		return nil, err
	}

	naming := boneNaming{boneName: options.BoneName, deformPrefix: options.DeformPrefix}
	result := &RigResult{
		ArmatureName: armature.Name,
		LatticeName:  lattice.Name,
		RunSignature: RunSignature(armature.Name, lattice.Name, options.BoneName, options.DeformPrefix),
		Options:      options,
		PointCount:   grid.PointCount(),
		GroupCount:   grid.GroupCount(),
	}
	for _, ignored := range targets.Lattices[1:] {
		result.IgnoredLattices = append(result.IgnoredLattices, ignored.Name)
		result.addWarning(model.RigWarningExtraLatticeIgnored, "先頭以外のラティスは処理しません: %s", ignored.Name)
	}
	if remainder := grid.PointCount() % grid.VerticalResolution(); remainder != 0 {
		result.addWarning(model.RigWarningTruncatedGroup,
			"制御点数が縦解像度で割り切れないため最終グループは%d点です: points=%d w=%d",
			remainder, grid.PointCount(), grid.VerticalResolution())
	}
	reportRigProgress(request.ProgressReporter, RigProgressEvent{
		Type:       RigProgressEventTypeSelectionValidated,
		PointCount: result.PointCount,
		GroupCount: result.GroupCount,
	})

	if err := applyReentryPolicy(scene, options.Reentry, armature, lattice.Name, result.RunSignature, naming, result); err != nil {
		return nil, err
	}
	reportRigProgress(request.ProgressReporter, RigProgressEvent{Type: RigProgressEventTypeReentryResolved})

	builder := hierarchyBuilder{
		editor:       scene,
		armatureName: armature.Name,
		grid:         grid,
		aligner:      newBoneAligner(options.Align, grid.WorldMatrix(), options.BaseBoneLength),
		naming:       naming,
		rootHead:     rootHeadPosition(options.RootPlacement, grid.WorldMatrix()),
		signature:    result.RunSignature,
	}
	var skeleton *rigSkeleton
	if err := withObjectMode(scene, armature.Name, model.OBJECT_MODE_EDIT, func() error {
		built, err := builder.build()
		skeleton = built
		return err
	}); err != nil {
		return result, err
	}
	result.RootBoneName = skeleton.Root.Name
	result.GroupParentBoneNames = boneNames(skeleton.GroupParents)
	result.DeformBoneNames = boneNames(skeleton.Deforms)
	result.ControlBoneNames = boneNames(skeleton.Controls)
	addRenamedWarnings(result, skeleton, naming)
	reportRigProgress(request.ProgressReporter, RigProgressEvent{
		Type:       RigProgressEventTypeHierarchyBuilt,
		PointCount: result.PointCount,
		GroupCount: result.GroupCount,
		BoneCount:  result.BoneCount(),
	})

	if err := withObjectMode(scene, armature.Name, model.OBJECT_MODE_POSE, func() error {
		count, err := wireConstraints(scene, armature.Name, skeleton, options.PropagateRootScale)
		result.ConstraintCount = count
		if err != nil {
			return err
		}
		reportRigProgress(request.ProgressReporter, RigProgressEvent{Type: RigProgressEventTypeConstraintsWired})

		report, err := bindDisplay(scene, request.Widgets, armature.Name, skeleton, grid.WorldMatrix())
		result.Display = report
		if err != nil {
			return err
		}
		for _, skipped := range report.Skipped() {
			result.Warnings = append(result.Warnings, RigWarning{ID: skipped.WarningID, Message: skipped.Reason})
		}
		reportRigProgress(request.ProgressReporter, RigProgressEvent{Type: RigProgressEventTypeDisplayBound})

		created, err := organizeBones(scene, armature.Name, skeleton, options.DeformCollection, options.LatticeCollection)
		result.CreatedCollections = created
		if err != nil {
			return err
		}
		reportRigProgress(request.ProgressReporter, RigProgressEvent{Type: RigProgressEventTypeBonesOrganized})
		return nil
	}); err != nil {
		return result, err
	}

	if err := withObjectMode(scene, lattice.Name, model.OBJECT_MODE_OBJECT, func() error {
		groupNames, err := bindSkin(scene, lattice.Name, skeleton.Deforms)
		result.VertexGroupNames = groupNames
		if err != nil {
			return err
		}
		reportRigProgress(request.ProgressReporter, RigProgressEvent{Type: RigProgressEventTypeSkinBound})

		reparented, err := attachDeformer(scene, armature.Name, lattice.Name)
		result.ReparentedObjects = reparented
		if err != nil {
			return err
		}
		reportRigProgress(request.ProgressReporter, RigProgressEvent{Type: RigProgressEventTypeDeformerAttached})
		return nil
	}); err != nil {
		return result, err
	}

	if err := restoreRigSelection(scene, armature.Name, lattice.Name); err != nil {
		return result, err
	}
	if err := armature.Armature.Validate(); err != nil {
		return result, fmt.Errorf("生成後のボーン階層が不正です: %w", err)
	}

	logRigInfo("ラティスリグを生成しました: armature=%s lattice=%s points=%d groups=%d bones=%d",
		result.ArmatureName, result.LatticeName, result.PointCount, result.GroupCount, result.BoneCount())
	return result, nil
}

// restoreRigSelection はアーマチュアとラティスを選択し、アーマチュアをアクティブにしてOBJECTモードへ戻す。
func restoreRigSelection(scene moutput.IModeController, armatureName string, latticeName string) error {
	if err := switchObjectMode(scene, armatureName, model.OBJECT_MODE_OBJECT); err != nil {
		return fmt.Errorf("実行後のアクティブ復元に失敗しました: %w", err)
	}
	if err := scene.Select([]string{armatureName, latticeName}); err != nil {
		return fmt.Errorf("実行後の選択復元に失敗しました: %w", err)
	}
	return nil
}

// addRenamedWarnings はホストの自動改名で想定と異なる名前になったボーンを警告に残す。
func addRenamedWarnings(result *RigResult, skeleton *rigSkeleton, naming boneNaming) {
	renamed := 0
	first := ""
	check := func(expected string, actual string) {
		if expected == actual {
			return
		}
		if renamed == 0 {
			first = fmt.Sprintf("%s -> %s", expected, actual)
		}
		renamed++
	}
	check(naming.rootName(), skeleton.Root.Name)
	for i, group := range skeleton.Groups {
		check(naming.groupParentName(group.Start), skeleton.GroupParents[i].Name)
	}
	for i := range skeleton.Deforms {
		check(naming.deformName(i), skeleton.Deforms[i].Name)
		check(naming.controlName(i), skeleton.Controls[i].Name)
	}
	if renamed > 0 {
		result.addWarning(model.RigWarningBoneRenamed, "名前衝突により%d本のボーンが改名されました: 例 %s", renamed, first)
	}
}
