// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/port/moutput"
)

// rigSignatureNamespace はリグ実行署名のUUID名前空間。
var rigSignatureNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/miu200521358/mu_lattice_rig"))

// RunSignature はアーマチュア・ラティス・命名の組からリグ実行署名(UUIDv5)を返す。
func RunSignature(armatureName string, latticeName string, boneName string, deformPrefix string) string {
	key := strings.Join([]string{armatureName, latticeName, boneName, deformPrefix}, "\x00")
	return uuid.NewSHA1(rigSignatureNamespace, []byte(key)).String()
}

// priorRig は同一署名で生成済みのリグを表す。
type priorRig struct {
	Bones       []*model.Bone
	RootName    string
	DeformNames []string
}

// findPriorRig は署名またはルート名が一致する既存リグを返す。見つからない場合はnil。
func findPriorRig(armature *model.SceneObject, signature string, naming boneNaming) *priorRig {
	if armature == nil || armature.Armature == nil {
		return nil
	}
	rootName := naming.rootName()
	prior := &priorRig{}
	for _, bone := range armature.Armature.Bones.Values() {
		if bone.Name == rootName && prior.RootName == "" {
			prior.RootName = bone.Name
		}
		if bone.RunSignature != signature {
			continue
		}
		prior.Bones = append(prior.Bones, bone)
		if bone.Role == model.BONE_ROLE_ROOT && prior.RootName == "" {
			prior.RootName = bone.Name
		}
		if bone.Role == model.BONE_ROLE_DEFORM {
			prior.DeformNames = append(prior.DeformNames, bone.Name)
		}
	}
	if prior.RootName == "" && len(prior.Bones) == 0 {
		return nil
	}
	return prior
}

// applyReentryPolicy は既存リグに対して再実行ポリシーを適用する。
func applyReentryPolicy(
	scene moutput.ISceneGraph,
	policy ReentryPolicy,
	armature *model.SceneObject,
	latticeName string,
	signature string,
	naming boneNaming,
	result *RigResult,
) error {
	prior := findPriorRig(armature, signature, naming)
	if prior == nil {
		return nil
	}
	switch policy {
	case REENTRY_POLICY_REJECT:
		return merrors.NewSkeletonExistsError(prior.RootName)
	case REENTRY_POLICY_REGENERATE:
		if len(prior.Bones) == 0 {
			logRigInfo("署名付きの既存リグがないため削除せずに生成します: root=%s", prior.RootName)
			return nil
		}
		return removePriorRig(scene, armature.Name, latticeName, prior, result)
	default:
		logRigInfo("既存リグがあるため自動改名で追加生成します: root=%s", prior.RootName)
		return nil
	}
}

// removePriorRig は既存リグのボーン・頂点グループ・アーマチュアモディファイアを削除する。
func removePriorRig(scene moutput.ISceneGraph, armatureName string, latticeName string, prior *priorRig, result *RigResult) error {
	if err := withObjectMode(scene, latticeName, model.OBJECT_MODE_OBJECT, func() error {
		if err := scene.RemoveVertexGroups(latticeName, prior.DeformNames); err != nil {
			return err
		}
		_, err := scene.RemoveModifiers(latticeName, model.MODIFIER_ARMATURE, armatureName)
		return err
	}); err != nil {
		return fmt.Errorf("既存リグの頂点グループ削除に失敗しました: %w", err)
	}

	if err := withObjectMode(scene, armatureName, model.OBJECT_MODE_EDIT, func() error {
		return scene.RemoveBones(armatureName, boneNames(prior.Bones))
	}); err != nil {
		return fmt.Errorf("既存リグのボーン削除に失敗しました: %w", err)
	}
	result.addWarning(model.RigWarningPreviousRigRemoved, "既存リグを削除しました: root=%s bones=%d", prior.RootName, len(prior.Bones))
	return nil
}
