// 指示: miu200521358
package minteractor

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	sceneyaml "github.com/miu200521358/mu_lattice_rig/pkg/adapter/io_scene/yaml"
	"github.com/miu200521358/mu_lattice_rig/pkg/adapter/scene/memory"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
)

func mustAppendUserBone(t *testing.T, armature *model.ArmatureData, name string, parentIndex int) *model.Bone {
	t.Helper()
	bone := model.NewBoneByName(name)
	bone.ParentIndex = parentIndex
	bone.Tail = mmath.NewVec3(0, 0, 0.1)
	if _, err := armature.Bones.Append(bone); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	return bone
}

func mustBoneIndex(t *testing.T, armature *model.ArmatureData, name string) int {
	t.Helper()
	bone, err := armature.Bones.GetByName(name)
	if err != nil {
		t.Fatalf("bone not found: %s: %v", name, err)
	}
	return bone.Index()
}

func TestRigLatticeRegenerateKeepsUserData(t *testing.T) {
	armature := model.NewArmatureData()
	hand := mustAppendUserBone(t, armature, "hand", -1)
	armature.Collections = append(armature.Collections, &model.BoneCollection{Name: "Props", IsVisible: true, BoneNames: []string{"hand"}})

	other := model.NewArmatureData()
	mustAppendUserBone(t, other, "A", -1)
	mustAppendUserBone(t, other, "F", 0)

	scene, err := memory.NewScene(&model.SceneData{
		Objects: []*model.SceneObject{
			{Name: "Armature", Type: model.OBJECT_TYPE_ARMATURE, MatrixWorld: mmath.NewMat4(), Armature: armature},
			{Name: "Rig2", Type: model.OBJECT_TYPE_ARMATURE, MatrixWorld: mmath.NewMat4(), Armature: other},
			{Name: "Lattice", Type: model.OBJECT_TYPE_LATTICE, MatrixWorld: mmath.NewMat4(), Lattice: model.NewLatticeData(2, 2, 3)},
		},
		Selected: []string{"Armature", "Lattice"},
		Active:   "Armature",
		Mode:     model.OBJECT_MODE_OBJECT,
	})
	if err != nil {
		t.Fatalf("scene build failed: %v", err)
	}
	scene.SetupWidgets()

	runRig(t, scene, DefaultRigOptions())
	generatedConstraints := len(armature.Constraints)

	tail := mustAppendUserBone(t, armature, "tail", hand.Index())
	armature.Collections[0].BoneNames = append(armature.Collections[0].BoneNames, "tail")
	toOther := &model.Constraint{Kind: model.CONSTRAINT_COPY_TRANSFORMS, OwnerIndex: hand.Index(), TargetObject: "Rig2", TargetIndex: 1}
	toGenerated := &model.Constraint{
		Kind:         model.CONSTRAINT_COPY_TRANSFORMS,
		OwnerIndex:   tail.Index(),
		TargetObject: "Armature",
		TargetIndex:  mustBoneIndex(t, armature, "lattice_0"),
	}
	armature.Constraints = append(armature.Constraints, toOther, toGenerated)
	fromOther := &model.Constraint{Kind: model.CONSTRAINT_COPY_TRANSFORMS, OwnerIndex: 0, TargetObject: "Armature", TargetIndex: tail.Index()}
	other.Constraints = append(other.Constraints, fromOther)

	options := DefaultRigOptions()
	options.Reentry = REENTRY_POLICY_REGENERATE
	runRig(t, scene, options)

	if armature.Bones.Len() != 29+2 {
		t.Fatalf("bone count mismatch: got=%d want=%d", armature.Bones.Len(), 29+2)
	}
	if tail.ParentIndex != hand.Index() {
		t.Fatalf("user parent mismatch: got=%d want=%d", tail.ParentIndex, hand.Index())
	}
	if toOther.TargetObject != "Rig2" || toOther.TargetIndex != 1 || toOther.OwnerIndex != hand.Index() {
		t.Fatalf("cross-armature constraint mismatch: %+v", *toOther)
	}
	if toGenerated.OwnerIndex != tail.Index() || toGenerated.TargetIndex != -1 {
		t.Fatalf("dangling constraint mismatch: owner=%d target=%d", toGenerated.OwnerIndex, toGenerated.TargetIndex)
	}
	if fromOther.TargetIndex != tail.Index() {
		t.Fatalf("incoming constraint target mismatch: got=%d want=%d", fromOther.TargetIndex, tail.Index())
	}
	if len(armature.Constraints) != generatedConstraints+2 {
		t.Fatalf("constraint count mismatch: got=%d want=%d", len(armature.Constraints), generatedConstraints+2)
	}
	props, exists := armature.Collection("Props")
	if !exists || !props.IsVisible {
		t.Fatalf("user collection mismatch: %+v", props)
	}
	if diff := cmp.Diff([]string{"hand", "tail"}, props.BoneNames); diff != "" {
		t.Fatalf("user collection members mismatch (-want +got):\n%s", diff)
	}

	repository := sceneyaml.NewSceneRepository()
	raw, err := repository.Marshal(scene.Data())
	if err != nil {
		t.Fatalf("marshal after regenerate failed: %v", err)
	}
	reloaded, err := repository.Parse(raw)
	if err != nil {
		t.Fatalf("parse after regenerate failed: %v", err)
	}
	if got := len(reloaded.Objects[0].Armature.Constraints); got != generatedConstraints+2 {
		t.Fatalf("reloaded constraint count mismatch: got=%d want=%d", got, generatedConstraints+2)
	}
}
