// 指示: miu200521358
package minteractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/miu200521358/mu_lattice_rig/pkg/adapter/scene/memory"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_lattice_rig/pkg/shared/base/logging"
)

const rigTestEpsilon = 1e-6

// newRigTestScene はアーマチュア・ラティス・ラティス参照メッシュを持つシーンを生成する。
func newRigTestScene(t *testing.T, lattice *model.LatticeData, latticeMatrix mmath.Mat4) *memory.Scene {
	t.Helper()
	scene, err := memory.NewScene(&model.SceneData{
		Objects: []*model.SceneObject{
			{Name: "Armature", Type: model.OBJECT_TYPE_ARMATURE, MatrixWorld: mmath.NewMat4()},
			{Name: "Lattice", Type: model.OBJECT_TYPE_LATTICE, MatrixWorld: latticeMatrix, Lattice: lattice},
			{
				Name:        "Body",
				Type:        model.OBJECT_TYPE_MESH,
				MatrixWorld: mmath.NewMat4(),
				Modifiers:   []*model.Modifier{{Name: "Lattice", Type: model.MODIFIER_LATTICE, Object: "Lattice"}},
			},
			{Name: "Other", Type: model.OBJECT_TYPE_MESH, MatrixWorld: mmath.NewMat4()},
		},
		Selected: []string{"Armature", "Lattice"},
		Active:   "Armature",
		Mode:     model.OBJECT_MODE_OBJECT,
	})
	if err != nil {
		t.Fatalf("scene build failed: %v", err)
	}
	scene.SetupWidgets()
	return scene
}

// newLinearLattice は縦解像度wでX軸上に並ぶcount点のラティスを生成する。
func newLinearLattice(count int, w int) *model.LatticeData {
	lattice := &model.LatticeData{PointsU: count, PointsV: 1, PointsW: w}
	for i := 0; i < count; i++ {
		lattice.Points = append(lattice.Points, mmath.NewVec3(float64(i), float64(i%w)*0.5, float64(i/w)))
	}
	return lattice
}

func runRig(t *testing.T, scene *memory.Scene, options RigOptions) *RigResult {
	t.Helper()
	uc := NewLatticeRigUsecase(LatticeRigUsecaseDeps{})
	result, err := uc.RigLattice(RigRequest{Scene: scene, Widgets: scene, Options: options})
	if err != nil {
		t.Fatalf("rig failed: %v", err)
	}
	return result
}

func armatureOf(t *testing.T, scene *memory.Scene) *model.ArmatureData {
	t.Helper()
	object, err := scene.Object("Armature")
	if err != nil {
		t.Fatalf("armature not found: %v", err)
	}
	return object.Armature
}

func latticeOf(t *testing.T, scene *memory.Scene) *model.SceneObject {
	t.Helper()
	object, err := scene.Object("Lattice")
	if err != nil {
		t.Fatalf("lattice not found: %v", err)
	}
	return object
}

func countBonesByRole(armature *model.ArmatureData, role model.BoneRole) int {
	count := 0
	for _, bone := range armature.Bones.Values() {
		if bone.Role == role {
			count++
		}
	}
	return count
}

func countConstraints(armature *model.ArmatureData, kind model.ConstraintKind) int {
	count := 0
	for _, constraint := range armature.Constraints {
		if constraint.Kind == kind {
			count++
		}
	}
	return count
}

func TestRigLatticeTwelvePointsFourGroups(t *testing.T) {
	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 3), mmath.NewMat4())
	result := runRig(t, scene, DefaultRigOptions())
	armature := armatureOf(t, scene)

	counts := map[model.BoneRole]int{
		model.BONE_ROLE_ROOT:         1,
		model.BONE_ROLE_GROUP_PARENT: 4,
		model.BONE_ROLE_DEFORM:       12,
		model.BONE_ROLE_CONTROL:      12,
	}
	for role, want := range counts {
		if got := countBonesByRole(armature, role); got != want {
			t.Fatalf("bone count mismatch: role=%s got=%d want=%d", role, got, want)
		}
	}
	if got := len(latticeOf(t, scene).VertexGroups); got != 12 {
		t.Fatalf("vertex group count mismatch: got=%d want=12", got)
	}
	if got := countConstraints(armature, model.CONSTRAINT_COPY_TRANSFORMS); got != 12 {
		t.Fatalf("copy transforms count mismatch: got=%d want=12", got)
	}
	if got := countConstraints(armature, model.CONSTRAINT_COPY_SCALE); got != 12 {
		t.Fatalf("copy scale count mismatch: got=%d want=12", got)
	}
	if result.GroupCount != 4 || result.ConstraintCount != 24 || result.BoneCount() != 29 {
		t.Fatalf("result count mismatch: groups=%d constraints=%d bones=%d", result.GroupCount, result.ConstraintCount, result.BoneCount())
	}

	wantParents := []string{"parent_lattice_0", "parent_lattice_3", "parent_lattice_6", "parent_lattice_9"}
	if diff := cmp.Diff(wantParents, result.GroupParentBoneNames); diff != "" {
		t.Fatalf("group parent names mismatch (-want +got):\n%s", diff)
	}
	wantDeforms := make([]string, 0, 12)
	wantControls := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		wantDeforms = append(wantDeforms, "DEF-lattice_"+itoa(i))
		wantControls = append(wantControls, "lattice_"+itoa(i))
	}
	if diff := cmp.Diff(wantDeforms, result.DeformBoneNames); diff != "" {
		t.Fatalf("deform names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantControls, result.ControlBoneNames); diff != "" {
		t.Fatalf("control names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantDeforms, result.VertexGroupNames); diff != "" {
		t.Fatalf("vertex group names mismatch (-want +got):\n%s", diff)
	}
	if result.RootBoneName != "DEF-lattice_root" {
		t.Fatalf("root name mismatch: got=%s", result.RootBoneName)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", result.Warnings)
	}
}

func TestRigLatticeTruncatedLastGroup(t *testing.T) {
	scene := newRigTestScene(t, newLinearLattice(10, 3), mmath.NewMat4())
	result := runRig(t, scene, DefaultRigOptions())
	armature := armatureOf(t, scene)

	if result.GroupCount != 4 {
		t.Fatalf("group count mismatch: got=%d want=4", result.GroupCount)
	}
	if len(result.DeformBoneNames) != 10 || len(result.ControlBoneNames) != 10 {
		t.Fatalf("point bones dropped: deform=%d control=%d", len(result.DeformBoneNames), len(result.ControlBoneNames))
	}

	childCounts := make([]int, 0, len(result.GroupParentBoneNames))
	for _, name := range result.GroupParentBoneNames {
		parent, err := armature.Bones.GetByName(name)
		if err != nil {
			t.Fatalf("group parent missing: %v", err)
		}
		children := armature.Bones.Children(parent.Index())
		if len(children) > 3 {
			t.Fatalf("group exceeds resolution: %s children=%d", name, len(children))
		}
		childCounts = append(childCounts, len(children))
	}
	if diff := cmp.Diff([]int{3, 3, 3, 1}, childCounts); diff != "" {
		t.Fatalf("group sizes mismatch (-want +got):\n%s", diff)
	}
	if !hasWarning(result, model.RigWarningTruncatedGroup) {
		t.Fatalf("truncated group warning missing: %+v", result.Warnings)
	}
}

func TestRigLatticeCopyTransformsPairsSameIndex(t *testing.T) {
	scene := newRigTestScene(t, model.NewLatticeData(3, 2, 2), mmath.NewMat4())
	result := runRig(t, scene, DefaultRigOptions())
	armature := armatureOf(t, scene)

	for index, deformName := range result.DeformBoneNames {
		deform, err := armature.Bones.GetByName(deformName)
		if err != nil {
			t.Fatalf("deform bone missing: %v", err)
		}
		control, err := armature.Bones.GetByName(result.ControlBoneNames[index])
		if err != nil {
			t.Fatalf("control bone missing: %v", err)
		}
		copyTransforms := 0
		for _, constraint := range armature.ConstraintsByOwner(deform.Index()) {
			if constraint.Kind != model.CONSTRAINT_COPY_TRANSFORMS {
				t.Fatalf("deform bone has unexpected constraint: %s %s", deformName, constraint.Kind)
			}
			if constraint.TargetIndex != control.Index() || constraint.TargetObject != "Armature" {
				t.Fatalf("copy transforms target mismatch: deform=%s got=%d want=%d", deformName, constraint.TargetIndex, control.Index())
			}
			copyTransforms++
		}
		if copyTransforms != 1 {
			t.Fatalf("copy transforms count mismatch: deform=%s got=%d", deformName, copyTransforms)
		}
		if !deform.UseDeform || control.UseDeform {
			t.Fatalf("deform flag mismatch: deform=%v control=%v", deform.UseDeform, control.UseDeform)
		}
		if !deform.Head.NearEquals(control.Head, rigTestEpsilon) || !deform.Tail.NearEquals(control.Tail, rigTestEpsilon) || deform.Roll != control.Roll {
			t.Fatalf("control bone should duplicate deform frame: %s", deformName)
		}
	}
}

func TestRigLatticeWithoutRootScalePropagation(t *testing.T) {
	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 2), mmath.NewMat4())
	options := DefaultRigOptions()
	options.PropagateRootScale = false
	result := runRig(t, scene, options)

	if got := countConstraints(armatureOf(t, scene), model.CONSTRAINT_COPY_SCALE); got != 0 {
		t.Fatalf("copy scale should be skipped: got=%d", got)
	}
	if result.ConstraintCount != 8 {
		t.Fatalf("constraint count mismatch: got=%d want=8", result.ConstraintCount)
	}
}

func TestRigLatticeRigidBinding(t *testing.T) {
	scene := newRigTestScene(t, newLinearLattice(7, 3), mmath.NewMat4())
	result := runRig(t, scene, DefaultRigOptions())
	lattice := latticeOf(t, scene)

	for pointIndex := range lattice.Lattice.Points {
		sum := 0.0
		bound := make([]string, 0, 1)
		for _, group := range lattice.VertexGroups {
			if weight, ok := group.Weight(pointIndex); ok {
				sum += weight
				bound = append(bound, group.Name)
			}
		}
		if len(bound) != 1 || sum != 1.0 {
			t.Fatalf("binding mismatch: point=%d groups=%v sum=%f", pointIndex, bound, sum)
		}
		if bound[0] != result.DeformBoneNames[pointIndex] {
			t.Fatalf("binding target mismatch: point=%d got=%s want=%s", pointIndex, bound[0], result.DeformBoneNames[pointIndex])
		}
	}
}

func TestRigLatticeAncestryEndsAtSingleRoot(t *testing.T) {
	scene := newRigTestScene(t, newLinearLattice(10, 3), mmath.NewMat4())
	runRig(t, scene, DefaultRigOptions())
	armature := armatureOf(t, scene)

	roots := 0
	for _, bone := range armature.Bones.Values() {
		if bone.Role == model.BONE_ROLE_ROOT {
			roots++
			if bone.ParentIndex != -1 || bone.UseDeform {
				t.Fatalf("root bone should be parentless non-deform: parent=%d deform=%v", bone.ParentIndex, bone.UseDeform)
			}
			continue
		}
		ancestors, err := armature.Bones.AncestorIndexes(bone.Index())
		if err != nil {
			t.Fatalf("ancestry failed: %s: %v", bone.Name, err)
		}
		if len(ancestors) == 0 {
			t.Fatalf("bone should have ancestors: %s", bone.Name)
		}
		top, _ := armature.Bones.Get(ancestors[len(ancestors)-1])
		if top.Role != model.BONE_ROLE_ROOT {
			t.Fatalf("ancestry should end at root: %s -> %s", bone.Name, top.Name)
		}
		wantDepth := 1
		if bone.Role == model.BONE_ROLE_CONTROL {
			wantDepth = 2
		}
		if len(ancestors) != wantDepth {
			t.Fatalf("ancestry depth mismatch: %s got=%d want=%d", bone.Name, len(ancestors), wantDepth)
		}
	}
	if roots != 1 {
		t.Fatalf("root count mismatch: got=%d want=1", roots)
	}
}

func TestRigLatticeGroupParentAtCentroid(t *testing.T) {
	latticeMatrix := mmath.NewMat4FromTRS(
		mmath.NewVec3(1, -2, 0.5),
		mmath.NewQuaternionFromDegrees(15, 30, 45),
		mmath.NewVec3(2, 1, 3),
	)
	latticeData := newLinearLattice(10, 4)
	scene := newRigTestScene(t, latticeData, latticeMatrix)
	result := runRig(t, scene, DefaultRigOptions())
	armature := armatureOf(t, scene)

	groups := [][2]int{{0, 4}, {4, 8}, {8, 10}}
	for groupIndex, group := range groups {
		points := make([]mmath.Vec3, 0)
		for i := group[0]; i < group[1]; i++ {
			points = append(points, latticeMatrix.MulVec3(latticeData.Points[i]))
		}
		want := mmath.MeanVec3(points)
		parent, err := armature.Bones.GetByName(result.GroupParentBoneNames[groupIndex])
		if err != nil {
			t.Fatalf("group parent missing: %v", err)
		}
		if !parent.Head.NearEquals(want, rigTestEpsilon) {
			t.Fatalf("centroid mismatch: group=%d got=%v want=%v", groupIndex, parent.Head, want)
		}
	}
}

func TestRigLatticeRerunDuplicatesSkeleton(t *testing.T) {
	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 3), mmath.NewMat4())
	first := runRig(t, scene, DefaultRigOptions())
	firstCount := armatureOf(t, scene).Bones.Len()

	second := runRig(t, scene, DefaultRigOptions())
	armature := armatureOf(t, scene)

	if armature.Bones.Len() != firstCount*2 {
		t.Fatalf("rerun should duplicate bones: got=%d want=%d", armature.Bones.Len(), firstCount*2)
	}
	if second.RootBoneName != first.RootBoneName+".001" {
		t.Fatalf("duplicated root name mismatch: got=%s", second.RootBoneName)
	}
	if second.DeformBoneNames[0] != "DEF-lattice_0.001" {
		t.Fatalf("duplicated deform name mismatch: got=%s", second.DeformBoneNames[0])
	}
	if !hasWarning(second, model.RigWarningBoneRenamed) {
		t.Fatalf("rename warning missing: %+v", second.Warnings)
	}
	if got := countBonesByRole(armature, model.BONE_ROLE_ROOT); got != 2 {
		t.Fatalf("rerun should leave two roots: got=%d", got)
	}
	if got := len(latticeOf(t, scene).VertexGroups); got != 24 {
		t.Fatalf("vertex group count mismatch: got=%d want=24", got)
	}
	if first.RunSignature != second.RunSignature {
		t.Fatalf("run signature should be stable: %s != %s", first.RunSignature, second.RunSignature)
	}
}

func TestRigLatticeRejectPolicy(t *testing.T) {
	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 2), mmath.NewMat4())
	runRig(t, scene, DefaultRigOptions())
	before := armatureOf(t, scene).Bones.Len()

	options := DefaultRigOptions()
	options.Reentry = REENTRY_POLICY_REJECT
	uc := NewLatticeRigUsecase(LatticeRigUsecaseDeps{})
	_, err := uc.RigLattice(RigRequest{Scene: scene, Widgets: scene, Options: options})
	if !errors.Is(err, merrors.ErrSkeletonExists) {
		t.Fatalf("expected skeleton exists: %v", err)
	}
	if merrors.ExtractErrorID(err) != merrors.ErrorIDSkeletonExists {
		t.Fatalf("error id mismatch: got=%s", merrors.ExtractErrorID(err))
	}
	if after := armatureOf(t, scene).Bones.Len(); after != before {
		t.Fatalf("reject should not mutate: before=%d after=%d", before, after)
	}
}

func TestRigLatticeRegeneratePolicy(t *testing.T) {
	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 3), mmath.NewMat4())
	first := runRig(t, scene, DefaultRigOptions())
	before := armatureOf(t, scene).Bones.Len()

	options := DefaultRigOptions()
	options.Reentry = REENTRY_POLICY_REGENERATE
	second := runRig(t, scene, options)
	armature := armatureOf(t, scene)
	lattice := latticeOf(t, scene)

	if armature.Bones.Len() != before {
		t.Fatalf("regenerate should keep bone count: got=%d want=%d", armature.Bones.Len(), before)
	}
	if diff := cmp.Diff(first.DeformBoneNames, second.DeformBoneNames); diff != "" {
		t.Fatalf("regenerated names should match (-first +second):\n%s", diff)
	}
	if len(lattice.VertexGroups) != 12 {
		t.Fatalf("vertex group count mismatch: got=%d want=12", len(lattice.VertexGroups))
	}
	armatureModifiers := 0
	for _, modifier := range lattice.Modifiers {
		if modifier.Type == model.MODIFIER_ARMATURE {
			armatureModifiers++
		}
	}
	if armatureModifiers != 1 {
		t.Fatalf("armature modifier count mismatch: got=%d want=1", armatureModifiers)
	}
	if got := countConstraints(armature, model.CONSTRAINT_COPY_TRANSFORMS); got != 12 {
		t.Fatalf("constraint count mismatch: got=%d want=12", got)
	}
	if !hasWarning(second, model.RigWarningPreviousRigRemoved) {
		t.Fatalf("removed warning missing: %+v", second.Warnings)
	}
	if err := armature.Validate(); err != nil {
		t.Fatalf("armature invalid after regenerate: %v", err)
	}
}

func TestRigLatticeAlignedFramesFollowRotation(t *testing.T) {
	rotations := []mmath.Quaternion{
		mmath.NewQuaternionFromDegrees(90, 0, 0),
		mmath.NewQuaternionFromDegrees(20, -35, 70),
	}
	for _, rotation := range rotations {
		latticeMatrix := mmath.NewMat4FromTRS(mmath.NewVec3(0.5, 1, 2), rotation, mmath.ONE_VEC3)

		worldScene := newRigTestScene(t, model.NewLatticeData(2, 2, 2), latticeMatrix)
		runRig(t, worldScene, DefaultRigOptions())

		latticeScene := newRigTestScene(t, model.NewLatticeData(2, 2, 2), latticeMatrix)
		options := DefaultRigOptions()
		options.Align = ALIGN_MODE_LATTICE
		runRig(t, latticeScene, options)

		worldBones := armatureOf(t, worldScene).Bones.Values()
		latticeBones := armatureOf(t, latticeScene).Bones.Values()
		if len(worldBones) != len(latticeBones) {
			t.Fatalf("bone count mismatch: world=%d lattice=%d", len(worldBones), len(latticeBones))
		}
		rotationMatrix := rotation.ToMat3()
		for i := range worldBones {
			if worldBones[i].Roll != 0 {
				t.Fatalf("world-aligned roll should be zero: %s roll=%f", worldBones[i].Name, worldBones[i].Roll)
			}
			worldFrame := worldBones[i].Matrix()
			want := rotationMatrix.Muled(worldFrame)
			got := latticeBones[i].Matrix()
			if !got.NearEquals(want, rigTestEpsilon) {
				t.Fatalf("aligned frame mismatch: %s got=%v want=%v", latticeBones[i].Name, got, want)
			}
			if !worldBones[i].Head.NearEquals(latticeBones[i].Head, rigTestEpsilon) {
				t.Fatalf("alignment should not move heads: %s", latticeBones[i].Name)
			}
		}
	}
}

func TestRigLatticeRootAtBottom(t *testing.T) {
	rotation := mmath.NewQuaternionFromDegrees(90, 0, 0)
	origin := mmath.NewVec3(1, 2, 3)
	latticeMatrix := mmath.NewMat4FromTRS(origin, rotation, mmath.NewVec3(1, 1, 2))
	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 2), latticeMatrix)
	options := DefaultRigOptions()
	options.RootPlacement = ROOT_PLACEMENT_BOTTOM
	result := runRig(t, scene, options)

	root, err := armatureOf(t, scene).Bones.GetByName(result.RootBoneName)
	if err != nil {
		t.Fatalf("root missing: %v", err)
	}
	offset := root.Head.Subed(origin)
	if offset.Length() < 1.0-rigTestEpsilon || offset.Length() > 1.0+rigTestEpsilon {
		t.Fatalf("root offset length mismatch: got=%f want=1.0", offset.Length())
	}
	want := origin.Added(rotation.MulVec3(mmath.UNIT_Z_NEG_VEC3))
	if !root.Head.NearEquals(want, rigTestEpsilon) {
		t.Fatalf("root head mismatch: got=%v want=%v", root.Head, want)
	}
	if !root.Head.NearEquals(mmath.NewVec3(1, 3, 3), rigTestEpsilon) {
		t.Fatalf("root head should move along local -Z: got=%v", root.Head)
	}
	if length := root.Length(); length < 0.9-rigTestEpsilon || length > 0.9+rigTestEpsilon {
		t.Fatalf("root length mismatch: got=%f want=0.9", length)
	}
}

func TestRigLatticeRestoresSelectionAndMode(t *testing.T) {
	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 2), mmath.NewMat4())
	runRig(t, scene, DefaultRigOptions())

	if scene.Mode() != model.OBJECT_MODE_OBJECT || scene.ActiveObjectName() != "Armature" {
		t.Fatalf("state not restored: mode=%s active=%s", scene.Mode(), scene.ActiveObjectName())
	}
	if diff := cmp.Diff([]string{"Armature", "Lattice"}, scene.Data().Selected); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestRigLatticeAttachesDeformer(t *testing.T) {
	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 2), mmath.NewMat4())
	result := runRig(t, scene, DefaultRigOptions())
	lattice := latticeOf(t, scene)

	if !lattice.HasModifierTargeting(model.MODIFIER_ARMATURE, "Armature") {
		t.Fatalf("armature modifier missing: %+v", lattice.Modifiers)
	}
	if lattice.ParentName != "Armature" {
		t.Fatalf("lattice parent mismatch: got=%s", lattice.ParentName)
	}
	body, _ := scene.Object("Body")
	other, _ := scene.Object("Other")
	if body.ParentName != "Armature" || other.ParentName != "" {
		t.Fatalf("mesh parent mismatch: body=%s other=%s", body.ParentName, other.ParentName)
	}
	if diff := cmp.Diff([]string{"Lattice", "Body"}, result.ReparentedObjects); diff != "" {
		t.Fatalf("reparented mismatch (-want +got):\n%s", diff)
	}
}

func TestRigLatticeOrganizesCollections(t *testing.T) {
	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 2), mmath.NewMat4())
	result := runRig(t, scene, DefaultRigOptions())
	armature := armatureOf(t, scene)

	wantCreated := []string{"Deform Bones", "Original Bones", "Lattice Bones", "Lattice"}
	if diff := cmp.Diff(wantCreated, result.CreatedCollections); diff != "" {
		t.Fatalf("created collections mismatch (-want +got):\n%s", diff)
	}
	deform, _ := armature.Collection("Deform Bones")
	if deform.IsVisible {
		t.Fatalf("deform collection should be hidden")
	}
	if diff := cmp.Diff(result.DeformBoneNames, deform.BoneNames); diff != "" {
		t.Fatalf("deform membership mismatch (-want +got):\n%s", diff)
	}
	latticeCollection, _ := armature.Collection("Lattice")
	if !latticeCollection.IsVisible {
		t.Fatalf("lattice collection should be visible")
	}
	if len(latticeCollection.BoneNames) != 8+4+1 {
		t.Fatalf("lattice membership count mismatch: got=%d", len(latticeCollection.BoneNames))
	}
	if !latticeCollection.Contains(result.RootBoneName) || latticeCollection.Contains(result.DeformBoneNames[0]) {
		t.Fatalf("lattice membership mismatch: %v", latticeCollection.BoneNames)
	}
}

func TestRigLatticeKeepsExistingCollectionVisibility(t *testing.T) {
	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 2), mmath.NewMat4())
	armature := armatureOf(t, scene)
	armature.Collections = append(armature.Collections, &model.BoneCollection{Name: "Deform Bones", IsVisible: true})

	result := runRig(t, scene, DefaultRigOptions())
	deform, _ := armature.Collection("Deform Bones")
	if !deform.IsVisible {
		t.Fatalf("existing collection visibility should be kept")
	}
	for _, name := range result.CreatedCollections {
		if name == "Deform Bones" {
			t.Fatalf("existing collection should not be recreated")
		}
	}
}

func TestRigLatticeDisplayWidgets(t *testing.T) {
	latticeMatrix := mmath.NewMat4FromTRS(mmath.ZERO_VEC3, mmath.NewQuaternion(), mmath.NewVec3(2, 3, 4))
	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 2), latticeMatrix)
	result := runRig(t, scene, DefaultRigOptions())
	armature := armatureOf(t, scene)

	if len(result.Display.Skipped()) != 0 || result.Display.AssignedCount() != 8+4+1 {
		t.Fatalf("display binding mismatch: assigned=%d skipped=%d", result.Display.AssignedCount(), len(result.Display.Skipped()))
	}
	control, _ := armature.Bones.GetByName(result.ControlBoneNames[0])
	if control.WidgetName != model.WIDGET_SPHERE || control.UseBoneSize {
		t.Fatalf("control widget mismatch: %s use_bone_size=%v", control.WidgetName, control.UseBoneSize)
	}
	parent, _ := armature.Bones.GetByName(result.GroupParentBoneNames[0])
	if parent.WidgetName != model.WIDGET_SQUARE || !parent.WidgetScale.NearEquals(mmath.NewVec3(2, 3, 1), rigTestEpsilon) {
		t.Fatalf("group parent widget mismatch: %s scale=%v", parent.WidgetName, parent.WidgetScale)
	}
	root, _ := armature.Bones.GetByName(result.RootBoneName)
	if root.WidgetName != model.WIDGET_CUBE {
		t.Fatalf("root widget mismatch: %s", root.WidgetName)
	}
	deform, _ := armature.Bones.GetByName(result.DeformBoneNames[0])
	if deform.WidgetName != "" {
		t.Fatalf("deform bone should have no widget: %s", deform.WidgetName)
	}
}

func TestRigLatticeReportsMissingWidgets(t *testing.T) {
	scene, err := memory.NewScene(&model.SceneData{
		Objects: []*model.SceneObject{
			{Name: "Armature", Type: model.OBJECT_TYPE_ARMATURE, MatrixWorld: mmath.NewMat4()},
			{Name: "Lattice", Type: model.OBJECT_TYPE_LATTICE, MatrixWorld: mmath.NewMat4(), Lattice: model.NewLatticeData(2, 2, 2)},
		},
		Selected: []string{"Lattice", "Armature"},
	})
	if err != nil {
		t.Fatalf("scene build failed: %v", err)
	}
	scene.AddWidget(&model.Widget{Name: model.WIDGET_SPHERE})

	result := runRig(t, scene, DefaultRigOptions())

	skipped := result.Display.Skipped()
	if len(skipped) != 5 {
		t.Fatalf("skipped count mismatch: got=%d want=5", len(skipped))
	}
	for _, binding := range skipped {
		if binding.WarningID != model.RigWarningWidgetMissing {
			t.Fatalf("skipped warning id mismatch: %+v", binding)
		}
		if binding.Role == model.BONE_ROLE_CONTROL {
			t.Fatalf("control bones should be assigned: %+v", binding)
		}
	}
	if result.Display.AssignedCount() != 8 {
		t.Fatalf("assigned count mismatch: got=%d want=8", result.Display.AssignedCount())
	}
	if !hasWarning(result, model.RigWarningWidgetMissing) {
		t.Fatalf("widget warning missing: %+v", result.Warnings)
	}
	if len(latticeOf(t, scene).VertexGroups) != 8 {
		t.Fatalf("missing widgets should not stop binding")
	}
}

func TestRigLatticeNotApplicableSelections(t *testing.T) {
	testCases := []struct {
		name     string
		selected []string
		active   string
	}{
		{name: "single object", selected: []string{"Armature"}, active: "Armature"},
		{name: "two armatures", selected: []string{"Armature", "Armature2", "Lattice"}, active: "Armature"},
		{name: "mesh selected", selected: []string{"Armature", "Lattice", "Body"}, active: "Armature"},
		{name: "lattice active", selected: []string{"Armature", "Lattice"}, active: "Lattice"},
		{name: "no lattice", selected: []string{"Armature", "Armature2"}, active: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			scene, err := memory.NewScene(&model.SceneData{
				Objects: []*model.SceneObject{
					{Name: "Armature", Type: model.OBJECT_TYPE_ARMATURE, MatrixWorld: mmath.NewMat4()},
					{Name: "Armature2", Type: model.OBJECT_TYPE_ARMATURE, MatrixWorld: mmath.NewMat4()},
					{Name: "Lattice", Type: model.OBJECT_TYPE_LATTICE, MatrixWorld: mmath.NewMat4(), Lattice: model.NewLatticeData(2, 2, 2)},
					{Name: "Body", Type: model.OBJECT_TYPE_MESH, MatrixWorld: mmath.NewMat4()},
				},
				Selected: tc.selected,
				Active:   tc.active,
			})
			if err != nil {
				t.Fatalf("scene build failed: %v", err)
			}
			if PollRigLattice(scene) {
				t.Fatalf("poll should reject selection")
			}
			uc := NewLatticeRigUsecase(LatticeRigUsecaseDeps{})
			_, err = uc.RigLattice(RigRequest{Scene: scene, Widgets: scene, Options: DefaultRigOptions()})
			if !errors.Is(err, merrors.ErrNotApplicable) {
				t.Fatalf("expected not applicable: %v", err)
			}
			armature := armatureOf(t, scene)
			if armature.Bones.Len() != 0 || len(armature.Constraints) != 0 {
				t.Fatalf("rejected selection should not mutate")
			}
			if scene.Mode() != model.OBJECT_MODE_OBJECT || scene.ActiveObjectName() != tc.active {
				t.Fatalf("rejected selection should keep state: mode=%s active=%s", scene.Mode(), scene.ActiveObjectName())
			}
		})
	}
}

func TestRigLatticeUsesFirstLattice(t *testing.T) {
	scene, err := memory.NewScene(&model.SceneData{
		Objects: []*model.SceneObject{
			{Name: "Armature", Type: model.OBJECT_TYPE_ARMATURE, MatrixWorld: mmath.NewMat4()},
			{Name: "LatticeA", Type: model.OBJECT_TYPE_LATTICE, MatrixWorld: mmath.NewMat4(), Lattice: model.NewLatticeData(2, 2, 2)},
			{Name: "LatticeB", Type: model.OBJECT_TYPE_LATTICE, MatrixWorld: mmath.NewMat4(), Lattice: model.NewLatticeData(3, 3, 3)},
		},
		Selected: []string{"LatticeA", "Armature", "LatticeB"},
		Active:   "Armature",
	})
	if err != nil {
		t.Fatalf("scene build failed: %v", err)
	}
	if !PollRigLattice(scene) {
		t.Fatalf("poll should accept one armature and two lattices")
	}
	result := runRig(t, scene, DefaultRigOptions())
	if result.LatticeName != "LatticeA" || result.PointCount != 8 {
		t.Fatalf("target lattice mismatch: %s points=%d", result.LatticeName, result.PointCount)
	}
	if diff := cmp.Diff([]string{"LatticeB"}, result.IgnoredLattices); diff != "" {
		t.Fatalf("ignored lattices mismatch (-want +got):\n%s", diff)
	}
	if !hasWarning(result, model.RigWarningExtraLatticeIgnored) {
		t.Fatalf("ignored lattice warning missing")
	}
}

func TestRigLatticeRejectsInvalidLattice(t *testing.T) {
	lattice := &model.LatticeData{PointsU: 2, PointsV: 1, PointsW: 0, Points: []mmath.Vec3{mmath.ZERO_VEC3, mmath.ONE_VEC3}}
	scene := newRigTestScene(t, lattice, mmath.NewMat4())
	uc := NewLatticeRigUsecase(LatticeRigUsecaseDeps{})
	_, err := uc.RigLattice(RigRequest{Scene: scene, Widgets: scene, Options: DefaultRigOptions()})
	if merrors.ExtractErrorID(err) != merrors.ErrorIDInvalidLattice {
		t.Fatalf("error id mismatch: got=%s err=%v", merrors.ExtractErrorID(err), err)
	}
}

func TestRigLatticeCustomNames(t *testing.T) {
	scene := newRigTestScene(t, model.NewLatticeData(2, 1, 2), mmath.NewMat4())
	options := DefaultRigOptions()
	options.BoneName = "ｃａｇｅ"
	options.DeformPrefix = " DEFX "
	result := runRig(t, scene, options)

	if result.RootBoneName != "DEFX-cage_root" {
		t.Fatalf("root name mismatch: got=%s", result.RootBoneName)
	}
	if diff := cmp.Diff([]string{"parent_cage_0", "parent_cage_2"}, result.GroupParentBoneNames); diff != "" {
		t.Fatalf("group parent names mismatch (-want +got):\n%s", diff)
	}
	if result.DeformBoneNames[3] != "DEFX-cage_3" || result.ControlBoneNames[3] != "cage_3" {
		t.Fatalf("point names mismatch: deform=%s control=%s", result.DeformBoneNames[3], result.ControlBoneNames[3])
	}
}

func TestRigLatticeReportsProgressInOrder(t *testing.T) {
	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 2), mmath.NewMat4())
	reporter := &rigProgressEventCollector{}
	uc := NewLatticeRigUsecase(LatticeRigUsecaseDeps{})
	if _, err := uc.RigLattice(RigRequest{Scene: scene, Widgets: scene, Options: DefaultRigOptions(), ProgressReporter: reporter}); err != nil {
		t.Fatalf("rig failed: %v", err)
	}
	want := []RigProgressEventType{
		RigProgressEventTypeSelectionValidated,
		RigProgressEventTypeReentryResolved,
		RigProgressEventTypeHierarchyBuilt,
		RigProgressEventTypeConstraintsWired,
		RigProgressEventTypeDisplayBound,
		RigProgressEventTypeBonesOrganized,
		RigProgressEventTypeSkinBound,
		RigProgressEventTypeDeformerAttached,
	}
	if diff := cmp.Diff(want, reporter.types()); diff != "" {
		t.Fatalf("progress order mismatch (-want +got):\n%s", diff)
	}
	if reporter.events[2].BoneCount != 1+4+8+8 {
		t.Fatalf("hierarchy bone count mismatch: got=%d", reporter.events[2].BoneCount)
	}
}

func TestRigLatticeLogsSummary(t *testing.T) {
	logger := logging.NewLogger(nil)
	logger.SetLevel(logging.LOG_LEVEL_INFO)
	logger.MessageBuffer().Clear()
	prevLogger := logging.DefaultLogger()
	logging.SetDefaultLogger(logger)
	defer func() {
		logging.SetDefaultLogger(prevLogger)
	}()

	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 2), mmath.NewMat4())
	runRig(t, scene, DefaultRigOptions())

	lines := logger.MessageBuffer().Lines()
	found := false
	for _, line := range lines {
		if strings.Contains(line, "ラティスリグを生成しました") && strings.Contains(line, "points=8") {
			found = true
		}
	}
	if !found {
		t.Fatalf("summary log not found: %v", lines)
	}
}

func TestHierarchyBuilderRequiresEditMode(t *testing.T) {
	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 2), mmath.NewMat4())
	lattice := latticeOf(t, scene)
	grid, err := NewLatticeGrid(lattice)
	if err != nil {
		t.Fatalf("grid failed: %v", err)
	}
	builder := hierarchyBuilder{
		editor:       scene,
		armatureName: "Armature",
		grid:         grid,
		aligner:      newBoneAligner(ALIGN_MODE_WORLD, grid.WorldMatrix(), defaultBaseBoneLength),
		naming:       boneNaming{boneName: "lattice", deformPrefix: "DEF"},
	}
	if _, err := builder.build(); !merrors.IsInvalidStateError(err) {
		t.Fatalf("expected invalid state: %v", err)
	}
}

func TestWithObjectModeRestoresOnError(t *testing.T) {
	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 2), mmath.NewMat4())
	wantErr := errors.New("boom")
	err := withObjectMode(scene, "Lattice", model.OBJECT_MODE_EDIT, func() error {
		if scene.Mode() != model.OBJECT_MODE_EDIT || scene.ActiveObjectName() != "Lattice" {
			t.Fatalf("mode not switched: mode=%s active=%s", scene.Mode(), scene.ActiveObjectName())
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("error mismatch: %v", err)
	}
	if scene.Mode() != model.OBJECT_MODE_OBJECT || scene.ActiveObjectName() != "Armature" {
		t.Fatalf("state not restored: mode=%s active=%s", scene.Mode(), scene.ActiveObjectName())
	}
}

func TestWithObjectModeRestoresPoseMode(t *testing.T) {
	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 2), mmath.NewMat4())
	if err := scene.SetMode(model.OBJECT_MODE_POSE); err != nil {
		t.Fatalf("set mode failed: %v", err)
	}
	if err := withObjectMode(scene, "Lattice", model.OBJECT_MODE_OBJECT, func() error { return nil }); err != nil {
		t.Fatalf("scope failed: %v", err)
	}
	if scene.Mode() != model.OBJECT_MODE_POSE || scene.ActiveObjectName() != "Armature" {
		t.Fatalf("pose state not restored: mode=%s active=%s", scene.Mode(), scene.ActiveObjectName())
	}
}

func TestRigOptionsNormalizedRejectsUnknownAlign(t *testing.T) {
	options := DefaultRigOptions()
	options.Align = "diagonal"
	if _, err := options.normalized(); err == nil {
		t.Fatalf("expected error")
	}
	empty, err := RigOptions{}.normalized()
	if err != nil {
		t.Fatalf("empty options should be filled: %v", err)
	}
	if empty.BoneName != "lattice" || empty.BaseBoneLength != 0.3 || empty.Reentry != REENTRY_POLICY_DUPLICATE {
		t.Fatalf("defaults mismatch: %+v", empty)
	}
}

func TestRigOptionsNormalizedRejectsSharedCollection(t *testing.T) {
	options := DefaultRigOptions()
	options.DeformCollection = "Rig"
	options.LatticeCollection = " Ｒｉｇ "
	if _, err := options.normalized(); err == nil {
		t.Fatalf("expected error for shared collection name")
	}

	scene := newRigTestScene(t, model.NewLatticeData(2, 2, 2), mmath.NewMat4())
	before := armatureOf(t, scene).Bones.Len()
	uc := NewLatticeRigUsecase(LatticeRigUsecaseDeps{})
	if _, err := uc.RigLattice(RigRequest{Scene: scene, Widgets: scene, Options: options}); err == nil {
		t.Fatalf("expected rig error")
	}
	if after := armatureOf(t, scene).Bones.Len(); after != before {
		t.Fatalf("rejected options should not mutate: before=%d after=%d", before, after)
	}
}

func hasWarning(result *RigResult, id string) bool {
	for _, warning := range result.Warnings {
		if warning.ID == id {
			return true
		}
	}
	return false
}

func itoa(value int) string {
	digits := "0123456789"
	if value < 10 {
		return digits[value : value+1]
	}
	return itoa(value/10) + digits[value%10:value%10+1]
}

type rigProgressEventCollector struct {
	events []RigProgressEvent
}

func (c *rigProgressEventCollector) ReportRigProgress(event RigProgressEvent) {
	c.events = append(c.events, event)
}

func (c *rigProgressEventCollector) types() []RigProgressEventType {
	types := make([]RigProgressEventType, 0, len(c.events))
	for _, event := range c.events {
		types = append(types, event.Type)
	}
	return types
}
