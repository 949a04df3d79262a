// 指示: miu200521358
package yaml

import (
	"fmt"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model/merrors"
)

// documentToScene はYAML文書をシーンへ変換する。
func documentToScene(document *sceneDocument) (*model.SceneData, error) {
	data := &model.SceneData{
		Objects:          make([]*model.SceneObject, 0, len(document.Objects)),
		Selected:         append([]string{}, document.Selected...),
		Active:           document.Active,
		Mode:             model.OBJECT_MODE_OBJECT,
		WidgetCollection: document.WidgetCollection,
	}
	if document.Mode != "" {
		mode := model.ObjectMode(document.Mode)
		switch mode {
		case model.OBJECT_MODE_OBJECT, model.OBJECT_MODE_EDIT, model.OBJECT_MODE_POSE:
			data.Mode = mode
		default:
			return nil, parseError("モードが不正です: %s", document.Mode)
		}
	}

	objects := make(map[string]*model.SceneObject, len(document.Objects))
	for i := range document.Objects {
		object, err := documentToObject(&document.Objects[i])
		if err != nil {
			return nil, err
		}
		if _, exists := objects[object.Name]; exists {
			return nil, parseError("オブジェクト名が重複しています: %s", object.Name)
		}
		objects[object.Name] = object
		data.Objects = append(data.Objects, object)
	}

	// 拘束は他アーマチュアのボーンを参照できるため全オブジェクト生成後に解決する。
	for i := range document.Objects {
		objectDoc := &document.Objects[i]
		if objectDoc.Armature == nil {
			continue
		}
		owner := objects[objectDoc.Name]
		for _, constraintDoc := range objectDoc.Armature.Constraints {
			constraint, err := documentToConstraint(owner, objects, constraintDoc)
			if err != nil {
				return nil, err
			}
			owner.Armature.Constraints = append(owner.Armature.Constraints, constraint)
		}
	}

	for _, widgetDoc := range document.Widgets {
		widget := &model.Widget{Name: widgetDoc.Name, Edges: append([][2]int{}, widgetDoc.Edges...)}
		for _, vertex := range widgetDoc.Vertices {
			widget.Vertices = append(widget.Vertices, arrayToVec3(vertex))
		}
		for _, edge := range widget.Edges {
			if edge[0] < 0 || edge[0] >= len(widget.Vertices) || edge[1] < 0 || edge[1] >= len(widget.Vertices) {
				return nil, parseError("ウィジェットの辺が頂点範囲外です: widget=%s edge=%v", widget.Name, edge)
			}
		}
		data.Widgets = append(data.Widgets, widget)
	}
	return data, nil
}

// documentToObject はオブジェクト文書を変換する。
func documentToObject(document *objectDocument) (*model.SceneObject, error) {
	if document.Name == "" {
		return nil, parseError("オブジェクト名が未設定です")
	}
	object := &model.SceneObject{
		Name:         document.Name,
		Type:         model.ObjectType(document.Type),
		ParentName:   document.Parent,
		MatrixWorld:  mmath.NewMat4(),
		Modifiers:    make([]*model.Modifier, 0, len(document.Modifiers)),
		VertexGroups: make([]*model.VertexGroup, 0, len(document.VertexGroups)),
	}
	switch object.Type {
	case model.OBJECT_TYPE_LATTICE, model.OBJECT_TYPE_ARMATURE, model.OBJECT_TYPE_MESH:
	default:
		return nil, parseError("オブジェクト種別が不正です: name=%s type=%s", document.Name, document.Type)
	}
	if document.MatrixWorld != nil {
		object.MatrixWorld = mmath.NewMat4FromRowMajor(*document.MatrixWorld)
	}

	for _, modifierDoc := range document.Modifiers {
		modifierType := model.ModifierType(modifierDoc.Type)
		if modifierType != model.MODIFIER_ARMATURE && modifierType != model.MODIFIER_LATTICE {
			return nil, parseError("モディファイア種別が不正です: object=%s type=%s", document.Name, modifierDoc.Type)
		}
		object.Modifiers = append(object.Modifiers, &model.Modifier{
			Name:   modifierDoc.Name,
			Type:   modifierType,
			Object: modifierDoc.Object,
		})
	}
	for _, groupDoc := range document.VertexGroups {
		group := &model.VertexGroup{Name: groupDoc.Name, Weights: make([]model.VertexWeight, 0, len(groupDoc.Weights))}
		for _, weightDoc := range groupDoc.Weights {
			group.Weights = append(group.Weights, model.VertexWeight{Index: weightDoc.Index, Weight: weightDoc.Weight})
		}
		object.VertexGroups = append(object.VertexGroups, group)
	}

	switch object.Type {
	case model.OBJECT_TYPE_LATTICE:
		lattice, err := documentToLattice(document.Name, document.Lattice)
		if err != nil {
			return nil, err
		}
		object.Lattice = lattice
	case model.OBJECT_TYPE_ARMATURE:
		armature, err := documentToArmature(document.Name, document.Armature)
		if err != nil {
			return nil, err
		}
		object.Armature = armature
	}
	return object, nil
}

// documentToLattice はラティス文書を変換する。制御点省略時は均等配置で補う。
func documentToLattice(objectName string, document *latticeDocument) (*model.LatticeData, error) {
	if document == nil {
		return nil, parseError("ラティス定義がありません: %s", objectName)
	}
	if document.PointsU <= 0 || document.PointsV <= 0 || document.PointsW <= 0 {
		return nil, parseError("ラティス解像度が不正です: name=%s u=%d v=%d w=%d",
			objectName, document.PointsU, document.PointsV, document.PointsW)
	}
	if len(document.Points) == 0 {
		return model.NewLatticeData(document.PointsU, document.PointsV, document.PointsW), nil
	}
	expected := document.PointsU * document.PointsV * document.PointsW
	if len(document.Points) != expected {
		return nil, parseError("ラティス制御点数が解像度と一致しません: name=%s points=%d expected=%d",
			objectName, len(document.Points), expected)
	}
	lattice := &model.LatticeData{
		PointsU: document.PointsU,
		PointsV: document.PointsV,
		PointsW: document.PointsW,
		Points:  make([]mmath.Vec3, 0, len(document.Points)),
	}
	for _, point := range document.Points {
		lattice.Points = append(lattice.Points, arrayToVec3(point))
	}
	return lattice, nil
}

// documentToArmature はアーマチュア文書を変換する。拘束は別途解決する。
func documentToArmature(objectName string, document *armatureDocument) (*model.ArmatureData, error) {
	armature := model.NewArmatureData()
	if document == nil {
		return armature, nil
	}
	for _, boneDoc := range document.Bones {
		bone := model.NewBoneByName(boneDoc.Name)
		bone.Head = arrayToVec3(boneDoc.Head)
		bone.Tail = arrayToVec3(boneDoc.Tail)
		bone.Roll = boneDoc.Roll
		bone.UseDeform = boneDoc.UseDeform
		bone.Role = model.BoneRole(boneDoc.Role)
		bone.WidgetName = boneDoc.Widget
		bone.RunSignature = boneDoc.RunSignature
		if boneDoc.WidgetScale != nil {
			bone.WidgetScale = arrayToVec3(*boneDoc.WidgetScale)
		}
		if boneDoc.WidgetRotation != nil {
			rotation := arrayToVec3(*boneDoc.WidgetRotation)
			bone.WidgetRotation = &rotation
		}
		if boneDoc.UseBoneSize != nil {
			bone.UseBoneSize = *boneDoc.UseBoneSize
		}
		if _, err := armature.Bones.Append(bone); err != nil {
			return nil, merrors.NewSceneParseError(fmt.Sprintf("ボーンの追加に失敗しました: armature=%s", objectName), err)
		}
	}
	for i, boneDoc := range document.Bones {
		if boneDoc.Parent == "" {
			continue
		}
		parent, err := armature.Bones.GetByName(boneDoc.Parent)
		if err != nil {
			return nil, merrors.NewSceneParseError(
				fmt.Sprintf("親ボーンが見つかりません: armature=%s bone=%s parent=%s", objectName, boneDoc.Name, boneDoc.Parent), err)
		}
		armature.Bones.Items[i].ParentIndex = parent.Index()
	}

	for _, collectionDoc := range document.Collections {
		collection := &model.BoneCollection{
			Name:      collectionDoc.Name,
			IsVisible: collectionDoc.Visible,
			BoneNames: append([]string{}, collectionDoc.Bones...),
		}
		for _, name := range collection.BoneNames {
			if !armature.Bones.ContainsByName(name) {
				return nil, parseError("コレクション所属ボーンが見つかりません: collection=%s bone=%s", collection.Name, name)
			}
		}
		armature.Collections = append(armature.Collections, collection)
	}
	if err := armature.Validate(); err != nil {
		return nil, merrors.NewSceneParseError(fmt.Sprintf("アーマチュア定義が不正です: %s", objectName), err)
	}
	return armature, nil
}

// documentToConstraint は拘束文書をindex参照へ解決する。
func documentToConstraint(
	owner *model.SceneObject,
	objects map[string]*model.SceneObject,
	document constraintDocument,
) (*model.Constraint, error) {
	kind := model.ConstraintKind(document.Kind)
	if kind != model.CONSTRAINT_COPY_TRANSFORMS && kind != model.CONSTRAINT_COPY_SCALE {
		return nil, parseError("拘束種別が不正です: armature=%s kind=%s", owner.Name, document.Kind)
	}
	ownerBone, err := owner.Armature.Bones.GetByName(document.Owner)
	if err != nil {
		return nil, merrors.NewSceneParseError(fmt.Sprintf("拘束の所有ボーンが見つかりません: %s", document.Owner), err)
	}
	targetObjectName := document.TargetObject
	if targetObjectName == "" {
		targetObjectName = owner.Name
	}
	targetObject, exists := objects[targetObjectName]
	if !exists || targetObject.Armature == nil {
		return nil, parseError("拘束の対象アーマチュアが見つかりません: %s", targetObjectName)
	}
	constraint := &model.Constraint{
		Kind:         kind,
		OwnerIndex:   ownerBone.Index(),
		TargetObject: targetObjectName,
		TargetIndex:  -1,
	}
	if document.Target == "" {
		return constraint, nil
	}
	targetBone, err := targetObject.Armature.Bones.GetByName(document.Target)
	if err != nil {
		return nil, merrors.NewSceneParseError(fmt.Sprintf("拘束の対象ボーンが見つかりません: %s", document.Target), err)
	}
	constraint.TargetIndex = targetBone.Index()
	return constraint, nil
}

// sceneToDocument はシーンをYAML文書へ変換する。
func sceneToDocument(data *model.SceneData) (*sceneDocument, error) {
	document := &sceneDocument{
		Version:          sceneDocumentVersion,
		Active:           data.Active,
		Mode:             string(data.Mode),
		Selected:         append([]string{}, data.Selected...),
		WidgetCollection: data.WidgetCollection,
		Objects:          make([]objectDocument, 0, len(data.Objects)),
	}
	objects := make(map[string]*model.SceneObject, len(data.Objects))
	for _, object := range data.Objects {
		objects[object.Name] = object
	}

	for _, object := range data.Objects {
		matrix := object.MatrixWorld.RowMajor()
		objectDoc := objectDocument{
			Name:        object.Name,
			Type:        string(object.Type),
			Parent:      object.ParentName,
			MatrixWorld: &matrix,
		}
		for _, modifier := range object.Modifiers {
			objectDoc.Modifiers = append(objectDoc.Modifiers, modifierDocument{
				Name:   modifier.Name,
				Type:   string(modifier.Type),
				Object: modifier.Object,
			})
		}
		for _, group := range object.VertexGroups {
			groupDoc := vertexGroupDocument{Name: group.Name}
			for _, weight := range group.Weights {
				groupDoc.Weights = append(groupDoc.Weights, vertexWeightDocument{Index: weight.Index, Weight: weight.Weight})
			}
			objectDoc.VertexGroups = append(objectDoc.VertexGroups, groupDoc)
		}
		if object.Lattice != nil {
			latticeDoc := &latticeDocument{
				PointsU: object.Lattice.PointsU,
				PointsV: object.Lattice.PointsV,
				PointsW: object.Lattice.PointsW,
			}
			for _, point := range object.Lattice.Points {
				latticeDoc.Points = append(latticeDoc.Points, vec3ToArray(point))
			}
			objectDoc.Lattice = latticeDoc
		}
		if object.Armature != nil {
			armatureDoc, err := armatureToDocument(object.Name, object.Armature, objects)
			if err != nil {
				return nil, err
			}
			objectDoc.Armature = armatureDoc
		}
		document.Objects = append(document.Objects, objectDoc)
	}

	for _, widget := range data.Widgets {
		widgetDoc := widgetDocument{Name: widget.Name, Edges: append([][2]int{}, widget.Edges...)}
		for _, vertex := range widget.Vertices {
			widgetDoc.Vertices = append(widgetDoc.Vertices, vec3ToArray(vertex))
		}
		document.Widgets = append(document.Widgets, widgetDoc)
	}
	return document, nil
}

// armatureToDocument はアーマチュアを文書へ変換する。index参照は名前へ置き換える。
func armatureToDocument(
	objectName string,
	armature *model.ArmatureData,
	objects map[string]*model.SceneObject,
) (*armatureDocument, error) {
	document := &armatureDocument{}
	for _, bone := range armature.Bones.Values() {
		boneDoc := boneDocument{
			Name:         bone.Name,
			Head:         vec3ToArray(bone.Head),
			Tail:         vec3ToArray(bone.Tail),
			Roll:         bone.Roll,
			UseDeform:    bone.UseDeform,
			Role:         string(bone.Role),
			Widget:       bone.WidgetName,
			RunSignature: bone.RunSignature,
		}
		if bone.ParentIndex >= 0 {
			parent, err := armature.Bones.Get(bone.ParentIndex)
			if err != nil {
				return nil, fmt.Errorf("親ボーンが見つかりません: armature=%s bone=%s: %w", objectName, bone.Name, err)
			}
			boneDoc.Parent = parent.Name
		}
		if bone.WidgetName != "" {
			scale := vec3ToArray(bone.WidgetScale)
			boneDoc.WidgetScale = &scale
			useBoneSize := bone.UseBoneSize
			boneDoc.UseBoneSize = &useBoneSize
		}
		if bone.WidgetRotation != nil {
			rotation := vec3ToArray(*bone.WidgetRotation)
			boneDoc.WidgetRotation = &rotation
		}
		document.Bones = append(document.Bones, boneDoc)
	}

	for _, constraint := range armature.Constraints {
		owner, err := armature.Bones.Get(constraint.OwnerIndex)
		if err != nil {
			return nil, fmt.Errorf("拘束の所有ボーンが見つかりません: armature=%s: %w", objectName, err)
		}
		targetObjectName := constraint.TargetObject
		if targetObjectName == "" {
			targetObjectName = objectName
		}
		targetObject, exists := objects[targetObjectName]
		if !exists || targetObject.Armature == nil {
			return nil, fmt.Errorf("拘束の対象アーマチュアが見つかりません: %s", targetObjectName)
		}
		constraintDoc := constraintDocument{Kind: string(constraint.Kind), Owner: owner.Name}
		// 対象ボーンが削除された拘束は対象名を空で残す。
		if constraint.TargetIndex >= 0 {
			target, err := targetObject.Armature.Bones.Get(constraint.TargetIndex)
			if err != nil {
				return nil, fmt.Errorf("拘束の対象ボーンが見つかりません: armature=%s: %w", targetObjectName, err)
			}
			constraintDoc.Target = target.Name
		}
		if targetObjectName != objectName {
			constraintDoc.TargetObject = targetObjectName
		}
		document.Constraints = append(document.Constraints, constraintDoc)
	}

	for _, collection := range armature.Collections {
		document.Collections = append(document.Collections, boneCollectionDocument{
			Name:    collection.Name,
			Visible: collection.IsVisible,
			Bones:   append([]string{}, collection.BoneNames...),
		})
	}
	return document, nil
}

func arrayToVec3(values [3]float64) mmath.Vec3 {
	return mmath.NewVec3(values[0], values[1], values[2])
}

func vec3ToArray(v mmath.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func parseError(format string, params ...any) error {
	return merrors.NewSceneParseError(fmt.Sprintf(format, params...), nil)
}
