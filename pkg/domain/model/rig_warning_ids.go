// 指示: miu200521358
package model

const (
	// RigWarningWidgetMissing はウィジェット未検出で表示割当をスキップした警告。
	RigWarningWidgetMissing = "RigWarningWidgetMissing"
	// RigWarningBoneMissing は表示割当対象ボーン未検出の警告。
	RigWarningBoneMissing = "RigWarningBoneMissing"
	// RigWarningTruncatedGroup は最終グループが縦解像度に満たない警告。
	RigWarningTruncatedGroup = "RigWarningTruncatedGroup"
	// RigWarningBoneRenamed は名前衝突でホストが自動改名した警告。
	RigWarningBoneRenamed = "RigWarningBoneRenamed"
	// RigWarningExtraLatticeIgnored は2つ目以降の選択ラティスを無視した警告。
	RigWarningExtraLatticeIgnored = "RigWarningExtraLatticeIgnored"
	// RigWarningPreviousRigRemoved は再生成ポリシーで既存リグを削除した警告。
	RigWarningPreviousRigRemoved = "RigWarningPreviousRigRemoved"
)

// 既定ウィジェット名。
const (
	WIDGET_COLLECTION = "LAT_WGT"
	WIDGET_SPHERE     = "LAT_WGT_sphere"
	WIDGET_CIRCLE     = "LAT_WGT_circle"
	WIDGET_SQUARE     = "LAT_WGT_square"
	WIDGET_CUBE       = "LAT_WGT_cube"
)

// 既定ボーンコレクション名。
const (
	COLLECTION_DEFORM   = "Deform Bones"
	COLLECTION_ORIGINAL = "Original Bones"
	COLLECTION_LATTICE  = "Lattice Bones"
)

// DefaultBoneCollectionNames は常に用意するボーンコレクション名一覧を返す。
func DefaultBoneCollectionNames() []string {
	return []string{COLLECTION_DEFORM, COLLECTION_ORIGINAL, COLLECTION_LATTICE}
}
