// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/port/moutput"
)

// AlignMode はボーンの向きの決め方を表す。
type AlignMode string

const (
	// ALIGN_MODE_WORLD はワールド軸に揃える。
	ALIGN_MODE_WORLD AlignMode = "world"
	// ALIGN_MODE_LATTICE はラティスの向きに揃える。
	ALIGN_MODE_LATTICE AlignMode = "lattice"
)

// RootPlacement はルートボーンの配置方法を表す。
type RootPlacement string

const (
	// ROOT_PLACEMENT_ORIGIN はラティス原点に置く。
	ROOT_PLACEMENT_ORIGIN RootPlacement = "origin"
	// ROOT_PLACEMENT_BOTTOM はラティス底面(ローカル-Z方向へZスケールの半分)に置く。
	ROOT_PLACEMENT_BOTTOM RootPlacement = "bottom"
)

// ReentryPolicy は同じ組み合わせで再実行した場合の扱いを表す。
type ReentryPolicy string

const (
	// REENTRY_POLICY_DUPLICATE は自動改名で2つ目のリグを作る。
	REENTRY_POLICY_DUPLICATE ReentryPolicy = "duplicate"
	// REENTRY_POLICY_REJECT は既存リグがあればエラーにする。
	REENTRY_POLICY_REJECT ReentryPolicy = "reject"
	// REENTRY_POLICY_REGENERATE は同一署名の既存リグを削除してから作り直す。
	REENTRY_POLICY_REGENERATE ReentryPolicy = "regenerate"
)

const (
	defaultBoneName          = "lattice"
	defaultDeformPrefix      = "DEF"
	defaultDeformCollection  = "Deform Bones"
	defaultLatticeCollection = "Lattice"
	defaultBaseBoneLength    = 0.3
)

// RigOptions はリグ生成の実行パラメータを表す。
type RigOptions struct {
	Align              AlignMode
	RootPlacement      RootPlacement
	BoneName           string
	DeformPrefix       string
	DeformCollection   string
	LatticeCollection  string
	PropagateRootScale bool
	BaseBoneLength     float64
	Reentry            ReentryPolicy
}

// DefaultRigOptions は既定のリグ生成パラメータを返す。
func DefaultRigOptions() RigOptions {
	return RigOptions{
		Align:              ALIGN_MODE_WORLD,
		RootPlacement:      ROOT_PLACEMENT_ORIGIN,
		BoneName:           defaultBoneName,
		DeformPrefix:       defaultDeformPrefix,
		DeformCollection:   defaultDeformCollection,
		LatticeCollection:  defaultLatticeCollection,
		PropagateRootScale: true,
		BaseBoneLength:     defaultBaseBoneLength,
		Reentry:            REENTRY_POLICY_DUPLICATE,
	}
}

// normalized は未指定項目を既定値で補い、名前を正規化して検証する。
func (o RigOptions) normalized() (RigOptions, error) {
	defaults := DefaultRigOptions()
	resolved := o
	if resolved.Align == "" {
		resolved.Align = defaults.Align
	}
	if resolved.RootPlacement == "" {
		resolved.RootPlacement = defaults.RootPlacement
	}
	if resolved.Reentry == "" {
		resolved.Reentry = defaults.Reentry
	}
	if resolved.BaseBoneLength == 0 {
		resolved.BaseBoneLength = defaults.BaseBoneLength
	}
	resolved.BoneName = normalizeRigName(resolved.BoneName, defaults.BoneName)
	resolved.DeformPrefix = normalizeRigName(resolved.DeformPrefix, defaults.DeformPrefix)
	resolved.DeformCollection = normalizeRigName(resolved.DeformCollection, defaults.DeformCollection)
	resolved.LatticeCollection = normalizeRigName(resolved.LatticeCollection, defaults.LatticeCollection)

	switch resolved.Align {
	case ALIGN_MODE_WORLD, ALIGN_MODE_LATTICE:
	default:
		return resolved, fmt.Errorf("ボーン整列方法が不正です: %s", resolved.Align)
	}
	switch resolved.RootPlacement {
	case ROOT_PLACEMENT_ORIGIN, ROOT_PLACEMENT_BOTTOM:
	default:
		return resolved, fmt.Errorf("ルート配置方法が不正です: %s", resolved.RootPlacement)
	}
	switch resolved.Reentry {
	case REENTRY_POLICY_DUPLICATE, REENTRY_POLICY_REJECT, REENTRY_POLICY_REGENERATE:
	default:
		return resolved, fmt.Errorf("再実行ポリシーが不正です: %s", resolved.Reentry)
	}
	if resolved.DeformCollection == resolved.LatticeCollection {
		return resolved, fmt.Errorf("変形ボーンとラティスボーンのコレクション名は別にする必要があります: %s", resolved.DeformCollection)
	}
	if resolved.BaseBoneLength < 0 {
		return resolved, fmt.Errorf("基準ボーン長は正の値が必要です: %v", resolved.BaseBoneLength)
	}
	return resolved, nil
}

// normalizeRigName は全角英数を半角へ寄せてNFC正規化する。空の場合は既定値。
func normalizeRigName(name string, fallback string) string {
	normalized := norm.NFC.String(width.Fold.String(strings.TrimSpace(name)))
	if normalized == "" {
		return fallback
	}
	return normalized
}

// RigProgressEventType はリグ生成の進捗イベント種別を表す。
type RigProgressEventType string

const (
	// RigProgressEventTypeSelectionValidated は選択検証完了イベントを表す。
	RigProgressEventTypeSelectionValidated RigProgressEventType = "selection_validated"
	// RigProgressEventTypeReentryResolved は再実行ポリシー適用完了イベントを表す。
	RigProgressEventTypeReentryResolved RigProgressEventType = "reentry_resolved"
	// RigProgressEventTypeHierarchyBuilt はボーン階層生成完了イベントを表す。
	RigProgressEventTypeHierarchyBuilt RigProgressEventType = "hierarchy_built"
	// RigProgressEventTypeConstraintsWired は拘束設定完了イベントを表す。
	RigProgressEventTypeConstraintsWired RigProgressEventType = "constraints_wired"
	// RigProgressEventTypeDisplayBound は表示ウィジェット割当完了イベントを表す。
	RigProgressEventTypeDisplayBound RigProgressEventType = "display_bound"
	// RigProgressEventTypeBonesOrganized はボーンコレクション整理完了イベントを表す。
	RigProgressEventTypeBonesOrganized RigProgressEventType = "bones_organized"
	// RigProgressEventTypeSkinBound は頂点グループ割当完了イベントを表す。
	RigProgressEventTypeSkinBound RigProgressEventType = "skin_bound"
	// RigProgressEventTypeDeformerAttached は変形器接続完了イベントを表す。
	RigProgressEventTypeDeformerAttached RigProgressEventType = "deformer_attached"
)

// RigProgressEvent はリグ生成の進捗イベントを表す。
type RigProgressEvent struct {
	Type       RigProgressEventType
	PointCount int
	GroupCount int
	BoneCount  int
}

// IRigProgressReporter はリグ生成の進捗通知契約を表す。
type IRigProgressReporter interface {
	// ReportRigProgress はリグ生成進捗を通知する。
	ReportRigProgress(event RigProgressEvent)
}

// RigRequest はリグ生成要求を表す。
type RigRequest struct {
	Scene            moutput.ISceneGraph
	Widgets          moutput.IWidgetLibrary
	Options          RigOptions
	ProgressReporter IRigProgressReporter
}

// RigWarning はリグ生成中の警告を表す。
type RigWarning struct {
	ID      string
	Message string
}

// RigResult はリグ生成結果を表す。
type RigResult struct {
	ArmatureName         string
	LatticeName          string
	RunSignature         string
	Options              RigOptions
	PointCount           int
	GroupCount           int
	RootBoneName         string
	GroupParentBoneNames []string
	ControlBoneNames     []string
	DeformBoneNames      []string
	ConstraintCount      int
	VertexGroupNames     []string
	CreatedCollections   []string
	ReparentedObjects    []string
	IgnoredLattices      []string
	Display              DisplayBindingReport
	Warnings             []RigWarning
}

// BoneCount は生成したボーン総数を返す。
func (r *RigResult) BoneCount() int {
	if r == nil {
		return 0
	}
	count := len(r.GroupParentBoneNames) + len(r.ControlBoneNames) + len(r.DeformBoneNames)
	if r.RootBoneName != "" {
		count++
	}
	return count
}

// addWarning は警告を追加し、ログへ出力する。
func (r *RigResult) addWarning(id string, format string, params ...any) {
	message := fmt.Sprintf(format, params...)
	r.Warnings = append(r.Warnings, RigWarning{ID: id, Message: message})
	logRigWarn("%s: %s", id, message)
}

// reportRigProgress はリグ生成の進捗を通知する。
func reportRigProgress(reporter IRigProgressReporter, event RigProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportRigProgress(event)
}
