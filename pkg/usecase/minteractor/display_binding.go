// 指示: miu200521358
package minteractor

import (
	"errors"
	"fmt"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/port/moutput"
)

// DisplayBinding はボーン1本分の表示ウィジェット割当結果を表す。
type DisplayBinding struct {
	BoneName   string
	Role       model.BoneRole
	WidgetName string
	Scale      mmath.Vec3
	Assigned   bool
	WarningID  string
	Reason     string
}

// DisplayBindingReport は表示ウィジェット割当結果の一覧を表す。
type DisplayBindingReport struct {
	Bindings []DisplayBinding
}

// AssignedCount は割当できたボーン数を返す。
func (r DisplayBindingReport) AssignedCount() int {
	count := 0
	for _, binding := range r.Bindings {
		if binding.Assigned {
			count++
		}
	}
	return count
}

// Skipped は割当できなかった結果を返す。
func (r DisplayBindingReport) Skipped() []DisplayBinding {
	skipped := make([]DisplayBinding, 0)
	for _, binding := range r.Bindings {
		if !binding.Assigned {
			skipped = append(skipped, binding)
		}
	}
	return skipped
}

// displayTarget は割当対象ボーンとウィジェット指定を表す。
type displayTarget struct {
	bone       *model.Bone
	widgetName string
	scale      mmath.Vec3
}

// bindDisplay は階層ごとに表示ウィジェットを割り当てる。
// ウィジェットや対象ボーンが見つからない場合はスキップして結果に残す。モード不整合はエラーを返す。
func bindDisplay(
	editor moutput.IPoseEditor,
	widgets moutput.IWidgetLibrary,
	armatureName string,
	skeleton *rigSkeleton,
	latticeMatrix mmath.Mat4,
) (DisplayBindingReport, error) {
	latticeScale := latticeMatrix.Scaled()
	squareScale := mmath.NewVec3(latticeScale.X, latticeScale.Y, 1)

	targets := make([]displayTarget, 0, 1+len(skeleton.GroupParents)+len(skeleton.Controls))
	for _, bone := range skeleton.Controls {
		targets = append(targets, displayTarget{bone: bone, widgetName: model.WIDGET_SPHERE, scale: mmath.ONE_VEC3})
	}
	for _, bone := range skeleton.GroupParents {
		targets = append(targets, displayTarget{bone: bone, widgetName: model.WIDGET_SQUARE, scale: squareScale})
	}
	targets = append(targets, displayTarget{bone: skeleton.Root, widgetName: model.WIDGET_CUBE, scale: mmath.ONE_VEC3})

	report := DisplayBindingReport{Bindings: make([]DisplayBinding, 0, len(targets))}
	for _, target := range targets {
		binding := DisplayBinding{
			BoneName:   target.bone.Name,
			Role:       target.bone.Role,
			WidgetName: target.widgetName,
			Scale:      target.scale,
		}
		var widget *model.Widget
		found := false
		if widgets != nil {
			widget, found = widgets.LookupWidget(target.widgetName)
		}
		if !found {
			binding.WarningID = model.RigWarningWidgetMissing
			binding.Reason = fmt.Sprintf("ウィジェットが見つかりません: %s", target.widgetName)
			logRigWarn("表示ウィジェット割当をスキップしました: bone=%s widget=%s", target.bone.Name, target.widgetName)
			report.Bindings = append(report.Bindings, binding)
			continue
		}
		if err := editor.AssignWidget(armatureName, target.bone.Name, widget, target.scale, nil); err != nil {
			if !errors.Is(err, merrors.ErrNotFound) {
				return report, fmt.Errorf("表示ウィジェットの割当に失敗しました: %s: %w", target.bone.Name, err)
			}
			binding.WarningID = model.RigWarningBoneMissing
			binding.Reason = err.Error()
			logRigWarn("表示ウィジェット割当対象のボーンが見つかりません: bone=%s", target.bone.Name)
			report.Bindings = append(report.Bindings, binding)
			continue
		}
		binding.Assigned = true
		report.Bindings = append(report.Bindings, binding)
	}
	return report, nil
}
