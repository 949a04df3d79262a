// 指示: miu200521358
// Package report はリグ生成結果を端末向けに整形する。
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/miu200521358/mu_lattice_rig/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/minteractor"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0")).Width(16)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	frameStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4CAF50")).Padding(0, 1)
)

// RenderRigResult はリグ生成結果を枠付きの表へ整形する。
func RenderRigResult(result *minteractor.RigResult) string {
	if result == nil {
		return ""
	}
	rows := []string{
		titleStyle.Render(messages.ReportTitle),
		row(messages.ReportArmature, result.ArmatureName),
		row(messages.ReportLattice, result.LatticeName),
		row(messages.ReportPoints, fmt.Sprintf("%d", result.PointCount)),
		row(messages.ReportGroups, fmt.Sprintf("%d", result.GroupCount)),
		row(messages.ReportBones, fmt.Sprintf("%d (root=%s)", result.BoneCount(), result.RootBoneName)),
		row(messages.ReportConstraints, fmt.Sprintf("%d", result.ConstraintCount)),
		row(messages.ReportVertexGroups, fmt.Sprintf("%d", len(result.VertexGroupNames))),
		row(messages.ReportCollections, joinOrNone(result.CreatedCollections)),
		row(messages.ReportWidgets, fmt.Sprintf(messages.ReportWidgetAssigned,
			result.Display.AssignedCount(), len(result.Display.Skipped()))),
		row(messages.ReportReparented, joinOrNone(result.ReparentedObjects)),
	}
	for _, skipped := range result.Display.Skipped() {
		rows = append(rows, skippedStyle.Render(fmt.Sprintf("  - %s: %s", skipped.BoneName, skipped.WidgetName)))
	}
	rows = append(rows, renderWarnings(result.Warnings)...)
	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func row(label string, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

// renderWarnings は警告IDごとに件数をまとめた行を返す。
func renderWarnings(warnings []minteractor.RigWarning) []string {
	if len(warnings) == 0 {
		return []string{row(messages.ReportWarnings, messages.ReportNone)}
	}
	counts := map[string]int{}
	order := make([]string, 0)
	firstMessages := map[string]string{}
	for _, warning := range warnings {
		if _, exists := counts[warning.ID]; !exists {
			order = append(order, warning.ID)
			firstMessages[warning.ID] = warning.Message
		}
		counts[warning.ID]++
	}
	rows := []string{row(messages.ReportWarnings, fmt.Sprintf("%d", len(warnings)))}
	for _, id := range order {
		line := fmt.Sprintf("  ! %s x%d: %s", id, counts[id], firstMessages[id])
		rows = append(rows, warningStyle.Render(line))
	}
	return rows
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return messages.ReportNone
	}
	return strings.Join(values, ", ")
}
