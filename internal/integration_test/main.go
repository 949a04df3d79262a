// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	sceneyaml "github.com/miu200521358/mu_lattice_rig/pkg/adapter/io_scene/yaml"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/mmath"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/infra/preview"
	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/minteractor"
)

const (
	batchOutputDirMode = 0o755
)

// latticeCase は1ケース分の生成ラティス条件を表す。
type latticeCase struct {
	PointsU       int
	PointsV       int
	PointsW       int
	Rotation      mmath.Vec3
	Scale         mmath.Vec3
	Align         minteractor.AlignMode
	RootPlacement minteractor.RootPlacement
}

var targetLatticeCases = []latticeCase{
	{PointsU: 2, PointsV: 2, PointsW: 2, Scale: mmath.ONE_VEC3, Align: minteractor.ALIGN_MODE_WORLD, RootPlacement: minteractor.ROOT_PLACEMENT_ORIGIN},
	{PointsU: 3, PointsV: 3, PointsW: 4, Scale: mmath.NewVec3(1, 1, 2), Align: minteractor.ALIGN_MODE_WORLD, RootPlacement: minteractor.ROOT_PLACEMENT_BOTTOM},
	{PointsU: 4, PointsV: 2, PointsW: 3, Rotation: mmath.NewVec3(90, 0, 0), Scale: mmath.ONE_VEC3, Align: minteractor.ALIGN_MODE_LATTICE, RootPlacement: minteractor.ROOT_PLACEMENT_ORIGIN},
	{PointsU: 5, PointsV: 5, PointsW: 5, Rotation: mmath.NewVec3(20, -35, 70), Scale: mmath.NewVec3(2, 1, 3), Align: minteractor.ALIGN_MODE_LATTICE, RootPlacement: minteractor.ROOT_PLACEMENT_BOTTOM},
	// {PointsU: 16, PointsV: 16, PointsW: 16, Scale: mmath.ONE_VEC3, Align: minteractor.ALIGN_MODE_WORLD, RootPlacement: minteractor.ROOT_PLACEMENT_ORIGIN},
}

// batchConfig はバッチ実行設定を表す。
type batchConfig struct {
	OutputRoot string
	DryRun     bool
	FailFast   bool
	Preview    bool
}

// rigEntry は1ケース分の入出力情報を表す。
type rigEntry struct {
	Index      int
	Case       latticeCase
	CaseName   string
	CaseDir    string
	InputPath  string
	OutputPath string
}

// rigResult は1ケース分の実行結果を表す。
type rigResult struct {
	Entry     rigEntry
	Status    string
	Duration  time.Duration
	Err       error
	StageInfo string
}

// rigProgressCollector はリグ生成の進捗イベントを収集する。
type rigProgressCollector struct {
	eventCounts map[minteractor.RigProgressEventType]int
	boneMax     int
	groupMax    int
}

// main は生成ラティスへのリグ一括生成を実行する。
func main() {
	os.Exit(run())
}

// run は実行設定を解決して一括生成を実行し、終了コードを返す。
func run() int {
	config, err := parseBatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	entries := buildRigEntries(config.OutputRoot, targetLatticeCases)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "生成対象ケースがありません")
		return 2
	}

	results := executeBatchRig(config, entries)
	printBatchSummary(results)

	for _, result := range results {
		if result.Status == "failed" {
			return 1
		}
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig() (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	outputRoot := flag.String("output-root", defaultOutputRoot, "生成結果の出力ルートディレクトリ")
	dryRun := flag.Bool("dry-run", false, "保存せず、リグ生成と検証のみ行う")
	failFast := flag.Bool("fail-fast", false, "失敗時に即時終了する")
	withPreview := flag.Bool("preview", true, "プレビューPNGも出力する")
	flag.Parse()

	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root が空です")
	}
	return batchConfig{
		OutputRoot: filepath.Clean(trimmedOutputRoot),
		DryRun:     *dryRun,
		FailFast:   *failFast,
		Preview:    *withPreview,
	}, nil
}

// resolveDefaultOutputRoot はスクリプト配置ディレクトリ基準の既定出力先を返す。
func resolveDefaultOutputRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("実行ファイル位置を取得できません")
	}
	return filepath.Join(filepath.Dir(currentFilePath), "output"), nil
}

// buildRigEntries はケース一覧から入出力エントリを生成する。
func buildRigEntries(outputRoot string, cases []latticeCase) []rigEntry {
	entries := make([]rigEntry, 0, len(cases))
	for i, c := range cases {
		caseName := fmt.Sprintf("%03d_%dx%dx%d_%s_%s", i+1, c.PointsU, c.PointsV, c.PointsW, c.Align, c.RootPlacement)
		caseDir := filepath.Join(outputRoot, caseName)
		entries = append(entries, rigEntry{
			Index:      i + 1,
			Case:       c,
			CaseName:   caseName,
			CaseDir:    caseDir,
			InputPath:  filepath.Join(caseDir, "scene.yaml"),
			OutputPath: filepath.Join(caseDir, "scene_rigged.yaml"),
		})
	}
	return entries
}

// executeBatchRig は全ケースを順次実行する。
func executeBatchRig(config batchConfig, entries []rigEntry) []rigResult {
	results := make([]rigResult, 0, len(entries))
	repository := sceneyaml.NewSceneRepository()
	usecase := minteractor.NewLatticeRigUsecase(minteractor.LatticeRigUsecaseDeps{
		SceneReader: repository,
		SceneWriter: repository,
	})

	total := len(entries)
	for _, entry := range entries {
		fmt.Printf("[%d/%d] 生成開始: case=%s\n", entry.Index, total, entry.CaseName)
		result := rigLatticeEntry(usecase, repository, config, entry)
		results = append(results, result)
		switch result.Status {
		case "succeeded", "dry_run":
			fmt.Printf("[%d/%d] 生成成功: case=%s status=%s elapsed=%s\n", entry.Index, total, entry.CaseName, result.Status, result.Duration.Round(time.Millisecond))
			if strings.TrimSpace(result.StageInfo) != "" {
				fmt.Printf("[%d/%d] 進捗: %s\n", entry.Index, total, result.StageInfo)
			}
		default:
			fmt.Printf("[%d/%d] 生成失敗: case=%s reason=%v\n", entry.Index, total, entry.CaseName, result.Err)
			if config.FailFast {
				return results
			}
		}
	}
	return results
}

// rigLatticeEntry は1ケース分のシーン生成・リグ生成・検証を実行する。
func rigLatticeEntry(
	usecase *minteractor.LatticeRigUsecase,
	repository *sceneyaml.SceneRepository,
	config batchConfig,
	entry rigEntry,
) rigResult {
	result := rigResult{Entry: entry, Status: "failed"}
	if err := os.MkdirAll(entry.CaseDir, batchOutputDirMode); err != nil {
		result.Err = fmt.Errorf("出力ディレクトリ作成に失敗しました: %w", err)
		return result
	}
	if err := repository.Save(entry.InputPath, buildCaseScene(entry.Case)); err != nil {
		result.Err = fmt.Errorf("入力シーン生成に失敗しました: %w", err)
		return result
	}

	options := minteractor.DefaultRigOptions()
	options.Align = entry.Case.Align
	options.RootPlacement = entry.Case.RootPlacement

	startedAt := time.Now()
	progressCollector := newRigProgressCollector()
	rigged, err := usecase.RigSceneFile(minteractor.RigFileRequest{
		InputPath:        entry.InputPath,
		OutputPath:       entry.OutputPath,
		Options:          options,
		DryRun:           config.DryRun,
		ProgressReporter: progressCollector,
	})
	if err != nil {
		result.Err = fmt.Errorf("RigSceneFileに失敗しました: %w", err)
		return result
	}
	if err := verifyRig(entry.Case, rigged.Rig); err != nil {
		result.Err = err
		return result
	}
	if config.Preview {
		previewPath := minteractor.BuildDefaultPreviewPath(entry.InputPath)
		if err := preview.SaveBonePreview(rigged.Scene, preview.Options{}, previewPath); err != nil {
			result.Err = fmt.Errorf("プレビュー出力に失敗しました: %w", err)
			return result
		}
	}

	result.Status = "succeeded"
	if config.DryRun {
		result.Status = "dry_run"
	}
	result.Duration = time.Since(startedAt)
	result.StageInfo = progressCollector.Summary()
	return result
}

// buildCaseScene はケース条件のアーマチュアとラティスを持つシーンを生成する。
func buildCaseScene(c latticeCase) *model.SceneData {
	rotation := mmath.NewQuaternionFromDegrees(c.Rotation.X, c.Rotation.Y, c.Rotation.Z)
	return &model.SceneData{
		Objects: []*model.SceneObject{
			{Name: "Armature", Type: model.OBJECT_TYPE_ARMATURE, MatrixWorld: mmath.NewMat4(), Armature: model.NewArmatureData()},
			{
				Name:        "Lattice",
				Type:        model.OBJECT_TYPE_LATTICE,
				MatrixWorld: mmath.NewMat4FromTRS(mmath.NewVec3(0, 0, 1), rotation, c.Scale),
				Lattice:     model.NewLatticeData(c.PointsU, c.PointsV, c.PointsW),
			},
			{
				Name:        "Body",
				Type:        model.OBJECT_TYPE_MESH,
				MatrixWorld: mmath.NewMat4(),
				Modifiers:   []*model.Modifier{{Name: "Lattice", Type: model.MODIFIER_LATTICE, Object: "Lattice"}},
			},
		},
		Selected: []string{"Armature", "Lattice"},
		Active:   "Armature",
		Mode:     model.OBJECT_MODE_OBJECT,
	}
}

// verifyRig は生成結果の本数がラティス解像度と一致するか検証する。
func verifyRig(c latticeCase, rig *minteractor.RigResult) error {
	points := c.PointsU * c.PointsV * c.PointsW
	groups := (points + c.PointsW - 1) / c.PointsW
	wantBones := 1 + groups + 2*points
	if rig.BoneCount() != wantBones {
		return fmt.Errorf("ボーン数が一致しません: got=%d want=%d", rig.BoneCount(), wantBones)
	}
	if len(rig.VertexGroupNames) != points {
		return fmt.Errorf("頂点グループ数が一致しません: got=%d want=%d", len(rig.VertexGroupNames), points)
	}
	if len(rig.Display.Skipped()) != 0 {
		return fmt.Errorf("表示ウィジェット割当がスキップされました: %d", len(rig.Display.Skipped()))
	}
	return nil
}

// printBatchSummary は実行結果の集計を標準出力へ表示する。
func printBatchSummary(results []rigResult) {
	succeeded := 0
	failed := 0
	dryRun := 0
	for _, result := range results {
		switch result.Status {
		case "succeeded":
			succeeded++
		case "dry_run":
			dryRun++
		default:
			failed++
		}
	}
	fmt.Printf("バッチ生成サマリ: total=%d succeeded=%d failed=%d dry_run=%d\n", len(results), succeeded, failed, dryRun)
}

// newRigProgressCollector はリグ生成進捗収集器を生成する。
func newRigProgressCollector() *rigProgressCollector {
	return &rigProgressCollector{eventCounts: map[minteractor.RigProgressEventType]int{}}
}

// ReportRigProgress はリグ生成の進捗イベントを収集する。
func (collector *rigProgressCollector) ReportRigProgress(event minteractor.RigProgressEvent) {
	if collector == nil {
		return
	}
	collector.eventCounts[event.Type]++
	if event.BoneCount > collector.boneMax {
		collector.boneMax = event.BoneCount
	}
	if event.GroupCount > collector.groupMax {
		collector.groupMax = event.GroupCount
	}
}

// Summary は収集した進捗の要約文字列を返す。
func (collector *rigProgressCollector) Summary() string {
	if collector == nil || len(collector.eventCounts) == 0 {
		return ""
	}
	types := make([]string, 0, len(collector.eventCounts))
	for stageType := range collector.eventCounts {
		types = append(types, string(stageType))
	}
	sort.Strings(types)
	return fmt.Sprintf("events=%d bones=%d groups=%d stages=%s",
		len(collector.eventCounts), collector.boneMax, collector.groupMax, strings.Join(types, ","))
}
