// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_lattice_rig/pkg/adapter/scene/memory"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/port/moutput"
)

// RigFileRequest はシーンファイルへのリグ生成要求を表す。
type RigFileRequest struct {
	InputPath        string
	OutputPath       string
	Options          RigOptions
	Reader           moutput.ISceneReader
	Writer           moutput.ISceneWriter
	SkipWidgetSetup  bool
	DryRun           bool
	ProgressReporter IRigProgressReporter
}

// RigFileResult はシーンファイルへのリグ生成結果を表す。Sceneはリグ生成後のシーンの複製。
type RigFileResult struct {
	Rig        *RigResult
	Scene      *model.SceneData
	OutputPath string
}

// RigSceneFile はシーンファイルを読み込み、リグを生成して保存する。DryRunの場合は保存しない。
func (uc *LatticeRigUsecase) RigSceneFile(request RigFileRequest) (*RigFileResult, error) {
	if strings.TrimSpace(request.InputPath) == "" {
		return nil, fmt.Errorf("入力シーンパスが未指定です")
	}
	outputPath, err := resolveSceneOutputPath(request.InputPath, request.OutputPath)
	if err != nil {
		return nil, err
	}

	data, err := uc.LoadScene(request.Reader, request.InputPath)
	if err != nil {
		return nil, err
	}
	scene, err := memory.NewScene(data)
	if err != nil {
		return nil, fmt.Errorf("シーンの構築に失敗しました: %w", err)
	}
	if !request.SkipWidgetSetup {
		if scene.SetupWidgets() {
			logRigDebug("既定ウィジェットを登録しました: %s", model.WIDGET_COLLECTION)
		}
	}

	rigResult, err := uc.RigLattice(RigRequest{
		Scene:            scene,
		Widgets:          scene,
		Options:          request.Options,
		ProgressReporter: request.ProgressReporter,
	})
	if err != nil {
		return &RigFileResult{Rig: rigResult, Scene: scene.Data(), OutputPath: outputPath}, err
	}

	snapshot, err := scene.Snapshot()
	if err != nil {
		return nil, err
	}
	result := &RigFileResult{Rig: rigResult, Scene: snapshot, OutputPath: outputPath}
	if request.DryRun {
		return result, nil
	}
	if err := createOutputDir(outputPath); err != nil {
		return result, err
	}
	if err := uc.SaveScene(request.Writer, outputPath, result.Scene); err != nil {
		return result, err
	}
	return result, nil
}
