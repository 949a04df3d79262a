// 指示: miu200521358
package minteractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	riggedSuffix      = "_rigged"
	previewSuffix     = "_preview"
	outputDirFileMode = 0o755
)

// BuildDefaultOutputPath は入力シーンパスから既定の保存先パスを生成する。
func BuildDefaultOutputPath(inputPath string) string {
	return buildSiblingPath(inputPath, riggedSuffix, filepath.Ext(inputPath))
}

// BuildDefaultPreviewPath は入力シーンパスから既定のプレビュー画像パスを生成する。
func BuildDefaultPreviewPath(inputPath string) string {
	return buildSiblingPath(inputPath, previewSuffix, ".png")
}

// buildSiblingPath は入力と同じディレクトリに接尾辞付きのパスを生成する。
func buildSiblingPath(inputPath string, suffix string, ext string) string {
	dir := filepath.Dir(inputPath)
	base := strings.TrimSpace(strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)))
	if base == "" || base == "." {
		return ""
	}
	return filepath.Join(dir, base+suffix+ext)
}

// resolveSceneOutputPath は保存先パスを解決し、拡張子を検証する。
func resolveSceneOutputPath(inputPath string, outputPath string) (string, error) {
	resolved := strings.TrimSpace(outputPath)
	if resolved == "" {
		resolved = BuildDefaultOutputPath(inputPath)
	}
	if resolved == "" {
		return "", fmt.Errorf("保存先シーンパスが未指定です")
	}
	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".yaml", ".yml":
	default:
		return "", fmt.Errorf("保存先拡張子が .yaml ではありません: %s", resolved)
	}
	return resolved, nil
}

// createOutputDir は保存先ディレクトリを作成する。
func createOutputDir(outputPath string) error {
	outputDir := filepath.Dir(outputPath)
	if outputDir == "" {
		return fmt.Errorf("保存先ディレクトリの解決に失敗しました")
	}
	if err := os.MkdirAll(outputDir, outputDirFileMode); err != nil {
		return fmt.Errorf("保存先ディレクトリの作成に失敗しました: %w", err)
	}
	return nil
}
