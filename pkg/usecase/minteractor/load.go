// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/port/moutput"
)

// LoadScene はシーン文書を読み込む。
func (uc *LatticeRigUsecase) LoadScene(rep moutput.ISceneReader, path string) (*model.SceneData, error) {
	repo := rep
	if repo == nil {
		repo = uc.sceneReader
	}
	if repo == nil {
		return nil, fmt.Errorf("シーン読み込みリポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("入力シーンパスが未指定です")
	}
	if !repo.CanLoad(path) {
		return nil, fmt.Errorf("読み込めないシーン形式です: %s", path)
	}
	data, err := repo.Load(path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("シーン読み込み結果が空です")
	}
	return data, nil
}
