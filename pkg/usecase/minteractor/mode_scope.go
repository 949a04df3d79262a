// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/port/moutput"
)

// withObjectMode は指定オブジェクトをアクティブにして指定モードで処理を実行し、元の状態へ戻す。
// 既に一致している場合は切り替えない。
func withObjectMode(scene moutput.IModeController, objectName string, mode model.ObjectMode, fn func() error) (err error) {
	prevActive := scene.ActiveObjectName()
	prevMode := scene.Mode()
	if prevActive == objectName && prevMode == mode {
		return fn()
	}

	if err := switchObjectMode(scene, objectName, mode); err != nil {
		return fmt.Errorf("モード切替に失敗しました: object=%s mode=%s: %w", objectName, mode, err)
	}
	defer func() {
		if restoreErr := switchObjectMode(scene, prevActive, prevMode); restoreErr != nil && err == nil {
			err = fmt.Errorf("モード復元に失敗しました: object=%s mode=%s: %w", prevActive, prevMode, restoreErr)
		}
	}()
	return fn()
}

// switchObjectMode は一度OBJECTモードへ戻してからアクティブとモードを切り替える。
func switchObjectMode(scene moutput.IModeController, objectName string, mode model.ObjectMode) error {
	if scene.Mode() != model.OBJECT_MODE_OBJECT {
		if err := scene.SetMode(model.OBJECT_MODE_OBJECT); err != nil {
			return err
		}
	}
	if scene.ActiveObjectName() != objectName {
		if err := scene.SetActive(objectName); err != nil {
			return err
		}
	}
	if mode == model.OBJECT_MODE_OBJECT {
		return nil
	}
	return scene.SetMode(mode)
}
