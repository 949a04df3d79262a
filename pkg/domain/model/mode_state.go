// 指示: miu200521358
package model

import (
	"fmt"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model/merrors"
)

// ObjectMode はシーンの操作モードを表す。
type ObjectMode string

const (
	// OBJECT_MODE_OBJECT はオブジェクト単位の編集モード。
	OBJECT_MODE_OBJECT ObjectMode = "OBJECT"
	// OBJECT_MODE_EDIT はボーン構造の編集モード。
	OBJECT_MODE_EDIT ObjectMode = "EDIT"
	// OBJECT_MODE_POSE はポーズ編集モード。
	OBJECT_MODE_POSE ObjectMode = "POSE"
)

// ModeState は操作モードとアクティブオブジェクトの状態機械を表す。
type ModeState struct {
	active string
	mode   ObjectMode
}

// NewModeState は初期状態を生成する。
func NewModeState(active string, mode ObjectMode) *ModeState {
	if mode == "" {
		mode = OBJECT_MODE_OBJECT
	}
	return &ModeState{active: active, mode: mode}
}

// Active はアクティブオブジェクト名を返す。
func (s *ModeState) Active() string {
	return s.active
}

// Mode は現在モードを返す。
func (s *ModeState) Mode() ObjectMode {
	return s.mode
}

// SetActive はアクティブオブジェクトを切り替える。OBJECTモード以外では切り替えられない。
func (s *ModeState) SetActive(name string) error {
	if s.active == name {
		return nil
	}
	if s.mode != OBJECT_MODE_OBJECT {
		return merrors.NewInvalidStateError(
			fmt.Sprintf("%sモード中はアクティブオブジェクトを変更できません: current=%s next=%s", s.mode, s.active, name))
	}
	s.active = name
	return nil
}

// SetMode はモードを切り替える。EDIT/POSEは対象種別が許す場合のみ。
func (s *ModeState) SetMode(mode ObjectMode, activeType ObjectType) error {
	switch mode {
	case OBJECT_MODE_OBJECT:
	case OBJECT_MODE_EDIT:
		if s.active == "" {
			return merrors.NewInvalidStateError("アクティブオブジェクトがないためEDITモードに入れません")
		}
	case OBJECT_MODE_POSE:
		if activeType != OBJECT_TYPE_ARMATURE {
			return merrors.NewInvalidStateError(
				fmt.Sprintf("POSEモードはアーマチュアのみ対応しています: active=%s type=%s", s.active, activeType))
		}
	default:
		return merrors.NewInvalidStateError(fmt.Sprintf("未対応のモードです: %s", mode))
	}
	s.mode = mode
	return nil
}

// Require は要求モード・対象オブジェクトと一致しない場合にエラーを返す。
func (s *ModeState) Require(mode ObjectMode, objectName string) error {
	if s.mode != mode {
		return merrors.NewInvalidStateError(
			fmt.Sprintf("%sモードが必要です: current=%s target=%s", mode, s.mode, objectName))
	}
	if s.active != objectName {
		return merrors.NewInvalidStateError(
			fmt.Sprintf("対象がアクティブではありません: active=%s target=%s", s.active, objectName))
	}
	return nil
}
