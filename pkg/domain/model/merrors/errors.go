// 指示: miu200521358
// Package merrors はエラーIDを持つドメインエラーを提供する。
package merrors

import (
	"errors"
	"fmt"
)

// エラーID一覧。
const (
	ErrorIDNotApplicable   = "LRG001"
	ErrorIDInvalidLattice  = "LRG002"
	ErrorIDInvalidState    = "LRG101"
	ErrorIDNotFound        = "LRG102"
	ErrorIDNameConflict    = "LRG103"
	ErrorIDSkeletonExists  = "LRG201"
	ErrorIDSceneParseError = "LRG301"
)

var (
	// ErrNotApplicable は選択状態が前提条件を満たさないことを表す。
	ErrNotApplicable = errors.New("operation unavailable")
	// ErrInvalidLattice はラティスデータが処理できないことを表す。
	ErrInvalidLattice = errors.New("invalid lattice")
	// ErrInvalidState はモードまたはアクティブオブジェクトが不正であることを表す。
	ErrInvalidState = errors.New("invalid state")
	// ErrNotFound は参照先が存在しないことを表す。
	ErrNotFound = errors.New("not found")
	// ErrNameConflict は名称が重複していることを表す。
	ErrNameConflict = errors.New("name conflict")
	// ErrSkeletonExists は同一署名のリグが既に存在することを表す。
	ErrSkeletonExists = errors.New("skeleton exists")
	// ErrSceneParse はシーン定義の解析失敗を表す。
	ErrSceneParse = errors.New("scene parse failed")
)

// idError はエラーIDと原因を保持する。
type idError struct {
	id       string
	message  string
	sentinel error
	cause    error
}

// Error はエラー文字列を返す。
func (e *idError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.id, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.id, e.message)
}

// Unwrap は原因エラーとセンチネルを返す。
func (e *idError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.sentinel != nil {
		errs = append(errs, e.sentinel)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// ErrorID はエラーIDを返す。
func (e *idError) ErrorID() string {
	return e.id
}

// NewError はID付きエラーを生成する。
func NewError(id string, sentinel error, message string, cause error) error {
	return &idError{id: id, message: message, sentinel: sentinel, cause: cause}
}

// NewNotApplicableError は前提条件違反エラーを生成する。
func NewNotApplicableError(message string) error {
	return NewError(ErrorIDNotApplicable, ErrNotApplicable, message, nil)
}

// NewInvalidLatticeError はラティス不正エラーを生成する。
func NewInvalidLatticeError(message string) error {
	return NewError(ErrorIDInvalidLattice, ErrInvalidLattice, message, nil)
}

// NewInvalidStateError はモード不正エラーを生成する。
func NewInvalidStateError(message string) error {
	return NewError(ErrorIDInvalidState, ErrInvalidState, message, nil)
}

// NewNotFoundError は参照先不在エラーを生成する。
func NewNotFoundError(kind string, name string) error {
	return NewError(ErrorIDNotFound, ErrNotFound, fmt.Sprintf("%sが見つかりません: %s", kind, name), nil)
}

// NewNameConflictError は名称重複エラーを生成する。
func NewNameConflictError(name string) error {
	return NewError(ErrorIDNameConflict, ErrNameConflict, fmt.Sprintf("名称が重複しています: %s", name), nil)
}

// NewSkeletonExistsError は既存リグ検出エラーを生成する。
func NewSkeletonExistsError(rootName string) error {
	return NewError(ErrorIDSkeletonExists, ErrSkeletonExists, fmt.Sprintf("同一署名のリグが既に存在します: %s", rootName), nil)
}

// NewSceneParseError はシーン解析エラーを生成する。
func NewSceneParseError(message string, cause error) error {
	return NewError(ErrorIDSceneParseError, ErrSceneParse, message, cause)
}

// ExtractErrorID はエラーチェーンから最初に見つかったエラーIDを返す。
func ExtractErrorID(err error) string {
	var target interface{ ErrorID() string }
	if errors.As(err, &target) {
		return target.ErrorID()
	}
	return ""
}

// IsNameConflictError は名称重複エラーか判定する。
func IsNameConflictError(err error) bool {
	return errors.Is(err, ErrNameConflict)
}

// IsInvalidStateError はモード不正エラーか判定する。
func IsInvalidStateError(err error) bool {
	return errors.Is(err, ErrInvalidState)
}
