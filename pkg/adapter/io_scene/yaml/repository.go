// 指示: miu200521358
package yaml

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goyaml "gopkg.in/yaml.v3"

	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_lattice_rig/pkg/shared/base/logging"
)

const sceneDocumentVersion = 1

// LoadProgressEventType はシーン読込進捗イベント種別を表す。
type LoadProgressEventType string

const (
	// LoadProgressEventTypeFileReadComplete はファイル読込完了イベントを表す。
	LoadProgressEventTypeFileReadComplete LoadProgressEventType = "file_read_complete"
	// LoadProgressEventTypeDocumentParsed はYAML解析完了イベントを表す。
	LoadProgressEventTypeDocumentParsed LoadProgressEventType = "document_parsed"
	// LoadProgressEventTypeCompleted はシーン読込完了イベントを表す。
	LoadProgressEventTypeCompleted LoadProgressEventType = "completed"
)

// LoadProgressEvent はシーン読込進捗イベントを表す。
type LoadProgressEvent struct {
	Type          LoadProgressEventType
	FileSizeBytes int
	ObjectCount   int
	BoneCount     int
}

// SceneRepository はYAMLシーン定義の読み書きを行う。
type SceneRepository struct {
	loadProgressReporter func(LoadProgressEvent)
}

// NewSceneRepository はSceneRepositoryを生成する。
func NewSceneRepository() *SceneRepository {
	return &SceneRepository{}
}

// SetLoadProgressReporter はシーン読込進捗受信コールバックを設定する。
func (r *SceneRepository) SetLoadProgressReporter(reporter func(LoadProgressEvent)) {
	if r == nil {
		return
	}
	r.loadProgressReporter = reporter
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *SceneRepository) CanLoad(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// InferName はパスから表示名を推定する。
func (r *SceneRepository) InferName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// Load はYAMLファイルからシーンを読み込む。
func (r *SceneRepository) Load(path string) (*model.SceneData, error) {
	if !r.CanLoad(path) {
		return nil, merrors.NewSceneParseError(fmt.Sprintf("シーンファイルの拡張子が不正です: %s", path), nil)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, merrors.NewSceneParseError(fmt.Sprintf("シーンファイルの読み込みに失敗しました: %s", path), err)
	}
	r.reportLoadProgress(LoadProgressEvent{Type: LoadProgressEventTypeFileReadComplete, FileSizeBytes: len(raw)})

	data, err := r.Parse(raw)
	if err != nil {
		return nil, err
	}

	boneCount := 0
	for _, object := range data.Objects {
		if object.Armature != nil {
			boneCount += object.Armature.Bones.Len()
		}
	}
	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeCompleted,
		FileSizeBytes: len(raw),
		ObjectCount:   len(data.Objects),
		BoneCount:     boneCount,
	})
	logging.DefaultLogger().Debug("シーンを読み込みました: path=%s objects=%d bones=%d", path, len(data.Objects), boneCount)
	return data, nil
}

// Parse はYAML文字列をシーンへ変換する。
func (r *SceneRepository) Parse(raw []byte) (*model.SceneData, error) {
	document := sceneDocument{}
	decoder := goyaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&document); err != nil {
		return nil, merrors.NewSceneParseError("シーンYAMLの解析に失敗しました", err)
	}
	if document.Version != 0 && document.Version != sceneDocumentVersion {
		return nil, merrors.NewSceneParseError(fmt.Sprintf("未対応のシーン形式です: version=%d", document.Version), nil)
	}
	r.reportLoadProgress(LoadProgressEvent{Type: LoadProgressEventTypeDocumentParsed, ObjectCount: len(document.Objects)})
	return documentToScene(&document)
}

// Save はシーンをYAMLファイルへ保存する。
func (r *SceneRepository) Save(path string, data *model.SceneData) error {
	if data == nil {
		return fmt.Errorf("保存対象シーンが未設定です")
	}
	raw, err := r.Marshal(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("シーンファイルの書き込みに失敗しました: %w", err)
	}
	logging.DefaultLogger().Debug("シーンを保存しました: path=%s objects=%d", path, len(data.Objects))
	return nil
}

// Marshal はシーンをYAML文字列へ変換する。
func (r *SceneRepository) Marshal(data *model.SceneData) ([]byte, error) {
	document, err := sceneToDocument(data)
	if err != nil {
		return nil, err
	}
	buffer := &bytes.Buffer{}
	encoder := goyaml.NewEncoder(buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(document); err != nil {
		return nil, fmt.Errorf("シーンYAMLの生成に失敗しました: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("シーンYAMLの生成に失敗しました: %w", err)
	}
	return buffer.Bytes(), nil
}

// reportLoadProgress は読込進捗イベントを通知する。
func (r *SceneRepository) reportLoadProgress(event LoadProgressEvent) {
	if r == nil || r.loadProgressReporter == nil {
		return
	}
	r.loadProgressReporter(event)
}
