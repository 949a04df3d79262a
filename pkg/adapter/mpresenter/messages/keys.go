// 指示: miu200521358
// Package messages はCLIとレポート表示に使うメッセージキーを提供する。
package messages

// メッセージキー一覧。
const (
	HelpUsageTitle = "使い方"
	HelpUsage      = "ラティスを選択したアーマチュアのボーンで操作できるようにします"
	HelpRig        = "シーンYAMLのラティスへボーンリグを生成して保存します"
	HelpPreview    = "リグ済みシーンYAMLのボーン配置をPNGへ描画します"

	LabelInputPath     = "入力シーン"
	LabelOutputPath    = "出力シーン"
	LabelPreviewPath   = "プレビュー出力"
	LabelConfigPath    = "設定ファイル"
	LabelAlign         = "ボーン整列"
	LabelRootPlacement = "ルート配置"
	LabelReentry       = "再実行ポリシー"
	LabelDryRun        = "保存せずに結果だけ表示"

	ReportTitle          = "ラティスリグ生成結果"
	ReportArmature       = "アーマチュア"
	ReportLattice        = "ラティス"
	ReportPoints         = "制御点"
	ReportGroups         = "グループ"
	ReportBones          = "ボーン"
	ReportConstraints    = "拘束"
	ReportVertexGroups   = "頂点グループ"
	ReportCollections    = "作成コレクション"
	ReportWidgets        = "表示ウィジェット"
	ReportReparented     = "親設定"
	ReportWarnings       = "警告"
	ReportNone           = "なし"
	ReportWidgetAssigned = "%d件割当 / %d件スキップ"

	MessageLoadFailed     = "読み込み失敗"
	MessageSaveFailed     = "保存失敗"
	MessageRigFailed      = "リグ生成失敗"
	MessagePreviewFailed  = "プレビュー出力失敗"
	MessageInputRequired  = "シーンYAMLファイルを指定してください"
	MessageNotApplicable  = "アーマチュア1つとラティスを選択し、アーマチュアをアクティブにしてください"
	MessageSkeletonExists = "同じ設定のリグが既にあります。--reentry regenerate で作り直せます"

	LogRigSuccess     = "リグ生成成功: %s"
	LogDryRunSkipped  = "DryRunのため保存しません: %s"
	LogPreviewSuccess = "プレビュー保存成功: %s"
)
