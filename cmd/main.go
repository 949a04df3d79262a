// 指示: miu200521358
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sceneyaml "github.com/miu200521358/mu_lattice_rig/pkg/adapter/io_scene/yaml"
	"github.com/miu200521358/mu_lattice_rig/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_lattice_rig/pkg/adapter/mpresenter/report"
	"github.com/miu200521358/mu_lattice_rig/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_lattice_rig/pkg/infra/preview"
	"github.com/miu200521358/mu_lattice_rig/pkg/shared/base/config"
	"github.com/miu200521358/mu_lattice_rig/pkg/shared/base/logging"
	"github.com/miu200521358/mu_lattice_rig/pkg/usecase/minteractor"
)

const appName = "mu_lattice_rig"

// cliState はコマンド間で共有する設定と出力先を保持する。
type cliState struct {
	viper      *viper.Viper
	configPath string
	out        io.Writer
	errOut     io.Writer
}

// main はラティスリグ生成CLIを実行する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	root := newRootCommand(&cliState{viper: config.NewViper(), out: out, errOut: errOut})
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.Execute()
}

// newRootCommand はルートコマンドを生成する。
func newRootCommand(state *cliState) *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         messages.HelpUsage,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&state.configPath, "config", "c", "", "設定ファイル(yaml)")
	root.PersistentFlags().String("log-level", "info", "ログレベル (debug/info/warn/error)")
	root.PersistentFlags().Bool("verbose", false, "詳細ログを出力する")
	_ = state.viper.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))
	_ = state.viper.BindPFlag("logging.verbose", root.PersistentFlags().Lookup("verbose"))

	root.AddCommand(newRigCommand(state))
	root.AddCommand(newPreviewCommand(state))
	return root
}

// newRigCommand はリグ生成コマンドを生成する。
func newRigCommand(state *cliState) *cobra.Command {
	var outputPath string
	var dryRun bool
	var previewPath string
	var withPreview bool

	cmd := &cobra.Command{
		Use:   "rig <scene.yaml>",
		Short: messages.HelpRig,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, restore, err := state.loadConfig()
			if err != nil {
				return err
			}
			defer restore()

			inputPath := args[0]
			repository := sceneyaml.NewSceneRepository()
			uc := minteractor.NewLatticeRigUsecase(minteractor.LatticeRigUsecaseDeps{
				SceneReader: repository,
				SceneWriter: repository,
			})
			result, err := uc.RigSceneFile(minteractor.RigFileRequest{
				InputPath:  inputPath,
				OutputPath: outputPath,
				Options:    rigOptionsFromConfig(cfg),
				DryRun:     dryRun,
			})
			if err != nil {
				return describeRigError(err)
			}

			fmt.Fprintln(state.out, report.RenderRigResult(result.Rig))
			if dryRun {
				fmt.Fprintf(state.out, "[%s] "+messages.LogDryRunSkipped+"\n", appName, result.OutputPath)
			} else {
				fmt.Fprintf(state.out, "[%s] "+messages.LogRigSuccess+"\n", appName, result.OutputPath)
			}

			if !withPreview && previewPath == "" {
				return nil
			}
			if previewPath == "" {
				previewPath = minteractor.BuildDefaultPreviewPath(inputPath)
			}
			if err := preview.SaveBonePreview(result.Scene, preview.Options{
				ArmatureName: result.Rig.ArmatureName,
				LatticeName:  result.Rig.LatticeName,
			}, previewPath); err != nil {
				return fmt.Errorf("%s: %w", messages.MessagePreviewFailed, err)
			}
			fmt.Fprintf(state.out, "[%s] "+messages.LogPreviewSuccess+"\n", appName, previewPath)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&outputPath, "out", "o", "", "出力シーンYAMLパス (既定: <入力>_rigged.yaml)")
	flags.BoolVar(&dryRun, "dry-run", false, messages.LabelDryRun)
	flags.BoolVar(&withPreview, "preview", false, "プレビューPNGも出力する")
	flags.StringVar(&previewPath, "preview-out", "", "プレビューPNGパス (既定: <入力>_preview.png)")

	defaults := config.Default()
	flags.String("align", defaults.Rig.Align, "ボーン整列 (world/lattice)")
	flags.String("root-placement", defaults.Rig.RootPlacement, "ルート配置 (origin/bottom)")
	flags.String("bone-name", defaults.Rig.BoneName, "ボーン名")
	flags.String("deform-prefix", defaults.Rig.DeformPrefix, "変形ボーン接頭辞")
	flags.String("deform-collection", defaults.Rig.DeformCollection, "変形ボーンのコレクション名")
	flags.String("lattice-collection", defaults.Rig.LatticeCollection, "ラティスボーンのコレクション名")
	flags.Bool("propagate-root-scale", defaults.Rig.PropagateRootScale, "ルートのスケールを操作ボーンへ伝える")
	flags.Float64("base-bone-length", defaults.Rig.BaseBoneLength, "基準ボーン長")
	flags.String("reentry", defaults.Rig.Reentry, "再実行ポリシー (duplicate/reject/regenerate)")
	for key, flagName := range map[string]string{
		"rig.align":                "align",
		"rig.root_placement":       "root-placement",
		"rig.bone_name":            "bone-name",
		"rig.deform_prefix":        "deform-prefix",
		"rig.deform_collection":    "deform-collection",
		"rig.lattice_collection":   "lattice-collection",
		"rig.propagate_root_scale": "propagate-root-scale",
		"rig.base_bone_length":     "base-bone-length",
		"rig.reentry":              "reentry",
	} {
		_ = state.viper.BindPFlag(key, flags.Lookup(flagName))
	}
	return cmd
}

// newPreviewCommand はリグ済みシーンのプレビュー出力コマンドを生成する。
func newPreviewCommand(state *cliState) *cobra.Command {
	var outputPath string
	var armatureName string
	var latticeName string

	cmd := &cobra.Command{
		Use:   "preview <scene.yaml>",
		Short: messages.HelpPreview,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, restore, err := state.loadConfig()
			if err != nil {
				return err
			}
			defer restore()

			inputPath := args[0]
			repository := sceneyaml.NewSceneRepository()
			uc := minteractor.NewLatticeRigUsecase(minteractor.LatticeRigUsecaseDeps{SceneReader: repository})
			data, err := uc.LoadScene(nil, inputPath)
			if err != nil {
				return fmt.Errorf("%s: %w", messages.MessageLoadFailed, err)
			}
			if strings.TrimSpace(outputPath) == "" {
				outputPath = minteractor.BuildDefaultPreviewPath(inputPath)
			}
			if err := preview.SaveBonePreview(data, preview.Options{
				ArmatureName: armatureName,
				LatticeName:  latticeName,
			}, outputPath); err != nil {
				return fmt.Errorf("%s: %w", messages.MessagePreviewFailed, err)
			}
			fmt.Fprintf(state.out, "[%s] "+messages.LogPreviewSuccess+"\n", appName, outputPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "out", "o", "", "出力PNGパス (既定: <入力>_preview.png)")
	cmd.Flags().StringVar(&armatureName, "armature", "", "描画するアーマチュア名 (既定: 先頭)")
	cmd.Flags().StringVar(&latticeName, "lattice", "", "描画するラティス名 (既定: 先頭)")
	return cmd
}

// loadConfig は設定を読み込み、ログ出力を設定する。戻り値の関数で既定ロガーを元に戻す。
func (s *cliState) loadConfig() (*config.RigConfig, func(), error) {
	cfg, err := config.Load(s.viper, s.configPath)
	if err != nil {
		return nil, func() {}, err
	}
	logger := logging.NewLogger(s.errOut)
	logger.SetLevel(logging.ParseLogLevel(cfg.Logging.Level))
	if cfg.Logging.Verbose {
		logger.EnableVerbose(logging.VERBOSE_INDEX_RIG, true)
		logger.EnableVerbose(logging.VERBOSE_INDEX_SCENE, true)
	}
	prevLogger := logging.DefaultLogger()
	logging.SetDefaultLogger(logger)
	return cfg, func() { logging.SetDefaultLogger(prevLogger) }, nil
}

// rigOptionsFromConfig は設定値をリグ生成オプションへ変換する。
func rigOptionsFromConfig(cfg *config.RigConfig) minteractor.RigOptions {
	return minteractor.RigOptions{
		Align:              minteractor.AlignMode(cfg.Rig.Align),
		RootPlacement:      minteractor.RootPlacement(cfg.Rig.RootPlacement),
		BoneName:           cfg.Rig.BoneName,
		DeformPrefix:       cfg.Rig.DeformPrefix,
		DeformCollection:   cfg.Rig.DeformCollection,
		LatticeCollection:  cfg.Rig.LatticeCollection,
		PropagateRootScale: cfg.Rig.PropagateRootScale,
		BaseBoneLength:     cfg.Rig.BaseBoneLength,
		Reentry:            minteractor.ReentryPolicy(cfg.Rig.Reentry),
	}
}

// describeRigError は利用者向けの案内を付けてエラーを返す。
func describeRigError(err error) error {
	switch {
	case errors.Is(err, merrors.ErrNotApplicable):
		return fmt.Errorf("%s (%s): %w", messages.MessageNotApplicable, merrors.ExtractErrorID(err), err)
	case errors.Is(err, merrors.ErrSkeletonExists):
		return fmt.Errorf("%s (%s): %w", messages.MessageSkeletonExists, merrors.ExtractErrorID(err), err)
	case errors.Is(err, merrors.ErrSceneParse):
		return fmt.Errorf("%s (%s): %w", messages.MessageLoadFailed, merrors.ExtractErrorID(err), err)
	default:
		return fmt.Errorf("%s: %w", messages.MessageRigFailed, err)
	}
}
