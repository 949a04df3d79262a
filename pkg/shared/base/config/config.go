// 指示: miu200521358
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ENV_PREFIX は環境変数の接頭辞。
const ENV_PREFIX = "MU_LATTICE_RIG"

// RigConfig はリグ生成の設定値を表す。
type RigConfig struct {
	Rig     RigSection     `mapstructure:"rig"`
	Logging LoggingSection `mapstructure:"logging"`
}

// RigSection はリグ生成オプションの設定値。
type RigSection struct {
	// Align は world / lattice。
	Align string `mapstructure:"align"`
	// RootPlacement は origin / bottom。
	RootPlacement      string  `mapstructure:"root_placement"`
	BoneName           string  `mapstructure:"bone_name"`
	DeformPrefix       string  `mapstructure:"deform_prefix"`
	DeformCollection   string  `mapstructure:"deform_collection"`
	LatticeCollection  string  `mapstructure:"lattice_collection"`
	PropagateRootScale bool    `mapstructure:"propagate_root_scale"`
	BaseBoneLength     float64 `mapstructure:"base_bone_length"`
	// Reentry は duplicate / reject / regenerate。
	Reentry string `mapstructure:"reentry"`
}

// LoggingSection はログ出力の設定値。
type LoggingSection struct {
	Level   string `mapstructure:"level"`
	Verbose bool   `mapstructure:"verbose"`
}

// Default は既定設定を返す。
func Default() *RigConfig {
	return &RigConfig{
		Rig: RigSection{
			Align:              "world",
			RootPlacement:      "origin",
			BoneName:           "lattice",
			DeformPrefix:       "DEF",
			DeformCollection:   "Deform Bones",
			LatticeCollection:  "Lattice",
			PropagateRootScale: true,
			BaseBoneLength:     0.3,
			Reentry:            "duplicate",
		},
		Logging: LoggingSection{Level: "info"},
	}
}

// SetDefaults は既定値をviperへ登録する。
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("rig.align", defaults.Rig.Align)
	v.SetDefault("rig.root_placement", defaults.Rig.RootPlacement)
	v.SetDefault("rig.bone_name", defaults.Rig.BoneName)
	v.SetDefault("rig.deform_prefix", defaults.Rig.DeformPrefix)
	v.SetDefault("rig.deform_collection", defaults.Rig.DeformCollection)
	v.SetDefault("rig.lattice_collection", defaults.Rig.LatticeCollection)
	v.SetDefault("rig.propagate_root_scale", defaults.Rig.PropagateRootScale)
	v.SetDefault("rig.base_bone_length", defaults.Rig.BaseBoneLength)
	v.SetDefault("rig.reentry", defaults.Rig.Reentry)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.verbose", defaults.Logging.Verbose)
}

// NewViper は既定値と環境変数を設定したviperを生成する。
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load は設定ファイル(任意)と環境変数から設定を読み込む。
func Load(v *viper.Viper, path string) (*RigConfig, error) {
	if v == nil {
		v = NewViper()
	}
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
		}
	}
	cfg := &RigConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("設定値の展開に失敗しました: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は列挙値と数値範囲を検証する。
func (c *RigConfig) Validate() error {
	if !oneOf(c.Rig.Align, "world", "lattice") {
		return fmt.Errorf("rig.align が不正です: %s", c.Rig.Align)
	}
	if !oneOf(c.Rig.RootPlacement, "origin", "bottom") {
		return fmt.Errorf("rig.root_placement が不正です: %s", c.Rig.RootPlacement)
	}
	if !oneOf(c.Rig.Reentry, "duplicate", "reject", "regenerate") {
		return fmt.Errorf("rig.reentry が不正です: %s", c.Rig.Reentry)
	}
	if c.Rig.BaseBoneLength <= 0 {
		return fmt.Errorf("rig.base_bone_length は正の値が必要です: %v", c.Rig.BaseBoneLength)
	}
	if strings.TrimSpace(c.Rig.BoneName) == "" {
		return fmt.Errorf("rig.bone_name が未指定です")
	}
	return nil
}

func oneOf(value string, candidates ...string) bool {
	for _, candidate := range candidates {
		if value == candidate {
			return true
		}
	}
	return false
}
