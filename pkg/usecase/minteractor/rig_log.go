// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_lattice_rig/pkg/shared/base/logging"

// logRigDebug はリグ生成のDEBUGログを出力し、冗長ログにも転送する。
func logRigDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
	if logger.IsVerboseEnabled(logging.VERBOSE_INDEX_RIG) {
		logger.Verbose(logging.VERBOSE_INDEX_RIG, "[DEBUG] "+format, params...)
	}
}

// logRigInfo はリグ生成のINFOログを出力し、冗長ログにも転送する。
func logRigInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
	if logger.IsVerboseEnabled(logging.VERBOSE_INDEX_RIG) {
		logger.Verbose(logging.VERBOSE_INDEX_RIG, "[INFO] "+format, params...)
	}
}

// logRigWarn はリグ生成のWARNログを出力する。
func logRigWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}
