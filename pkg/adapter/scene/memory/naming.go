// 指示: miu200521358
package memory

import (
	"fmt"
	"regexp"
)

var numberedSuffixPattern = regexp.MustCompile(`^(.*)\.[0-9]{3,}$`)

// uniqueName は衝突しない名前を返す。衝突時は「名前.001」形式で連番を付与する。
func uniqueName(name string, exists func(string) bool) string {
	if !exists(name) {
		return name
	}
	base := name
	if matches := numberedSuffixPattern.FindStringSubmatch(name); matches != nil {
		base = matches[1]
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%03d", base, i)
		if !exists(candidate) {
			return candidate
		}
	}
}
