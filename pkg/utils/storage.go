package utils

import (
	"bytes"
	"strings"
)

// packageFromCmdline 取 /proc/self/cmdline 的第一个参数
// Android 上应用进程的 argv[0] 即包名
func packageFromCmdline(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return strings.TrimSpace(string(data))
}
