//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir 在 gdata 初始化前创建 /data/data/{package}/saves
//
// gdata 在 Android 上使用应用私有目录，但不会预先创建子目录。
func EnsureStorageDir() error {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return fmt.Errorf("failed to detect Android package: %w", err)
	}
	app := packageFromCmdline(data)
	if app == "" {
		return fmt.Errorf("empty /proc/self/cmdline")
	}

	savesDir := filepath.Join("/data/data", app, "saves")
	if err := os.MkdirAll(savesDir, 0755); err != nil {
		return fmt.Errorf("failed to create saves directory %s: %w", savesDir, err)
	}
	return nil
}
