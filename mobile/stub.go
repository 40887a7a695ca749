//go:build !mobile

package mobile

// Dummy 非移动端构建时的占位，使包在普通构建中也可被引用
func Dummy() {}
