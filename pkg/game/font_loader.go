package game

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// FontResult 一次异步字体加载的结果
type FontResult struct {
	Key    string                 // 调用方指定的标识（如实体名称）
	Source *text.GoTextFaceSource // 成功时非 nil
	Err    error
}

// FontLoader 在后台 goroutine 中加载字体文件，结果通过通道交回帧循环
//
// 帧循环每帧调用 Poll() 取出已完成的结果；加载失败只记录日志，
// 不会中断场景。
type FontLoader struct {
	readFile func(string) ([]byte, error)
	results  chan FontResult
	wg       sync.WaitGroup

	mu      sync.Mutex
	cache   map[string]*text.GoTextFaceSource // 按路径缓存已解析的字体
	pending int
}

// NewFontLoader 创建从文件系统读取字体的加载器
func NewFontLoader() *FontLoader {
	return NewFontLoaderWithReader(os.ReadFile)
}

// NewFontLoaderWithReader 创建使用自定义读取函数的加载器（测试用）
func NewFontLoaderWithReader(readFile func(string) ([]byte, error)) *FontLoader {
	return &FontLoader{
		readFile: readFile,
		results:  make(chan FontResult, 8),
		cache:    make(map[string]*text.GoTextFaceSource),
	}
}

// Load 异步加载 path 处的字体，完成后以 key 标识投递结果
func (fl *FontLoader) Load(key, path string) {
	fl.mu.Lock()
	fl.pending++
	fl.mu.Unlock()

	fl.wg.Add(1)
	go func() {
		defer fl.wg.Done()
		source, err := fl.source(path)
		fl.results <- FontResult{Key: key, Source: source, Err: err}
	}()
}

func (fl *FontLoader) source(path string) (*text.GoTextFaceSource, error) {
	fl.mu.Lock()
	cached, ok := fl.cache[path]
	fl.mu.Unlock()
	if ok {
		return cached, nil
	}

	data, err := fl.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
	}
	source, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source for %s: %w", path, err)
	}

	fl.mu.Lock()
	fl.cache[path] = source
	fl.mu.Unlock()
	return source, nil
}

// Poll 非阻塞地取出所有已完成的加载结果
//
// 失败的结果同样返回（Source 为 nil），并已记录日志。
func (fl *FontLoader) Poll() []FontResult {
	var done []FontResult
	for {
		select {
		case r := <-fl.results:
			fl.mu.Lock()
			fl.pending--
			fl.mu.Unlock()
			if r.Err != nil {
				log.Printf("[FontLoader] Failed to load font for %s: %v", r.Key, r.Err)
			} else {
				log.Printf("[FontLoader] Font ready for %s", r.Key)
			}
			done = append(done, r)
		default:
			return done
		}
	}
}

// Pending 返回尚未被 Poll 取走的加载数量
func (fl *FontLoader) Pending() int {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.pending
}

// Wait 阻塞直到所有已发起的加载完成（结果仍需 Poll 取出）
func (fl *FontLoader) Wait() {
	fl.wg.Wait()
}

var (
	uiFontOnce   sync.Once
	uiFontSource *text.GoTextFaceSource
)

// UIFontSource 返回内置的西文界面字体（Go Regular）
//
// 用于帮助信息与按钮的后备文字，不依赖外部字体文件。
func UIFontSource() *text.GoTextFaceSource {
	uiFontOnce.Do(func() {
		source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			log.Printf("[FontLoader] Failed to parse built-in UI font: %v", err)
			return
		}
		uiFontSource = source
	})
	return uiFontSource
}
