package renderer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ByLCY/bookprint/layout"
)

// Renderer 将校样布局输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// RenderFile renders result with r and writes it to path, creating parent
// directories as needed.
func RenderFile(r Renderer, result *layout.Result, path string) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	data, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}
