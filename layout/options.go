package layout

// BuildOptions 配置校样布局。
type BuildOptions struct {
	// Guides 为 true 时绘制裁切线与安全区参考框。
	Guides bool
	// Photos 以 stop 编号（从 1 开始）索引照片路径，放在该 stop 的右页。
	Photos map[int]string
	// CoverImage 是封面（正面）图片路径，可为空。
	CoverImage string
	Meta       DocumentMeta
}
