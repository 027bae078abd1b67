package rules

import "github.com/eliteGoblin/focusd/desk_org/internal/domain"

// Built-in category names.
const (
	CategoryImages     = "图片"
	CategoryDocuments  = "文档"
	CategoryVideos     = "视频"
	CategoryAudio      = "音频"
	CategoryCompressed = "压缩文件"
	CategoryPrograms   = "程序"
)

// DefaultCategories returns the built-in rules, in classification order.
func DefaultCategories() []domain.Category {
	return []domain.Category{
		{Name: CategoryImages, Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg"}},
		{Name: CategoryDocuments, Extensions: []string{".txt", ".doc", ".docx", ".pdf", ".xls", ".xlsx", ".ppt", ".pptx", ".md"}},
		{Name: CategoryVideos, Extensions: []string{".mp4", ".avi", ".mov", ".mkv", ".flv"}},
		{Name: CategoryAudio, Extensions: []string{".mp3", ".wav", ".flac", ".m4a"}},
		{Name: CategoryCompressed, Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz"}},
		{Name: CategoryPrograms, Extensions: []string{".exe", ".msi", ".py", ".java", ".cpp", ".html", ".css", ".js"}},
	}
}

// DefaultTable returns a table populated with DefaultCategories.
func DefaultTable() *Table {
	// The defaults are valid by construction.
	t, _ := NewTableFromCategories(DefaultCategories())
	return t
}
