package analysis

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxUploadBytes caps uploaded source files.
const MaxUploadBytes = 1 << 20

// UploadExtensions lists the source/text extensions accepted for upload.
var UploadExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".py", ".java", ".c", ".cpp", ".txt"}

// ValidateUploadName checks the file name against UploadExtensions.
func ValidateUploadName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range UploadExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("unsupported file type %q (allowed: %s)", ext, strings.Join(UploadExtensions, ", "))
}
