package processor

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
	// "**/" 开头的规则去掉前缀后的版本，让 "**/target/**" 也能匹配根目录下的 target
	rootGlob glob.Glob
}

func compilePattern(pattern string) (compiledPattern, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return compiledPattern{}, err
	}
	cp := compiledPattern{pattern: pattern, glob: g}
	if strings.HasPrefix(pattern, "**/") {
		if rg, err := glob.Compile(strings.TrimPrefix(pattern, "**/"), '/'); err == nil {
			cp.rootGlob = rg
		}
	}
	return cp, nil
}

// FileDiscovery 按 glob 规则查找待处理的源文件
type FileDiscovery struct {
	rootDir        string
	includes       []compiledPattern
	ignorePatterns []compiledPattern
}

// NewFileDiscovery 编译 include/ignore 规则；include 为空时按语言后缀匹配
func NewFileDiscovery(rootDir string, lang model.Language, includes, ignores []string) (*FileDiscovery, error) {
	if len(includes) == 0 {
		includes = []string{"**/*" + model.FileExtension(lang)}
	}

	fd := &FileDiscovery{rootDir: rootDir}
	for _, pattern := range includes {
		cp, err := compilePattern(pattern)
		if err != nil {
			return nil, err
		}
		fd.includes = append(fd.includes, cp)
	}
	for _, pattern := range ignores {
		cp, err := compilePattern(pattern)
		if err != nil {
			return nil, err
		}
		fd.ignorePatterns = append(fd.ignorePatterns, cp)
	}
	return fd, nil
}

// DiscoverFiles 遍历目录，返回匹配的文件 (按遍历顺序，即字典序)
func (fd *FileDiscovery) DiscoverFiles() ([]string, error) {
	files := []string{}

	err := filepath.Walk(fd.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && fd.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if fd.shouldIgnore(relPath) {
			return nil
		}
		if matchesAnyPattern(relPath, fd.includes) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	if matchesAnyPattern(relPath, fd.ignorePatterns) {
		return true
	}
	// "target" 这样的目录也能匹配 "target/**"
	return matchesAnyPattern(relPath+"/**", fd.ignorePatterns)
}

func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
		if cp.rootGlob != nil && cp.rootGlob.Match(path) {
			return true
		}
	}
	return false
}
