package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

var (
	// ErrStorage 文件写入失败
	ErrStorage = errors.New("storage error")
	// ErrNotFound 上传目录中不存在该文件
	ErrNotFound = errors.New("file not found")
	// ErrInvalidName 清洗后文件名为空
	ErrInvalidName = errors.New("invalid filename")
)

// AllowedExtensions 图片扩展名白名单
var AllowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

// AllowedImage 按扩展名判断（不区分大小写）
func AllowedImage(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	_, ok := AllowedExtensions[ext]
	return ok
}

// SecureFilename 去掉路径部分与不安全字符，空白替换为下划线，去掉开头的点和下划线
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			if !lastUnderscore {
				b.WriteByte('_')
			}
			lastUnderscore = true
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_'):
			b.WriteRune(r)
		}
		lastUnderscore = r == '_'
	}
	return strings.TrimLeft(b.String(), "._")
}

// Uploads 上传目录
type Uploads struct{ dir string }

func NewUploads(dir string) *Uploads { return &Uploads{dir: filepath.Clean(dir)} }

func (u *Uploads) Dir() string { return u.dir }

// Save 写入上传文件，同名文件会被覆盖；返回保存后的文件名
func (u *Uploads) Save(fh *multipart.FileHeader) (string, error) {
	name := SecureFilename(fh.Filename)
	if name == "" {
		return "", ErrInvalidName
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open upload: %w", ErrStorage, err)
	}
	defer src.Close()

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create dir: %w", ErrStorage, err)
	}
	dst, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		return "", fmt.Errorf("%w: create file: %w", ErrStorage, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("%w: write file: %w", ErrStorage, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("%w: close file: %w", ErrStorage, err)
	}
	return name, nil
}

// Resolve 把请求中的文件名映射到上传目录内的普通文件
func (u *Uploads) Resolve(name string) (string, error) {
	safe := SecureFilename(name)
	if safe == "" || safe != name {
		return "", ErrNotFound
	}

	root, err := filepath.Abs(u.dir)
	if err != nil {
		return "", ErrNotFound
	}
	full := filepath.Join(root, safe)
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", ErrNotFound
	}

	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return "", ErrNotFound
	}
	return full, nil
}

// List 目录中的文件名（调试接口）
func (u *Uploads) List() ([]string, error) {
	entries, err := os.ReadDir(u.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
