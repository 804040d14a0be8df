package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/cbonilla3189/happyfans/internal/model"
)

//go:embed templates/*.html
var embedded embed.FS

// Page 页面公共数据
type Page struct {
	Title       string
	User        *model.User
	AuthEnabled bool
	Next        string
	FormError   string
	Errors      map[string]string
	Form        map[string]string
	Fans        []*model.Fan
}

// Renderer 模板按文件名（如 form.html）执行
type Renderer struct {
	tmpl *template.Template
}

// New dir 为空时使用内嵌模板
func New(dir string) (*Renderer, error) {
	if dir == "" {
		sub, err := fs.Sub(embedded, "templates")
		if err != nil {
			return nil, err
		}
		return Load(sub)
	}
	return Load(os.DirFS(dir))
}

// Load 解析 fsys 根目录下全部 *.html
func Load(fsys fs.FS) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

var funcs = template.FuncMap{
	"datetime": func(t time.Time) string { return t.Local().Format("2006-01-02 15:04") },
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// Render 先写入缓冲区，执行失败时 w 不会收到半个页面
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
