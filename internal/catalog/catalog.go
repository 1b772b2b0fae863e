// Package catalog builds the static gallery page. It is the built-in
// fallback for the external generate_catalog collaborator: same inputs
// (asset files and whichever previews exist beside them), same output
// (index.html in the gallery directory).
package catalog

import (
	"context"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/meshfolio/meshfolio/internal/assets"
	"github.com/meshfolio/meshfolio/internal/errors"
)

// Entry is one asset row on the gallery page.
type Entry struct {
	Name        string
	AssetFile   string
	PreviewFile string
	HasPreview  bool
	ModTime     time.Time
	SizeBytes   int64
}

// Generator emits the static catalog page for a gallery directory.
type Generator struct {
	Dir        string
	AssetExt   string
	PreviewExt string
	// Output is the page file name inside Dir. Defaults to index.html.
	Output string
	Title  string
}

// NewGenerator creates a catalog generator for dir.
func NewGenerator(dir, assetExt, previewExt string) *Generator {
	return &Generator{
		Dir:        dir,
		AssetExt:   assetExt,
		PreviewExt: previewExt,
		Output:     "index.html",
		Title:      filepath.Base(absOrSelf(dir)),
	}
}

func absOrSelf(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

// Entries enumerates assets and checks which have previews on disk.
func (g *Generator) Entries() ([]Entry, error) {
	list, err := assets.Scan(g.Dir, g.AssetExt)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(list))
	for _, a := range list {
		entry := Entry{
			Name:        a.Name,
			AssetFile:   a.Base(),
			PreviewFile: a.Name + g.PreviewExt,
			ModTime:     a.ModTime,
		}
		if info, err := os.Stat(a.PreviewPath(g.PreviewExt)); err == nil {
			entry.HasPreview = true
			entry.SizeBytes = info.Size()
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Generate writes the gallery page.
func (g *Generator) Generate() error {
	entries, err := g.Entries()
	if err != nil {
		return err
	}

	out, err := os.Create(filepath.Join(g.Dir, g.Output))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeCatalog, "catalog_write", "failed to create catalog page")
	}
	defer out.Close()

	data := struct {
		Title     string
		Generated time.Time
		Entries   []Entry
	}{
		Title:     g.Title,
		Generated: time.Now(),
		Entries:   entries,
	}
	if err := pageTemplate.Execute(out, data); err != nil {
		return errors.Wrap(err, errors.ErrorTypeCatalog, "catalog_render", "failed to render catalog page")
	}

	return nil
}

// Name implements the pipeline step contract.
func (g *Generator) Name() string { return "catalog" }

// Available implements the pipeline step contract. The built-in generator is
// always available.
func (g *Generator) Available() bool { return true }

// Run implements the pipeline step contract.
func (g *Generator) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.Generate()
}

var pageTemplate = template.Must(template.New("catalog").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; background: #fafafa; }
h1 { font-weight: normal; }
.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(220px, 1fr)); gap: 1rem; }
.card { background: #fff; border: 1px solid #ddd; border-radius: 6px; padding: 0.75rem; }
.card img { width: 100%; height: auto; }
.missing { color: #999; font-style: italic; }
footer { margin-top: 2rem; color: #999; font-size: 0.8rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="grid">
{{range .Entries}}<div class="card">
{{if .HasPreview}}<a href="{{.AssetFile}}"><img src="{{.PreviewFile}}" alt="{{.Name}}"></a>
{{else}}<div class="missing">no preview</div>
{{end}}<div><a href="{{.AssetFile}}">{{.Name}}</a></div>
</div>
{{end}}</div>
<footer>{{len .Entries}} models &middot; generated {{.Generated.Format "2006-01-02 15:04:05"}}</footer>
</body>
</html>
`))
