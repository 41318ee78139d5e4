package scrape

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Output writes scrape results under a base directory.
type Output struct {
	dir string
}

// NewOutput returns an Output rooted at dir.
func NewOutput(dir string) *Output {
	return &Output{dir: dir}
}

// Path resolves name against the output directory. Absolute names are kept.
func (o *Output) Path(name string) string {
	if filepath.IsAbs(name) || o.dir == "" {
		return filepath.Clean(name)
	}
	return filepath.Join(o.dir, name)
}

// Save writes data to name. The extension picks the format: .json gets
// indented JSON, .csv gets rows (see encodeCSV) and anything else is written
// as text. Parent directories are created.
func (o *Output) Save(name string, data any) (string, error) {
	path := o.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("scrape: create output directory: %w", err)
	}

	var (
		content []byte
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		content, err = json.MarshalIndent(data, "", "    ")
		content = append(content, '\n')
	case ".csv":
		content, err = encodeCSV(data)
	default:
		content = encodeText(data)
	}
	if err != nil {
		return "", fmt.Errorf("scrape: encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("scrape: write %s: %w", path, err)
	}
	return path, nil
}

func encodeText(data any) []byte {
	switch v := data.(type) {
	case string:
		return []byte(v)
	case []byte:
		return v
	case []string:
		return []byte(strings.Join(v, "\n"))
	case *Page:
		return []byte(v.Text)
	default:
		return fmt.Append(nil, v)
	}
}

// encodeCSV writes a Page as kind/value rows, a slice of maps with a header
// taken from the first map's keys (sorted), other slices one row each, and a
// scalar as a single cell.
func encodeCSV(data any) ([]byte, error) {
	var rows [][]string
	switch v := data.(type) {
	case *Page:
		rows = pageRows(v)
	case []map[string]string:
		if len(v) == 0 {
			break
		}
		header := make([]string, 0, len(v[0]))
		for k := range v[0] {
			header = append(header, k)
		}
		slices.Sort(header)
		rows = append(rows, header)
		for _, m := range v {
			row := make([]string, len(header))
			for i, k := range header {
				row[i] = m[k]
			}
			rows = append(rows, row)
		}
	case [][]string:
		rows = v
	case []string:
		for _, s := range v {
			rows = append(rows, []string{s})
		}
	default:
		rows = [][]string{{fmt.Sprint(v)}}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pageRows(p *Page) [][]string {
	rows := [][]string{{"kind", "value"}}
	if p.URL != "" {
		rows = append(rows, []string{"url", p.URL})
	}
	rows = append(rows, []string{"title", p.Title})
	for _, l := range p.Links {
		rows = append(rows, []string{"link", l})
	}
	for _, img := range p.Images {
		rows = append(rows, []string{"image", img})
	}
	if p.Text != "" {
		rows = append(rows, []string{"text", p.Text})
	}
	return rows
}
