package brief

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

func (w *implWriter) Save(ctx context.Context, text, fallbackName string) (Brief, error) {
	title, _ := ExtractTitle(text)

	name := Sanitize(title)
	if name == "" {
		name = Sanitize(fallbackName)
	}
	if name == "" {
		name = defaultName
	}

	if err := os.MkdirAll(w.opts.Dir, 0755); err != nil {
		return Brief{}, fmt.Errorf("create brief dir: %w", err)
	}

	path, err := w.target(name)
	if err != nil {
		return Brief{}, err
	}
	if err := writeAtomic(path, []byte(text)); err != nil {
		return Brief{}, fmt.Errorf("write brief %s: %w", path, err)
	}
	w.logger.Info(ctx, "Brief saved to %s", path)

	b := Brief{Path: path, Title: title}
	if w.opts.Docx {
		docxPath := strings.TrimSuffix(path, w.opts.Extension) + ".docx"
		heading := title
		if heading == "" {
			heading = name
		}
		if err := renderDocx(heading, text, docxPath); err != nil {
			w.logger.Warn(ctx, "Failed to render %s: %v", docxPath, err)
		} else {
			b.DocxPath = docxPath
		}
	}
	return b, nil
}

// target picks the output path. Without Overwrite an existing file is kept
// and the first free name_N is used instead.
func (w *implWriter) target(name string) (string, error) {
	path := filepath.Join(w.opts.Dir, name+w.opts.Extension)
	if w.opts.Overwrite {
		return path, nil
	}

	for n := 2; ; n++ {
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
		path = filepath.Join(w.opts.Dir, fmt.Sprintf("%s_%d%s", name, n, w.opts.Extension))
	}
}

// writeAtomic writes to a temp file in the target directory and renames it
// into place so readers never see a partial brief.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
