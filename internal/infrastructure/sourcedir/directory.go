package sourcedir

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/matchday-feed/internal/domain/match"
)

const fileExt = ".json"

var ErrInvalidDayName = crerr.New("invalid source day name")

// Directory is a folder of per-day source files named YYYYMMDD.json.
type Directory struct {
	root string
}

func New(root string) *Directory {
	return &Directory{root: root}
}

func (d *Directory) Root() string {
	return d.root
}

// List returns source file paths in lexical order. A missing directory yields no files.
func (d *Directory) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(d.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, crerr.Wrapf(err, "list source dir %s", d.root)
	}

	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), fileExt) {
			continue
		}
		out = append(out, filepath.Join(d.root, entry.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// Read decodes one source file into raw records.
func (d *Directory) Read(ctx context.Context, path string) ([]match.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, crerr.Wrapf(err, "read source file %s", path)
	}
	records, err := match.DecodeRecords(data)
	if err != nil {
		return nil, crerr.Wrapf(err, "parse source file %s", path)
	}
	return records, nil
}

// Write replaces the file for day with records; the rename keeps readers from seeing partial content.
func (d *Directory) Write(ctx context.Context, day match.SourceDay) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(day.Bucket) != 8 || strings.Trim(day.Bucket, "0123456789") != "" {
		return "", crerr.Wrapf(ErrInvalidDayName, "%q", day.Bucket)
	}

	records := day.Records
	if records == nil {
		records = []match.SourceRecord{}
	}
	body, err := sonic.ConfigDefault.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", crerr.Wrap(err, "encode source records")
	}

	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return "", crerr.Wrapf(err, "create source dir %s", d.root)
	}
	path := filepath.Join(d.root, day.Bucket+fileExt)
	if err := writeFileAtomic(path, body); err != nil {
		return "", err
	}
	return path, nil
}

func writeFileAtomic(path string, body []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return crerr.Wrapf(err, "create temp file for %s", path)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return crerr.Wrapf(err, "write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return crerr.Wrapf(err, "close %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return crerr.Wrapf(err, "rename %s", path)
	}
	return nil
}
