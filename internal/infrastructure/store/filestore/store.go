package filestore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/matchday-feed/internal/domain/enrichment"
	"github.com/riskibarqy/matchday-feed/internal/platform/logging"
)

// Store keeps one JSON object per (kind, date bucket) at <root>/<kind>/<YYYYMMDD>.json,
// keyed by match id string.
type Store struct {
	root   string
	logger *logging.Logger
	// Guards read-modify-write within this process; cross-process writers are not coordinated.
	mu sync.Mutex
}

func New(root string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{root: root, logger: logger}
}

func (s *Store) Path(kind enrichment.Kind, bucket enrichment.DateBucket) string {
	return filepath.Join(s.root, string(kind), string(bucket)+".json")
}

// Merge overlays entries onto the stored object and rewrites the whole file.
func (s *Store) Merge(ctx context.Context, kind enrichment.Kind, bucket enrichment.DateBucket, entries map[int64]enrichment.Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(kind, bucket)
	current := s.readOrEmpty(ctx, path, kind, bucket)
	for id, payload := range entries {
		if payload.IsZero() {
			continue
		}
		current[id] = payload
	}

	body := encodeStore(current)
	defer bytebufferpool.Put(body)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return crerr.Wrapf(err, "create store dir for %s", path)
	}
	return writeFileAtomic(path, body.B)
}

func (s *Store) Load(ctx context.Context, kind enrichment.Kind, bucket enrichment.DateBucket) (map[int64]enrichment.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.readOrEmpty(ctx, s.Path(kind, bucket), kind, bucket), nil
}

func (s *Store) Get(ctx context.Context, kind enrichment.Kind, bucket enrichment.DateBucket, matchID int64) (enrichment.Payload, bool, error) {
	entries, err := s.Load(ctx, kind, bucket)
	if err != nil {
		return nil, false, err
	}
	payload, ok := entries[matchID]
	return payload, ok, nil
}

// readOrEmpty treats a missing or corrupt store as empty; corruption is logged.
func (s *Store) readOrEmpty(ctx context.Context, path string, kind enrichment.Kind, bucket enrichment.DateBucket) map[int64]enrichment.Payload {
	out := make(map[int64]enrichment.Payload)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.WarnContext(ctx, "read enrichment store failed, treating as empty",
				"path", path, "kind", kind, "date_bucket", bucket, "error", err)
		}
		return out
	}

	var raw map[string]sonicRaw
	if err := sonic.Unmarshal(data, &raw); err != nil {
		s.logger.WarnContext(ctx, "corrupt enrichment store, treating as empty",
			"path", path, "kind", kind, "date_bucket", bucket, "error", err)
		return out
	}

	for key, value := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			s.logger.WarnContext(ctx, "skip non-numeric store key", "path", path, "key", key)
			continue
		}
		out[id] = enrichment.Payload(value)
	}
	return out
}

// sonicRaw keeps each entry's bytes untouched.
type sonicRaw []byte

func (r *sonicRaw) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// encodeStore writes entries sorted by id, one per line, so diffs between runs stay small.
func encodeStore(entries map[int64]enrichment.Payload) *bytebufferpool.ByteBuffer {
	ids := make([]int64, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	buf := bytebufferpool.Get()
	if len(ids) == 0 {
		_, _ = buf.WriteString("{}\n")
		return buf
	}

	_ = buf.WriteByte('{')
	for i, id := range ids {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		_, _ = buf.WriteString("\n  \"")
		_, _ = buf.WriteString(strconv.FormatInt(id, 10))
		_, _ = buf.WriteString("\": ")
		_, _ = buf.Write(entries[id])
	}
	_, _ = buf.WriteString("\n}\n")
	return buf
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
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return crerr.Wrapf(err, "sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return crerr.Wrapf(err, "close %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return crerr.Wrapf(err, "rename %s", path)
	}
	return nil
}
