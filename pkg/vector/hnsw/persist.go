package hnsw

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
)

const (
	graphExt = ".hnsw"
	vecExt   = ".vec"
	idsExt   = ".ids"

	graphMagic   = "HNSW"
	graphVersion = uint32(1)
)

// Save writes the graph, vectors and ids next to BasePath. Saving an empty
// index is a no-op. Every artifact is written to a temp file and renamed so
// readers never observe a partial file.
func (x *Index) Save() error {
	if x.cfg.BasePath == "" {
		return ErrNoBasePath
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.vectors) == 0 {
		return nil
	}

	if dir := filepath.Dir(x.cfg.BasePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating index directory: %w", err)
		}
	}

	if err := writeAtomic(x.cfg.BasePath+vecExt, x.writeVectors); err != nil {
		return err
	}
	if err := writeAtomic(x.cfg.BasePath+idsExt, x.writeIDs); err != nil {
		return err
	}
	if err := writeAtomic(x.cfg.BasePath+graphExt, x.writeGraph); err != nil {
		return err
	}

	x.logger.Debug("saved hnsw index", "base_path", x.cfg.BasePath, "count", len(x.vectors))

	return nil
}

// Remove deletes the persisted artifacts at basePath. Missing files are not
// an error.
func Remove(basePath string) error {
	if basePath == "" {
		return ErrNoBasePath
	}
	for _, ext := range []string{graphExt, vecExt, idsExt} {
		if err := os.Remove(basePath + ext); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", basePath+ext, err)
		}
	}
	return nil
}

func writeAtomic(path string, write func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming %s: %w", path, err)
	}

	return nil
}

func (x *Index) writeVectors(w io.Writer) error {
	if err := putInt32(w, int32(len(x.vectors)), int32(x.cfg.Dimensions)); err != nil {
		return err
	}

	buf := make([]byte, 4*x.cfg.Dimensions)
	for _, v := range x.vectors {
		for i, f := range v {
			binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	return nil
}

func (x *Index) writeIDs(w io.Writer) error {
	if err := putInt32(w, int32(len(x.ids))); err != nil {
		return err
	}
	for _, id := range x.ids {
		if err := putInt32(w, int32(id)); err != nil {
			return err
		}
	}
	return nil
}

func (x *Index) writeGraph(w io.Writer) error {
	if _, err := io.WriteString(w, graphMagic); err != nil {
		return err
	}

	header := []any{
		graphVersion,
		uint32(x.cfg.M),
		uint32(x.cfg.EfConstruction),
		x.entry,
		int32(x.maxLevel),
		uint32(len(x.vectors)),
	}
	for _, h := range header {
		if err := binary.Write(w, binary.LittleEndian, h); err != nil {
			return err
		}
	}

	for pos := range x.vectors {
		if err := binary.Write(w, binary.LittleEndian, uint32(x.levels[pos])); err != nil {
			return err
		}
		for layer := 0; layer <= x.levels[pos]; layer++ {
			links := x.links[pos][layer]
			if err := binary.Write(w, binary.LittleEndian, uint32(len(links))); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, links); err != nil {
				return err
			}
		}
	}

	return nil
}

func putInt32(w io.Writer, vs ...int32) error {
	for _, v := range vs {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

// Load replaces the in-memory index with the persisted artifacts. Vectors
// and ids are authoritative; a missing or inconsistent graph blob is
// rebuilt from them.
func (x *Index) Load() error {
	if x.cfg.BasePath == "" {
		return ErrNoBasePath
	}

	vectors, err := readVectors(x.cfg.BasePath+vecExt, x.cfg.Dimensions)
	if err != nil {
		return err
	}
	ids, err := readIDs(x.cfg.BasePath + idsExt)
	if err != nil {
		return err
	}
	if len(ids) != len(vectors) {
		return fmt.Errorf("%w: %d vectors but %d ids", ErrCorrupt, len(vectors), len(ids))
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	x.reset()
	for i, v := range vectors {
		if _, dup := x.positions[ids[i]]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrCorrupt, ids[i])
		}
		x.append(ids[i], v)
	}

	if err := x.readGraph(x.cfg.BasePath + graphExt); err != nil {
		x.logger.Warn("rebuilding hnsw graph from vectors",
			"base_path", x.cfg.BasePath,
			"count", len(vectors),
			"reason", err,
		)
		x.rebuild()
	}

	x.logger.Debug("loaded hnsw index", "base_path", x.cfg.BasePath, "count", len(x.vectors))

	return nil
}

// reset clears all state. Callers hold the write lock.
func (x *Index) reset() {
	x.vectors = nil
	x.ids = nil
	x.levels = nil
	x.links = nil
	x.positions = make(map[int64]int32)
	x.entry = -1
	x.maxLevel = 0
	x.rng = rand.New(rand.NewSource(x.cfg.Seed))
}

// rebuild re-inserts every stored vector in position order.
func (x *Index) rebuild() {
	x.levels = nil
	x.links = nil
	x.entry = -1
	x.maxLevel = 0
	x.rng = rand.New(rand.NewSource(x.cfg.Seed))

	for pos := range x.vectors {
		x.insert(int32(pos))
	}
}

func readVectors(path string, dims int) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var count, dim int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading vector count: %v", ErrCorrupt, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("%w: reading vector dimension: %v", ErrCorrupt, err)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative vector count %d", ErrCorrupt, count)
	}
	if int(dim) != dims {
		return nil, fmt.Errorf("%w: file dimension %d, configured %d", ErrCorrupt, dim, dims)
	}
	if err := checkSize(f, 8+int64(count)*int64(dims)*4); err != nil {
		return nil, err
	}

	vectors := make([][]float32, count)
	buf := make([]byte, 4*dims)
	for i := range vectors {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("%w: reading vector %d: %v", ErrCorrupt, i, err)
		}
		v := make([]float32, dims)
		for j := range v {
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf[j*4:]))
		}
		vectors[i] = v
	}

	return vectors, nil
}

func readIDs(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading id count: %v", ErrCorrupt, err)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative id count %d", ErrCorrupt, count)
	}
	if err := checkSize(f, 4+int64(count)*4); err != nil {
		return nil, err
	}

	raw := make([]int32, count)
	if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
		return nil, fmt.Errorf("%w: reading ids: %v", ErrCorrupt, err)
	}

	ids := make([]int64, count)
	for i, id := range raw {
		ids[i] = int64(id)
	}

	return ids, nil
}

// checkSize rejects a file whose length disagrees with its header, before
// the header count is used to allocate.
func checkSize(f *os.File, want int64) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", f.Name(), err)
	}
	if info.Size() != want {
		return fmt.Errorf("%w: %s is %d bytes, header implies %d", ErrCorrupt, f.Name(), info.Size(), want)
	}
	return nil
}

var errGraphMismatch = errors.New("graph does not match vectors")

// readGraph loads the link structure for the already loaded vectors.
// Callers hold the write lock. On error the link state is undefined and
// the caller rebuilds.
func (x *Index) readGraph(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)

	magic := make([]byte, len(graphMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return err
	}
	if string(magic) != graphMagic {
		return fmt.Errorf("%w: bad magic %q", errGraphMismatch, magic)
	}

	var (
		version, m, efc, count uint32
		entry, maxLevel        int32
	)
	for _, v := range []any{&version, &m, &efc, &entry, &maxLevel, &count} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	n := len(x.vectors)
	switch {
	case version != graphVersion:
		return fmt.Errorf("%w: version %d", errGraphMismatch, version)
	case int(count) != n:
		return fmt.Errorf("%w: %d nodes for %d vectors", errGraphMismatch, count, n)
	case n == 0 && entry != -1, n > 0 && (entry < 0 || int(entry) >= n):
		return fmt.Errorf("%w: entry point %d", errGraphMismatch, entry)
	case maxLevel < 0:
		return fmt.Errorf("%w: max level %d", errGraphMismatch, maxLevel)
	}

	levels := make([]int, n)
	links := make([][][]int32, n)
	for pos := 0; pos < n; pos++ {
		var level uint32
		if err := binary.Read(r, binary.LittleEndian, &level); err != nil {
			return err
		}
		if int(level) > int(maxLevel) {
			return fmt.Errorf("%w: node %d level %d above max %d", errGraphMismatch, pos, level, maxLevel)
		}

		levels[pos] = int(level)
		links[pos] = make([][]int32, level+1)
		for layer := 0; layer <= int(level); layer++ {
			var size uint32
			if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
				return err
			}
			if int(size) > n {
				return fmt.Errorf("%w: node %d has %d links", errGraphMismatch, pos, size)
			}

			nbrs := make([]int32, size)
			if err := binary.Read(r, binary.LittleEndian, nbrs); err != nil {
				return err
			}
			for _, nb := range nbrs {
				if nb < 0 || int(nb) >= n {
					return fmt.Errorf("%w: node %d links to %d", errGraphMismatch, pos, nb)
				}
			}
			links[pos][layer] = nbrs
		}
	}

	for pos := range links {
		for layer, nbrs := range links[pos] {
			for _, nb := range nbrs {
				if levels[nb] < layer {
					return fmt.Errorf("%w: node %d links to %d above its level", errGraphMismatch, pos, nb)
				}
			}
		}
	}

	if n > 0 && levels[entry] != int(maxLevel) {
		return fmt.Errorf("%w: entry level %d, max level %d", errGraphMismatch, levels[entry], maxLevel)
	}

	x.levels = levels
	x.links = links
	x.entry = entry
	x.maxLevel = int(maxLevel)

	return nil
}
