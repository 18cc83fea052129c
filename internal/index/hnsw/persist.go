package hnsw

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/samarth-labs/samarth-cli/internal/core/domain"
)

const (
	// DescriptorFile is the JSON sidecar describing a persisted index.
	DescriptorFile = "index.json"

	// GraphFile holds the serialized graph.
	GraphFile = "index.bin"

	graphMagic   = uint32(0x534d4858) // "SMHX"
	graphVersion = uint32(1)
)

// Descriptor is the JSON sidecar written next to the binary graph. It is
// enough to validate a persisted index against the runtime configuration
// without decoding the graph itself.
type Descriptor struct {
	IndexType           string    `json:"index_type"`
	EmbeddingModelID    string    `json:"embedding_model_id"`
	TotalVectors        int       `json:"total_vectors"`
	Dimension           int       `json:"dimension"`
	CreatedAt           time.Time `json:"created_at"`
	ConstructionBreadth int       `json:"construction_breadth"`
	MaxDegree           int       `json:"max_degree"`
}

// Save writes the graph and its descriptor into dir, creating it if needed.
// The graph file is written through a temp file and renamed so a crash never
// leaves a truncated index behind.
func (i *Index) Save(dir string) error {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.closed {
		return domain.ErrIndexClosed
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("hnsw: creating index dir: %w", err)
	}

	if err := i.writeGraph(filepath.Join(dir, GraphFile)); err != nil {
		return err
	}

	desc := Descriptor{
		IndexType:           "hnsw",
		EmbeddingModelID:    i.cfg.ModelID,
		TotalVectors:        len(i.nodes),
		Dimension:           i.cfg.Dimension,
		CreatedAt:           i.createdAt,
		ConstructionBreadth: i.cfg.EfConstruction,
		MaxDegree:           i.cfg.M,
	}
	raw, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return fmt.Errorf("hnsw: encoding descriptor: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, DescriptorFile), raw, 0o644); err != nil {
		return fmt.Errorf("hnsw: writing descriptor: %w", err)
	}
	return nil
}

func (i *Index) writeGraph(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("hnsw: creating graph file: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := i.encodeGraph(w); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("hnsw: flushing graph file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("hnsw: closing graph file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("hnsw: replacing graph file: %w", err)
	}
	return nil
}

func (i *Index) encodeGraph(w *bufio.Writer) error {
	writeU32 := func(v uint32) error { return binary.Write(w, binary.LittleEndian, v) }

	if err := writeU32(graphMagic); err != nil {
		return fmt.Errorf("hnsw: writing graph header: %w", err)
	}
	if err := writeU32(graphVersion); err != nil {
		return fmt.Errorf("hnsw: writing graph header: %w", err)
	}
	if err := writeU32(uint32(i.cfg.Dimension)); err != nil {
		return fmt.Errorf("hnsw: writing graph header: %w", err)
	}
	if err := writeU32(uint32(len(i.nodes))); err != nil {
		return fmt.Errorf("hnsw: writing graph header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, int32(i.maxLevel)); err != nil {
		return fmt.Errorf("hnsw: writing graph header: %w", err)
	}
	if err := writeU32(i.entry); err != nil {
		return fmt.Errorf("hnsw: writing graph header: %w", err)
	}

	for _, n := range i.nodes {
		id := []byte(n.chunkID)
		if err := writeU32(uint32(len(id))); err != nil {
			return fmt.Errorf("hnsw: writing node: %w", err)
		}
		if _, err := w.Write(id); err != nil {
			return fmt.Errorf("hnsw: writing node: %w", err)
		}
		for _, x := range n.vector {
			if err := writeU32(math.Float32bits(x)); err != nil {
				return fmt.Errorf("hnsw: writing node: %w", err)
			}
		}
		if err := writeU32(uint32(len(n.neighbors))); err != nil {
			return fmt.Errorf("hnsw: writing node: %w", err)
		}
		for _, layer := range n.neighbors {
			if err := writeU32(uint32(len(layer))); err != nil {
				return fmt.Errorf("hnsw: writing node: %w", err)
			}
			for _, nb := range layer {
				if err := writeU32(nb); err != nil {
					return fmt.Errorf("hnsw: writing node: %w", err)
				}
			}
		}
	}
	return nil
}

// ReadDescriptor loads and decodes the descriptor sidecar from dir.
func ReadDescriptor(dir string) (Descriptor, error) {
	raw, err := os.ReadFile(filepath.Join(dir, DescriptorFile))
	if err != nil {
		if os.IsNotExist(err) {
			return Descriptor{}, fmt.Errorf("hnsw: no index descriptor in %s: %w", dir, domain.ErrNotFound)
		}
		return Descriptor{}, fmt.Errorf("hnsw: reading descriptor: %w", err)
	}
	var desc Descriptor
	if err := json.Unmarshal(raw, &desc); err != nil {
		return Descriptor{}, fmt.Errorf("hnsw: decoding descriptor: %w", err)
	}
	return desc, nil
}

// Load reads a persisted index from dir. The descriptor's dimension must
// match cfg.Dimension; a mismatch means the index was built with a different
// embedding model and fails with domain.ErrCorpusMismatch.
func Load(dir string, cfg Config) (*Index, error) {
	desc, err := ReadDescriptor(dir)
	if err != nil {
		return nil, err
	}
	if cfg.Dimension > 0 && desc.Dimension != cfg.Dimension {
		return nil, fmt.Errorf("hnsw: stored index has dimension %d, config expects %d: %w",
			desc.Dimension, cfg.Dimension, domain.ErrCorpusMismatch)
	}

	cfg.Dimension = desc.Dimension
	if cfg.M <= 0 {
		cfg.M = desc.MaxDegree
	}
	if cfg.EfConstruction <= 0 {
		cfg.EfConstruction = desc.ConstructionBreadth
	}
	if cfg.ModelID == "" {
		cfg.ModelID = desc.EmbeddingModelID
	}

	idx, err := New(cfg)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, GraphFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("hnsw: no graph file in %s: %w", dir, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("hnsw: opening graph file: %w", err)
	}
	defer f.Close()

	if err := idx.decodeGraph(bufio.NewReader(f)); err != nil {
		return nil, err
	}
	idx.createdAt = desc.CreatedAt
	return idx, nil
}

func (i *Index) decodeGraph(r *bufio.Reader) error {
	readU32 := func() (uint32, error) {
		var v uint32
		err := binary.Read(r, binary.LittleEndian, &v)
		return v, err
	}

	magic, err := readU32()
	if err != nil {
		return fmt.Errorf("hnsw: reading graph header: %w", err)
	}
	if magic != graphMagic {
		return fmt.Errorf("hnsw: not an index graph file: %w", domain.ErrInvalidInput)
	}
	version, err := readU32()
	if err != nil {
		return fmt.Errorf("hnsw: reading graph header: %w", err)
	}
	if version != graphVersion {
		return fmt.Errorf("hnsw: unsupported graph version %d: %w", version, domain.ErrInvalidInput)
	}
	dim, err := readU32()
	if err != nil {
		return fmt.Errorf("hnsw: reading graph header: %w", err)
	}
	if int(dim) != i.cfg.Dimension {
		return fmt.Errorf("hnsw: graph file has dimension %d, descriptor says %d: %w",
			dim, i.cfg.Dimension, domain.ErrCorpusMismatch)
	}
	count, err := readU32()
	if err != nil {
		return fmt.Errorf("hnsw: reading graph header: %w", err)
	}
	var maxLevel int32
	if err := binary.Read(r, binary.LittleEndian, &maxLevel); err != nil {
		return fmt.Errorf("hnsw: reading graph header: %w", err)
	}
	entry, err := readU32()
	if err != nil {
		return fmt.Errorf("hnsw: reading graph header: %w", err)
	}

	nodes := make([]*node, 0, count)
	byID := make(map[string]uint32, count)
	for n := uint32(0); n < count; n++ {
		idLen, err := readU32()
		if err != nil {
			return fmt.Errorf("hnsw: reading node %d: %w", n, err)
		}
		id := make([]byte, idLen)
		if _, err := io.ReadFull(r, id); err != nil {
			return fmt.Errorf("hnsw: reading node %d: %w", n, err)
		}

		vec := make([]float32, dim)
		for d := range vec {
			bits, err := readU32()
			if err != nil {
				return fmt.Errorf("hnsw: reading node %d: %w", n, err)
			}
			vec[d] = math.Float32frombits(bits)
		}

		layers, err := readU32()
		if err != nil {
			return fmt.Errorf("hnsw: reading node %d: %w", n, err)
		}
		neighbors := make([][]uint32, layers)
		for l := range neighbors {
			deg, err := readU32()
			if err != nil {
				return fmt.Errorf("hnsw: reading node %d: %w", n, err)
			}
			layer := make([]uint32, deg)
			for d := range layer {
				nb, err := readU32()
				if err != nil {
					return fmt.Errorf("hnsw: reading node %d: %w", n, err)
				}
				if nb >= count {
					return fmt.Errorf("hnsw: node %d references missing neighbour %d: %w", n, nb, domain.ErrInvalidInput)
				}
				layer[d] = nb
			}
			neighbors[l] = layer
		}

		chunkID := string(id)
		if _, dup := byID[chunkID]; dup {
			return fmt.Errorf("hnsw: duplicate chunk id %q in graph file: %w", chunkID, domain.ErrInvalidInput)
		}
		byID[chunkID] = n
		nodes = append(nodes, &node{chunkID: chunkID, vector: vec, neighbors: neighbors})
	}

	if count > 0 && entry >= count {
		return fmt.Errorf("hnsw: entry point %d out of range: %w", entry, domain.ErrInvalidInput)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	i.nodes = nodes
	i.byID = byID
	i.entry = entry
	i.maxLevel = int(maxLevel)
	return nil
}
