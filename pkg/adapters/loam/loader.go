package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader adapts a Loam document repository to ports.DefinitionLoader: every document declares
// one block and its outgoing lines.
type Loader struct {
	Repo *loam.TypedRepository[BlockMetadata]
	name string
}

// New creates a new Loam adapter. name becomes the definition name.
func New(repo *loam.TypedRepository[BlockMetadata], name string) *Loader {
	return &Loader{
		Repo: repo,
		name: name,
	}
}

// Open initializes a read-only, strict Loam repository at path and wraps it.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers as json.Number; read-only avoids the dev-mode sandbox.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return New(loam.NewTypedRepository[BlockMetadata](repo), filepath.Base(absPath)), nil
}

// Load lists every document and builds the graph definition. Blocks are ordered by id; lines
// follow their source block.
func (l *Loader) Load(ctx context.Context) (*domain.GraphDefinition, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	type entry struct {
		id   string
		path string
		meta BlockMetadata
		body string
	}

	seen := make(map[string]string)
	entries := make([]entry, 0, len(docs))
	for _, doc := range docs {
		// Use the ID from metadata if available, otherwise filename ID
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		entries = append(entries, entry{id: id, path: doc.ID, meta: doc.Data, body: doc.Content})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	def := &domain.GraphDefinition{Name: l.name}
	for _, e := range entries {
		if strings.TrimSpace(e.meta.Type) == "" {
			return nil, fmt.Errorf("document %s: missing block type", e.path)
		}

		defaultInput := e.meta.DefaultInput
		if strings.TrimSpace(defaultInput) == "" {
			defaultInput = strings.TrimSpace(e.body)
		}

		def.Blocks = append(def.Blocks, domain.BlockDefinition{
			ID:           e.id,
			Type:         e.meta.Type,
			DefaultInput: defaultInput,
			Params:       e.meta.Params,
		})

		for _, to := range e.meta.To {
			to = trimExtension(to)
			def.Lines = append(def.Lines, domain.LineDefinition{ID: e.id + "->" + to, From: e.id, To: to})
		}
		for i, lm := range e.meta.Lines {
			to := trimExtension(lm.To)
			id := lm.ID
			if id == "" {
				id = fmt.Sprintf("%s->%s#%d", e.id, to, i)
			}
			def.Lines = append(def.Lines, domain.LineDefinition{ID: id, From: e.id, To: to})
		}

		if strings.TrimSpace(e.meta.Value) != "" {
			def.Parameters = append(def.Parameters, domain.InstanceParameter{BlockID: e.id, Value: e.meta.Value})
		}
	}

	return def, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
