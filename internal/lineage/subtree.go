package lineage

import (
	"context"
	"fmt"

	"github.com/fulmenhq/lineage/internal/doc"
	"github.com/fulmenhq/lineage/internal/store"
	"github.com/fulmenhq/lineage/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// subtree is a moved contact together with everything below it.
type subtree struct {
	root    *doc.Document
	members []*doc.Document // excludes root
	ids     map[string]bool // includes root
	// ancestors are the documents of root's parent chain before the move,
	// nearest first. Missing ancestors are left out.
	ancestors []*doc.Document
}

func (s *subtree) memberIDs() []string {
	out := make([]string, 0, len(s.members)+1)
	out = append(out, s.root.ID())
	for _, m := range s.members {
		out = append(out, m.ID())
	}
	return out
}

// enumerate collects the subtree rooted at mover through the depth index and
// loads every member before returning.
func (e *Engine) enumerate(ctx context.Context, ws *workspace, mover *doc.Document, log *logger.Logger) (*subtree, error) {
	rootID := mover.ID()
	ids, err := e.backend.DescendantIDs(ctx, rootID)
	if err != nil {
		return nil, fmt.Errorf("enumerate descendants of %s: %w", rootID, err)
	}

	others := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != rootID {
			others = append(others, id)
		}
	}

	docs, err := ws.load(ctx, others)
	if err != nil {
		return nil, err
	}

	st := &subtree{root: mover, ids: map[string]bool{rootID: true}}
	for i, d := range docs {
		switch {
		case d == nil:
			log.Warn("Descendant disappeared before it could be read", logger.String("id", others[i]))
		case d.IsTombstone():
			log.Trace("Skipping tombstone", logger.String("id", others[i]))
		default:
			st.members = append(st.members, d)
			st.ids[d.ID()] = true
		}
	}

	parent, err := mover.Parent()
	if err != nil {
		return nil, err
	}
	ancestors, err := ws.load(ctx, parent)
	if err != nil {
		return nil, err
	}
	for i, a := range ancestors {
		if a == nil {
			log.Warn("Ancestor referenced in lineage does not exist", logger.String("id", parent[i]))
			continue
		}
		st.ancestors = append(st.ancestors, a)
	}

	log.Debug("Enumerated subtree",
		logger.String("contact", rootID),
		logger.Int("members", len(st.members)),
		logger.Int("ancestors", len(st.ancestors)))
	return st, nil
}

// fetchDocuments reads ids in batches of batchSize with at most concurrency
// batches in flight. The result is aligned with ids; missing documents are nil.
func fetchDocuments(ctx context.Context, s store.DocumentStore, ids []string, batchSize, concurrency int) ([]*doc.Document, error) {
	out := make([]*doc.Document, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for start := 0; start < len(ids); start += batchSize {
		end := min(start+batchSize, len(ids))
		g.Go(func() error {
			docs, err := s.GetMany(gctx, ids[start:end])
			if err != nil {
				return fmt.Errorf("fetch documents: %w", err)
			}
			if len(docs) != end-start {
				return fmt.Errorf("fetch documents: got %d results for %d ids", len(docs), end-start)
			}
			copy(out[start:end], docs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
