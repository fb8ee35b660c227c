package lineage

import (
	"errors"
	"fmt"

	"github.com/fulmenhq/lineage/internal/doc"
	"github.com/fulmenhq/lineage/internal/staging"
)

// StagingSink receives the documents of a completed request.
type StagingSink interface {
	// Prepare readies the destination. It is called once, before the first
	// write.
	Prepare(force bool) error
	WriteDocument(d *doc.Document) error
}

// changeSet keeps one version per document id: ids stay in the order they
// were first produced, the last produced version wins.
type changeSet struct {
	order []string
	docs  map[string]*doc.Document
}

func newChangeSet() *changeSet {
	return &changeSet{docs: make(map[string]*doc.Document)}
}

func (c *changeSet) add(docs ...*doc.Document) {
	for _, d := range docs {
		id := d.ID()
		if _, seen := c.docs[id]; !seen {
			c.order = append(c.order, id)
		}
		c.docs[id] = d
	}
}

func (c *changeSet) get(id string) (*doc.Document, bool) {
	d, ok := c.docs[id]
	return d, ok
}

func (c *changeSet) ids() []string {
	return append([]string(nil), c.order...)
}

func (c *changeSet) documents() []*doc.Document {
	out := make([]*doc.Document, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.docs[id])
	}
	return out
}

// commit prepares the sink and writes every document.
func (c *changeSet) commit(sink StagingSink, force bool) error {
	if err := sink.Prepare(force); err != nil {
		if errors.Is(err, staging.ErrNotEmpty) {
			return &Error{Kind: InvalidArguments, Message: "cannot stage documents", Err: err}
		}
		return fmt.Errorf("prepare staging: %w", err)
	}
	for _, d := range c.documents() {
		if err := sink.WriteDocument(d); err != nil {
			return fmt.Errorf("stage %s: %w", d.ID(), err)
		}
	}
	return nil
}
