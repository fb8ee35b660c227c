package lineage

import (
	"context"
	"fmt"

	"github.com/fulmenhq/lineage/internal/doc"
	"github.com/fulmenhq/lineage/pkg/logger"
)

// relinkReports finds reports submitted by any subtree member and rewrites
// their contact chain after movedID. Discovery goes through the freetext
// index, so reports it has not indexed are missed.
func (e *Engine) relinkReports(ctx context.Context, ws *workspace, movedID string, contactIDs []string, replacement doc.Lineage, log *logger.Logger) ([]*doc.Document, error) {
	limit := e.opts.BatchSize
	var out []*doc.Document

	for start := 0; start < len(contactIDs); start += limit {
		keys := contactIDs[start:min(start+limit, len(contactIDs))]

		for skip := 0; ; skip += limit {
			page, err := e.backend.ReportsReferencing(ctx, keys, skip, limit)
			if err != nil {
				return nil, fmt.Errorf("search reports: %w", err)
			}

			for _, report := range page {
				if report == nil {
					continue
				}
				if staged := ws.current(report.ID()); staged != nil {
					report = staged
				}
				changed, err := spliceField(report, doc.FieldContact, movedID, replacement)
				if err != nil {
					return nil, err
				}
				if changed {
					out = append(out, report)
				}
			}

			if len(page) < limit {
				break
			}
		}
	}

	log.Debug("Relinked reports", logger.String("contact", movedID), logger.Int("reports", len(out)))
	return out, nil
}
