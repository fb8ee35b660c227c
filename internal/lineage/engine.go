// Package lineage moves contacts and places within the hierarchy and
// rewrites every lineage chain the move invalidates.
package lineage

import (
	"context"
	"errors"
	"time"

	"github.com/fulmenhq/lineage/internal/doc"
	"github.com/fulmenhq/lineage/internal/store"
	"github.com/fulmenhq/lineage/pkg/logger"
	"github.com/google/uuid"
)

// State is the phase a move request is in.
type State int

const (
	StateValidating State = iota
	StateEnumerating
	StateComputing
	StateStaging
	StateDone
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateEnumerating:
		return "enumerating"
	case StateComputing:
		return "computing"
	case StateStaging:
		return "staging"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Options bounds the reads issued by the engine.
type Options struct {
	BatchSize   int
	Concurrency int
}

// DefaultOptions match the configuration defaults.
var DefaultOptions = Options{BatchSize: 100, Concurrency: 4}

// Engine executes move requests against a backend.
type Engine struct {
	backend store.Backend
	opts    Options
}

// NewEngine returns an engine reading from backend. Zero options take their
// defaults.
func NewEngine(backend store.Backend, opts Options) *Engine {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultOptions.BatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultOptions.Concurrency
	}
	return &Engine{backend: backend, opts: opts}
}

// Result describes a move request. On failure State is the phase that failed.
type Result struct {
	RunID  string
	State  State
	Staged []string
	// Documents holds the staged documents, in Staged order.
	Documents []*doc.Document
}

type run struct {
	result *Result
	log    *logger.Logger
}

func (r *run) enter(s State) {
	r.result.State = s
	r.log.Debug("Entering phase", logger.String("phase", s.String()))
}

// move is the per-contact work carried from enumeration into computation.
type move struct {
	tree        *subtree
	destination doc.Lineage
}

// Move validates req, computes every document the move touches and writes
// them to sink. Nothing is written unless every earlier phase succeeds.
func (e *Engine) Move(ctx context.Context, req *MoveRequest, sink StagingSink) (_ *Result, err error) {
	defer func() { err = malformed(err) }()
	started := time.Now()
	r := &run{result: &Result{RunID: uuid.NewString(), State: StateValidating}}
	r.log = logger.With(logger.String("run_id", r.result.RunID))
	r.enter(StateValidating)

	ws := newWorkspace(e.backend, e.opts)
	rules, err := LoadRules(ctx, e.backend)
	if err != nil {
		return r.result, err
	}
	p, err := validate(ctx, ws, req, rules)
	if err != nil {
		return r.result, err
	}

	destination, err := e.destinationLineage(p)
	if err != nil {
		return r.result, err
	}

	r.enter(StateEnumerating)
	moves := make([]move, 0, len(p.contacts))
	for _, c := range p.contacts {
		st, err := e.enumerate(ctx, ws, c, r.log)
		if err != nil {
			return r.result, err
		}
		if err := checkPrimaryContacts(st, destination); err != nil {
			return r.result, err
		}
		moves = append(moves, move{tree: st, destination: destination})
	}

	r.enter(StateComputing)
	for _, m := range moves {
		if err := e.compute(ctx, ws, m, r.log); err != nil {
			return r.result, err
		}
	}

	r.enter(StateStaging)
	if err := ws.changes.commit(sink, req.Force); err != nil {
		return r.result, err
	}

	r.result.Staged = ws.changes.ids()
	r.result.Documents = ws.changes.documents()
	r.enter(StateDone)
	r.log.Info("Staged moved contacts",
		logger.Strings("contacts", req.ContactIDs),
		logger.String("parent", req.ParentID),
		logger.Int("documents", len(r.result.Staged)),
		logger.Duration("elapsed", time.Since(started)))
	return r.result, nil
}

// malformed gives unreadable lineage fields from the document layer the
// MalformedDocument kind, so they match ErrMalformedDocument.
func malformed(err error) error {
	var e *Error
	if err == nil || errors.As(err, &e) || !errors.Is(err, doc.ErrMalformed) {
		return err
	}
	return &Error{Kind: MalformedDocument, Message: "malformed document", Err: err}
}

// destinationLineage is the chain a contact placed under the validated
// destination gets as its parent.
func (e *Engine) destinationLineage(p *plan) (doc.Lineage, error) {
	if p.parent == nil {
		return nil, nil
	}
	return doc.LineageOf(p.parent)
}

func (e *Engine) compute(ctx context.Context, ws *workspace, m move, log *logger.Logger) error {
	st := m.tree
	movedID := st.root.ID()

	replacement := m.destination

	// Documents touched for an earlier contact of the same request are used
	// in place of the stored copies.
	root := ws.current(movedID)
	if root == nil {
		root = st.root
	}
	members := make([]*doc.Document, 0, len(st.members))
	for _, member := range st.members {
		if latest := ws.current(member.ID()); latest != nil {
			member = latest
		}
		members = append(members, member)
	}

	built, err := buildSubtree(root, members, replacement)
	if err != nil {
		return err
	}
	ws.stage(built...)

	ancestorIDs := make([]string, 0, len(st.ancestors))
	for _, a := range st.ancestors {
		ancestorIDs = append(ancestorIDs, a.ID())
	}
	ancestors, err := ws.load(ctx, ancestorIDs)
	if err != nil {
		return err
	}
	cascaded, err := cascadePrimaryContacts(compact(ancestors), st.ids, ws.current)
	if err != nil {
		return err
	}
	ws.stage(cascaded...)

	reports, err := e.relinkReports(ctx, ws, movedID, st.memberIDs(), replacement, log)
	if err != nil {
		return err
	}
	ws.stage(reports...)

	log.Debug("Computed move",
		logger.String("contact", movedID),
		logger.Int("subtree", len(built)),
		logger.Int("primary_contacts", len(cascaded)),
		logger.Int("reports", len(reports)))
	return nil
}

func compact(docs []*doc.Document) []*doc.Document {
	out := docs[:0]
	for _, d := range docs {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}
