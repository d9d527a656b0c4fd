package restrictions

import (
	"context"
	"sync"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/apprestrictions/pkg/domain"
)

// ActionGetRestrictionEntries is the query action asking for the restriction entries
const ActionGetRestrictionEntries = "get-restriction-entries"

// Query is a request issued by the platform. Existing is nil when the profile
// has never been configured.
type Query struct {
	Action   string              `json:"action"`
	Existing domain.Restrictions `json:"existing"`
}

// Result is the answer to a query: the entry list and, for custom configuration,
// the location of the custom settings form
type Result struct {
	Entries  domain.Catalog `json:"entries"`
	Redirect string         `json:"redirect,omitempty"`
}

// PendingResult is a completion token resolved exactly once
type PendingResult struct {
	once sync.Once
	ch   chan Result
}

// NewPendingResult makes a token and the channel receiving its single result
func NewPendingResult() (*PendingResult, <-chan Result) {
	ch := make(chan Result, 1)
	return &PendingResult{ch: ch}, ch
}

// Finish delivers the result. Only the first call has effect, it returns false
// for every subsequent call.
func (p *PendingResult) Finish(res Result) bool {
	finished := false
	p.once.Do(func() {
		p.ch <- res
		close(p.ch)
		finished = true
	})
	return finished
}

// FlagStore reads locally stored boolean flags
type FlagStore interface {
	GetBool(ctx context.Context, key string) (bool, error)
}

// ResponderConfig holds the responder dependencies
type ResponderConfig struct {
	Resources     Resources
	Flags         FlagStore
	CustomFormURL string // redirect target when custom configuration is enabled
}

// Responder answers restriction queries from the platform
type Responder struct {
	res           Resources
	flags         FlagStore
	customFormURL string
}

// NewResponder makes a responder
func NewResponder(cfg ResponderConfig) *Responder {
	return &Responder{res: cfg.Resources, flags: cfg.Flags, customFormURL: cfg.CustomFormURL}
}

// Handle starts processing of the query on its own goroutine and returns immediately.
// The pending result is finished exactly once on every path, including a panic in the worker.
// The worker can't be cancelled, ctx is used for values only.
func (r *Responder) Handle(ctx context.Context, q Query, done *PendingResult) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				lgr.Printf("[ERROR] restrictions query panicked: %v", rec)
				done.Finish(Result{})
			}
		}()

		if q.Action != ActionGetRestrictionEntries {
			lgr.Printf("[WARN] unsupported query action %q", q.Action)
			done.Finish(Result{})
			return
		}
		done.Finish(r.createRestrictions(ctx, q.Existing))
	}()
}

// Query issues a get-restriction-entries query and waits for its result
func (r *Responder) Query(ctx context.Context, existing domain.Restrictions) (Result, error) {
	done, resCh := NewPendingResult()
	r.Handle(ctx, Query{Action: ActionGetRestrictionEntries, Existing: existing}, done)
	select {
	case res := <-resCh:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (r *Responder) createRestrictions(ctx context.Context, existing domain.Restrictions) Result {
	lgr.Printf("[DEBUG] existing restrictions = %v", existing)
	entries := BuildCatalog(r.res)

	// never configured, the defaults are returned as is
	if existing == nil {
		return Result{Entries: entries}
	}

	res := Result{Entries: Merge(entries, existing)}
	if r.customConfig(ctx) {
		res.Redirect = r.customFormURL
	}
	return res
}

func (r *Responder) customConfig(ctx context.Context) bool {
	if r.flags == nil {
		return false
	}
	custom, err := r.flags.GetBool(ctx, domain.SettingCustomConfig)
	if err != nil {
		lgr.Printf("[WARN] can't read %s flag, using standard configuration: %v", domain.SettingCustomConfig, err)
		return false
	}
	return custom
}
