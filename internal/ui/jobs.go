package ui

import (
	"context"

	"github.com/juju/errors"
	"github.com/vendlasvegas/SelfCheck/internal/admin"
	"github.com/vendlasvegas/SelfCheck/internal/types"
)

// sessionAny marks startup refresh, its result is installed whatever mode is active.
const sessionAny uint64 = 0

const (
	jobRefresh     = "refresh"
	jobLogin       = "login"
	jobCredentials = "credentials"
	jobLocation    = "location"
	jobPortal      = "portal"
)

type jobFunc func(ctx context.Context) (interface{}, error)

// spawn runs f off control loop, result comes back as EventJobDone.
// Mode switch cancels job context; late results are dropped by session check.
func (self *UI) spawn(name string, session uint64, f jobFunc) {
	parent := self.jobCtx
	if session == sessionAny || parent == nil {
		parent = context.Background()
	}
	if !self.g.Alive.Add(1) {
		return
	}
	go func() {
		defer self.g.Alive.Done()
		ctx, cancel := context.WithTimeout(parent, self.config.JobTimeout())
		defer cancel()
		value, err := f(ctx)
		result := &types.JobResult{Session: session, Name: name, Value: value, Err: err}
		self.Post(types.Event{Kind: types.EventJobDone, Job: result})
	}()
}

func (self *UI) cancelJobs() {
	if self.jobCancel != nil {
		self.jobCancel()
		self.jobCancel = nil
	}
}

func (self *UI) spawnRefresh(session uint64, allowSnapshot bool) {
	r := self.g.Refresher()
	self.spawn(jobRefresh, session, func(ctx context.Context) (interface{}, error) {
		return r.Refresh(ctx, allowSnapshot)
	})
}

// installRefresh swaps new catalog index on control loop.
func (self *UI) installRefresh(job *types.JobResult) {
	if job.Err != nil {
		self.g.Error(errors.Annotate(job.Err, "catalog refresh"))
		return
	}
	result, ok := job.Value.(*admin.RefreshResult)
	if !ok || result == nil {
		self.g.Log.Errorf("code error refresh job value=%#v", job.Value)
		return
	}
	self.g.Catalog.Swap(result.Index)
	if result.FromSnap {
		self.g.Log.Infof("catalog installed from snapshot records=%d", result.Index.Len())
	}
}
