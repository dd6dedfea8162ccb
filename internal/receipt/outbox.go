package receipt

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/spq"
	"github.com/vendlasvegas/SelfCheck/helpers"
	"github.com/vendlasvegas/SelfCheck/internal/cart"
	"github.com/vendlasvegas/SelfCheck/log2"
)

type envelope struct {
	ID      string       `json:"id"`
	Queued  time.Time    `json:"queued"`
	Receipt cart.Receipt `json:"receipt"`
}

// Outbox persists receipts and delivers them to slow or flaky sink in background.
// Deliver only blocks for disk write.
type Outbox struct {
	log     *log2.Log
	q       *spq.Queue
	sink    Sink
	alive   *alive.Alive
	backoff helpers.Backoff
}

var _ Sink = new(Outbox)

func NewOutbox(path string, sink Sink, log *log2.Log) (*Outbox, error) {
	q, err := spq.Open(path)
	if err != nil {
		return nil, errors.Annotatef(err, "receipt outbox path=%s", path)
	}
	self := &Outbox{
		log:     log,
		q:       q,
		sink:    sink,
		alive:   alive.NewAlive(),
		backoff: helpers.Backoff{Min: time.Second, Max: time.Minute, K: 2},
	}
	if !self.alive.Add(1) {
		panic("code error receipt outbox alive")
	}
	go self.worker()
	return self, nil
}

func (self *Outbox) Deliver(r cart.Receipt) error {
	env := envelope{ID: uuid.New().String(), Queued: time.Now(), Receipt: r}
	b, err := json.Marshal(env)
	if err != nil {
		return errors.Annotate(err, "receipt outbox")
	}
	self.log.Debugf("receipt outbox push id=%s transaction=%s", env.ID, r.TransactionID)
	return errors.Annotate(self.q.Push(b), "receipt outbox")
}

func (self *Outbox) Close() {
	self.alive.Stop()
	_ = self.q.Close()
	self.alive.Wait()
}

func (self *Outbox) worker() {
	defer self.alive.Done()
	for {
		box, err := self.q.Peek()
		if err == spq.ErrClosed {
			return
		}
		ok := false
		if err != nil {
			self.log.Errorf("CRITICAL receipt outbox spq err=%v", err)
		} else {
			ok = self.handle(box)
		}
		select {
		case <-time.After(self.backoff.DelayAfter(ok)):
		case <-self.alive.StopChan():
			return
		}
	}
}

// handle returns false when delivery should be retried later.
func (self *Outbox) handle(box spq.Box) bool {
	var env envelope
	if err := json.Unmarshal(box.Bytes(), &env); err != nil {
		self.log.Errorf("receipt outbox drop corrupt b=%x err=%v", box.Bytes(), err)
		self.delete(box)
		return true
	}
	if err := self.sink.Deliver(env.Receipt); err != nil {
		self.log.Error(errors.Annotatef(err, "receipt deliver id=%s transaction=%s", env.ID, env.Receipt.TransactionID))
		if err = self.q.DeletePush(box); err != nil {
			self.log.Errorf("receipt outbox DeletePush err=%v", err)
		}
		return false
	}
	self.log.Infof("receipt delivered transaction=%s", env.Receipt.TransactionID)
	self.delete(box)
	return true
}

func (self *Outbox) delete(box spq.Box) {
	if err := self.q.Delete(box); err != nil {
		self.log.Errorf("receipt outbox Delete err=%v", err)
	}
}
