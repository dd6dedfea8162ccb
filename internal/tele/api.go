package tele

import (
	"github.com/juju/errors"
	tele_api "github.com/vendlasvegas/SelfCheck/tele"
)

// Error is installed as log error hook, so it must never log at error level.
func (self *tele) Error(e error) {
	if self.queue == nil {
		return
	}
	self.log.Debugf("tele error stack=%s", errors.ErrorStack(e))
	tm := &tele_api.Telemetry{Error: &tele_api.Telemetry_Error{Message: e.Error()}}
	if err := self.enqueue(tm); err != nil {
		self.log.Infof("CRITICAL tele error lost message=%q err=%v", e.Error(), err)
	}
}

// State sends only changes, in background.
func (self *tele) State(s tele_api.State) {
	if self.queue == nil {
		return
	}
	self.stateMu.Lock()
	prev := self.state
	self.state = s
	self.stateMu.Unlock()
	if prev != s {
		go self.transport.SendState([]byte{byte(s)})
	}
}

func (self *tele) Transaction(tx *tele_api.Telemetry_Transaction) {
	if self.queue == nil {
		self.log.Debugf("tele disabled, transaction=%s not sent", tx.GetId())
		return
	}
	if err := self.enqueue(&tele_api.Telemetry{Transaction: tx}); err != nil {
		self.log.Errorf("CRITICAL tele transaction=%s lost err=%v", tx.GetId(), err)
	}
}
