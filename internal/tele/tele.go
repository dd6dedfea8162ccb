// Package tele reports kiosk state, checkout transactions and errors over MQTT.
//
// Telemetry goes through on-disk queue first, so checkout never waits for
// network and records survive reboot. State is best effort and never queued.
package tele

import (
	"context"
	"sync"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/temoto/spq"
	"github.com/vendlasvegas/SelfCheck/helpers"
	"github.com/vendlasvegas/SelfCheck/log2"
	tele_api "github.com/vendlasvegas/SelfCheck/tele"
	tele_config "github.com/vendlasvegas/SelfCheck/tele/config"
)

const DefaultNetworkTimeout = 30 * time.Second

// queue record kind, first byte of every spq box
const recordTelemetry byte = 't'

type tele struct {
	config    tele_config.Config
	log       *log2.Log
	transport Transporter
	queue     *spq.Queue
	retry     helpers.Backoff
	stop      chan struct{}
	done      chan struct{}

	stateMu sync.Mutex
	state   tele_api.State
}

func New() tele_api.Teler { return &tele{} }

// NewWithTransporter is used by tests to replace MQTT.
func NewWithTransporter(t Transporter) tele_api.Teler { return &tele{transport: t} }

// Init returns error only for bad config or unusable queue.
// Broker may be unreachable, delivery continues in background.
func (self *tele) Init(ctx context.Context, log *log2.Log, config tele_config.Config) error {
	self.config = config
	self.log = log
	if config.LogDebug {
		log.SetLevel(log2.LDebug)
	}
	if !config.Enabled {
		return nil
	}
	if config.PersistPath == "" {
		return errors.NotValidf("tele persist path empty")
	}

	timeout := helpers.IntSecondDefault(config.NetworkTimeoutSec, DefaultNetworkTimeout)
	self.retry = helpers.Backoff{Min: time.Second, Max: timeout, K: 2}
	if self.transport == nil {
		self.transport = &transportMqtt{}
	}
	will := []byte{byte(tele_api.State_Disconnected)}
	if err := self.transport.Init(ctx, log, config, will); err != nil {
		return errors.Annotate(err, "tele transport")
	}
	q, err := spq.Open(config.PersistPath)
	if err != nil {
		return errors.Annotatef(err, "tele queue path=%s", config.PersistPath)
	}
	self.queue = q
	self.stop = make(chan struct{})
	self.done = make(chan struct{})
	go self.run()
	self.State(tele_api.State_Boot)
	return nil
}

func (self *tele) Close() {
	if self.queue == nil {
		return
	}
	close(self.stop)
	self.queue.Close()
	<-self.done
	self.transport.Close()
}

// run delivers queue head until stop. Failed record goes to queue tail,
// so one undeliverable record can not block the rest.
func (self *tele) run() {
	defer close(self.done)
	for {
		box, err := self.queue.Peek()
		if err == spq.ErrClosed {
			select {
			case <-self.stop:
			default:
				self.log.Errorf("CRITICAL tele queue closed unexpectedly")
			}
			return
		}

		var delay time.Duration
		if err != nil {
			self.log.Errorf("CRITICAL tele queue err=%v", err)
			delay = self.retry.DelayAfter(false)
		} else {
			delay = self.retry.DelayAfter(self.deliver(box))
		}
		if delay == 0 {
			continue
		}
		select {
		case <-time.After(delay):
		case <-self.stop:
			return
		}
	}
}

// deliver returns true when record left the queue head for good.
func (self *tele) deliver(box spq.Box) bool {
	b := box.Bytes()
	sent, err := self.send(b)
	if err != nil {
		// broken record, retry will not help
		self.log.Errorf("tele drop record=%x err=%v", b, err)
		sent = true
	}
	if sent {
		err = self.queue.Delete(box)
	} else {
		err = self.queue.DeletePush(box)
	}
	if err != nil {
		self.log.Errorf("tele queue update err=%v", err)
	}
	return sent
}

func (self *tele) send(b []byte) (bool, error) {
	if len(b) == 0 {
		return false, errors.New("empty record")
	}
	switch b[0] {
	case recordTelemetry:
		var tm tele_api.Telemetry
		if err := proto.Unmarshal(b[1:], &tm); err != nil {
			return false, errors.Annotate(err, "telemetry decode")
		}
		return self.transport.SendTelemetry(b[1:]), nil
	default:
		return false, errors.Errorf("unknown record kind=%d", b[0])
	}
}

func (self *tele) enqueue(tm *tele_api.Telemetry) error {
	tm.KioskId = int32(self.config.KioskId)
	if tm.Time == 0 {
		tm.Time = time.Now().UnixNano()
	}
	tm.BuildVersion = self.config.BuildVersion
	b, err := proto.Marshal(tm)
	if err != nil {
		return errors.Annotate(err, "telemetry encode")
	}
	return self.queue.Push(append([]byte{recordTelemetry}, b...))
}
