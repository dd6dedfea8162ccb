package tele

import (
	"context"
	"fmt"
	"net/url"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
	"github.com/vendlasvegas/SelfCheck/helpers"
	"github.com/vendlasvegas/SelfCheck/log2"
	tele_config "github.com/vendlasvegas/SelfCheck/tele/config"
)

// Topics are per kiosk: connect flag (retained), state (retained), telemetry stream.
func TopicConnect(kioskId int32) string   { return fmt.Sprintf("kiosk%d/c", kioskId) }
func TopicState(kioskId int32) string     { return fmt.Sprintf("kiosk%d/w/1s", kioskId) }
func TopicTelemetry(kioskId int32) string { return fmt.Sprintf("kiosk%d/w/1t", kioskId) }

type transportMqtt struct {
	log            *log2.Log
	m              mqtt.Client
	networkTimeout time.Duration
	stopCh         chan struct{}

	topicConnect   string
	topicState     string
	topicTelemetry string
}

func (self *transportMqtt) Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config, willPayload []byte) error {
	self.log = log
	mqttLog := log.Clone(log2.LInfo)
	if teleConfig.MqttLogDebug {
		mqttLog.SetLevel(log2.LDebug)
		mqtt.DEBUG = mqttLog
	}
	mqtt.ERROR = mqttLog
	mqtt.CRITICAL = mqttLog
	mqtt.WARN = mqttLog

	if _, err := url.ParseRequestURI(teleConfig.MqttBroker); err != nil {
		return errors.Annotatef(err, "tele mqtt_broker=%s", teleConfig.MqttBroker)
	}

	kioskId := int32(teleConfig.KioskId)
	clientId := fmt.Sprintf("kiosk%d", kioskId)
	self.topicConnect = TopicConnect(kioskId)
	self.topicState = TopicState(kioskId)
	self.topicTelemetry = TopicTelemetry(kioskId)
	self.networkTimeout = helpers.IntSecondDefault(teleConfig.NetworkTimeoutSec, DefaultNetworkTimeout)
	keepAlive := helpers.IntSecondDefault(teleConfig.KeepaliveSec, 60*time.Second)

	opts := mqtt.NewClientOptions().
		AddBroker(teleConfig.MqttBroker).
		SetClientID(clientId).
		SetUsername(clientId).
		SetPassword(teleConfig.MqttPassword).
		SetKeepAlive(keepAlive).
		SetConnectTimeout(self.networkTimeout).
		SetAutoReconnect(true).
		SetBinaryWill(self.topicConnect, willPayload, 1, true).
		SetOnConnectHandler(self.onConnectHandler).
		SetConnectionLostHandler(self.connectLostHandler)
	self.m = mqtt.NewClient(opts)
	self.stopCh = make(chan struct{})
	// network errors are not fatal, first connect retries in background
	go self.connectLoop()
	return nil
}

// connectLoop is needed until first success, then client auto reconnects.
func (self *transportMqtt) connectLoop() {
	backoff := helpers.Backoff{Min: time.Second, Max: self.networkTimeout, K: 2}
	for {
		token := self.m.Connect()
		token.Wait()
		err := token.Error()
		if err == nil {
			return
		}
		self.log.Debugf("tele mqtt connect err=%v", err)
		select {
		case <-time.After(backoff.DelayAfter(false)):
		case <-self.stopCh:
			return
		}
	}
}

func (self *transportMqtt) Close() {
	if self.m == nil {
		return
	}
	close(self.stopCh)
	if !self.m.IsConnected() {
		return
	}
	self.m.Publish(self.topicConnect, 1, true, []byte{0x00}).WaitTimeout(self.networkTimeout)
	self.m.Disconnect(250)
}

func (self *transportMqtt) SendState(payload []byte) bool {
	self.log.Debugf("tele send state payload=%x", payload)
	return self.publish(self.topicState, true, payload)
}

func (self *transportMqtt) SendTelemetry(payload []byte) bool {
	return self.publish(self.topicTelemetry, false, payload)
}

func (self *transportMqtt) publish(topic string, retained bool, payload []byte) bool {
	if !self.m.IsConnected() {
		return false
	}
	token := self.m.Publish(topic, 1, retained, payload)
	if !token.WaitTimeout(self.networkTimeout) {
		self.log.Errorf("tele publish topic=%s timeout", topic)
		return false
	}
	if err := token.Error(); err != nil {
		self.log.Error(errors.Annotatef(err, "tele publish topic=%s", topic))
		return false
	}
	return true
}

func (self *transportMqtt) connectLostHandler(c mqtt.Client, err error) {
	self.log.Infof("tele mqtt disconnect err=%v", err)
}

func (self *transportMqtt) onConnectHandler(c mqtt.Client) {
	self.log.Infof("tele mqtt connect")
	c.Publish(self.topicConnect, 1, true, []byte{0x01})
}
