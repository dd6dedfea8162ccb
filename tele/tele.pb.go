// Telemetry wire messages, kept in sync with backend by hand.

package tele

import (
	proto "github.com/golang/protobuf/proto"
)

type State int32

const (
	State_Invalid      State = 0
	State_Boot         State = 1
	State_Nominal      State = 2
	State_Disconnected State = 3
	State_Problem      State = 4
	State_Service      State = 5
	State_Client       State = 6
)

var State_name = map[int32]string{
	0: "Invalid",
	1: "Boot",
	2: "Nominal",
	3: "Disconnected",
	4: "Problem",
	5: "Service",
	6: "Client",
}

var State_value = map[string]int32{
	"Invalid":      0,
	"Boot":         1,
	"Nominal":      2,
	"Disconnected": 3,
	"Problem":      4,
	"Service":      5,
	"Client":       6,
}

func (x State) String() string {
	return proto.EnumName(State_name, int32(x))
}

type Telemetry struct {
	KioskId              int32                  `protobuf:"varint,1,opt,name=kiosk_id,json=kioskId,proto3" json:"kiosk_id,omitempty"`
	Time                 int64                  `protobuf:"varint,2,opt,name=time,proto3" json:"time,omitempty"`
	Error                *Telemetry_Error       `protobuf:"bytes,3,opt,name=error,proto3" json:"error,omitempty"`
	Transaction          *Telemetry_Transaction `protobuf:"bytes,4,opt,name=transaction,proto3" json:"transaction,omitempty"`
	BuildVersion         string                 `protobuf:"bytes,5,opt,name=build_version,json=buildVersion,proto3" json:"build_version,omitempty"`
	AtService            bool                   `protobuf:"varint,6,opt,name=at_service,json=atService,proto3" json:"at_service,omitempty"`
	CatalogSize          uint32                 `protobuf:"varint,7,opt,name=catalog_size,json=catalogSize,proto3" json:"catalog_size,omitempty"`
	XXX_NoUnkeyedLiteral struct{}               `json:"-"`
	XXX_unrecognized     []byte                 `json:"-"`
	XXX_sizecache        int32                  `json:"-"`
}

func (m *Telemetry) Reset()         { *m = Telemetry{} }
func (m *Telemetry) String() string { return proto.CompactTextString(m) }
func (*Telemetry) ProtoMessage()    {}

func (m *Telemetry) GetKioskId() int32 {
	if m != nil {
		return m.KioskId
	}
	return 0
}

func (m *Telemetry) GetError() *Telemetry_Error {
	if m != nil {
		return m.Error
	}
	return nil
}

func (m *Telemetry) GetTransaction() *Telemetry_Transaction {
	if m != nil {
		return m.Transaction
	}
	return nil
}

type Telemetry_Error struct {
	Message              string   `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
	Count                uint32   `protobuf:"varint,2,opt,name=count,proto3" json:"count,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Telemetry_Error) Reset()         { *m = Telemetry_Error{} }
func (m *Telemetry_Error) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Error) ProtoMessage()    {}

// Money fields are integer cents.
type Telemetry_Transaction struct {
	Id                   string                `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Items                uint32                `protobuf:"varint,2,opt,name=items,proto3" json:"items,omitempty"`
	Subtotal             int64                 `protobuf:"varint,3,opt,name=subtotal,proto3" json:"subtotal,omitempty"`
	Tax                  int64                 `protobuf:"varint,4,opt,name=tax,proto3" json:"tax,omitempty"`
	Total                int64                 `protobuf:"varint,5,opt,name=total,proto3" json:"total,omitempty"`
	Payment              string                `protobuf:"bytes,6,opt,name=payment,proto3" json:"payment,omitempty"`
	TaxRate              string                `protobuf:"bytes,7,opt,name=tax_rate,json=taxRate,proto3" json:"tax_rate,omitempty"`
	Lines                []*Telemetry_CartLine `protobuf:"bytes,8,rep,name=lines,proto3" json:"lines,omitempty"`
	XXX_NoUnkeyedLiteral struct{}              `json:"-"`
	XXX_unrecognized     []byte                `json:"-"`
	XXX_sizecache        int32                 `json:"-"`
}

func (m *Telemetry_Transaction) Reset()         { *m = Telemetry_Transaction{} }
func (m *Telemetry_Transaction) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Transaction) ProtoMessage()    {}

func (m *Telemetry_Transaction) GetId() string {
	if m != nil {
		return m.Id
	}
	return ""
}

type Telemetry_CartLine struct {
	Upc                  string   `protobuf:"bytes,1,opt,name=upc,proto3" json:"upc,omitempty"`
	Quantity             uint32   `protobuf:"varint,2,opt,name=quantity,proto3" json:"quantity,omitempty"`
	Price                int64    `protobuf:"varint,3,opt,name=price,proto3" json:"price,omitempty"`
	Taxable              bool     `protobuf:"varint,4,opt,name=taxable,proto3" json:"taxable,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Telemetry_CartLine) Reset()         { *m = Telemetry_CartLine{} }
func (m *Telemetry_CartLine) String() string { return proto.CompactTextString(m) }
func (*Telemetry_CartLine) ProtoMessage()    {}

