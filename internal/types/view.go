package types

// View is everything external renderer needs to draw current screen.
// Control loop produces new View after every state change.
type View struct {
	Mode      string     `json:"mode"`
	Screen    string     `json:"screen"`
	Title     string     `json:"title,omitempty"`
	Lines     []string   `json:"lines,omitempty"`
	Message   string     `json:"message,omitempty"`
	Error     string     `json:"error,omitempty"`
	Busy      bool       `json:"busy,omitempty"`
	Countdown int        `json:"countdown,omitempty"`
	Image     string     `json:"image,omitempty"`
	Cart      *CartView  `json:"cart,omitempty"`
	Seq       uint64     `json:"seq"`
	Item      *ItemView  `json:"item,omitempty"`
	Extra     []KeyValue `json:"extra,omitempty"`
}

type ItemView struct {
	UPC      string `json:"upc"`
	Brand    string `json:"brand"`
	Name     string `json:"name"`
	Size     string `json:"size"`
	Calories string `json:"calories"`
	Sugar    string `json:"sugar"`
	Sodium   string `json:"sodium"`
	Price    string `json:"price"`
	OnHand   string `json:"on_hand"`
	Image    string `json:"image"`
}

type CartView struct {
	TransactionID string         `json:"transaction_id"`
	Lines         []CartLineView `json:"lines"`
	Subtotal      string         `json:"subtotal"`
	Tax           string         `json:"tax"`
	Total         string         `json:"total"`
	TaxRate       string         `json:"tax_rate"`
}

type CartLineView struct {
	UPC      string `json:"upc"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Amount   string `json:"amount"`
}

type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Renderer interface {
	Render(View)
}

type RendererFunc func(View)

func (f RendererFunc) Render(v View) { f(v) }

// Renderers fans out one View to many renderers.
type Renderers []Renderer

func (rs Renderers) Render(v View) {
	for _, r := range rs {
		if r != nil {
			r.Render(v)
		}
	}
}
