package sheets

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/juju/errors"
)

const DefaultTimeout = 20 * time.Second

// HTTP fetches published sheet CSV export. URL template contains {tab}.
type HTTP struct {
	URL    string
	Client *http.Client
}

func NewHTTP(urlTemplate string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTP{URL: urlTemplate, Client: &http.Client{Timeout: timeout}}
}

func (self *HTTP) String() string {
	if u, err := url.Parse(self.URL); err == nil {
		return "http:" + u.Host
	}
	return "http"
}

func (self *HTTP) ReadRows(ctx context.Context, tab string) ([][]string, error) {
	u := strings.Replace(self.URL, "{tab}", url.QueryEscape(tab), -1)
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Annotatef(err, "sheet tab=%s", tab)
	}
	resp, err := self.Client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, errors.Annotatef(err, "sheet tab=%s", tab)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.NotFoundf("sheet tab=%s", tab)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Errorf("sheet tab=%s http status=%s", tab, resp.Status)
	}
	rows, err := ParseCSV(resp.Body)
	return rows, errors.Annotatef(err, "sheet tab=%s", tab)
}
