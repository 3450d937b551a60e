package types

import (
	"encoding/json"
	"strings"
)

type ApiConfig struct {
	Domain string
}

// BaseUrl is the scheme+host every Bynder endpoint hangs off.
func (c ApiConfig) BaseUrl() string {
	domain := strings.TrimRight(c.Domain, "/")
	if strings.HasPrefix(domain, "http://") || strings.HasPrefix(domain, "https://") {
		return domain
	}
	return "https://" + domain
}

// OptionID accepts both string and numeric ids.
type OptionID string

func (id *OptionID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = OptionID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = OptionID(n.String())
	return nil
}

// Option is a single value within a metaproperty.
type Option struct {
	ID           OptionID `json:"id"`
	Label        string   `json:"label"`
	DisplayLabel string   `json:"displayLabel"`
}

// Text returns the trimmed display label, falling back to the plain label.
func (o Option) Text() string {
	if s := strings.TrimSpace(o.DisplayLabel); s != "" {
		return s
	}
	return strings.TrimSpace(o.Label)
}

// OptionSet maps a trimmed option label to its Bynder id.
type OptionSet map[string]string

func (s OptionSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// ID returns the id stored for label. Labels collected without an id report
// false.
func (s OptionSet) ID(label string) (string, bool) {
	id, ok := s[label]
	return id, ok && id != ""
}

// OptionPayload is the JSON document sent in the "data" form field when
// creating an option.
type OptionPayload struct {
	Name         string            `json:"name"`
	Label        string            `json:"label"`
	Labels       map[string]string `json:"labels"`
	IsSelectable bool              `json:"isSelectable"`
}

func (p OptionPayload) String() string {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return p.Name
	}
	return string(b)
}

// FeedItem is one product from the Channable feed.
type FeedItem struct {
	SKU   string
	Title string
}

// SheetRow is one line of the product/shade/SKU input sheet.
type SheetRow struct {
	Product      string
	Shade        string
	ProductShade string
	SKU          string
}
