package scan

import (
	"strings"
	"unicode/utf8"
)

// DefaultBarcodeFields lists the field names item tables have used for the
// barcode over time, in probe order.
var DefaultBarcodeFields = []string{"Barcode", "barcode", "Barcode Number", "Code", "QR Code", "Item Code"}

// Item is a store record in scope for a session. Sessions never modify it.
type Item struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Framing strips scanner-added characters before comparison. The zero value
// leaves tokens untouched.
type Framing struct {
	PrefixLen int
	Delimiter string
}

func (f Framing) Strip(token string) string {
	if f.PrefixLen > 0 {
		if utf8.RuneCountInString(token) <= f.PrefixLen {
			return ""
		}
		token = string([]rune(token)[f.PrefixLen:])
	}
	if f.Delimiter != "" {
		if i := strings.Index(token, f.Delimiter); i >= 0 {
			token = token[:i]
		}
	}
	return token
}

type ClassificationKind int

const (
	KindPallet ClassificationKind = iota
	KindItem
)

func (k ClassificationKind) String() string {
	if k == KindItem {
		return "item"
	}
	return "pallet"
}

// Classification is the outcome of matching a token. Item is set only for
// KindItem.
type Classification struct {
	Kind  ClassificationKind
	Item  *Item
	Token string
}

// Classifier matches tokens against item barcodes.
type Classifier struct {
	Fields  []string
	Framing Framing
}

func NewClassifier(fields []string, framing Framing) *Classifier {
	if len(fields) == 0 {
		fields = DefaultBarcodeFields
	}
	return &Classifier{Fields: fields, Framing: framing}
}

// Barcode returns the first non-empty candidate field of item.
func (c *Classifier) Barcode(item Item) FieldValue {
	for _, name := range c.fields() {
		v, ok := item.Fields[name]
		if !ok {
			continue
		}
		if resolved := ResolveFieldValue(v); !resolved.IsEmpty() {
			return resolved
		}
	}
	return FieldValue{Kind: FieldEmpty}
}

// Classify returns the first item whose barcode equals the (framed) token,
// or a pallet classification when nothing matches.
func (c *Classifier) Classify(token string, items []Item) Classification {
	probe := c.Framing.Strip(token)
	if probe != "" {
		for i := range items {
			if c.Barcode(items[i]).Value == probe {
				return Classification{Kind: KindItem, Item: &items[i], Token: token}
			}
		}
	}
	return Classification{Kind: KindPallet, Token: token}
}

func (c *Classifier) fields() []string {
	if c == nil || len(c.Fields) == 0 {
		return DefaultBarcodeFields
	}
	return c.Fields
}
