package notification

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
)

// TicketLabel is the role-derived ticket class and payment framing shown in
// the confirmation email.
type TicketLabel struct {
	TicketClass   string
	PaymentStatus string
	Price         *money.Money
}

func (l TicketLabel) PriceDisplay() string {
	if l.Price == nil {
		return ""
	}
	return l.Price.Display()
}

var unknownRoleLabel = TicketLabel{
	TicketClass:   "UNKNOWN ROLE",
	PaymentStatus: "Payment Status Unknown",
}

type LabelTable struct {
	byRole  map[string]TicketLabel
	unknown TicketLabel
}

func NewLabelTable(byRole map[string]TicketLabel, unknown TicketLabel) LabelTable {
	roles := make(map[string]TicketLabel, len(byRole))
	for k, v := range byRole {
		roles[strings.TrimSpace(k)] = v
	}
	return LabelTable{
		byRole:  roles,
		unknown: unknown,
	}
}

func DefaultLabelTable() LabelTable {
	return NewLabelTable(map[string]TicketLabel{
		"Visitor": {
			TicketClass:   "VISITORS REGISTRATION (PAID ENTRY)",
			PaymentStatus: "Payment Received",
		},
		"Speaker": {
			TicketClass:   "SPEAKER REGISTRATION (FREE ENTRY)",
			PaymentStatus: "No Payment Required",
		},
	}, unknownRoleLabel)
}

// Lookup matches roles exactly. Roles outside the table get the unknown
// label rather than an error.
func (t LabelTable) Lookup(role string) TicketLabel {
	if l, ok := t.byRole[strings.TrimSpace(role)]; ok {
		return l
	}
	return t.unknown
}

type labelFileEntry struct {
	TicketClass   string `json:"ticketClass"`
	PaymentStatus string `json:"paymentStatus"`
	PriceAmount   *int64 `json:"priceAmount,omitempty"`
	PriceCurrency string `json:"priceCurrency,omitempty"`
}

type labelFile struct {
	Roles   map[string]labelFileEntry `json:"roles"`
	Unknown *labelFileEntry           `json:"unknown,omitempty"`
}

func (e labelFileEntry) toLabel() (TicketLabel, error) {
	l := TicketLabel{
		TicketClass:   e.TicketClass,
		PaymentStatus: e.PaymentStatus,
	}
	if e.PriceAmount != nil {
		if money.GetCurrency(e.PriceCurrency) == nil {
			return TicketLabel{}, fmt.Errorf("unknown currency %q", e.PriceCurrency)
		}
		l.Price = money.New(*e.PriceAmount, e.PriceCurrency)
	}
	return l, nil
}

// LoadLabelTable reads a role label table from a JSON file.
func LoadLabelTable(path string) (LabelTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return LabelTable{}, fmt.Errorf("failed to read role labels file: %w", err)
	}

	var f labelFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return LabelTable{}, fmt.Errorf("failed to parse role labels file: %w", err)
	}

	byRole := make(map[string]TicketLabel, len(f.Roles))
	for role, entry := range f.Roles {
		l, err := entry.toLabel()
		if err != nil {
			return LabelTable{}, fmt.Errorf("role %q: %w", role, err)
		}
		byRole[role] = l
	}

	unknown := unknownRoleLabel
	if f.Unknown != nil {
		unknown, err = f.Unknown.toLabel()
		if err != nil {
			return LabelTable{}, fmt.Errorf("unknown role label: %w", err)
		}
	}

	return NewLabelTable(byRole, unknown), nil
}
