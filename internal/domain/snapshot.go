package domain

import "github.com/malcano/flea-market-kiosk/internal/money"

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

const (
	DefaultAppTitle = "Flea Market Kiosk"
	DefaultAdminPin = "0000"
)

// Snapshot is the complete persisted state aggregate. One named slot holds
// a serialized Snapshot; every mutation overwrites the whole slot.
type Snapshot struct {
	Products    []Product   `json:"products"`
	Cart        []CartItem  `json:"cart"`
	Sales       []Sale      `json:"sales"`
	InitialCash money.Money `json:"initialCash"`
	AppTitle    string      `json:"appTitle"`
	AdminPin    string      `json:"adminPin"`
	Theme       Theme       `json:"theme"`
}

// Defaults is the state a session starts from when the slot is absent or
// unreadable.
func Defaults() Snapshot {
	return Snapshot{
		AppTitle: DefaultAppTitle,
		AdminPin: DefaultAdminPin,
		Theme:    ThemeSystem,
	}
}

// Normalize fills gaps left by older or partial snapshots. The slot is
// versionless, so missing fields silently take the documented defaults.
func (s *Snapshot) Normalize() {
	if s.AppTitle == "" {
		s.AppTitle = DefaultAppTitle
	}
	if s.AdminPin == "" {
		s.AdminPin = DefaultAdminPin
	}
	if !s.Theme.Valid() {
		s.Theme = ThemeSystem
	}
}

// Clone returns a copy that shares no mutable slices with the receiver, so
// a save in flight never observes a half-applied mutation.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Products = append([]Product(nil), s.Products...)
	out.Cart = append([]CartItem(nil), s.Cart...)
	if s.Sales != nil {
		out.Sales = make([]Sale, len(s.Sales))
		for i, sale := range s.Sales {
			sale.Items = append([]CartItem(nil), sale.Items...)
			out.Sales[i] = sale
		}
	}
	return out
}
