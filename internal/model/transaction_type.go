package model

import (
	"fmt"
	"strings"
)

// Flow is the cash direction of a transaction type.
type Flow string

const (
	FlowMasuk    Flow = "masuk"
	FlowKeluar   Flow = "keluar"
	FlowTransfer Flow = "transfer"
)

func (f Flow) Valid() bool {
	switch f {
	case FlowMasuk, FlowKeluar, FlowTransfer:
		return true
	}
	return false
}

// Transaction type names referenced by the poster and the reports.
const (
	TypePenjualan        = "penjualan"
	TypePembelian        = "pembelian"
	TypePemakaian        = "pemakaian"
	TypeOperasional      = "operasional"
	TypeBiayaOperasional = "biaya_operasional"
	TypeGaji             = "gaji"
	TypePajak            = "pajak"
	TypePemasukan        = "pemasukan"
)

type TransactionType struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Flow        Flow   `gorm:"type:varchar(10);not null" json:"flow"`
	Description string `gorm:"type:text" json:"description"`
}

// StockEffect says what posting a transaction of a given type does to the
// stock of its item lines.
type StockEffect string

const (
	StockNone StockEffect = "none"
	StockIn   StockEffect = "in"
	StockOut  StockEffect = "out"
)

func (e StockEffect) Valid() bool {
	switch e {
	case StockNone, StockIn, StockOut:
		return true
	}
	return false
}

// MovesStock is false for types whose item lines never touch stock.
func (e StockEffect) MovesStock() bool {
	return e == StockIn || e == StockOut
}

// Delta is the signed stock adjustment for a line of qty units.
func (e StockEffect) Delta(qty int) int {
	switch e {
	case StockIn:
		return qty
	case StockOut:
		return -qty
	}
	return 0
}

func (e StockEffect) MovementType() MovementType {
	if e == StockIn {
		return MovementIn
	}
	return MovementOut
}

// TypeSpec is one entry of the transaction taxonomy.
type TypeSpec struct {
	Name        string      `yaml:"name"`
	Flow        Flow        `yaml:"flow"`
	Stock       StockEffect `yaml:"stock"`
	Description string      `yaml:"description"`
}

// Taxonomy is the validated set of transaction types and their stock effects.
type Taxonomy struct {
	specs  []TypeSpec
	byName map[string]TypeSpec
}

// NewTaxonomy validates specs and builds the lookup. An empty stock effect
// means StockNone.
func NewTaxonomy(specs []TypeSpec) (*Taxonomy, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("taxonomy: no transaction types defined")
	}
	t := &Taxonomy{byName: make(map[string]TypeSpec, len(specs))}
	for i, s := range specs {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			return nil, fmt.Errorf("taxonomy: entry %d has no name", i)
		}
		if _, dup := t.byName[s.Name]; dup {
			return nil, fmt.Errorf("taxonomy: duplicate type %q", s.Name)
		}
		if !s.Flow.Valid() {
			return nil, fmt.Errorf("taxonomy: type %q has invalid flow %q", s.Name, s.Flow)
		}
		if s.Stock == "" {
			s.Stock = StockNone
		}
		if !s.Stock.Valid() {
			return nil, fmt.Errorf("taxonomy: type %q has invalid stock effect %q", s.Name, s.Stock)
		}
		t.specs = append(t.specs, s)
		t.byName[s.Name] = s
	}
	return t, nil
}

// Effect returns the stock effect of a type. Unknown names have none.
func (t *Taxonomy) Effect(name string) StockEffect {
	if s, ok := t.byName[name]; ok {
		return s.Stock
	}
	return StockNone
}

func (t *Taxonomy) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// TransactionTypes returns the rows to sync into transaction_types.
func (t *Taxonomy) TransactionTypes() []TransactionType {
	out := make([]TransactionType, 0, len(t.specs))
	for _, s := range t.specs {
		out = append(out, TransactionType{Name: s.Name, Flow: s.Flow, Description: s.Description})
	}
	return out
}
