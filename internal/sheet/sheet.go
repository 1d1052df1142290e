// Package sheet reads expense sheets for the settle CLI.
//
// A sheet is YAML (or JSON, which parses as YAML):
//
//	participants: [Alice, Bob, Carol]
//	expenses:
//	  - payer: Alice
//	    amount: 90.00
//	    category: Food
//	    description: Dinner
//
// Amounts are read from their source text, so 0.10 stays exactly 0.10.
package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/settleup/internal/settlement"
)

var (
	// ErrEmpty is returned for a sheet with no content.
	ErrEmpty = errors.New("sheet is empty")
	// ErrMissingAmount is returned for an expense without an amount.
	ErrMissingAmount = errors.New("amount is required")
)

// Sheet is a participant list plus the expenses they shared.
type Sheet struct {
	Participants []string `yaml:"participants"`
	Expenses     []Entry  `yaml:"expenses"`
}

// Entry is one expense line.
type Entry struct {
	Payer       string `yaml:"payer"`
	Amount      Amount `yaml:"amount"`
	Category    string `yaml:"category,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Amount is a non-negative decimal read from a YAML scalar.
type Amount struct {
	decimal.Decimal
	set bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.ShortTag() == "!!null" {
		return nil
	}
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a number", node.Line)
	}
	d, err := settlement.ParseAmount(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	a.Decimal = d
	a.set = true
	return nil
}

// Load reads the sheet at path. "-" reads standard input.
func Load(path string) (*Sheet, error) {
	if path == "-" {
		return Parse(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sheet: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a sheet. Unknown fields and expenses without an amount are
// rejected.
func Parse(r io.Reader) (*Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Sheet
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse sheet: %w", err)
	}
	for i, e := range s.Expenses {
		if !e.Amount.set {
			return nil, fmt.Errorf("expense %d: %w", i, ErrMissingAmount)
		}
	}
	return &s, nil
}

// EngineExpenses converts the entries for the settlement engine.
func (s *Sheet) EngineExpenses() []settlement.Expense {
	out := make([]settlement.Expense, len(s.Expenses))
	for i, e := range s.Expenses {
		out[i] = settlement.Expense{
			Payer:       e.Payer,
			Amount:      e.Amount.Decimal,
			Category:    e.Category,
			Description: e.Description,
		}
	}
	return out
}

// Settle runs the settlement engine over the sheet.
func (s *Sheet) Settle() (*settlement.Result, error) {
	return settlement.Settle(s.EngineExpenses(), s.Participants)
}
