package poster

import (
	"fmt"

	"github.com/wxrelay/wxrelay/internal/wx"
)

// Transformer optionally normalizes records into a configured target unit
// system before field mapping.
type Transformer struct {
	target  wx.System
	convert bool
}

// NewTransformer builds a Transformer for the named target unit system.
// An empty name yields the identity transform. An unknown name is a fatal
// configuration error, surfaced here once rather than per record.
func NewTransformer(targetUnit string) (*Transformer, error) {
	if targetUnit == "" {
		return &Transformer{}, nil
	}
	sys, err := wx.ParseSystem(targetUnit)
	if err != nil {
		return nil, fmt.Errorf("poster: invalid target_unit: %w", err)
	}
	return &Transformer{target: sys, convert: true}, nil
}

// Apply returns the record expressed in the target unit system, or the
// input unchanged when no target is configured.
func (t *Transformer) Apply(rec wx.Record) wx.Record {
	if !t.convert {
		return rec
	}
	return wx.ConvertRecord(rec, t.target)
}
