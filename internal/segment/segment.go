// Package segment maps a lead's declared business type to the canonical
// targeting segment. The segment is never stored; every outbound path
// re-derives it through ForBusinessType.
package segment

import (
	"github.com/unclebandit/leadreach-backend/internal/model"
)

type Segment string

const (
	Atacadista Segment = "atacadista" // wholesaler / supplier
	Varejista  Segment = "varejista"  // retailer
	Comprador  Segment = "comprador"  // buyer
)

// All lists the segments in display order.
var All = []Segment{Atacadista, Varejista, Comprador}

var byBusinessType = map[string]Segment{
	"Atacadista/Fornecedor": Atacadista,
	"Varejista":             Varejista,
	"Comprador Potencial":   Comprador,
}

// ForBusinessType is total: unknown values, "indefinido" and "" map to Comprador.
func ForBusinessType(businessType string) Segment {
	if s, ok := byBusinessType[businessType]; ok {
		return s
	}
	return Comprador
}

// Of returns the segment of a lead from its source metadata.
func Of(lead model.Lead) Segment {
	return ForBusinessType(lead.BusinessType())
}

// Parse validates a caller-supplied segment key.
func Parse(s string) (Segment, bool) {
	switch Segment(s) {
	case Atacadista, Varejista, Comprador:
		return Segment(s), true
	}
	return "", false
}

// Set is a selection of segments.
type Set map[Segment]struct{}

// NewSet builds a Set from raw keys, reporting the first unknown key.
func NewSet(keys []string) (Set, string, bool) {
	set := make(Set, len(keys))
	for _, k := range keys {
		s, ok := Parse(k)
		if !ok {
			return nil, k, false
		}
		set[s] = struct{}{}
	}
	return set, "", true
}

func (s Set) Has(seg Segment) bool {
	_, ok := s[seg]
	return ok
}

// Filter keeps the leads whose segment is in the set, preserving order.
func (s Set) Filter(leads []model.Lead) []model.Lead {
	out := make([]model.Lead, 0, len(leads))
	for _, l := range leads {
		if s.Has(Of(l)) {
			out = append(out, l)
		}
	}
	return out
}
