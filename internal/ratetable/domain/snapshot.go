package domain

import "sort"

// Snapshot is an immutable view of one rate table and its rows, loaded in a
// single read transaction so a rating run never observes a half-edited
// table. The pipeline stages only read from it.
type Snapshot struct {
	Table   RateTable
	Entries []RateTableEntry
	Factors []RateFactor
	Riders  []RateRider
	Fees    []RateFee
	Modals  []RateModalFactor

	entryByKey map[string]*RateTableEntry
}

// EntryFor returns the entry with the exact rate key, or nil on miss.
func (s *Snapshot) EntryFor(key string) *RateTableEntry {
	if s.entryByKey == nil {
		s.entryByKey = make(map[string]*RateTableEntry, len(s.Entries))
		for i := range s.Entries {
			s.entryByKey[s.Entries[i].RateKey] = &s.Entries[i]
		}
	}
	return s.entryByKey[key]
}

// ModalFor returns the modal factor row for a payment mode, or nil.
func (s *Snapshot) ModalFor(mode PaymentMode) *RateModalFactor {
	for i := range s.Modals {
		if s.Modals[i].Mode == mode {
			return &s.Modals[i]
		}
	}
	return nil
}

// FactorGroup is all option rows sharing one factor_code, ordered by
// sort_order for deterministic application.
type FactorGroup struct {
	Code    string
	Options []RateFactor
}

// FactorGroups groups the table's factor rows by code. Groups are ordered
// by their lowest sort_order, then code, so application order is stable
// regardless of row insertion order.
func (s *Snapshot) FactorGroups() []FactorGroup {
	byCode := make(map[string][]RateFactor)
	for _, f := range s.Factors {
		byCode[f.FactorCode] = append(byCode[f.FactorCode], f)
	}

	groups := make([]FactorGroup, 0, len(byCode))
	for code, options := range byCode {
		sort.SliceStable(options, func(i, j int) bool {
			return options[i].SortOrder < options[j].SortOrder
		})
		groups = append(groups, FactorGroup{Code: code, Options: options})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		gi, gj := groups[i], groups[j]
		if gi.Options[0].SortOrder != gj.Options[0].SortOrder {
			return gi.Options[0].SortOrder < gj.Options[0].SortOrder
		}
		return gi.Code < gj.Code
	})
	return groups
}

// SortedRiders returns the riders ordered by sort_order.
func (s *Snapshot) SortedRiders() []RateRider {
	out := make([]RateRider, len(s.Riders))
	copy(out, s.Riders)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

// SortedFees returns the fees ordered by sort_order.
func (s *Snapshot) SortedFees() []RateFee {
	out := make([]RateFee, len(s.Fees))
	copy(out, s.Fees)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}
