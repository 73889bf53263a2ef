// Package aggregator merges policy selections and evidence metadata into one
// AggregateItem per ISMS control.
package aggregator

import (
	"sort"
	"strings"

	"github.com/locvowork/isms_status_exporter/internal/domain"
	"github.com/locvowork/isms_status_exporter/internal/ismsid"
	"github.com/locvowork/isms_status_exporter/pkg/textnorm"
)

// Aggregate groups both record lists by ISMS identifier and returns the
// aggregates sorted by hierarchical identifier order.
//
// Identifiers that compare equal ("2.1" and "2.1.0") are folded into the item
// seen first, so the result never holds two items for the same control.
// Records without an identifier are skipped.
func Aggregate(policies []domain.RawPolicyRecord, evidences []domain.RawEvidenceRecord) []domain.AggregateItem {
	idx := newIndex()

	for _, p := range policies {
		id := strings.TrimSpace(p.ISMSID)
		if id == "" {
			continue
		}
		b := idx.get(id)
		b.contents.add(textnorm.Clean(p.Content))
		b.policies.add(textnorm.Clean(p.FullPath))
	}

	for _, e := range evidences {
		id := strings.TrimSpace(e.ISMSItem)
		if id == "" {
			continue
		}
		b := idx.get(id)
		fileName := textnorm.Clean(e.FileName)
		b.evidences.add(fileName)

		reasons := cleanReasons(e.Reasons)
		if len(reasons) > 0 && fileName != "" {
			b.setReasons(fileName, reasons)
		}
	}

	items := make([]domain.AggregateItem, 0, len(idx.order))
	for _, b := range idx.order {
		items = append(items, b.snapshot())
	}

	sort.SliceStable(items, func(i, j int) bool {
		return ismsid.Compare(items[i].ISMSID, items[j].ISMSID) < 0
	})
	return items
}

// cleanReasons trims every reason and drops the empty and "none" ones.
func cleanReasons(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if r = textnorm.Clean(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// index maps canonical identifiers to their builders, keeping first-seen order.
type index struct {
	byKey map[string]*itemBuilder
	order []*itemBuilder
}

func newIndex() *index {
	return &index{byKey: make(map[string]*itemBuilder)}
}

func (x *index) get(id string) *itemBuilder {
	key := ismsid.Canonical(id)
	if b, ok := x.byKey[key]; ok {
		return b
	}
	b := &itemBuilder{
		id:        id,
		reasonIdx: make(map[string]int),
	}
	x.byKey[key] = b
	x.order = append(x.order, b)
	return b
}

type itemBuilder struct {
	id        string
	contents  orderedSet
	policies  orderedSet
	evidences orderedSet
	reasons   []domain.ReasonGroup
	reasonIdx map[string]int
}

// setReasons stores reasons for fileName. A later call for the same file name
// replaces the value but keeps the original position.
func (b *itemBuilder) setReasons(fileName string, reasons []string) {
	if i, ok := b.reasonIdx[fileName]; ok {
		b.reasons[i].Reasons = reasons
		return
	}
	b.reasonIdx[fileName] = len(b.reasons)
	b.reasons = append(b.reasons, domain.ReasonGroup{FileName: fileName, Reasons: reasons})
}

func (b *itemBuilder) snapshot() domain.AggregateItem {
	reasons := make([]domain.ReasonGroup, len(b.reasons))
	for i, g := range b.reasons {
		reasons[i] = domain.ReasonGroup{
			FileName: g.FileName,
			Reasons:  append([]string(nil), g.Reasons...),
		}
	}
	return domain.AggregateItem{
		ISMSID:    b.id,
		Contents:  b.contents.values(),
		Policies:  b.policies.values(),
		Evidences: b.evidences.values(),
		Reasons:   reasons,
	}
}

// orderedSet is a string set that remembers insertion order. Empty strings are ignored.
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) values() []string {
	return append([]string{}, s.items...)
}
