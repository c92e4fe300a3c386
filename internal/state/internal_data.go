package state

import "github.com/madhu-yavar/transaction-agent/internal/tabular"

type internalKind int

const (
	kindEmpty internalKind = iota
	kindSingle
	kindList
)

// InternalData is the tagged variant behind the "whatever the current stage
// considers authoritative" slot: empty, a single table, or a list of tables.
// Only the detection-aggregation step narrows it into DetectedTables;
// downstream steps must not branch on the raw shape themselves.
type InternalData struct {
	kind   internalKind
	single *tabular.Table
	list   []*tabular.Table
}

// Empty returns the zero variant.
func Empty() InternalData { return InternalData{} }

// SingleTable wraps one table.
func SingleTable(t *tabular.Table) InternalData {
	if t == nil {
		return InternalData{}
	}
	return InternalData{kind: kindSingle, single: t}
}

// TableList wraps an ordered list of tables.
func TableList(ts []*tabular.Table) InternalData {
	if len(ts) == 0 {
		return InternalData{}
	}
	return InternalData{kind: kindList, list: ts}
}

// IsEmpty reports whether no data is held.
func (d InternalData) IsEmpty() bool { return d.kind == kindEmpty }

// Single returns the held table when the variant is a single table.
func (d InternalData) Single() (*tabular.Table, bool) {
	return d.single, d.kind == kindSingle
}

// List returns the held tables when the variant is a list.
func (d InternalData) List() ([]*tabular.Table, bool) {
	return d.list, d.kind == kindList
}

// Tables returns a uniform view over either variant shape.
func (d InternalData) Tables() []*tabular.Table {
	switch d.kind {
	case kindSingle:
		return []*tabular.Table{d.single}
	case kindList:
		return d.list
	default:
		return nil
	}
}
