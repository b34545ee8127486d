// Package wrangle implements the data-aggregation core: joining raw table
// rows into per-establishment entities and deriving the processed site view
// models consumed by the API handlers.
package wrangle

import "cartotaco/models"

// estIDColumn is the join key shared by every backend table.
const estIDColumn = "est_id"

// NamedSet is one backend table's rows under the section name they should
// occupy on the joined entity.
type NamedSet struct {
	Name    string
	Records []models.RawRecord
}

// JoinedEntity is the per-establishment aggregate before derivation. Each
// section holds that table's rows for this est_id with the join key removed.
type JoinedEntity struct {
	EstID    int64
	Sections map[string][]models.RawRecord
}

// Section returns the latest row assigned under name, or nil. Tables are
// one-row-per-establishment, so a duplicate simply wins by arrival order.
func (e JoinedEntity) Section(name string) models.RawRecord {
	rows := e.Sections[name]
	if len(rows) == 0 {
		return nil
	}
	return rows[len(rows)-1]
}

// Rows returns every row assigned under name. Specialty tables hold several
// rows per establishment.
func (e JoinedEntity) Rows(name string) []models.RawRecord {
	return e.Sections[name]
}

// Has reports whether at least one row exists under name.
func (e JoinedEntity) Has(name string) bool {
	return len(e.Sections[name]) > 0
}

// Join merges the named record sets into one JoinedEntity per distinct
// est_id. Nil sets and rows without a usable est_id are skipped; the join
// never fails as a whole. Output preserves first-seen est_id order.
func Join(sets []NamedSet) []JoinedEntity {
	byID := make(map[int64]*JoinedEntity)
	var order []int64

	for _, set := range sets {
		if set.Records == nil {
			continue
		}
		for _, rec := range set.Records {
			id, ok := EntityID(rec)
			if !ok {
				continue
			}
			entity, seen := byID[id]
			if !seen {
				entity = &JoinedEntity{EstID: id, Sections: make(map[string][]models.RawRecord)}
				byID[id] = entity
				order = append(order, id)
			}
			entity.Sections[set.Name] = append(entity.Sections[set.Name], stripEstID(rec))
		}
	}

	out := make([]JoinedEntity, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}

// EntityID extracts the est_id join key from a raw row, coercing the
// numeric representations different drivers produce.
func EntityID(rec models.RawRecord) (int64, bool) {
	v, ok := rec[estIDColumn]
	if !ok || v == nil {
		return 0, false
	}
	switch id := v.(type) {
	case int64:
		return id, true
	case int:
		return int64(id), true
	case int32:
		return int64(id), true
	case float64:
		return int64(id), true
	case []byte:
		return parseInt64(string(id))
	case string:
		return parseInt64(id)
	default:
		return 0, false
	}
}

func stripEstID(rec models.RawRecord) models.RawRecord {
	out := make(models.RawRecord, len(rec))
	for k, v := range rec {
		if k == estIDColumn {
			continue
		}
		out[k] = v
	}
	return out
}
