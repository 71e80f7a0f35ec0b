package in_memdb

import (
	"sort"

	"github.com/trezcool/masomo/portal/core/academic"
)

// Record is a stored reference-data entity, in its JSON shape.
type Record map[string]interface{}

func (r Record) copy() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

func (db *DB) CreateRecord(kind academic.Kind, rec Record) Record {
	t := db.records
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.t[kind] == nil {
		t.t[kind] = make(map[string]Record)
	}
	rec = rec.copy()
	rec["id"] = newID()
	t.t[kind][rec["id"].(string)] = rec
	return rec.copy()
}

// ListRecords returns the kind's records ordered by name.
func (db *DB) ListRecords(kind academic.Kind) []Record {
	t := db.records
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	res := make([]Record, 0, len(t.t[kind]))
	for _, rec := range t.t[kind] {
		res = append(res, rec.copy())
	}
	sort.Slice(res, func(i, j int) bool {
		ni, _ := res[i]["name"].(string)
		nj, _ := res[j]["name"].(string)
		if ni == nj {
			return res[i]["id"].(string) < res[j]["id"].(string)
		}
		return ni < nj
	})
	return res
}

func (db *DB) GetRecord(kind academic.Kind, id string) (Record, error) {
	t := db.records
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if rec, ok := t.t[kind][id]; ok {
		return rec.copy(), nil
	}
	return nil, ErrNotFound
}

// UpdateRecord merges changes into the stored record.
func (db *DB) UpdateRecord(kind academic.Kind, id string, changes Record) (Record, error) {
	t := db.records
	t.mutex.Lock()
	defer t.mutex.Unlock()

	rec, ok := t.t[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	for k, v := range changes {
		if k != "id" {
			rec[k] = v
		}
	}
	return rec.copy(), nil
}

func (db *DB) DeleteRecord(kind academic.Kind, id string) error {
	t := db.records
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.t[kind][id]; !ok {
		return ErrNotFound
	}
	delete(t.t[kind], id)
	return nil
}
