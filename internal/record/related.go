package record

import (
	"context"
	"errors"
	"fmt"
)

// Related returns the cached foreign record for the given FK field,
// lazily loading and caching it by primary key when a FK value is set.
// Returns nil without error when the FK value is null. The target's
// reverse collection is not touched, so the inverse side is never left
// partially populated by a read.
func (r *Record) Related(ctx context.Context, sess *Session, name string) (*Record, error) {
	f, ok := r.schema.Field(name)
	if !ok || f.References == nil {
		return nil, fmt.Errorf("%s.%s is not a foreign key field", r.schema.Table, name)
	}
	if cached, ok := r.related[name]; ok {
		return cached, nil
	}
	key, ok := r.values[name].(int64)
	if !ok || key == 0 {
		return nil, nil
	}
	rel, err := FindByID(ctx, sess, f.References, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	r.related[name] = rel
	r.relatedKey[name] = rel.ID()
	return rel, nil
}

// RelatedCached returns the cached foreign record without querying.
func (r *Record) RelatedCached(name string) *Record {
	return r.related[name]
}

// SetRelated sets the local FK field from the target's primary key (null
// when the target is nil), caches the reference, and registers this record
// on the target's reverse collection for bidirectional consistency.
func (r *Record) SetRelated(name string, target *Record) error {
	f, ok := r.schema.Field(name)
	if !ok || f.References == nil {
		return fmt.Errorf("%s.%s is not a foreign key field", r.schema.Table, name)
	}
	if target == nil {
		if err := r.Set(name, nil); err != nil {
			return err
		}
		delete(r.related, name)
		delete(r.relatedKey, name)
		return nil
	}
	if target.schema != f.References {
		return fmt.Errorf("%s.%s references %s, not %s",
			r.schema.Table, name, f.References.Table, target.schema.Table)
	}
	var key any
	if id := target.ID(); id != 0 {
		key = id
	}
	if err := r.Set(name, key); err != nil {
		return err
	}
	r.related[name] = target
	r.relatedKey[name] = target.ID()
	target.addReverse(r.schema.Table, r)
	return nil
}

// ClearRelated detaches the cached foreign record, leaving the FK value
// untouched. A later Related call re-fetches from the store.
func (r *Record) ClearRelated(name string) {
	delete(r.related, name)
	delete(r.relatedKey, name)
}

// ReverseRecords returns records of the given table registered as pointing
// at this one. Only records attached via SetRelated appear; nothing is
// loaded from the store.
func (r *Record) ReverseRecords(table string) []*Record {
	return r.reverse[table]
}

func (r *Record) addReverse(table string, rec *Record) {
	for _, existing := range r.reverse[table] {
		if existing == rec {
			return
		}
	}
	r.reverse[table] = append(r.reverse[table], rec)
}
