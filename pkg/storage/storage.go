package storage

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/ftbuffer/pkg/header"
)

var keyPrefix = []byte("hdr/")

// ErrNotFound is returned for ids that are not in the archive
var ErrNotFound = errors.New("header not found")

// Archive keeps raw header records in a pebble database keyed by ksuid
type Archive struct {
	db      *pebble.DB
	decoder *header.Decoder
}

// Open opens or creates the archive at path. Records are validated and
// loaded with decoder; nil selects the default byte order.
func Open(path string, decoder *header.Decoder) (*Archive, error) {
	if decoder == nil {
		decoder = header.NewDecoder(nil)
	}
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Archive{db: db, decoder: decoder}, nil
}

func recordKey(id ksuid.KSUID) []byte {
	key := make([]byte, 0, len(keyPrefix)+len(ksuid.KSUID{}))
	key = append(key, keyPrefix...)
	return append(key, id.Bytes()...)
}

// Put stores raw after checking that it decodes, and returns its id
func (a *Archive) Put(raw []byte) (ksuid.KSUID, *header.Header, error) {
	h, err := a.decoder.Decode(raw)
	if err != nil {
		return ksuid.Nil, nil, err
	}

	id := ksuid.New()
	if err := a.db.Set(recordKey(id), raw, pebble.Sync); err != nil {
		return ksuid.Nil, nil, fmt.Errorf("failed to store header: %w", err)
	}
	return id, h, nil
}

// Get returns a copy of the raw record stored under id
func (a *Archive) Get(id ksuid.KSUID) ([]byte, error) {
	data, closer, err := a.db.Get(recordKey(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()

	raw := make([]byte, len(data))
	copy(raw, data)
	return raw, nil
}

// Load decodes the record stored under id
func (a *Archive) Load(id ksuid.KSUID) (*header.Header, error) {
	raw, err := a.Get(id)
	if err != nil {
		return nil, err
	}
	return a.decoder.Decode(raw)
}

// List returns every stored id in key order, which follows creation time
// at one second resolution
func (a *Archive) List() ([]ksuid.KSUID, error) {
	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: []byte("hdr0"),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var ids []ksuid.KSUID
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key()[len(keyPrefix):])
		if err != nil {
			return nil, fmt.Errorf("corrupt archive key %x: %w", iter.Key(), err)
		}
		ids = append(ids, id)
	}
	return ids, iter.Error()
}

// Delete removes the record stored under id
func (a *Archive) Delete(id ksuid.KSUID) error {
	key := recordKey(id)
	_, closer, err := a.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	closer.Close()
	return a.db.Delete(key, pebble.Sync)
}

// Close closes the underlying database
func (a *Archive) Close() error {
	return a.db.Close()
}
