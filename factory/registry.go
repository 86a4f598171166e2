package factory

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/revenue-share-labs/contracts-invoice/account"
)

var (
	bucketMeta        = []byte("meta")
	bucketDeployments = []byte("deployments")
	bucketEvents      = []byte("events")

	metaFactoryAddress = []byte("factory_address")
	metaOwner          = []byte("owner")
	metaPlatformFee    = []byte("platform_fee")
	metaPlatformWallet = []byte("platform_wallet")
)

// registry wraps a bbolt database persisting the factory's globals, the
// deployment records, and the event journal.
type registry struct {
	db *bbolt.DB
}

// deploymentRecord is the persisted form of one deployment. State is the
// invoice's binary state snapshot, refreshed on every mutation.
type deploymentRecord struct {
	Address    account.Address
	Creator    account.Address
	CreationID [32]byte
	State      []byte
}

// openRegistry opens or creates the registry database at dbPath.
// The parent directory is created if it does not exist.
func openRegistry(dbPath string) (*registry, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("factory: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("factory: open registry db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketDeployments, bucketEvents} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("registry: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("factory: create buckets: %w", err)
	}

	return &registry{db: db}, nil
}

// Close closes the underlying database.
func (r *registry) Close() error { return r.db.Close() }

// LoadMeta reads the persisted factory globals. ok is false when the
// database is fresh and the factory identity has not been written yet.
func (r *registry) LoadMeta() (meta factoryMeta, ok bool, err error) {
	err = r.db.View(func(tx *bbolt.Tx) error {
		mb := tx.Bucket(bucketMeta)
		addr := mb.Get(metaFactoryAddress)
		if addr == nil {
			return nil
		}
		if len(addr) != account.AddressSize {
			return fmt.Errorf("%w: factory address is %d bytes", ErrCorruptRegistry, len(addr))
		}
		copy(meta.Address[:], addr)

		if owner := mb.Get(metaOwner); len(owner) == account.AddressSize {
			copy(meta.Owner[:], owner)
		}
		if wallet := mb.Get(metaPlatformWallet); len(wallet) == account.AddressSize {
			copy(meta.PlatformWallet[:], wallet)
		}
		if fee := mb.Get(metaPlatformFee); len(fee) == 8 {
			meta.PlatformFee = binary.BigEndian.Uint64(fee)
		}
		ok = true
		return nil
	})
	return meta, ok, err
}

// SaveMeta writes the factory globals in one transaction.
func (r *registry) SaveMeta(meta factoryMeta) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		mb := tx.Bucket(bucketMeta)
		if err := mb.Put(metaFactoryAddress, meta.Address[:]); err != nil {
			return fmt.Errorf("registry: put factory address: %w", err)
		}
		if err := mb.Put(metaOwner, meta.Owner[:]); err != nil {
			return fmt.Errorf("registry: put owner: %w", err)
		}
		if err := mb.Put(metaPlatformWallet, meta.PlatformWallet[:]); err != nil {
			return fmt.Errorf("registry: put platform wallet: %w", err)
		}
		var fee [8]byte
		binary.BigEndian.PutUint64(fee[:], meta.PlatformFee)
		if err := mb.Put(metaPlatformFee, fee[:]); err != nil {
			return fmt.Errorf("registry: put platform fee: %w", err)
		}
		return nil
	})
}

// PutDeployment stores or refreshes a deployment record keyed by the
// deployed address.
func (r *registry) PutDeployment(rec *deploymentRecord) error {
	data, err := encodeGob(rec)
	if err != nil {
		return fmt.Errorf("registry: encode deployment: %w", err)
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketDeployments).Put(rec.Address[:], data); err != nil {
			return fmt.Errorf("registry: put deployment: %w", err)
		}
		return nil
	})
}

// GetDeployment loads the record at addr, nil when the address was never
// deployed to.
func (r *registry) GetDeployment(addr account.Address) (*deploymentRecord, error) {
	var rec *deploymentRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDeployments).Get(addr[:])
		if data == nil {
			return nil
		}
		rec = &deploymentRecord{}
		if err := decodeGob(data, rec); err != nil {
			return fmt.Errorf("%w: deployment %s: %v", ErrCorruptRegistry, addr, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// HasDeployment reports whether addr is already occupied.
func (r *registry) HasDeployment(addr account.Address) (bool, error) {
	var found bool
	err := r.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(bucketDeployments).Get(addr[:]) != nil
		return nil
	})
	return found, err
}

// Deployments returns every deployment record in key order.
func (r *registry) Deployments() ([]*deploymentRecord, error) {
	var records []*deploymentRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDeployments).ForEach(func(k, v []byte) error {
			rec := &deploymentRecord{}
			if err := decodeGob(v, rec); err != nil {
				return fmt.Errorf("%w: deployment %x: %v", ErrCorruptRegistry, k, err)
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// AppendEvent journals an event under the next sequence number and returns
// the number assigned.
func (r *registry) AppendEvent(rec *eventRecord) (uint64, error) {
	var seq uint64
	err := r.db.Update(func(tx *bbolt.Tx) error {
		eb := tx.Bucket(bucketEvents)
		var err error
		seq, err = eb.NextSequence()
		if err != nil {
			return fmt.Errorf("registry: next event sequence: %w", err)
		}
		rec.Seq = seq
		data, err := encodeGob(rec)
		if err != nil {
			return fmt.Errorf("registry: encode event: %w", err)
		}
		if err := eb.Put(seqKey(seq), data); err != nil {
			return fmt.Errorf("registry: put event: %w", err)
		}
		return nil
	})
	return seq, err
}

// Events returns every journaled event with a sequence number strictly
// greater than after, in sequence order.
func (r *registry) Events(after uint64) ([]*eventRecord, error) {
	var records []*eventRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketEvents).Cursor()
		for k, v := c.Seek(seqKey(after + 1)); k != nil; k, v = c.Next() {
			rec := &eventRecord{}
			if err := decodeGob(v, rec); err != nil {
				return fmt.Errorf("%w: event %x: %v", ErrCorruptRegistry, k, err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// seqKey encodes a sequence number as an 8-byte big-endian key for sorted
// storage.
func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
