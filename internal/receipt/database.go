package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.etcd.io/bbolt"
)

const bucketName = "receipts"

// ErrNotFound is returned when a receipt does not exist for a user
var ErrNotFound = errors.New("receipt not found")

// DB defines the interface for database operations
type DB interface {
	// SaveReceipt saves a receipt under its user
	SaveReceipt(receipt *Receipt) error

	// GetReceipt retrieves a user's receipt by ID
	GetReceipt(userID, id string) (*Receipt, error)

	// ListReceipts returns a user's receipts, most recent purchase first
	ListReceipts(userID string) ([]*Receipt, error)

	// DeleteReceipt removes a user's receipt
	DeleteReceipt(userID, id string) error

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB.
// Receipts live in one nested bucket per user under the receipts bucket.
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// userBucket returns the user's bucket, or nil if the user has no receipts yet
func userBucket(tx *bbolt.Tx, userID string) *bbolt.Bucket {
	return tx.Bucket([]byte(bucketName)).Bucket([]byte(userID))
}

// SaveReceipt saves a receipt to the database
func (b *BoltDB) SaveReceipt(receipt *Receipt) error {
	if receipt.UserID == "" {
		return fmt.Errorf("saving receipt %s: user id is required", receipt.ID)
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.Bucket([]byte(bucketName)).CreateBucketIfNotExists([]byte(receipt.UserID))
		if err != nil {
			return fmt.Errorf("creating user bucket: %w", err)
		}
		data, err := json.Marshal(receipt)
		if err != nil {
			return fmt.Errorf("marshaling receipt: %w", err)
		}
		return bucket.Put([]byte(receipt.ID), data)
	})
}

// GetReceipt retrieves a receipt by ID
func (b *BoltDB) GetReceipt(userID, id string) (*Receipt, error) {
	var receipt *Receipt
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := userBucket(tx, userID)
		if bucket == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return json.Unmarshal(data, &receipt)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// ListReceipts returns all of a user's receipts. Receipts are ordered by
// transaction time, newest first; receipts without one come last by entry date.
func (b *BoltDB) ListReceipts(userID string) ([]*Receipt, error) {
	receipts := make([]*Receipt, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := userBucket(tx, userID)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			var receipt Receipt
			if err := json.Unmarshal(v, &receipt); err != nil {
				return fmt.Errorf("unmarshaling receipt: %w", err)
			}
			receipts = append(receipts, &receipt)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(receipts, compareNewestFirst)
	return receipts, nil
}

func compareNewestFirst(a, b *Receipt) int {
	ta, aok := a.PurchasedAt()
	tb, bok := b.PurchasedAt()
	switch {
	case aok && !bok:
		return -1
	case !aok && bok:
		return 1
	case aok && bok && !ta.Equal(tb):
		return tb.Compare(ta)
	}
	return b.EntryDate.Compare(a.EntryDate)
}

// DeleteReceipt removes a receipt from the database
func (b *BoltDB) DeleteReceipt(userID, id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := userBucket(tx, userID)
		if bucket == nil || bucket.Get([]byte(id)) == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return bucket.Delete([]byte(id))
	})
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
