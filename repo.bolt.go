package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

var _ BookStorage = (*boltBookStorage)(nil) // ensure boltBookStorage implements BookStorage.

type boltBookStorage struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
	clock  Clocker
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *BoltDBConfig) (*bolt.DB, error) {
	db, err := bolt.Open(config.FilePath, 0o600, &bolt.Options{Timeout: config.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltBookStorage provides an instance of bolt-based book storage.
// The injected clock assigns the creation timestamps.
func NewBoltBookStorage(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB, clock Clocker) BookStorage {
	return &boltBookStorage{
		logger: logger,
		client: client,
		config: boltConfig,
		clock:  clock,
	}
}

// Close shuts down the bolt-based book storage.
func (bs *boltBookStorage) Close() error {
	return bs.client.Close()
}

// itob converts a book id into a fixed-width big-endian key
// so the bucket keeps its keys in insertion order.
func itob(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

// Add inserts a new book record into boltdb store. The bucket sequence
// provides the unique, never reused id and the defaults are written and
// read back inside the same transaction.
func (bs *boltBookStorage) Add(_ context.Context, title, author string) (Book, error) {
	var created Book
	err := bs.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bs.config.BucketName))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		book := Book{
			ID:        int64(seq),
			Title:     title,
			Author:    author,
			Status:    StatusUnread,
			CreatedAt: bs.clock.Now().UTC(),
			Rating:    0,
		}
		bookBytes, err := json.Marshal(book)
		if err != nil {
			return err
		}
		if err := b.Put(itob(book.ID), bookBytes); err != nil {
			return err
		}
		// read-back of the stored value, not an echo of the input.
		return json.Unmarshal(b.Get(itob(book.ID)), &created)
	})
	if err != nil {
		return Book{}, err
	}
	return created, nil
}

// Toggle flips the reading status of a book record. Bolt serializes
// update transactions, so the read-flip-write cannot interleave with
// another writer on the same id.
func (bs *boltBookStorage) Toggle(_ context.Context, id int64) (Book, error) {
	var book Book
	err := bs.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bs.config.BucketName))
		raw := b.Get(itob(id))
		if raw == nil {
			return ErrBookNotFound
		}
		if err := json.Unmarshal(raw, &book); err != nil {
			return err
		}
		book.Status = book.Status.Toggled()
		bookBytes, err := json.Marshal(book)
		if err != nil {
			return err
		}
		return b.Put(itob(id), bookBytes)
	})
	if err != nil {
		return Book{}, err
	}
	return book, nil
}

// Rate writes the given rating verbatim on the matching book record.
func (bs *boltBookStorage) Rate(_ context.Context, id int64, rating int) (Book, error) {
	var book Book
	err := bs.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bs.config.BucketName))
		raw := b.Get(itob(id))
		if raw == nil {
			return ErrBookNotFound
		}
		if err := json.Unmarshal(raw, &book); err != nil {
			return err
		}
		book.Rating = rating
		bookBytes, err := json.Marshal(book)
		if err != nil {
			return err
		}
		return b.Put(itob(id), bookBytes)
	})
	if err != nil {
		return Book{}, err
	}
	return book, nil
}

// Delete removes a book record and reports whether it existed.
func (bs *boltBookStorage) Delete(_ context.Context, id int64) (bool, error) {
	var existed bool
	err := bs.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bs.config.BucketName))
		if b.Get(itob(id)) == nil {
			return nil
		}
		existed = true
		return b.Delete(itob(id))
	})
	return existed, err
}

// GetAll retrieves every book stored in the bolt database, newest first.
func (bs *boltBookStorage) GetAll(_ context.Context) ([]Book, error) {
	tx, err := bs.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := tx.Bucket([]byte(bs.config.BucketName)).Cursor()

	books := []Book{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var book Book
		if err = json.Unmarshal(v, &book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	sort.Slice(books, func(i, j int) bool {
		if books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].ID > books[j].ID
		}
		return books[i].CreatedAt.After(books[j].CreatedAt)
	})
	return books, nil
}
