// Package points implements the billing collaborator: a flat-file points
// ledger and a cached pricing table. It settles charges before paid AI
// requests proceed; it performs no card or gateway processing.
package points

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// ErrInsufficientPoints indicates the user's balance cannot cover a charge.
var ErrInsufficientPoints = errors.New("insufficient points")

// account is the on-disk shape of one user's balance.
type account struct {
	UserID string `json:"userId"`
	Points int    `json:"points"`
}

// Ledger stores one JSON file per user under a base URL. Any storage
// scheme supported by afs works (file, mem, s3, ...); tests use mem://.
// A single process owns the ledger files, so a process-wide lock is enough
// to serialise balance updates.
type Ledger struct {
	fs      afs.Service
	baseURL string
	mux     sync.Mutex
}

// NewLedger creates a ledger rooted at baseURL.
func NewLedger(baseURL string) *Ledger {
	return &Ledger{fs: afs.New(), baseURL: baseURL}
}

// Balance returns the user's current balance; unknown users hold zero.
func (l *Ledger) Balance(ctx context.Context, userID string) (int, error) {
	l.mux.Lock()
	defer l.mux.Unlock()
	acc, err := l.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return acc.Points, nil
}

// Credit adds points to the user's balance.
func (l *Ledger) Credit(ctx context.Context, userID string, points int) error {
	if points < 0 {
		return fmt.Errorf("credit amount must not be negative: %d", points)
	}
	l.mux.Lock()
	defer l.mux.Unlock()
	acc, err := l.load(ctx, userID)
	if err != nil {
		return err
	}
	acc.Points += points
	return l.store(ctx, acc)
}

// Debit removes points from the user's balance; the balance never goes
// negative. Check-and-subtract happens under one lock.
func (l *Ledger) Debit(ctx context.Context, userID string, points int) error {
	if points < 0 {
		return fmt.Errorf("debit amount must not be negative: %d", points)
	}
	l.mux.Lock()
	defer l.mux.Unlock()
	acc, err := l.load(ctx, userID)
	if err != nil {
		return err
	}
	if acc.Points < points {
		return ErrInsufficientPoints
	}
	acc.Points -= points
	return l.store(ctx, acc)
}

func (l *Ledger) accountURL(userID string) string {
	return url.Join(l.baseURL, userID+".json")
}

func (l *Ledger) load(ctx context.Context, userID string) (*account, error) {
	URL := l.accountURL(userID)
	ok, err := l.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check account %v: %w", URL, err)
	}
	if !ok {
		return &account{UserID: userID}, nil
	}
	data, err := l.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load account %v: %w", URL, err)
	}
	acc := &account{}
	if err := json.Unmarshal(data, acc); err != nil {
		return nil, fmt.Errorf("failed to parse account %v: %w", URL, err)
	}
	acc.UserID = userID
	return acc, nil
}

func (l *Ledger) store(ctx context.Context, acc *account) error {
	data, err := json.Marshal(acc)
	if err != nil {
		return err
	}
	URL := l.accountURL(acc.UserID)
	if err := l.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to store account %v: %w", URL, err)
	}
	return nil
}
