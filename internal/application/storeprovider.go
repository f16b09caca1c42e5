package application

import (
	"sync"

	"github.com/ericfisherdev/binvault/internal/domain/port/driven"
)

// StoreProvider selects the bin store for each operation. The remote store is
// used whenever one is configured; otherwise the local store serves. The
// remote store can be swapped at runtime so a configuration reload takes
// effect without restarting the server.
type StoreProvider struct {
	mu     sync.RWMutex
	local  driven.BinStore
	remote driven.BinStore
}

// NewStoreProvider creates a provider. remote may be nil when no remote
// credentials are configured.
func NewStoreProvider(local, remote driven.BinStore) *StoreProvider {
	return &StoreProvider{
		local:  local,
		remote: remote,
	}
}

// Current returns the store to use for the operation about to start.
func (p *StoreProvider) Current() driven.BinStore {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.remote != nil {
		return p.remote
	}
	return p.local
}

// Backend names the store Current would return.
func (p *StoreProvider) Backend() string {
	return p.Current().Name()
}

// ReplaceRemote swaps the remote store. Passing nil falls back to the local
// store for subsequent operations; operations already in flight keep the
// store they started with.
func (p *StoreProvider) ReplaceRemote(remote driven.BinStore) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.remote = remote
}

// HasRemote returns true if a remote store is currently configured.
func (p *StoreProvider) HasRemote() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.remote != nil
}
