package backend

import "github.com/odinxorg/odinx-wallet/internal/chain"

// EsploraBackend implements Backend using the Esplora API (blockstream.info).
// The address and tip endpoints match mempool.space, so it extends MempoolBackend.
type EsploraBackend struct {
	*MempoolBackend
}

// NewEsploraBackend creates a new Esplora backend.
func NewEsploraBackend(baseURL string, params *chain.Params, timeout int) *EsploraBackend {
	return &EsploraBackend{
		MempoolBackend: NewMempoolBackend(baseURL, params, timeout),
	}
}

// Type returns TypeEsplora.
func (e *EsploraBackend) Type() Type {
	return TypeEsplora
}

// Ensure EsploraBackend implements Backend
var _ Backend = (*EsploraBackend)(nil)
