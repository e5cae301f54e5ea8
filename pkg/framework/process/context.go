// Package process provides the engine's per-block scratch-buffer manager:
// every intermediate bus (dry, early, FDN input, dark tail) is sized once
// at prepare time and never grown, so process_block never allocates.
package process

// Block is the engine's pre-sized scratch-buffer set for one stereo
// render pass. All slices are sized to maxBlockSize at Prepare and
// reused across calls.
type Block struct {
	maxBlockSize int

	DryL, DryR       []float32
	EarlyL, EarlyR   []float32
	FDNInL, FDNInR   []float32
	FDNOutL, FDNOutR []float32
	DVNL, DVNR       []float32
}

// NewBlock allocates a Block sized for maxBlockSize samples per channel.
func NewBlock(maxBlockSize int) *Block {
	b := &Block{}
	b.Prepare(maxBlockSize)
	return b
}

// Prepare (re)allocates every scratch bus to maxBlockSize. Safe to call
// again; idempotent if the size is unchanged.
func (b *Block) Prepare(maxBlockSize int) {
	if b.maxBlockSize == maxBlockSize && b.DryL != nil {
		return
	}
	b.maxBlockSize = maxBlockSize
	b.DryL = make([]float32, maxBlockSize)
	b.DryR = make([]float32, maxBlockSize)
	b.EarlyL = make([]float32, maxBlockSize)
	b.EarlyR = make([]float32, maxBlockSize)
	b.FDNInL = make([]float32, maxBlockSize)
	b.FDNInR = make([]float32, maxBlockSize)
	b.FDNOutL = make([]float32, maxBlockSize)
	b.FDNOutR = make([]float32, maxBlockSize)
	b.DVNL = make([]float32, maxBlockSize)
	b.DVNR = make([]float32, maxBlockSize)
}

// Clear zeroes every scratch bus's first n samples.
func (b *Block) Clear(n int) {
	for _, buf := range [][]float32{
		b.DryL, b.DryR, b.EarlyL, b.EarlyR,
		b.FDNInL, b.FDNInR, b.FDNOutL, b.FDNOutR, b.DVNL, b.DVNR,
	} {
		for i := 0; i < n; i++ {
			buf[i] = 0
		}
	}
}

// ZeroUnusedOutputs zeroes every output channel beyond the first two,
// per spec §4.10 step 1.
func ZeroUnusedOutputs(io [][]float32, n int) {
	for ch := 2; ch < len(io); ch++ {
		for i := 0; i < n && i < len(io[ch]); i++ {
			io[ch][i] = 0
		}
	}
}
