package vc

import (
	"sync"
)

// ProveRangeBatch proves that each value lies in [0, 2^bits).
func (p *Prover) ProveRangeBatch(values []uint64, bits int) ([]RangeProof, error) {
	proofs := make([]RangeProof, len(values))
	for i, v := range values {
		proof, err := p.ProveRange(v, bits)
		if err != nil {
			return nil, err
		}
		proofs[i] = proof
	}
	return proofs, nil
}

// ProveRangeBatchParallel proves that each value lies in [0, 2^bits) in parallel.
func (p *Prover) ProveRangeBatchParallel(values []uint64, bits int) ([]RangeProof, error) {
	proofs := make([]RangeProof, len(values))
	errs := make([]error, len(values))

	proverPool := make([]*Prover, len(values))
	for i := 0; i < len(values); i++ {
		proverPool[i] = p.ShallowCopy()
	}

	var wg sync.WaitGroup
	wg.Add(len(values))

	for i := 0; i < len(values); i++ {
		go func(i int) {
			pIdx := proverPool[i]
			proofs[i], errs[i] = pIdx.ProveRange(values[i], bits)
			wg.Done()
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return proofs, nil
}
