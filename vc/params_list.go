package vc

var (
	// ParamsN8 is a parameters set for committing vectors of dimension 8.
	// Suitable for small sensor batches and tests.
	ParamsN8 = ParametersLiteral{
		N: 8,
	}

	// ParamsN32 is a parameters set for committing vectors of dimension 32.
	// Dimension 32 also admits range proofs over full 32-bit timestamps.
	ParamsN32 = ParametersLiteral{
		N: 32,
	}

	// ParamsN64 is a parameters set for committing vectors of dimension 64.
	ParamsN64 = ParametersLiteral{
		N: 64,
	}
)
