package vds

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"encoding/hex"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/go-errors/errors"
)

// GenerateSigningKey creates a fresh batch signing key.
func GenerateSigningKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
}

// MarshalPublicKey serializes an ECDSA public key.
func MarshalPublicKey(pk *ecdsa.PublicKey) ([]byte, error) {
	return x509.MarshalPKIXPublicKey(pk)
}

// UnmarshalPublicKey parses an ECDSA public key.
func UnmarshalPublicKey(bts []byte) (*ecdsa.PublicKey, error) {
	genericPk, err := x509.ParsePKIXPublicKey(bts)
	if err != nil {
		return nil, err
	}
	pk, ok := genericPk.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("invalid ecdsa public key")
	}
	return pk, nil
}

// sign signs bts with ECDSA over P-256.
func sign(sk *ecdsa.PrivateKey, bts []byte) ([]byte, error) {
	hash := sha256.Sum256(bts)
	r, s, err := ecdsa.Sign(rand.Reader, sk, hash[:])
	if err != nil {
		return nil, err
	}
	return asn1.Marshal([]*big.Int{r, s})
}

// verifySignature checks an ECDSA signature produced by sign.
func verifySignature(pk *ecdsa.PublicKey, bts []byte, signature []byte) bool {
	var ints []*big.Int
	if _, err := asn1.Unmarshal(signature, &ints); err != nil {
		return false
	}
	if len(ints) != 2 {
		return false
	}
	hash := sha256.Sum256(bts)
	return ecdsa.Verify(pk, hash[:], ints[0], ints[1])
}

// headerBytes concatenates the compressed commitments in order, data
// columns first, time commitment last. Signatures and batch ids are
// computed over these bytes.
func headerBytes(dataCommitments []bls12381.G1Affine, timeCommitment bls12381.G2Affine) []byte {
	buf := make([]byte, 0, bls12381.SizeOfG1AffineCompressed*len(dataCommitments)+bls12381.SizeOfG2AffineCompressed)
	for i := range dataCommitments {
		b := dataCommitments[i].Bytes()
		buf = append(buf, b[:]...)
	}
	tb := timeCommitment.Bytes()
	return append(buf, tb[:]...)
}

// batchID derives the batch identifier from the commitment bytes.
func batchID(bts []byte) string {
	inner := sha256.Sum256(bts)
	outer := sha256.Sum256(inner[:])
	return hex.EncodeToString(outer[:])[:16]
}
