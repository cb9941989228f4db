// Wire encoding for the records exchanged between roles, using Core
// Deterministic CBOR as defined in RFC 8949. Group elements are tagged
// explicitly as identity or compressed coordinates, so the identity
// element round-trips between arithmetic backends instead of relying on
// backend-specific point encodings.
package vds

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-errors/errors"

	"github.com/Alfred-hhy/streamCommit/accum"
	"github.com/Alfred-hhy/streamCommit/vc"
)

const maxWireElements = 1024 * 256

var (
	// wireEncOptions specifies how records are encoded.
	wireEncOptions = cbor.EncOptions{
		// Encoding options required by Core Deterministic Encoding
		// See https://datatracker.ietf.org/doc/html/rfc8949#section-4.2.1
		InfConvert:    cbor.InfConvertFloat16,
		IndefLength:   cbor.IndefLengthForbidden,
		NaNConvert:    cbor.NaNConvert7e00,
		ShortestFloat: cbor.ShortestFloat16,
		Sort:          cbor.SortCoreDeterministic,

		// We don't use tags
		TagsMd: cbor.TagsForbidden,
	}

	// wireDecOptions specifies how records are decoded.
	wireDecOptions = cbor.DecOptions{
		// Core Deterministic decoding options
		IndefLength: cbor.IndefLengthForbidden,

		// Sanity checks on maps and arrays
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements: maxWireElements,
		MaxMapPairs:      maxWireElements,

		// We don't use tags
		TagsMd:  cbor.TagsForbidden,
		TimeTag: cbor.DecTagIgnored,
	}

	wireEncMode cbor.EncMode
	wireDecMode cbor.DecMode
)

func init() {
	var err error
	if wireEncMode, err = wireEncOptions.EncMode(); err != nil {
		panic(err)
	}
	if wireDecMode, err = wireDecOptions.DecMode(); err != nil {
		panic(err)
	}
}

// wirePoint carries one group element. Exactly one of Identity and Data
// is set.
type wirePoint struct {
	Identity bool
	Data     []byte
}

func packG1(p bls12381.G1Affine) wirePoint {
	if p.IsInfinity() {
		return wirePoint{Identity: true}
	}
	b := p.Bytes()
	return wirePoint{Data: b[:]}
}

func unpackG1(w wirePoint) (bls12381.G1Affine, error) {
	var p bls12381.G1Affine
	if w.Identity {
		if len(w.Data) != 0 {
			return p, errors.New("vds: identity element with coordinates")
		}
		return p, nil
	}
	if _, err := p.SetBytes(w.Data); err != nil {
		return p, err
	}
	return p, nil
}

func packG2(p bls12381.G2Affine) wirePoint {
	if p.IsInfinity() {
		return wirePoint{Identity: true}
	}
	b := p.Bytes()
	return wirePoint{Data: b[:]}
}

func unpackG2(w wirePoint) (bls12381.G2Affine, error) {
	var p bls12381.G2Affine
	if w.Identity {
		if len(w.Data) != 0 {
			return p, errors.New("vds: identity element with coordinates")
		}
		return p, nil
	}
	if _, err := p.SetBytes(w.Data); err != nil {
		return p, err
	}
	return p, nil
}

func packFr(e fr.Element) []byte {
	b := e.Bytes()
	return b[:]
}

func unpackFr(bts []byte) (fr.Element, error) {
	var e fr.Element
	if len(bts) != fr.Bytes {
		return e, errors.Errorf("scalar has %d bytes, want %d", len(bts), fr.Bytes)
	}
	e.SetBytes(bts)
	return e, nil
}

type wireHeader struct {
	ID   string
	Data []wirePoint
	Time wirePoint
	Sig  []byte
}

// MarshalHeader encodes a batch header.
func MarshalHeader(h BatchHeader) ([]byte, error) {
	w := wireHeader{
		ID:   h.ID,
		Data: make([]wirePoint, len(h.DataCommitments)),
		Time: packG2(h.TimeCommitment),
		Sig:  h.Signature,
	}
	for i := range h.DataCommitments {
		w.Data[i] = packG1(h.DataCommitments[i])
	}
	return wireEncMode.Marshal(w)
}

// UnmarshalHeader decodes a batch header.
func UnmarshalHeader(bts []byte) (BatchHeader, error) {
	var w wireHeader
	if err := wireDecMode.Unmarshal(bts, &w); err != nil {
		return BatchHeader{}, err
	}

	h := BatchHeader{
		ID:              w.ID,
		DataCommitments: make([]bls12381.G1Affine, len(w.Data)),
		Signature:       w.Sig,
	}
	var err error
	for i := range w.Data {
		if h.DataCommitments[i], err = unpackG1(w.Data[i]); err != nil {
			return BatchHeader{}, err
		}
	}
	if h.TimeCommitment, err = unpackG2(w.Time); err != nil {
		return BatchHeader{}, err
	}
	return h, nil
}

type wireGlobalKey struct {
	SigKey   []byte
	AccG     wirePoint
	AccGHat  wirePoint
	AccGHatS wirePoint
	AccValue wirePoint
	Version  uint64
}

func packGlobalKey(k GlobalPublicKey) (wireGlobalKey, error) {
	sigKey, err := MarshalPublicKey(k.SigKey)
	if err != nil {
		return wireGlobalKey{}, err
	}
	return wireGlobalKey{
		SigKey:   sigKey,
		AccG:     packG1(k.AccKey.G),
		AccGHat:  packG2(k.AccKey.GHat),
		AccGHatS: packG2(k.AccKey.GHatS),
		AccValue: packG1(k.AccValue),
		Version:  k.Version,
	}, nil
}

func unpackGlobalKey(w wireGlobalKey) (GlobalPublicKey, error) {
	sigKey, err := UnmarshalPublicKey(w.SigKey)
	if err != nil {
		return GlobalPublicKey{}, err
	}

	k := GlobalPublicKey{SigKey: sigKey, Version: w.Version}
	if k.AccKey.G, err = unpackG1(w.AccG); err != nil {
		return GlobalPublicKey{}, err
	}
	if k.AccKey.GHat, err = unpackG2(w.AccGHat); err != nil {
		return GlobalPublicKey{}, err
	}
	if k.AccKey.GHatS, err = unpackG2(w.AccGHatS); err != nil {
		return GlobalPublicKey{}, err
	}
	if k.AccValue, err = unpackG1(w.AccValue); err != nil {
		return GlobalPublicKey{}, err
	}
	return k, nil
}

// MarshalGlobalKey encodes a global public key.
func MarshalGlobalKey(k GlobalPublicKey) ([]byte, error) {
	w, err := packGlobalKey(k)
	if err != nil {
		return nil, err
	}
	return wireEncMode.Marshal(w)
}

// UnmarshalGlobalKey decodes a global public key.
func UnmarshalGlobalKey(bts []byte) (GlobalPublicKey, error) {
	var w wireGlobalKey
	if err := wireDecMode.Unmarshal(bts, &w); err != nil {
		return GlobalPublicKey{}, err
	}
	return unpackGlobalKey(w)
}

type wireCRS struct {
	G1 []wirePoint
	G2 []wirePoint
}

// MarshalCRS encodes a reference string.
func MarshalCRS(crs *vc.CRS) ([]byte, error) {
	w := wireCRS{
		G1: make([]wirePoint, len(crs.G1Powers)),
		G2: make([]wirePoint, len(crs.G2Powers)),
	}
	for i := range crs.G1Powers {
		w.G1[i] = packG1(crs.G1Powers[i])
	}
	for i := range crs.G2Powers {
		w.G2[i] = packG2(crs.G2Powers[i])
	}
	return wireEncMode.Marshal(w)
}

// UnmarshalCRS decodes and validates a reference string.
func UnmarshalCRS(bts []byte) (*vc.CRS, error) {
	var w wireCRS
	if err := wireDecMode.Unmarshal(bts, &w); err != nil {
		return nil, err
	}

	g1Powers := make([]bls12381.G1Affine, len(w.G1))
	g2Powers := make([]bls12381.G2Affine, len(w.G2))
	var err error
	for i := range w.G1 {
		if g1Powers[i], err = unpackG1(w.G1[i]); err != nil {
			return nil, err
		}
	}
	for i := range w.G2 {
		if g2Powers[i], err = unpackG2(w.G2[i]); err != nil {
			return nil, err
		}
	}
	return vc.NewCRSFromPowers(g1Powers, g2Powers)
}

type wireWitness struct {
	W wirePoint
	U []byte
}

func packWitness(wit accum.Witness) wireWitness {
	return wireWitness{W: packG1(wit.W), U: packFr(wit.U)}
}

func unpackWitness(w wireWitness) (accum.Witness, error) {
	var wit accum.Witness
	var err error
	if wit.W, err = unpackG1(w.W); err != nil {
		return accum.Witness{}, err
	}
	if wit.U, err = unpackFr(w.U); err != nil {
		return accum.Witness{}, err
	}
	return wit, nil
}

type wireQueryProof struct {
	Result  []byte
	Opening wirePoint
	Witness wireWitness
}

// MarshalQueryProof encodes a query response.
func MarshalQueryProof(p QueryProof) ([]byte, error) {
	return wireEncMode.Marshal(wireQueryProof{
		Result:  packFr(p.Result),
		Opening: packG1(p.Opening),
		Witness: packWitness(p.Witness),
	})
}

// UnmarshalQueryProof decodes a query response.
func UnmarshalQueryProof(bts []byte) (QueryProof, error) {
	var w wireQueryProof
	if err := wireDecMode.Unmarshal(bts, &w); err != nil {
		return QueryProof{}, err
	}

	var p QueryProof
	var err error
	if p.Result, err = unpackFr(w.Result); err != nil {
		return QueryProof{}, err
	}
	if p.Opening, err = unpackG1(w.Opening); err != nil {
		return QueryProof{}, err
	}
	if p.Witness, err = unpackWitness(w.Witness); err != nil {
		return QueryProof{}, err
	}
	return p, nil
}

type wireAuditProof struct {
	Result    []byte
	Opening   wirePoint
	Challenge [][]byte
	Witness   wireWitness
}

// MarshalAuditProof encodes an audit response.
func MarshalAuditProof(p AuditProof) ([]byte, error) {
	w := wireAuditProof{
		Result:    packFr(p.Result),
		Opening:   packG1(p.Opening),
		Challenge: make([][]byte, len(p.Challenge)),
		Witness:   packWitness(p.Witness),
	}
	for i := range p.Challenge {
		w.Challenge[i] = packFr(p.Challenge[i])
	}
	return wireEncMode.Marshal(w)
}

// UnmarshalAuditProof decodes an audit response.
func UnmarshalAuditProof(bts []byte) (AuditProof, error) {
	var w wireAuditProof
	if err := wireDecMode.Unmarshal(bts, &w); err != nil {
		return AuditProof{}, err
	}

	p := AuditProof{Challenge: make([]fr.Element, len(w.Challenge))}
	var err error
	if p.Result, err = unpackFr(w.Result); err != nil {
		return AuditProof{}, err
	}
	if p.Opening, err = unpackG1(w.Opening); err != nil {
		return AuditProof{}, err
	}
	for i := range w.Challenge {
		if p.Challenge[i], err = unpackFr(w.Challenge[i]); err != nil {
			return AuditProof{}, err
		}
	}
	if p.Witness, err = unpackWitness(w.Witness); err != nil {
		return AuditProof{}, err
	}
	return p, nil
}

type wireRangeProof struct {
	BitCommitment      wirePoint
	ValueCommitment    wirePoint
	HadamardCommitment wirePoint
	AggregatedProof    wirePoint
	Bits               int
}

type wireTimeProof struct {
	Proofs  []wireRangeProof
	Witness wireWitness
}

// MarshalTimeProof encodes a timestamp range proof bundle.
func MarshalTimeProof(p TimeProof) ([]byte, error) {
	w := wireTimeProof{
		Proofs:  make([]wireRangeProof, len(p.Proofs)),
		Witness: packWitness(p.Witness),
	}
	for i := range p.Proofs {
		w.Proofs[i] = wireRangeProof{
			BitCommitment:      packG2(p.Proofs[i].BitCommitment),
			ValueCommitment:    packG2(p.Proofs[i].ValueCommitment),
			HadamardCommitment: packG1(p.Proofs[i].HadamardCommitment),
			AggregatedProof:    packG1(p.Proofs[i].AggregatedProof),
			Bits:               p.Proofs[i].Bits,
		}
	}
	return wireEncMode.Marshal(w)
}

// UnmarshalTimeProof decodes a timestamp range proof bundle.
func UnmarshalTimeProof(bts []byte) (TimeProof, error) {
	var w wireTimeProof
	if err := wireDecMode.Unmarshal(bts, &w); err != nil {
		return TimeProof{}, err
	}

	p := TimeProof{Proofs: make([]vc.RangeProof, len(w.Proofs))}
	var err error
	for i := range w.Proofs {
		if p.Proofs[i].BitCommitment, err = unpackG2(w.Proofs[i].BitCommitment); err != nil {
			return TimeProof{}, err
		}
		if p.Proofs[i].ValueCommitment, err = unpackG2(w.Proofs[i].ValueCommitment); err != nil {
			return TimeProof{}, err
		}
		if p.Proofs[i].HadamardCommitment, err = unpackG1(w.Proofs[i].HadamardCommitment); err != nil {
			return TimeProof{}, err
		}
		if p.Proofs[i].AggregatedProof, err = unpackG1(w.Proofs[i].AggregatedProof); err != nil {
			return TimeProof{}, err
		}
		p.Proofs[i].Bits = w.Proofs[i].Bits
	}
	if p.Witness, err = unpackWitness(w.Witness); err != nil {
		return TimeProof{}, err
	}
	return p, nil
}

type wireAccumState struct {
	Value      wirePoint
	ServerKeys []wirePoint
	Blacklist  [][]byte
	Version    uint64
}

func packAccumState(st accum.State) wireAccumState {
	w := wireAccumState{
		Value:      packG1(st.Value),
		ServerKeys: make([]wirePoint, len(st.ServerKeys)),
		Blacklist:  make([][]byte, len(st.Blacklist)),
		Version:    st.Version,
	}
	for i := range st.ServerKeys {
		w.ServerKeys[i] = packG1(st.ServerKeys[i])
	}
	for i := range st.Blacklist {
		w.Blacklist[i] = packFr(st.Blacklist[i])
	}
	return w
}

func unpackAccumState(w wireAccumState) (accum.State, error) {
	st := accum.State{
		ServerKeys: make([]bls12381.G1Affine, len(w.ServerKeys)),
		Blacklist:  make([]fr.Element, len(w.Blacklist)),
		Version:    w.Version,
	}
	var err error
	if st.Value, err = unpackG1(w.Value); err != nil {
		return accum.State{}, err
	}
	for i := range w.ServerKeys {
		if st.ServerKeys[i], err = unpackG1(w.ServerKeys[i]); err != nil {
			return accum.State{}, err
		}
	}
	for i := range w.Blacklist {
		if st.Blacklist[i], err = unpackFr(w.Blacklist[i]); err != nil {
			return accum.State{}, err
		}
	}
	return st, nil
}

type wireNotice struct {
	Signature []byte
	State     wireAccumState
	GlobalKey wireGlobalKey
}

// MarshalRevocationNotice encodes a revocation notice.
func MarshalRevocationNotice(n RevocationNotice) ([]byte, error) {
	globalKey, err := packGlobalKey(n.GlobalKey)
	if err != nil {
		return nil, err
	}
	return wireEncMode.Marshal(wireNotice{
		Signature: n.Signature,
		State:     packAccumState(n.State),
		GlobalKey: globalKey,
	})
}

// UnmarshalRevocationNotice decodes a revocation notice.
func UnmarshalRevocationNotice(bts []byte) (RevocationNotice, error) {
	var w wireNotice
	if err := wireDecMode.Unmarshal(bts, &w); err != nil {
		return RevocationNotice{}, err
	}

	n := RevocationNotice{Signature: w.Signature}
	var err error
	if n.State, err = unpackAccumState(w.State); err != nil {
		return RevocationNotice{}, err
	}
	if n.GlobalKey, err = unpackGlobalKey(w.GlobalKey); err != nil {
		return RevocationNotice{}, err
	}
	return n, nil
}
