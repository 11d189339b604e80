package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix allows
// a future change of algorithm.
const (
	DomainCalculation = "graphcalc/calculation/v1"
	DomainExpression  = "graphcalc/expression/v1"
	DomainTrace       = "graphcalc/trace/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data). The separator
// prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CalculationID computes the ID of one calculation in a session. The same
// input at the same position of the same session always has the same ID,
// which makes writes idempotent across replays.
func CalculationID(session, input string, seq int64) (string, error) {
	obj := IRObject{
		"session": IRString(session),
		"input":   IRString(input),
		"seq":     IRInt(seq),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("CalculationID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCalculation, canonical), nil
}

// ExpressionHash hashes an exported expression tree. Structurally equal
// trees have equal hashes.
func ExpressionHash(tree IRObject) (string, error) {
	canonical, err := MarshalCanonical(tree)
	if err != nil {
		return "", fmt.Errorf("ExpressionHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainExpression, canonical), nil
}

// TraceHash hashes a reduction trace. Two runs are deterministic replays of
// each other exactly when their trace hashes match.
func TraceHash(steps IRArray) (string, error) {
	canonical, err := MarshalCanonical(steps)
	if err != nil {
		return "", fmt.Errorf("TraceHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTrace, canonical), nil
}

// MustCalculationID is like CalculationID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustCalculationID(session, input string, seq int64) string {
	id, err := CalculationID(session, input, seq)
	if err != nil {
		panic(err)
	}
	return id
}
