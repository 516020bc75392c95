package crypto

import (
	"strings"
	"testing"
)

// Well-known test vector: the private key 0x...01 maps to this address.
const (
	signerTestKey  = "0000000000000000000000000000000000000000000000000000000000000001"
	signerTestAddr = "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"
)

func TestNewSigner_Address(t *testing.T) {
	s, err := NewSigner(signerTestKey, 137)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	if got := s.Address().Hex(); got != signerTestAddr {
		t.Errorf("Address = %s, want %s", got, signerTestAddr)
	}
}

func TestNewSigner_AcceptsPrefixedKey(t *testing.T) {
	plain, err := NewSigner(signerTestKey, 137)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	prefixed, err := NewSigner("0x"+signerTestKey, 137)
	if err != nil {
		t.Fatalf("NewSigner with 0x prefix: %v", err)
	}
	if plain.Address() != prefixed.Address() {
		t.Error("prefixed and unprefixed keys yielded different addresses")
	}
}

func TestNewSigner_RejectsBadKey(t *testing.T) {
	if _, err := NewSigner("not-a-key", 137); err == nil {
		t.Fatal("expected error for invalid private key")
	}
}

func TestSignAuthMessage(t *testing.T) {
	s, err := NewSigner(signerTestKey, 137)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}

	sig, err := s.SignAuthMessage(1700000000, 0)
	if err != nil {
		t.Fatalf("SignAuthMessage: %v", err)
	}
	checkSignature(t, sig)

	// Same message, same signature: the scheme is deterministic (RFC 6979).
	again, err := s.SignAuthMessage(1700000000, 0)
	if err != nil {
		t.Fatalf("SignAuthMessage: %v", err)
	}
	if sig != again {
		t.Error("signing the same auth message twice gave different signatures")
	}

	// A different timestamp must change the signature.
	other, err := s.SignAuthMessage(1700000001, 0)
	if err != nil {
		t.Fatalf("SignAuthMessage: %v", err)
	}
	if sig == other {
		t.Error("different timestamps produced the same signature")
	}
}

func TestSignAuthMessage_ChainIDChangesDomain(t *testing.T) {
	mainnet, err := NewSigner(signerTestKey, 137)
	if err != nil {
		t.Fatal(err)
	}
	amoy, err := NewSigner(signerTestKey, 80002)
	if err != nil {
		t.Fatal(err)
	}

	a, err := mainnet.SignAuthMessage(1700000000, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := amoy.SignAuthMessage(1700000000, 0)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("signatures for different chain IDs are identical")
	}
}

func TestSignOrder(t *testing.T) {
	s, err := NewSigner(signerTestKey, 137)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}

	order := OrderPayload{
		Salt:        "123456789",
		Maker:       signerTestAddr,
		Signer:      signerTestAddr,
		Taker:       "0x0000000000000000000000000000000000000000",
		TokenID:     "71321045679252212594626385532706912750332728571942532289631379312455583992563",
		MakerAmount: "10000000",
		TakerAmount: "10526315",
		Expiration:  "0",
		Nonce:       "0",
		FeeRateBps:  "0",
	}

	sig, err := s.SignOrder(order)
	if err != nil {
		t.Fatalf("SignOrder: %v", err)
	}
	checkSignature(t, sig)

	// Flipping the side must change the signature.
	order.Side = 1
	sellSig, err := s.SignOrder(order)
	if err != nil {
		t.Fatalf("SignOrder (sell): %v", err)
	}
	if sig == sellSig {
		t.Error("buy and sell orders produced the same signature")
	}
}

func TestSignOrder_RejectsNonNumericFields(t *testing.T) {
	s, err := NewSigner(signerTestKey, 137)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}

	order := OrderPayload{
		Salt:        "abc", // not a decimal integer
		Maker:       signerTestAddr,
		Signer:      signerTestAddr,
		Taker:       "0x0000000000000000000000000000000000000000",
		TokenID:     "1",
		MakerAmount: "1",
		TakerAmount: "1",
		Expiration:  "0",
		Nonce:       "0",
		FeeRateBps:  "0",
	}
	if _, err := s.SignOrder(order); err == nil {
		t.Fatal("expected error for non-numeric salt")
	}
}

// checkSignature asserts the 65-byte hex shape with an EIP-712 recovery byte.
func checkSignature(t *testing.T, sig string) {
	t.Helper()
	if !strings.HasPrefix(sig, "0x") {
		t.Fatalf("signature %q lacks 0x prefix", sig)
	}
	if len(sig) != 2+130 {
		t.Fatalf("signature length = %d hex chars, want 130", len(sig)-2)
	}
	v := sig[len(sig)-2:]
	if v != "1b" && v != "1c" {
		t.Errorf("recovery byte = %s, want 1b or 1c", v)
	}
}
