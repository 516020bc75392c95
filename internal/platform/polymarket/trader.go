package polymarket

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/polymkt/bondbot/internal/crypto"
	"github.com/polymkt/bondbot/internal/domain"
)

// amountScale is the CLOB's fixed-point scale: both USDC notionals and
// share quantities are expressed as integers of 1e-6 units.
const amountScale = 1e6

// Trader turns (token, price, size) trade intents into signed CLOB orders.
// It owns the lazy API-key derivation so a credential failure surfaces as a
// per-cycle error rather than a startup crash.
type Trader struct {
	clob   *ClobClient
	signer *crypto.Signer
}

// NewTrader creates a Trader around an existing CLOB client and signer.
func NewTrader(clob *ClobClient, signer *crypto.Signer) *Trader {
	return &Trader{clob: clob, signer: signer}
}

// EnsureAuth derives CLOB API credentials if the client does not hold any
// yet. It is called at the start of every trading cycle; once derived, the
// credentials are reused.
func (t *Trader) EnsureAuth(ctx context.Context) error {
	if t.clob.Authenticated() {
		return nil
	}
	return t.clob.DeriveAPIKey(ctx)
}

// SubmitOrder signs and posts a limit order for size shares of tokenID at
// the given price. It returns the exchange-assigned order ID on success.
func (t *Trader) SubmitOrder(ctx context.Context, tokenID string, price, size float64, side domain.OrderSide, orderType domain.OrderType) (string, error) {
	if price <= 0 || price >= 1 || size <= 0 {
		return "", fmt.Errorf("polymarket/trader: %w: price=%g size=%g", domain.ErrInvalidOrder, price, size)
	}

	wallet := t.signer.Address().Hex()

	// For a BUY the maker amount is the USDC spent and the taker amount the
	// shares received; a SELL is the mirror image.
	shares := int64(math.Round(size * amountScale))
	notional := int64(math.Round(price * size * amountScale))

	makerAmount, takerAmount := notional, shares
	sideInt := 0
	if side == domain.OrderSideSell {
		makerAmount, takerAmount = shares, notional
		sideInt = 1
	}

	payload := crypto.OrderPayload{
		Salt:          fmt.Sprintf("%d", time.Now().UnixNano()),
		Maker:         wallet,
		Signer:        wallet,
		Taker:         "0x0000000000000000000000000000000000000000",
		TokenID:       tokenID,
		MakerAmount:   fmt.Sprintf("%d", makerAmount),
		TakerAmount:   fmt.Sprintf("%d", takerAmount),
		Expiration:    "0",
		Nonce:         "0",
		FeeRateBps:    "0",
		Side:          sideInt,
		SignatureType: 0,
	}

	signature, err := t.signer.SignOrder(payload)
	if err != nil {
		return "", fmt.Errorf("polymarket/trader: %w: %v", domain.ErrSigningFailed, err)
	}

	result, err := t.clob.PostOrder(ctx, payload, signature, orderType)
	if err != nil {
		return "", err
	}

	return result.OrderID, nil
}
