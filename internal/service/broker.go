package service

import (
	"context"
	"log"

	"license-gateway/internal/config"
	"license-gateway/internal/database"
	"license-gateway/internal/keyauth"
	"license-gateway/internal/model"
)

// Verifier is the slice of the KeyAuth client the broker needs; tests
// substitute a mock.
type Verifier interface {
	Verify(ctx context.Context, sellerKey, licenseKey string) (*keyauth.Response, error)
	Info(ctx context.Context, sellerKey, licenseKey string) (*keyauth.Response, error)
	ResetUser(ctx context.Context, sellerKey, user string) (*keyauth.Response, error)
}

// Broker resolves a bare license key to its product by probing the
// verification service once per registered product, in registration order,
// stopping at the first success. A failed probe only rules out that
// product; it never aborts the remaining ones.
type Broker struct {
	verifier  Verifier
	activity  *ActivityLogger
	logPolicy string // config.LogOnSuccess or config.LogAlways
}

func NewBroker(verifier Verifier, activity *ActivityLogger, logPolicy string) *Broker {
	return &Broker{
		verifier:  verifier,
		activity:  activity,
		logPolicy: logPolicy,
	}
}

// Match is a successful validation: the product whose seller key accepted
// the license key.
type Match struct {
	Product model.Product
	Message string
}

// ResetResult is a successful hardware-binding reset.
type ResetResult struct {
	Product model.Product
	UsedBy  string
	Message string
}

// Validate probes every registered product until one accepts licenseKey.
// A non-empty sellerKeyHint moves the hinted product to the front of the
// probe order but never shrinks it. Returns ErrTenantRegistryEmpty,
// ErrNoMatch, or ErrUpstreamUnavailable when every single probe failed at
// the transport level.
func (b *Broker) Validate(ctx context.Context, licenseKey, sellerKeyHint, ip string) (*Match, error) {
	products, err := listProducts()
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrTenantRegistryEmpty
	}
	if sellerKeyHint != "" {
		for i, product := range products {
			if product.SellerKey == sellerKeyHint && i > 0 {
				products = append([]model.Product{product}, append(products[:i], products[i+1:]...)...)
				break
			}
		}
	}

	transportFailures := 0
	for _, product := range products {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := b.verifier.Verify(ctx, product.SellerKey, licenseKey)
		if err != nil {
			// This product is not a match; the next one still gets its turn.
			log.Printf("verify probe failed for product %q: %v", product.Name, err)
			transportFailures++
			b.logProbe(model.EventDownload, licenseKey, product.Name, ip, "transport error")
			continue
		}
		if !resp.Success {
			b.logProbe(model.EventDownload, licenseKey, product.Name, ip, resp.Message)
			continue
		}

		if err := b.activity.Record(model.EventDownload, licenseKey, product.Name, ip, map[string]interface{}{
			"outcome": "success",
			"message": resp.Message,
		}); err != nil {
			log.Printf("failed to record download activity: %v", err)
		}
		return &Match{Product: product, Message: resp.Message}, nil
	}

	if transportFailures == len(products) {
		return nil, ErrUpstreamUnavailable
	}
	return nil, ErrNoMatch
}

// ResetBinding resolves licenseKey to its bound identity per product, then
// clears the binding. Same first-success-wins and failure-isolation policy
// as Validate; each product takes two verifier calls.
func (b *Broker) ResetBinding(ctx context.Context, licenseKey, ip string) (*ResetResult, error) {
	products, err := listProducts()
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrTenantRegistryEmpty
	}

	transportFailures := 0
	for _, product := range products {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := b.verifier.Info(ctx, product.SellerKey, licenseKey)
		if err != nil {
			log.Printf("info probe failed for product %q: %v", product.Name, err)
			transportFailures++
			b.logProbe(model.EventHwidReset, licenseKey, product.Name, ip, "transport error")
			continue
		}
		if !info.Success || info.UsedBy == "" {
			// Key unknown to this seller, or never claimed by a user.
			b.logProbe(model.EventHwidReset, licenseKey, product.Name, ip, info.Message)
			continue
		}

		reset, err := b.verifier.ResetUser(ctx, product.SellerKey, info.UsedBy)
		if err != nil {
			log.Printf("reset call failed for product %q: %v", product.Name, err)
			transportFailures++
			b.logProbe(model.EventHwidReset, licenseKey, product.Name, ip, "transport error")
			continue
		}
		if !reset.Success {
			b.logProbe(model.EventHwidReset, licenseKey, product.Name, ip, reset.Message)
			continue
		}

		if err := b.activity.Record(model.EventHwidReset, licenseKey, product.Name, ip, map[string]interface{}{
			"outcome": "success",
			"used_by": info.UsedBy,
			"message": reset.Message,
		}); err != nil {
			log.Printf("failed to record hwid reset activity: %v", err)
		}
		return &ResetResult{Product: product, UsedBy: info.UsedBy, Message: reset.Message}, nil
	}

	if transportFailures == len(products) {
		return nil, ErrUpstreamUnavailable
	}
	return nil, ErrNoMatch
}

// logProbe records a non-matching probe, only under the "always" policy.
func (b *Broker) logProbe(eventKind, licenseKey, productName, ip, message string) {
	if b.logPolicy != config.LogAlways {
		return
	}
	err := b.activity.Record(eventKind, licenseKey, productName, ip, map[string]interface{}{
		"outcome": "no_match",
		"message": message,
	})
	if err != nil {
		log.Printf("failed to record probe activity: %v", err)
	}
}

// listProducts returns the registry in registration order, which fixes the
// probe order across requests.
func listProducts() ([]model.Product, error) {
	var products []model.Product
	if err := database.DB.Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
