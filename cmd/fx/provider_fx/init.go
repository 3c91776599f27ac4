package provider_fx

import (
	"os"

	"go.uber.org/fx"
	"regpay/internal/providers"
)

var Module = fx.Provide(
	provideRegistry,
	provideSyncVerifiers,
	provideSignatureVerifiers,
)

func kkiapayConfig() providers.KkiapayConfig {
	return providers.KkiapayConfig{
		PrivateKey:    os.Getenv("KKIAPAY_PRIVATE_KEY"),
		WebhookSecret: os.Getenv("KKIAPAY_WEBHOOK_SECRET"),
		BaseURL:       os.Getenv("KKIAPAY_BASE_URL"),
	}
}

func cinetpayConfig() providers.CinetpayConfig {
	return providers.CinetpayConfig{
		SiteID:        os.Getenv("CINETPAY_SITE_ID"),
		WebhookSecret: os.Getenv("CINETPAY_WEBHOOK_SECRET"),
	}
}

func provideRegistry() *providers.Registry {
	return providers.NewRegistry(
		providers.NewKkiapayAdapter(kkiapayConfig()),
		providers.NewCinetpayAdapter(cinetpayConfig()),
	)
}

// Only kkiapay exposes a usable synchronous status API in this
// integration; cinetpay verify calls fall back to assume-success.
func provideSyncVerifiers() map[string]providers.Verifier {
	return map[string]providers.Verifier{
		"kkiapay": providers.NewKkiapayVerifier(kkiapayConfig()),
	}
}

func provideSignatureVerifiers() map[string]providers.SignatureVerifier {
	return map[string]providers.SignatureVerifier{
		"kkiapay":  providers.VerifierFor("kkiapay", kkiapayConfig().WebhookSecret),
		"cinetpay": providers.VerifierFor("cinetpay", cinetpayConfig().WebhookSecret),
	}
}
