package payments_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"regpay/internal/api/controllers"
	"regpay/internal/providers"
	"regpay/internal/repositories"
	"regpay/internal/services"
)

var Module = fx.Provide(
	providePaymentRepository,
	provideRequestRepository,
	provideLedgerRepository,
	provideNotifier,
	provideReconciliationService,
	providePaymentController,
)

func providePaymentRepository(db *gorm.DB) repositories.PaymentRepositoryInterface {
	return repositories.NewPaymentRepository(db)
}

func provideRequestRepository(db *gorm.DB) repositories.RequestRepositoryInterface {
	return repositories.NewRequestRepository(db)
}

func provideLedgerRepository(db *gorm.DB) repositories.LedgerRepositoryInterface {
	return repositories.NewLedgerRepository(db)
}

func provideNotifier(mail services.IMailService) services.NotifierInterface {
	return services.NewMailNotifier(mail)
}

func provideReconciliationService(
	payments repositories.PaymentRepositoryInterface,
	requests repositories.RequestRepositoryInterface,
	ledger repositories.LedgerRepositoryInterface,
	notifier services.NotifierInterface,
	registry *providers.Registry,
	verifiers map[string]providers.Verifier,
) services.ReconciliationServiceInterface {
	return services.NewReconciliationService(payments, requests, ledger, notifier, registry, verifiers)
}

func providePaymentController(
	reconciliation services.ReconciliationServiceInterface,
	registry *providers.Registry,
	signatureVerifiers map[string]providers.SignatureVerifier,
) *controllers.PaymentController {
	return controllers.NewPaymentController(reconciliation, registry, signatureVerifiers)
}
