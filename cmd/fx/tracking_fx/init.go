package tracking_fx

import (
	"go.uber.org/fx"
	"regpay/internal/api/controllers"
	"regpay/internal/repositories"
	"regpay/internal/services"
)

var Module = fx.Provide(
	provideTrackingService,
	provideTrackingController,
)

func provideTrackingService(requests repositories.RequestRepositoryInterface) services.TrackingServiceInterface {
	return services.NewTrackingService(requests)
}

func provideTrackingController(tracking services.TrackingServiceInterface) *controllers.TrackingController {
	return controllers.NewTrackingController(tracking)
}
