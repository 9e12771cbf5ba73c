package integrations

import (
	"go.uber.org/zap"

	untappdweb "serveza.dev/Serveza/pkg/integrations/untappd-web"
	"serveza.dev/Serveza/pkg/model"
)

type Integration interface {
	FindBeer(name string) ([]model.Beer, error)
}

func GetIntegration(name string, logger *zap.Logger) Integration {
	if name == untappdweb.IntegrationName {
		return untappdweb.NewUntappedWebIntegration(logger)
	}

	return nil
}
