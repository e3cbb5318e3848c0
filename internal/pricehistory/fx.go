package pricehistory

import (
	"github.com/smallbiznis/pricebook/internal/pricehistory/recorder"
	"github.com/smallbiznis/pricebook/internal/pricehistory/repository"
	"github.com/smallbiznis/pricebook/internal/pricehistory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricehistory.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Invoke(recorder.Register),
)
