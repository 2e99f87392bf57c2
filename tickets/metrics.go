package tickets

import "github.com/ethereum/go-ethereum/metrics"

var (
	codesAddedMeter     = metrics.NewRegisteredMeter("tickets/codes/added", nil)
	codesRejectedMeter  = metrics.NewRegisteredMeter("tickets/codes/rejected", nil)
	registrationsMeter  = metrics.NewRegisteredMeter("tickets/registrations/accepted", nil)
	tierFullMeter       = metrics.NewRegisteredMeter("tickets/registrations/full", nil)
	claimsMintedMeter   = metrics.NewRegisteredMeter("tickets/claims/minted", nil)
	operatorDeniedMeter = metrics.NewRegisteredMeter("tickets/operator/denied", nil)
)
