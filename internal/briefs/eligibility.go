// Package briefs holds the rules for applying to a brief that do not depend on
// HTTP: eligibility, wizard navigation, submission, the dashboard and
// clarification questions.
package briefs

import (
	"context"
	"fmt"

	"brief_responses/internal/models/brief"
	"brief_responses/internal/storage/dataapi"
)

const publishedService = "published"

type ServiceFinder interface {
	FindServices(ctx context.Context, filter dataapi.ServiceFilter) ([]brief.Service, error)
}

const (
	ReasonNotOnFramework = "supplier-not-on-framework"
	ReasonNotOnLot       = "supplier-not-on-lot"
	ReasonNotOnRole      = "supplier-not-on-role"
)

// Ineligibility explains why a supplier cannot apply to a brief.
type Ineligibility struct {
	Reason         string
	DataReasonSlug string
}

// IneligibilityReason works out which of framework, lot or role the supplier
// is missing. The lot is only checked when the supplier is on the framework.
func IneligibilityReason(ctx context.Context, services ServiceFinder, supplierID int, b brief.Brief) (Ineligibility, error) {
	const op = "briefs.IneligibilityReason"

	filter := dataapi.ServiceFilter{
		SupplierID: supplierID,
		Framework:  b.FrameworkSlug,
		Status:     publishedService,
	}
	onFramework, err := services.FindServices(ctx, filter)
	if err != nil {
		return Ineligibility{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(onFramework) == 0 {
		return Ineligibility{
			Reason:         ReasonNotOnFramework,
			DataReasonSlug: "supplier-not-on-" + b.FrameworkSlug,
		}, nil
	}

	filter.Lot = b.LotSlug
	onLot, err := services.FindServices(ctx, filter)
	if err != nil {
		return Ineligibility{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(onLot) == 0 {
		return Ineligibility{Reason: ReasonNotOnLot, DataReasonSlug: ReasonNotOnLot}, nil
	}

	return Ineligibility{Reason: ReasonNotOnRole, DataReasonSlug: ReasonNotOnRole}, nil
}

// MaxDayRate is the supplier's own maximum price for the brief's specialist
// role, taken from their first published service on the brief's lot. It is
// nil for briefs without a role or when no such service exists.
func MaxDayRate(ctx context.Context, services ServiceFinder, supplierID int, b brief.Brief) (any, error) {
	const op = "briefs.MaxDayRate"

	if b.SpecialistRole == "" {
		return nil, nil
	}

	found, err := services.FindServices(ctx, dataapi.ServiceFilter{
		SupplierID: supplierID,
		Framework:  b.FrameworkSlug,
		Lot:        b.LotSlug,
		Status:     publishedService,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(found) == 0 {
		return nil, nil
	}

	return found[0].MaxDayRate(b.SpecialistRole), nil
}
