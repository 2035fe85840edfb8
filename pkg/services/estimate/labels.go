package estimate

import (
	"errors"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
	"github.com/smustafa75/aws-calc/pkg/services/pricing"
)

// FailureLabel is the short text shown in place of prices for a failed row.
func FailureLabel(rowErr *domain.RowError) string {
	switch {
	case errors.Is(rowErr, domain.ErrMissingInstanceType):
		return "Invalid instance type"
	case errors.Is(rowErr, domain.ErrInvalidCount), errors.Is(rowErr, domain.ErrNonPositiveCount):
		return "Invalid count"
	case errors.Is(rowErr, pricing.ErrAmbiguous):
		return "Ambiguous price"
	case errors.Is(rowErr, pricing.ErrNotFound):
		return "Not found"
	}
	return "Error"
}
