// Package businessflow contains the core business logic and use cases for radio plan workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Catalog errors
	ErrGroupNotFound         = errors.New("group not found")
	ErrGroupNameRequired     = errors.New("group name is required")
	ErrGroupAlreadyExists    = errors.New("group already exists")
	ErrStationNotFound       = errors.New("station not found")
	ErrStationNameRequired   = errors.New("station name is required")
	ErrStationAlreadyExists  = errors.New("station already exists")
	ErrInvalidTimeSlot       = errors.New("invalid time slot")
	ErrInvalidZone           = errors.New("invalid zone")
	ErrInvalidDuration       = errors.New("invalid duration")
	ErrInvalidPrice          = errors.New("price must not be negative")
	ErrInvalidRating         = errors.New("rating values must not be negative")
	ErrInvalidMonth          = errors.New("month must be between 1 and 12")
	ErrInvalidIndexValue     = errors.New("index value must be positive")
	ErrSeasonalIndexNotFound = errors.New("seasonal index not found")

	// Plan errors
	ErrPlanNotFound             = errors.New("plan not found")
	ErrPlanNameRequired         = errors.New("plan name is required")
	ErrPlanStationsRequired     = errors.New("at least one station is required")
	ErrPlanDatesRequired        = errors.New("start and end dates are required")
	ErrStartDateAfterEndDate    = errors.New("start date cannot be after end date")
	ErrDiscountOutOfRange       = errors.New("discount must be between 0 and 100")
	ErrPlanUpdateRequired       = errors.New("at least one field must be provided for update")
	ErrCapturedDataNotFound     = errors.New("captured station data not found")
	ErrStationNotInPlan         = errors.New("station does not belong to the plan")
	ErrSpotNotFound             = errors.New("spot not found")
	ErrSpotDateOutOfRange       = errors.New("spot date is outside the plan period")
	ErrSpotCountNegative        = errors.New("spot count must not be negative")

	// External service errors
	ErrCampaignServiceFailed = errors.New("campaign service request failed")
	ErrCampaignNotFound      = errors.New("campaign not found")
	ErrSeasonalFetchFailed   = errors.New("seasonal adjustment fetch failed")

	// Import/export errors
	ErrImportFileInvalid = errors.New("import file is invalid")
	ErrExportFailed      = errors.New("export failed")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsGroupNotFound(err error) bool {
	return errors.Is(err, ErrGroupNotFound)
}

func IsStationNotFound(err error) bool {
	return errors.Is(err, ErrStationNotFound)
}

func IsPlanNotFound(err error) bool {
	return errors.Is(err, ErrPlanNotFound)
}

func IsSpotNotFound(err error) bool {
	return errors.Is(err, ErrSpotNotFound)
}

func IsCapturedDataNotFound(err error) bool {
	return errors.Is(err, ErrCapturedDataNotFound)
}

func IsStationNotInPlan(err error) bool {
	return errors.Is(err, ErrStationNotInPlan)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsCampaignServiceFailed(err error) bool {
	return errors.Is(err, ErrCampaignServiceFailed)
}

func IsSeasonalIndexNotFound(err error) bool {
	return errors.Is(err, ErrSeasonalIndexNotFound)
}

func IsDiscountOutOfRange(err error) bool {
	return errors.Is(err, ErrDiscountOutOfRange)
}

func IsImportFileInvalid(err error) bool {
	return errors.Is(err, ErrImportFileInvalid)
}
