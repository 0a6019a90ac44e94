package repositories

import (
	"context"

	"github.com/medscribe/clinic-backend/internal/domain/entities"
)

// DoctorOverrideRepository defines the interface for per-doctor
// personalized dosing defaults
type DoctorOverrideRepository interface {
	// Get returns the doctor's override for a term name, or nil when
	// none exists. Unknown doctors are not an error.
	Get(ctx context.Context, doctorID, termName string) (*entities.DoctorDoseOverride, error)

	// Upsert creates or partially updates the override for
	// (doctorID, termName). Empty fields keep the stored value; the
	// usage counter is bumped on every save.
	Upsert(ctx context.Context, override *entities.DoctorDoseOverride) error
}
