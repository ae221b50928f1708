// Package seats computes open seats for a class section.
package seats

import (
	"fmt"

	"github.com/endeavored/seatwatch/internal/pkg/models"
)

// ComputeOpenSeats returns how many more students can enroll in the section.
//
// It is not simply maxEnroll - enrolledCount: a combined (cross-listed) section
// is limited by whichever of its own cap and the shared pool is tighter, the same
// rule the class schedule site applies in its own scripts. The result is never
// negative.
func ComputeOpenSeats(record models.AvailabilityRecord) (int, error) {
	status := record.EnrollmentStatus
	if status == nil {
		return 0, fmt.Errorf("%w: enrollmentStatus missing", ErrMalformedRecord)
	}
	sectionOpen, err := openSeats("enrollmentStatus", status.MaxEnroll, status.EnrolledCount)
	if err != nil {
		return 0, err
	}
	if !record.IsCombined() {
		return max(0, sectionOpen), nil
	}

	comb := record.Combination
	combinedOpen, err := openSeats("combination", comb.MaxEnrollCombinedSections, comb.EnrolledCountCombinedSections)
	if err != nil {
		return 0, err
	}
	return max(0, min(combinedOpen, sectionOpen)), nil
}

func openSeats(field string, maxEnroll *int, enrolled *int) (int, error) {
	if maxEnroll == nil || enrolled == nil {
		return 0, fmt.Errorf("%w: %s is missing a count", ErrMalformedRecord, field)
	}
	if *maxEnroll < 0 || *enrolled < 0 {
		return 0, fmt.Errorf("%w: %s has a negative count", ErrMalformedRecord, field)
	}
	return *maxEnroll - *enrolled, nil
}
