package models

type EnrollmentStatus struct {
	MaxEnroll     *int `json:"maxEnroll"`
	EnrolledCount *int `json:"enrolledCount"`
}

type Combination struct {
	MaxEnrollCombinedSections     *int `json:"maxEnrollCombinedSections"`
	EnrolledCountCombinedSections *int `json:"enrolledCountCombinedSections"`
}

// AvailabilityRecord mirrors the "available" object the class page embeds under
// ucb.enrollment. Fields are pointers so a missing key is distinguishable from zero.
type AvailabilityRecord struct {
	EnrollmentStatus *EnrollmentStatus `json:"enrollmentStatus"`
	Combination      *Combination      `json:"combination,omitempty"`
}

func NewAvailabilityRecord(maxEnroll int, enrolledCount int) AvailabilityRecord {
	return AvailabilityRecord{
		EnrollmentStatus: &EnrollmentStatus{
			MaxEnroll:     &maxEnroll,
			EnrolledCount: &enrolledCount,
		},
	}
}

// WithCombination returns a copy of r carrying the shared cross-listed pool.
func (r AvailabilityRecord) WithCombination(maxCombined int, enrolledCombined int) AvailabilityRecord {
	r.Combination = &Combination{
		MaxEnrollCombinedSections:     &maxCombined,
		EnrolledCountCombinedSections: &enrolledCombined,
	}
	return r
}

func (r AvailabilityRecord) IsCombined() bool {
	return r.Combination != nil
}

type Verdict struct {
	Label       string `json:"label"`
	OpenSeats   int    `json:"openSeats"`
	Threshold   int    `json:"threshold"`
	IsAvailable bool   `json:"isAvailable"`
	Message     string `json:"message"`
}
