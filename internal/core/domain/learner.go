package domain

// LearnerSummary is the read-only view of a learner supplied by the learner directory.
// LearnerID is the admission identity: it does not change when the learner moves grade.
type LearnerSummary struct {
	LearnerID        string `json:"learnerId"`
	AdmissionNumber  string `json:"admissionNumber"`
	FullName         string `json:"fullName"`
	GradeID          string `json:"gradeId"`
	IsStaffChild     bool   `json:"isStaffChild"`
	HasActiveSibling bool   `json:"hasActiveSibling"`
	BursaryFlag      bool   `json:"bursaryFlag"`
	GuardianName     string `json:"guardianName"`
	GuardianPhone    string `json:"guardianPhone"`
	GuardianEmail    string `json:"guardianEmail"`
}
