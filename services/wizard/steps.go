package wizard

import "fmt"

// Step is a stage of the restaurant signup wizard, 1 through 6.
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepAddress
	StepImages
	StepDocuments
	StepHours
	StepBankDetails
)

const (
	FirstStep = StepBasicInfo
	LastStep  = StepBankDetails
)

var stepTitles = map[Step]string{
	StepBasicInfo:   "Basic Information",
	StepAddress:     "Address & Location",
	StepImages:      "Images & Gallery",
	StepDocuments:   "Legal Documents",
	StepHours:       "Operating Hours",
	StepBankDetails: "Bank Details",
}

// Valid reports whether s is within 1..6.
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// Title is the sidebar label of the step.
func (s Step) Title() string {
	if t, ok := stepTitles[s]; ok {
		return t
	}
	return fmt.Sprintf("Step %d", int(s))
}

// StepInfo describes a step for the sidebar.
type StepInfo struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// Steps lists every step in order.
func Steps() []StepInfo {
	out := make([]StepInfo, 0, int(LastStep))
	for s := FirstStep; s <= LastStep; s++ {
		out = append(out, StepInfo{Number: int(s), Title: s.Title()})
	}
	return out
}
