package model

// Answer is the stored input for one step. Value holds the normalized form:
// a score like "4.5", "1"/"0" for yes/no, the text for free-text questions
// and the option id for single-choice ones. An empty Value means unset.
type Answer struct {
	Value   string `json:"value"`
	Comment string `json:"comment"`
}
