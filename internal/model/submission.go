package model

type ResponseItem struct {
	QuestionID int     `json:"questionId"`
	Value      *string `json:"value"`
	Desc       *string `json:"desc"`
}

type SubmissionRequest struct {
	Response []ResponseItem `json:"response"`
}

// SubmissionAck is the backend acknowledgment. Success is a pointer so an
// ack without the field still counts as accepted.
type SubmissionAck struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}
