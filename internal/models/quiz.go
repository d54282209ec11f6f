package models

// Quiz answer values.
const (
	AnswerYes = "yes"
	AnswerNo  = "no"
)

// QuizItem is one stock-check question: does this quantity of this shipment
// actually sit at this location? The ID combines shipment ID and location
// name for uniqueness across a run.
type QuizItem struct {
	ID                       string `json:"id"`
	ShipmentID               string `json:"shipmentId"`
	StsJob                   int    `json:"stsJob"`
	LoadID                   string `json:"loadId"`
	LoadCompany              string `json:"loadCompany,omitempty"`
	LoadArrivalDateFormatted string `json:"loadArrivalDateFormatted"`
	ShipmentQuantity         int    `json:"shipmentQuantity"`
	LocationName             string `json:"locationName"`
	LocationPallets          *int   `json:"locationPallets,omitempty"`
}

// AnsweredQuizItem is a quiz item plus the operator's yes/no answer.
type AnsweredQuizItem struct {
	QuizItem
	UserAnswer string `json:"userAnswer"`
}

// QuizReport is one completed stock-check run. Reports are append-only:
// created once, never mutated or deleted.
type QuizReport struct {
	ID          string             `json:"id"`
	CompletedAt *Time              `json:"completedAt"`
	CompletedBy string             `json:"completedBy"`
	Items       []AnsweredQuizItem `json:"items"`
}
