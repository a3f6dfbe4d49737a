package request_models

type CreateTripRequest struct {
	Name          string   `json:"name"`
	DestinationID string   `json:"destination_id" binding:"required"`
	StartDate     string   `json:"start_date" binding:"required"`
	EndDate       string   `json:"end_date" binding:"required"`
	Companions    []string `json:"companions"`
}

// SubmitVoteRequest maps candidate destination ids to a 0-10 score.
type SubmitVoteRequest struct {
	Scores map[string]int `json:"scores" binding:"required"`
}

type ResolveDayRequest struct {
	DestinationID string `json:"destination_id" binding:"required"`
}

type MoveActivityRequest struct {
	ActivityID string `json:"activity_id" binding:"required,uuid"`
	NewOrder   int    `json:"new_order" binding:"required,min=1"`
}

type RecordTripViewRequest struct {
	TripID string `json:"trip_id" binding:"required"`
}
