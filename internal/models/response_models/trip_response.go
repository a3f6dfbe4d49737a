package response_models

type TripResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Owner           string   `json:"owner"`
	Companions      []string `json:"companions"`
	DestinationID   string   `json:"destination_id"`
	DestinationName string   `json:"destination_name"`
	PhotoURL        string   `json:"photo_url,omitempty"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	Duration        int      `json:"duration"`
}

type TripSummary struct {
	TripResponse
	ActivityCount int `json:"activity_count"`
}

// RecentTripView is a trip the member opened lately, newest first.
type RecentTripView struct {
	TripSummary
	ViewedAt string `json:"viewed_at"`
}

type CandidateResponse struct {
	DestinationID string   `json:"destination_id"`
	Name          string   `json:"name"`
	Summary       string   `json:"summary,omitempty"`
	PhotoURL      string   `json:"photo_url,omitempty"`
	Categories    []string `json:"categories"`
	Rank          int      `json:"rank"`
	MatchCount    int      `json:"match_count"`
}

type ActivityResponse struct {
	ID            string  `json:"id"`
	DestinationID string  `json:"destination_id"`
	Name          string  `json:"name"`
	Summary       string  `json:"summary,omitempty"`
	PhotoURL      string  `json:"photo_url,omitempty"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Order         int     `json:"order"`
	Period        string  `json:"period"`
}

type LegResponse struct {
	FromID         string `json:"from_id"`
	ToID           string `json:"to_id"`
	DistanceMeters int    `json:"distance_meters"`
}

// DayStatusResponse is shaped by status: pending carries only the header,
// voting adds candidates and vote progress, complete adds the outcome and
// activities.
type DayStatusResponse struct {
	TripID    string `json:"trip_id"`
	DayNumber int    `json:"day"`
	Date      string `json:"date"`
	Status    string `json:"status"`

	Candidates   []CandidateResponse `json:"candidates,omitempty"`
	NoCandidates bool                `json:"no_candidates,omitempty"`
	MembersVoted *int                `json:"members_voted,omitempty"`
	TotalMembers *int                `json:"total_members,omitempty"`
	UserVoted    *bool               `json:"user_voted,omitempty"`

	Outcome             string                        `json:"outcome,omitempty"`
	ChosenDestinationID string                        `json:"chosen_destination_id,omitempty"`
	Activities          []ActivityResponse            `json:"activities,omitempty"`
	ActivitiesByPeriod  map[string][]ActivityResponse `json:"activities_by_period,omitempty"`
	Legs                []LegResponse                 `json:"legs,omitempty"`
}

type VoteResult struct {
	TripID              string `json:"trip_id"`
	DayNumber           int    `json:"day"`
	Status              string `json:"status"`
	MembersVoted        int    `json:"members_voted"`
	TotalMembers        int    `json:"total_members"`
	Outcome             string `json:"outcome,omitempty"`
	ChosenDestinationID string `json:"chosen_destination_id,omitempty"`
	NextDayNumber       int    `json:"next_day,omitempty"`
}
